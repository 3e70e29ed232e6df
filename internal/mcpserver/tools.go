package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/service"
)

// WorkspaceTools exposes one user's workspace to MCP clients.
type WorkspaceTools struct {
	Dashboard *service.DashboardService
	Chat      *service.ChatService
	UserID    string
}

// --- Input types ---

type AddTaskInput struct {
	Text     string `json:"text" jsonschema:"Task description"`
	Type     string `json:"type" jsonschema:"Category: trabalho, faculdade or pessoal"`
	Priority string `json:"priority,omitempty" jsonschema:"Priority: baixa, media or alta (default media)"`
}

type TaskIDInput struct {
	ID int64 `json:"id" jsonschema:"Task id"`
}

type CreateProjectInput struct {
	Title       string `json:"title" jsonschema:"Project title"`
	Category    string `json:"category" jsonschema:"Category: trabalho, faculdade or pessoal"`
	Deadline    string `json:"deadline" jsonschema:"Deadline date in YYYY-MM-DD"`
	Description string `json:"description,omitempty" jsonschema:"Optional project description"`
}

type AddSubtaskInput struct {
	ProjectID int64  `json:"projectId" jsonschema:"Id of the project receiving the subtask"`
	Text      string `json:"text" jsonschema:"Subtask description"`
}

type CreateMeetingInput struct {
	Title        string   `json:"title" jsonschema:"Meeting title"`
	StartTime    string   `json:"startTime" jsonschema:"Start time in RFC 3339, e.g. 2025-06-04T14:00:00-03:00"`
	Duration     int      `json:"duration" jsonschema:"Duration in minutes (5 to 480)"`
	Platform     string   `json:"platform" jsonschema:"Platform: teams, meet, zoom or custom"`
	Link         string   `json:"link,omitempty" jsonschema:"Meeting link, required for custom platform"`
	Description  string   `json:"description,omitempty" jsonschema:"Optional description"`
	Participants []string `json:"participants,omitempty" jsonschema:"Participant email addresses"`
}

type CommandInput struct {
	Text string `json:"text" jsonschema:"Assistant reply text containing an AÇÃO:CREATE_MEETING or AÇÃO:CREATE_PROJECT command, or a productivity question"`
}

// --- Handlers ---

func (t *WorkspaceTools) ListTasks(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.Dashboard.ListTasks(ctx, t.UserID))
}

func (t *WorkspaceTools) AddTask(ctx context.Context, _ *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, any, error) {
	task, apiErr := t.Dashboard.CreateTask(ctx, t.UserID, model.NewTask{
		Text:     input.Text,
		Type:     model.Category(input.Type),
		Priority: model.Priority(input.Priority),
	})
	if apiErr != nil {
		return apiError("Failed to add task", apiErr), nil, nil
	}
	return toolJSON(task)
}

func (t *WorkspaceTools) ToggleTask(ctx context.Context, _ *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, any, error) {
	task, apiErr := t.Dashboard.ToggleTask(ctx, t.UserID, input.ID)
	if apiErr != nil {
		return apiError("Failed to toggle task", apiErr), nil, nil
	}
	return toolJSON(task)
}

func (t *WorkspaceTools) ListProjects(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.Dashboard.ListProjects(ctx, t.UserID))
}

func (t *WorkspaceTools) CreateProject(ctx context.Context, _ *mcp.CallToolRequest, input CreateProjectInput) (*mcp.CallToolResult, any, error) {
	project, apiErr := t.Dashboard.CreateProject(ctx, t.UserID, model.NewProject{
		Title:       input.Title,
		Category:    model.Category(input.Category),
		Deadline:    input.Deadline,
		Description: input.Description,
	})
	if apiErr != nil {
		return apiError("Failed to create project", apiErr), nil, nil
	}
	return toolJSON(project)
}

func (t *WorkspaceTools) AddSubtask(ctx context.Context, _ *mcp.CallToolRequest, input AddSubtaskInput) (*mcp.CallToolResult, any, error) {
	subtask, apiErr := t.Dashboard.AddSubtask(ctx, t.UserID, input.ProjectID, input.Text)
	if apiErr != nil {
		return apiError("Failed to add subtask", apiErr), nil, nil
	}
	return toolJSON(subtask)
}

func (t *WorkspaceTools) ListMeetings(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.Dashboard.ListMeetings(ctx, t.UserID))
}

func (t *WorkspaceTools) CreateMeeting(ctx context.Context, _ *mcp.CallToolRequest, input CreateMeetingInput) (*mcp.CallToolResult, any, error) {
	start, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		return toolError("Invalid startTime %q: expected RFC 3339", input.StartTime), nil, nil
	}

	meeting, apiErr := t.Dashboard.CreateMeeting(ctx, t.UserID, model.NewMeeting{
		Title:        input.Title,
		StartTime:    start,
		Duration:     input.Duration,
		Platform:     model.Platform(input.Platform),
		Link:         input.Link,
		Description:  input.Description,
		Participants: input.Participants,
	})
	if apiErr != nil {
		return apiError("Failed to create meeting", apiErr), nil, nil
	}
	return toolJSON(meeting)
}

func (t *WorkspaceTools) GetMetrics(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.Dashboard.Metrics(ctx, t.UserID))
}

func (t *WorkspaceTools) RunCommand(ctx context.Context, _ *mcp.CallToolRequest, input CommandInput) (*mcp.CallToolResult, any, error) {
	confirmation, apiErr := t.Chat.RunCommand(ctx, t.UserID, input.Text)
	if apiErr != nil {
		return apiError("Failed to run command", apiErr), nil, nil
	}
	return toolText(confirmation), nil, nil
}

// --- Helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func apiError(prefix string, err *apperrors.APIError) *mcp.CallToolResult {
	return toolError("%s (%s): %s", prefix, err.Code, err.Message)
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
