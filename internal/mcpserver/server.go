package mcpserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oliver-zyn/productivity-hub/internal/service"
)

const (
	serverName    = "productivity-hub"
	serverVersion = "0.1.0"
)

// New creates an MCP server whose tools act on the workspace of userID.
func New(dashboard *service.DashboardService, chat *service.ChatService, userID string) *mcp.Server {
	wt := &WorkspaceTools{Dashboard: dashboard, Chat: chat, UserID: userID}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List all tasks of the workspace",
	}, wt.ListTasks)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_task",
		Description: "Add a task with a category and optional priority",
	}, wt.AddTask)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "toggle_task",
		Description: "Toggle the completed flag of a task",
	}, wt.ToggleTask)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_projects",
		Description: "List projects with their subtasks and progress",
	}, wt.ListProjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a project with a category and deadline",
	}, wt.CreateProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_subtask",
		Description: "Append a subtask to a project",
	}, wt.AddSubtask)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_meetings",
		Description: "List scheduled meetings ordered by start time",
	}, wt.ListMeetings)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_meeting",
		Description: "Schedule a meeting in the future",
	}, wt.CreateMeeting)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_metrics",
		Description: "Get today's productivity metrics",
	}, wt.GetMetrics)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "run_assistant_command",
		Description: "Execute the structured command embedded in an assistant reply",
	}, wt.RunCommand)

	return srv
}
