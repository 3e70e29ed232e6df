package service

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/oliver-zyn/productivity-hub/internal/assistant"
	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/store"
)

// DashboardService exposes the task, project, meeting and backup operations
// of a user's workspace.
type DashboardService struct {
	workspaces *WorkspaceService
	assistant  *assistant.Client
}

func NewDashboardService(workspaces *WorkspaceService, assistantClient *assistant.Client) *DashboardService {
	return &DashboardService{workspaces: workspaces, assistant: assistantClient}
}

func (s *DashboardService) Snapshot(ctx context.Context, userID string) store.State {
	ws := s.workspaces.Get(ctx, userID)
	ws.Advance(ctx, s.workspaces.now())
	return ws.Snapshot()
}

func (s *DashboardService) ListTasks(ctx context.Context, userID string) []model.Task {
	return s.workspaces.Get(ctx, userID).Tasks()
}

func (s *DashboardService) CreateTask(ctx context.Context, userID string, in model.NewTask) (*model.Task, *apperrors.APIError) {
	task, err := s.workspaces.Get(ctx, userID).AddTask(ctx, in)
	if err != nil {
		return nil, storeError(err)
	}
	return &task, nil
}

func (s *DashboardService) ToggleTask(ctx context.Context, userID string, id int64) (*model.Task, *apperrors.APIError) {
	task, ok := s.workspaces.Get(ctx, userID).ToggleTask(ctx, id)
	if !ok {
		return nil, taskNotFound()
	}
	return &task, nil
}

func (s *DashboardService) DeleteTask(ctx context.Context, userID string, id int64) *apperrors.APIError {
	if !s.workspaces.Get(ctx, userID).DeleteTask(ctx, id) {
		return taskNotFound()
	}
	return nil
}

func (s *DashboardService) ListProjects(ctx context.Context, userID string) []model.Project {
	return s.workspaces.Get(ctx, userID).Projects()
}

func (s *DashboardService) CreateProject(ctx context.Context, userID string, in model.NewProject) (*model.Project, *apperrors.APIError) {
	project, err := s.workspaces.Get(ctx, userID).AddProject(ctx, in)
	if err != nil {
		return nil, storeError(err)
	}
	return &project, nil
}

func (s *DashboardService) UpdateProject(ctx context.Context, userID string, id int64, update model.ProjectUpdate) (*model.Project, *apperrors.APIError) {
	if update.Category != nil && !update.Category.Valid() {
		return nil, apperrors.Validation("invalid category", []string{"invalid category"})
	}
	project, ok := s.workspaces.Get(ctx, userID).UpdateProject(ctx, id, update)
	if !ok {
		return nil, projectNotFound()
	}
	return &project, nil
}

func (s *DashboardService) DeleteProject(ctx context.Context, userID string, id int64) *apperrors.APIError {
	if !s.workspaces.Get(ctx, userID).DeleteProject(ctx, id) {
		return projectNotFound()
	}
	return nil
}

func (s *DashboardService) ToggleProjectExpanded(ctx context.Context, userID string, id int64) (*model.Project, *apperrors.APIError) {
	project, ok := s.workspaces.Get(ctx, userID).ToggleProjectExpanded(ctx, id)
	if !ok {
		return nil, projectNotFound()
	}
	return &project, nil
}

func (s *DashboardService) AddSubtask(ctx context.Context, userID string, projectID int64, text string) (*model.Subtask, *apperrors.APIError) {
	subtask, found, err := s.workspaces.Get(ctx, userID).AddSubtask(ctx, projectID, text)
	if err != nil {
		return nil, storeError(err)
	}
	if !found {
		return nil, projectNotFound()
	}
	return &subtask, nil
}

func (s *DashboardService) ToggleSubtask(ctx context.Context, userID string, projectID, subtaskID int64) (*model.Project, *apperrors.APIError) {
	project, ok := s.workspaces.Get(ctx, userID).ToggleSubtask(ctx, projectID, subtaskID)
	if !ok {
		return nil, subtaskNotFound()
	}
	return &project, nil
}

func (s *DashboardService) DeleteSubtask(ctx context.Context, userID string, projectID, subtaskID int64) (*model.Project, *apperrors.APIError) {
	project, ok := s.workspaces.Get(ctx, userID).DeleteSubtask(ctx, projectID, subtaskID)
	if !ok {
		return nil, subtaskNotFound()
	}
	return &project, nil
}

// GenerateSubtasks fills a project that has no subtasks yet with suggestions
// from the assistant. When the chat panel is open the outcome is also
// reported there.
func (s *DashboardService) GenerateSubtasks(ctx context.Context, userID string, projectID int64) (*model.Project, *apperrors.APIError) {
	ws := s.workspaces.Get(ctx, userID)

	project, ok := findProject(ws.Projects(), projectID)
	if !ok {
		return nil, projectNotFound()
	}
	if len(project.Subtasks) > 0 {
		return nil, apperrors.Conflict("subtasks_exist", "project already has subtasks", nil)
	}

	suggestions, err := s.assistant.GenerateSubtasks(ctx, project.Title, project.Description)
	if err != nil {
		log.Printf("generate subtasks for project %d: %v", projectID, err)
	}

	added := 0
	for _, text := range suggestions {
		if _, found, addErr := ws.AddSubtask(ctx, projectID, text); addErr != nil {
			log.Printf("skip generated subtask %q: %v", text, addErr)
		} else if found {
			added++
		}
	}

	if ws.Chat().IsOpen {
		ws.AddMessage(ctx, model.RoleAssistant, fmt.Sprintf("✨ Criei %d subtarefas para \"%s\" usando IA!", added, project.Title))
	}

	project, ok = findProject(ws.Projects(), projectID)
	if !ok {
		return nil, projectNotFound()
	}
	return &project, nil
}

func (s *DashboardService) ListMeetings(ctx context.Context, userID string) []model.Meeting {
	return s.workspaces.Get(ctx, userID).Meetings()
}

func (s *DashboardService) CreateMeeting(ctx context.Context, userID string, in model.NewMeeting) (*model.Meeting, *apperrors.APIError) {
	meeting, err := s.workspaces.Get(ctx, userID).AddMeeting(ctx, in)
	if err != nil {
		return nil, storeError(err)
	}
	return &meeting, nil
}

func (s *DashboardService) UpdateMeeting(ctx context.Context, userID string, id int64, update model.MeetingUpdate) (*model.Meeting, *apperrors.APIError) {
	if update.Platform != nil && !update.Platform.Valid() {
		return nil, apperrors.Validation("invalid platform", []string{"invalid platform"})
	}
	meeting, ok := s.workspaces.Get(ctx, userID).UpdateMeeting(ctx, id, update)
	if !ok {
		return nil, apperrors.NotFound("meeting_not_found", "meeting not found")
	}
	return &meeting, nil
}

func (s *DashboardService) DeleteMeeting(ctx context.Context, userID string, id int64) *apperrors.APIError {
	if !s.workspaces.Get(ctx, userID).DeleteMeeting(ctx, id) {
		return apperrors.NotFound("meeting_not_found", "meeting not found")
	}
	return nil
}

func (s *DashboardService) ListTemplates(ctx context.Context, userID string) []model.MeetingTemplate {
	return s.workspaces.Get(ctx, userID).Templates()
}

func (s *DashboardService) CreateTemplate(ctx context.Context, userID string, in model.MeetingTemplate) (*model.MeetingTemplate, *apperrors.APIError) {
	template, err := s.workspaces.Get(ctx, userID).AddTemplate(ctx, in)
	if err != nil {
		return nil, storeError(err)
	}
	return &template, nil
}

func (s *DashboardService) DeleteTemplate(ctx context.Context, userID string, id int64) *apperrors.APIError {
	if !s.workspaces.Get(ctx, userID).DeleteTemplate(ctx, id) {
		return apperrors.NotFound("template_not_found", "template not found")
	}
	return nil
}

func (s *DashboardService) Metrics(ctx context.Context, userID string) model.Metrics {
	return s.workspaces.Get(ctx, userID).RecomputeMetrics(ctx)
}

func (s *DashboardService) Export(ctx context.Context, userID string) store.ExportDocument {
	return s.workspaces.Get(ctx, userID).Export()
}

func (s *DashboardService) Import(ctx context.Context, userID string, doc store.ImportDocument) store.State {
	ws := s.workspaces.Get(ctx, userID)
	ws.Import(ctx, doc)
	return ws.Snapshot()
}

func (s *DashboardService) Usage(ctx context.Context, userID string) persistence.UsageInfo {
	return s.workspaces.Get(ctx, userID).Usage(ctx)
}

// StoredEntry returns the persisted value of one workspace key. An absent
// entry yields nil data.
func (s *DashboardService) StoredEntry(ctx context.Context, userID, key string) (any, *apperrors.APIError) {
	if !slices.Contains(persistence.Keys, key) {
		return nil, apperrors.NotFound("unknown_key", "unknown storage key")
	}
	data, _ := s.workspaces.Get(ctx, userID).Entry(ctx, key)
	return data, nil
}

func (s *DashboardService) ClearAll(ctx context.Context, userID string) store.State {
	ws := s.workspaces.Get(ctx, userID)
	ws.ClearAll(ctx)
	return ws.Snapshot()
}

func findProject(projects []model.Project, id int64) (model.Project, bool) {
	for _, project := range projects {
		if project.ID == id {
			return project, true
		}
	}
	return model.Project{}, false
}

// assistantContext is the workspace summary sent along with assistant
// requests.
func assistantContext(ws *store.Store) assistant.Workspace {
	state := ws.Snapshot()
	return assistant.Workspace{
		Tasks:    state.Tasks,
		Projects: state.Projects,
		Meetings: state.Meetings,
		Metrics:  state.Metrics,
	}
}

func taskNotFound() *apperrors.APIError {
	return apperrors.NotFound("task_not_found", "task not found")
}

func projectNotFound() *apperrors.APIError {
	return apperrors.NotFound("project_not_found", "project not found")
}

func subtaskNotFound() *apperrors.APIError {
	return apperrors.NotFound("subtask_not_found", "subtask not found")
}
