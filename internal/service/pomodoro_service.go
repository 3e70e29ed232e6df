package service

import (
	"context"
	"errors"

	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// PomodoroView is the timer together with the durations it runs on.
type PomodoroView struct {
	State    model.PomodoroState    `json:"state"`
	Settings model.PomodoroSettings `json:"settings"`
}

type PomodoroService struct {
	workspaces   *WorkspaceService
	pomodoroRepo *repository.PomodoroRepository
}

func NewPomodoroService(workspaces *WorkspaceService, pomodoroRepo *repository.PomodoroRepository) *PomodoroService {
	return &PomodoroService{workspaces: workspaces, pomodoroRepo: pomodoroRepo}
}

func (s *PomodoroService) GetState(ctx context.Context, userID string) PomodoroView {
	ws := s.workspaces.Get(ctx, userID)
	return PomodoroView{State: ws.Pomodoro(ctx), Settings: ws.Settings()}
}

func (s *PomodoroService) Start(ctx context.Context, userID string) PomodoroView {
	ws := s.workspaces.Get(ctx, userID)
	return PomodoroView{State: ws.StartPomodoro(ctx), Settings: ws.Settings()}
}

func (s *PomodoroService) Pause(ctx context.Context, userID string) PomodoroView {
	ws := s.workspaces.Get(ctx, userID)
	return PomodoroView{State: ws.PausePomodoro(ctx), Settings: ws.Settings()}
}

func (s *PomodoroService) Reset(ctx context.Context, userID string) PomodoroView {
	ws := s.workspaces.Get(ctx, userID)
	return PomodoroView{State: ws.ResetPomodoro(ctx), Settings: ws.Settings()}
}

func (s *PomodoroService) Tick(ctx context.Context, userID string) PomodoroView {
	ws := s.workspaces.Get(ctx, userID)
	return PomodoroView{State: ws.TickPomodoro(ctx), Settings: ws.Settings()}
}

func (s *PomodoroService) Skip(ctx context.Context, userID string) PomodoroView {
	ws := s.workspaces.Get(ctx, userID)
	return PomodoroView{State: ws.SkipPomodoro(ctx), Settings: ws.Settings()}
}

func (s *PomodoroService) GetHistory(ctx context.Context, userID string, limit int) ([]model.PomodoroSession, *apperrors.APIError) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := s.pomodoroRepo.ListSessions(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Internal("failed to load history")
	}
	return sessions, nil
}

func (s *PomodoroService) GetSession(ctx context.Context, userID, sessionID string) (*model.PomodoroSession, *apperrors.APIError) {
	session, err := s.pomodoroRepo.GetSession(ctx, userID, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("session_not_found", "pomodoro session not found")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load session")
	}
	return session, nil
}
