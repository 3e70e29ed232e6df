package service

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/store"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

// StorageFactory returns the key/value storage that backs one user's
// workspace.
type StorageFactory func(userID string) persistence.Storage

type WorkspaceOptions struct {
	Location  *time.Location
	WeekStart time.Weekday
	Pomodoro  model.PomodoroSettings
	QuotaKB   int
	Now       func() time.Time
	// SharedStorage marks the storage as written by other processes too, such
	// as the HTTP server and the MCP server opening the same database. Cached
	// stores are then reloaded from storage on every Get.
	SharedStorage bool
}

// WorkspaceService opens each user's store on first use and keeps it for the
// life of the process.
type WorkspaceService struct {
	mu       sync.Mutex
	storage  StorageFactory
	recorder store.SessionRecorder
	opts     WorkspaceOptions
	stores   map[string]*store.Store
}

func NewWorkspaceService(storage StorageFactory, recorder store.SessionRecorder, opts WorkspaceOptions) *WorkspaceService {
	if opts.QuotaKB <= 0 {
		opts.QuotaKB = persistence.DefaultQuotaKB
	}
	return &WorkspaceService{
		storage:  storage,
		recorder: recorder,
		opts:     opts,
		stores:   make(map[string]*store.Store),
	}
}

// Get returns the store of userID, loading it from storage the first time.
func (s *WorkspaceService) Get(ctx context.Context, userID string) *store.Store {
	s.mu.Lock()
	ws, ok := s.stores[userID]
	if !ok {
		manager := persistence.NewManager(s.storage(userID), s.opts.QuotaKB)
		ws = store.Open(ctx, manager, store.Options{
			UserID:    userID,
			Location:  s.opts.Location,
			WeekStart: s.opts.WeekStart,
			Pomodoro:  s.opts.Pomodoro,
			Recorder:  s.recorder,
			Now:       s.opts.Now,
		})
		s.stores[userID] = ws
	}
	s.mu.Unlock()

	if ok && s.opts.SharedStorage {
		ws.Reload(ctx)
	}
	return ws
}

func (s *WorkspaceService) now() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now()
	}
	return time.Now()
}

// storeError converts an error returned by a store mutation.
func storeError(err error) *apperrors.APIError {
	var invalid *validation.Error
	if errors.As(err, &invalid) {
		return apperrors.Validation(validation.FormatErrors(invalid.Errors), invalid.Errors)
	}
	return apperrors.Internal("")
}
