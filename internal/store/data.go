package store

import (
	"context"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
)

// ExportDocument is the backup file format.
type ExportDocument struct {
	Tasks            []model.Task            `json:"tasks"`
	Projects         []model.Project         `json:"projects"`
	Meetings         []model.Meeting         `json:"meetings"`
	MeetingTemplates []model.MeetingTemplate `json:"meetingTemplates"`
	PomodoroSessions int                     `json:"pomodoroSessions"`
	ExportedAt       time.Time               `json:"exportedAt"`
	Version          string                  `json:"version"`
}

// ImportDocument mirrors ExportDocument with every field optional. Nil
// fields are left untouched.
type ImportDocument struct {
	Tasks            []model.Task            `json:"tasks"`
	Projects         []model.Project         `json:"projects"`
	Meetings         []model.Meeting         `json:"meetings"`
	MeetingTemplates []model.MeetingTemplate `json:"meetingTemplates"`
	PomodoroSessions *int                    `json:"pomodoroSessions"`
}

func (s *Store) Export() ExportDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ExportDocument{
		Tasks:            cloneTasks(s.tasks),
		Projects:         cloneProjects(s.projects),
		Meetings:         cloneMeetings(s.meetings),
		MeetingTemplates: cloneTemplates(s.templates),
		PomodoroSessions: s.pomodoro.Sessions,
		ExportedAt:       s.now(),
		Version:          persistence.Version,
	}
}

// Import writes each present collection to storage independently and then
// reloads the workspace from storage.
func (s *Store) Import(ctx context.Context, doc ImportDocument) {
	s.mutate(ctx, func(time.Time) ([]string, error) {
		if doc.Tasks != nil {
			s.persist.Save(ctx, persistence.KeyTasks, doc.Tasks)
		}
		if doc.Projects != nil {
			s.persist.Save(ctx, persistence.KeyProjects, doc.Projects)
		}
		if doc.Meetings != nil {
			s.persist.Save(ctx, persistence.KeyMeetings, doc.Meetings)
		}
		if doc.MeetingTemplates != nil {
			s.persist.Save(ctx, persistence.KeyMeetingTemplates, doc.MeetingTemplates)
		}
		if doc.PomodoroSessions != nil {
			s.persist.Save(ctx, persistence.KeyPomodoroSessions, *doc.PomodoroSessions)
		}
		s.loadLocked(ctx)
		return []string{}, nil
	})
}

// Reload discards the in-memory collections and reads them from storage.
func (s *Store) Reload(ctx context.Context) {
	s.mutate(ctx, func(time.Time) ([]string, error) {
		s.loadLocked(ctx)
		return []string{}, nil
	})
}

// ClearAll removes every persisted key and resets the workspace to its
// initial contents.
func (s *Store) ClearAll(ctx context.Context) {
	s.mutate(ctx, func(time.Time) ([]string, error) {
		s.persist.ClearAll(ctx)
		s.pomodoro = model.NewPomodoroState(s.settings)
		s.phaseStart = time.Time{}
		s.chat.IsTyping = false
		s.loadLocked(ctx)
		return []string{}, nil
	})
}

// Entry returns the persisted value under key with dates revived, as stored
// rather than as held in memory.
func (s *Store) Entry(ctx context.Context, key string) (any, bool) {
	return s.persist.LoadTree(ctx, key)
}

func (s *Store) Usage(ctx context.Context) persistence.UsageInfo {
	return s.persist.UsageInfo(ctx)
}
