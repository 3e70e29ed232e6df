// Package store holds the in-memory state of one workspace. Every mutation
// goes through a single commit path that persists the affected slices,
// recomputes metrics and notifies subscribers.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
)

// SessionRecorder receives a record for every finished or skipped pomodoro
// phase.
type SessionRecorder interface {
	RecordSession(ctx context.Context, session model.PomodoroSession) error
}

type Options struct {
	// UserID is stamped on pomodoro session records.
	UserID    string
	Location  *time.Location
	WeekStart time.Weekday
	Pomodoro  model.PomodoroSettings
	Recorder  SessionRecorder
	Now       func() time.Time
}

// State is a point-in-time copy of a workspace.
type State struct {
	Tasks     []model.Task            `json:"tasks"`
	Projects  []model.Project         `json:"projects"`
	Meetings  []model.Meeting         `json:"meetings"`
	Templates []model.MeetingTemplate `json:"meetingTemplates"`
	Pomodoro  model.PomodoroState     `json:"pomodoro"`
	Chat      model.AIChat            `json:"aiChat"`
	Metrics   model.Metrics           `json:"metrics"`
}

type Store struct {
	mu sync.Mutex

	persist  *persistence.Manager
	userID   string
	loc      *time.Location
	week     time.Weekday
	settings model.PomodoroSettings
	recorder SessionRecorder
	now      func() time.Time

	tasks     []model.Task
	projects  []model.Project
	meetings  []model.Meeting
	templates []model.MeetingTemplate
	pomodoro  model.PomodoroState
	chat      model.AIChat
	metrics   model.Metrics

	// phaseStart is when the running pomodoro phase was first started.
	phaseStart time.Time
	lastID     int64

	subscribers map[int]func(State)
	nextSub     int
}

// Open builds a store and loads the persisted workspace. Missing templates are
// seeded with the defaults and an empty chat starts with the welcome message.
func Open(ctx context.Context, persist *persistence.Manager, opts Options) *Store {
	s := &Store{
		persist:     persist,
		userID:      opts.UserID,
		loc:         opts.Location,
		week:        opts.WeekStart,
		settings:    opts.Pomodoro,
		recorder:    opts.Recorder,
		now:         opts.Now,
		subscribers: make(map[int]func(State)),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.settings == (model.PomodoroSettings{}) {
		s.settings = model.DefaultPomodoroSettings()
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.mu.Lock()
	s.pomodoro = model.NewPomodoroState(s.settings)
	s.loadLocked(ctx)
	s.mu.Unlock()
	return s
}

func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) Settings() model.PomodoroSettings {
	return s.settings
}

// Subscribe registers fn to receive the state after every committed mutation.
// fn runs outside the store lock and may read from the store.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// mutate runs fn under the store lock. fn returns the persistence keys it
// changed; a nil slice means nothing changed and nothing is committed, an
// empty one commits without writing to storage.
func (s *Store) mutate(ctx context.Context, fn func(now time.Time) ([]string, error)) error {
	s.mu.Lock()
	now := s.now()
	keys, err := fn(now)
	if err != nil || keys == nil {
		s.mu.Unlock()
		return err
	}

	s.saveLocked(ctx, keys...)
	s.metrics = s.computeMetricsLocked(now)
	state := s.snapshotLocked()
	subscribers := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(state)
	}
	return nil
}

func (s *Store) saveLocked(ctx context.Context, keys ...string) {
	for _, key := range keys {
		switch key {
		case persistence.KeyTasks:
			s.persist.Save(ctx, key, s.tasks)
		case persistence.KeyProjects:
			s.persist.Save(ctx, key, s.projects)
		case persistence.KeyMeetings:
			s.persist.Save(ctx, key, s.meetings)
		case persistence.KeyMeetingTemplates:
			s.persist.Save(ctx, key, s.templates)
		case persistence.KeyPomodoroSessions:
			s.persist.Save(ctx, key, s.pomodoro.Sessions)
		case persistence.KeyChat:
			s.persist.Save(ctx, key, s.chat.Messages)
		}
	}
}

func (s *Store) loadLocked(ctx context.Context) {
	s.tasks = nil
	s.projects = nil
	s.meetings = nil
	s.templates = nil
	s.chat.Messages = nil

	s.persist.Load(ctx, persistence.KeyTasks, &s.tasks)
	s.persist.Load(ctx, persistence.KeyProjects, &s.projects)
	s.persist.Load(ctx, persistence.KeyMeetings, &s.meetings)

	var sessions int
	if s.persist.Load(ctx, persistence.KeyPomodoroSessions, &sessions) {
		s.pomodoro.Sessions = sessions
	}

	if !s.persist.Load(ctx, persistence.KeyMeetingTemplates, &s.templates) {
		s.templates = model.DefaultTemplates()
		s.saveLocked(ctx, persistence.KeyMeetingTemplates)
	}

	if !s.persist.Load(ctx, persistence.KeyChat, &s.chat.Messages) || len(s.chat.Messages) == 0 {
		s.chat.Messages = []model.AIMessage{s.newMessageLocked(model.RoleAssistant, model.WelcomeMessage, s.now())}
	}

	for i := range s.projects {
		s.projects[i].Recalculate()
	}
	for i := range s.meetings {
		m := &s.meetings[i]
		if !m.StartTime.IsZero() {
			m.Schedule(m.StartTime, m.Duration, s.loc)
		}
	}

	s.lastID = 0
	s.trackIDsLocked()
	s.metrics = s.computeMetricsLocked(s.now())
}

// nextIDLocked returns a millisecond timestamp id that is unique within the
// workspace even when several entities are created in the same millisecond.
func (s *Store) nextIDLocked(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) trackIDsLocked() {
	track := func(id int64) {
		if id > s.lastID {
			s.lastID = id
		}
	}
	for _, task := range s.tasks {
		track(task.ID)
	}
	for _, project := range s.projects {
		track(project.ID)
		for _, subtask := range project.Subtasks {
			track(subtask.ID)
		}
	}
	for _, meeting := range s.meetings {
		track(meeting.ID)
	}
	for _, template := range s.templates {
		track(template.ID)
	}
	for _, message := range s.chat.Messages {
		track(message.ID)
	}
}

func (s *Store) snapshotLocked() State {
	return State{
		Tasks:     cloneTasks(s.tasks),
		Projects:  cloneProjects(s.projects),
		Meetings:  cloneMeetings(s.meetings),
		Templates: cloneTemplates(s.templates),
		Pomodoro:  s.pomodoro,
		Chat: model.AIChat{
			IsOpen:   s.chat.IsOpen,
			IsTyping: s.chat.IsTyping,
			Messages: append([]model.AIMessage{}, s.chat.Messages...),
		},
		Metrics: s.metrics,
	}
}

func cloneTasks(tasks []model.Task) []model.Task {
	return append([]model.Task{}, tasks...)
}

func cloneProjects(projects []model.Project) []model.Project {
	out := make([]model.Project, len(projects))
	for i, project := range projects {
		out[i] = cloneProject(project)
	}
	return out
}

func cloneProject(project model.Project) model.Project {
	project.Subtasks = append([]model.Subtask{}, project.Subtasks...)
	return project
}

func cloneMeetings(meetings []model.Meeting) []model.Meeting {
	out := make([]model.Meeting, len(meetings))
	for i, meeting := range meetings {
		out[i] = cloneMeeting(meeting)
	}
	return out
}

func cloneMeeting(meeting model.Meeting) model.Meeting {
	meeting.Participants = append([]string{}, meeting.Participants...)
	return meeting
}

func cloneTemplates(templates []model.MeetingTemplate) []model.MeetingTemplate {
	out := make([]model.MeetingTemplate, len(templates))
	for i, template := range templates {
		template.DefaultParticipants = append([]string{}, template.DefaultParticipants...)
		out[i] = template
	}
	return out
}

func timePtr(t time.Time) *time.Time {
	return &t
}
