package store

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

// Wednesday.
var baseTime = time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeRecorder struct {
	sessions []model.PomodoroSession
}

func (r *fakeRecorder) RecordSession(_ context.Context, session model.PomodoroSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

type fixture struct {
	store    *Store
	storage  *persistence.MemoryStorage
	clock    *fakeClock
	recorder *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		storage:  persistence.NewMemoryStorage(),
		clock:    &fakeClock{now: baseTime},
		recorder: &fakeRecorder{},
	}
	f.store = f.open()
	return f
}

func (f *fixture) open() *Store {
	return Open(context.Background(), persistence.NewManager(f.storage, 0), Options{
		UserID:   "user-1",
		Location: time.UTC,
		Recorder: f.recorder,
		Now:      f.clock.Now,
	})
}

func TestOpenSeedsTemplatesAndWelcome(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, model.DefaultTemplates(), f.store.Templates())
	chat := f.store.Chat()
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, model.WelcomeMessage, chat.Messages[0].Content)
	assert.Equal(t, model.RoleAssistant, chat.Messages[0].Type)

	_, found, err := f.storage.Get(context.Background(), persistence.KeyMeetingTemplates)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestAddTaskValidatesAndPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.store.AddTask(ctx, model.NewTask{Text: "ab", Type: model.CategoryWork})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, f.store.Tasks())

	task, err := f.store.AddTask(ctx, model.NewTask{Text: "  Ler capítulo 3 ", Type: model.CategorySchool})
	require.NoError(t, err)
	assert.Equal(t, "Ler capítulo 3", task.Text)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.GreaterOrEqual(t, task.ID, baseTime.UnixMilli())

	reopened := f.open()
	require.Len(t, reopened.Tasks(), 1)
	assert.Equal(t, task.ID, reopened.Tasks()[0].ID)
	assert.True(t, reopened.Tasks()[0].CreatedAt.Equal(baseTime))
}

func TestIDsAreUniqueWithinOneMillisecond(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		task, err := f.store.AddTask(ctx, model.NewTask{Text: "tarefa", Type: model.CategoryPersonal})
		require.NoError(t, err)
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestToggleTaskTracksCompletion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	task, err := f.store.AddTask(ctx, model.NewTask{Text: "Correr", Type: model.CategoryPersonal})
	require.NoError(t, err)

	f.clock.Add(time.Minute)
	toggled, ok := f.store.ToggleTask(ctx, task.ID)
	require.True(t, ok)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)
	assert.True(t, toggled.CompletedAt.Equal(baseTime.Add(time.Minute)))
	assert.Equal(t, 1, f.store.Metrics().TasksCompleted)

	toggled, ok = f.store.ToggleTask(ctx, task.ID)
	require.True(t, ok)
	assert.False(t, toggled.Completed)
	assert.Nil(t, toggled.CompletedAt)
	assert.Equal(t, 0, f.store.Metrics().TasksCompleted)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	calls := 0
	f.store.Subscribe(func(State) { calls++ })

	_, ok := f.store.ToggleTask(ctx, 42)
	assert.False(t, ok)
	assert.False(t, f.store.DeleteTask(ctx, 42))
	assert.False(t, f.store.DeleteProject(ctx, 42))
	_, ok = f.store.ToggleSubtask(ctx, 42, 1)
	assert.False(t, ok)
	_, ok = f.store.UpdateMeeting(ctx, 42, model.MeetingUpdate{})
	assert.False(t, ok)
	assert.False(t, f.store.DeleteTemplate(ctx, 42))

	_, found, err := f.store.AddSubtask(ctx, 42, "Subtarefa")
	require.NoError(t, err)
	assert.False(t, found)

	assert.Zero(t, calls)
}

func TestProjectProgressFollowsSubtasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	project, err := f.store.AddProject(ctx, model.NewProject{
		Title:    "Estudo de Go",
		Category: model.CategoryPersonal,
		Deadline: "2025-07-01",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectNotStarted, project.Status)
	assert.True(t, project.Expanded)

	var ids []int64
	for _, text := range []string{"Ler docs", "Escrever hello world", "Fazer deploy"} {
		subtask, found, err := f.store.AddSubtask(ctx, project.ID, text)
		require.NoError(t, err)
		require.True(t, found)
		ids = append(ids, subtask.ID)
	}

	check := func() {
		t.Helper()
		for _, p := range f.store.Projects() {
			completed := 0
			for _, subtask := range p.Subtasks {
				if subtask.Completed {
					completed++
				}
			}
			want := 0
			if len(p.Subtasks) > 0 {
				want = int(math.Round(100 * float64(completed) / float64(len(p.Subtasks))))
			}
			assert.Equal(t, want, p.Progress)
			assert.Equal(t, model.StatusForProgress(want), p.Status)
		}
	}

	check()
	for _, id := range ids {
		_, ok := f.store.ToggleSubtask(ctx, project.ID, id)
		require.True(t, ok)
		check()
	}
	assert.Equal(t, 100, f.store.Projects()[0].Progress)
	assert.Equal(t, 0, f.store.Metrics().ProjectsActive)

	updated, ok := f.store.DeleteSubtask(ctx, project.ID, ids[0])
	require.True(t, ok)
	assert.Len(t, updated.Subtasks, 2)
	check()

	updated, ok = f.store.ToggleSubtask(ctx, project.ID, ids[1])
	require.True(t, ok)
	assert.Equal(t, 50, updated.Progress)
	assert.Equal(t, model.ProjectInProgress, updated.Status)
	assert.Equal(t, 1, f.store.Metrics().ProjectsActive)
}

func TestAddSubtaskValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	project, err := f.store.AddProject(ctx, model.NewProject{Title: "Projeto", Category: model.CategoryWork, Deadline: "2025-06-04"})
	require.NoError(t, err)

	_, _, err = f.store.AddSubtask(ctx, project.ID, "x")
	require.Error(t, err)
	assert.Empty(t, f.store.Projects()[0].Subtasks)
}

func TestUpdateProjectKeepsDerivedFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	project, err := f.store.AddProject(ctx, model.NewProject{Title: "Projeto", Category: model.CategoryWork, Deadline: "2025-06-30T10:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-30", project.Deadline)

	subtask, _, err := f.store.AddSubtask(ctx, project.ID, "Primeira")
	require.NoError(t, err)
	f.store.ToggleSubtask(ctx, project.ID, subtask.ID)

	title := "Projeto renomeado"
	f.clock.Add(time.Hour)
	updated, ok := f.store.UpdateProject(ctx, project.ID, model.ProjectUpdate{Title: &title})
	require.True(t, ok)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, model.ProjectDone, updated.Status)
	assert.True(t, updated.UpdatedAt.Equal(baseTime.Add(time.Hour)))

	expanded, ok := f.store.ToggleProjectExpanded(ctx, project.ID)
	require.True(t, ok)
	assert.False(t, expanded.Expanded)
}

func TestAddMeeting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	meeting, err := f.store.AddMeeting(ctx, model.NewMeeting{
		Title:     "Planejamento",
		StartTime: baseTime.Add(2 * time.Hour),
		Duration:  45,
		Platform:  model.PlatformMeet,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(meeting.Link, "https://meet.google.com/"))
	assert.Len(t, strings.TrimPrefix(meeting.Link, "https://meet.google.com/"), 13)
	assert.Equal(t, model.MeetingOneOff, meeting.Type)
	assert.Equal(t, "14:00 - 14:45", meeting.Time)
	assert.True(t, meeting.EndTime.Equal(meeting.StartTime.Add(45*time.Minute)))

	_, err = f.store.AddMeeting(ctx, model.NewMeeting{
		Title:     "Curta demais",
		StartTime: baseTime.Add(time.Hour),
		Duration:  4,
		Platform:  model.PlatformZoom,
	})
	require.Error(t, err)
	assert.Len(t, f.store.Meetings(), 1)
}

func TestAddMeetingFromTemplate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	templateID := int64(3)
	meeting, err := f.store.AddMeeting(ctx, model.NewMeeting{
		StartTime:  baseTime.Add(time.Hour),
		TemplateID: &templateID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Review de Sprint", meeting.Title)
	assert.Equal(t, 90, meeting.Duration)
	assert.Equal(t, model.PlatformZoom, meeting.Platform)
	assert.Equal(t, []string{"dev-team@empresa.com"}, meeting.Participants)
	assert.Equal(t, model.MeetingTemplated, meeting.Type)

	require.True(t, f.store.DeleteTemplate(ctx, templateID))
	require.Len(t, f.store.Meetings(), 1)
	assert.Equal(t, &templateID, f.store.Meetings()[0].TemplateID)
}

func TestUpdateMeetingReschedules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	meeting, err := f.store.AddMeeting(ctx, model.NewMeeting{
		Title:     "Sync",
		StartTime: baseTime.Add(time.Hour),
		Duration:  30,
		Platform:  model.PlatformCustom,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CustomLinkPlaceholder, meeting.Link)

	duration := 60
	platform := model.PlatformTeams
	updated, ok := f.store.UpdateMeeting(ctx, meeting.ID, model.MeetingUpdate{Duration: &duration, Platform: &platform})
	require.True(t, ok)
	assert.Equal(t, "13:00 - 14:00", updated.Time)
	assert.True(t, updated.EndTime.Equal(baseTime.Add(2*time.Hour)))
	assert.True(t, strings.HasPrefix(updated.Link, "https://teams.microsoft.com/l/meetup-join/19%3ameeting_"))
}

func TestSyncExternalMeetingsDeduplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	external := []model.Meeting{
		{Title: "Teams call", ExternalID: "evt-1", StartTime: baseTime.Add(time.Hour), Duration: 30, Platform: model.PlatformTeams, Type: model.MeetingOneOff},
		{Title: "No id", StartTime: baseTime, Duration: 30},
	}
	added, updated := f.store.SyncExternalMeetings(ctx, external)
	assert.Equal(t, 1, added)
	assert.Equal(t, 0, updated)

	external[0].Title = "Teams call (moved)"
	added, updated = f.store.SyncExternalMeetings(ctx, external)
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, updated)

	meetings := f.store.Meetings()
	require.Len(t, meetings, 1)
	assert.Equal(t, "Teams call (moved)", meetings[0].Title)
	assert.Equal(t, "13:00 - 13:30", meetings[0].Time)
}

func TestMetricsCountsMeetingsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, start := range []time.Time{
		baseTime.Add(time.Hour),        // today
		baseTime.AddDate(0, 0, 2),      // Friday, same week
		baseTime.AddDate(0, 0, 5),      // next Monday
		baseTime.Add(-3 * time.Minute), // today, slightly in the past
	} {
		_, err := f.store.AddMeeting(ctx, model.NewMeeting{Title: "Reunião", StartTime: start, Duration: 30, Platform: model.PlatformMeet})
		require.NoError(t, err)
	}
	f.store.SyncExternalMeetings(ctx, []model.Meeting{{Title: "Sem horário", ExternalID: "x"}})

	first := f.store.RecomputeMetrics(ctx)
	second := f.store.RecomputeMetrics(ctx)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.MeetingsToday)
	assert.Equal(t, 3, first.MeetingsThisWeek)
}

func TestComputeMetricsWeekStart(t *testing.T) {
	meetings := []model.Meeting{
		{StartTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}, // Sunday
		{StartTime: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}, // Monday
	}
	in := MetricsInput{Meetings: meetings, Now: baseTime, Location: time.UTC, Settings: model.DefaultPomodoroSettings(), Sessions: 3}

	in.WeekStart = time.Sunday
	assert.Equal(t, 2, ComputeMetrics(in).MeetingsThisWeek)

	in.WeekStart = time.Monday
	metrics := ComputeMetrics(in)
	assert.Equal(t, 1, metrics.MeetingsThisWeek)
	assert.Equal(t, 75, metrics.FocusTime)
	assert.Equal(t, 3, metrics.PomodoroSessions)
}

func TestChatLogIsCapped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 0; i < 101; i++ {
		f.store.AddMessage(ctx, model.RoleUser, "mensagem")
	}
	last := f.store.AddMessage(ctx, model.RoleAssistant, "última")

	chat := f.store.Chat()
	require.Len(t, chat.Messages, model.MaxChatMessages)
	assert.Equal(t, last, chat.Messages[len(chat.Messages)-1])
	assert.NotEqual(t, model.WelcomeMessage, chat.Messages[0].Content)

	f.store.ClearChat(ctx)
	chat = f.store.Chat()
	require.Len(t, chat.Messages, 1)
	assert.Equal(t, model.ClearedMessage, chat.Messages[0].Content)
}

func TestChatFlags(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.store.SetChatOpen(ctx, true)
	f.store.SetTyping(ctx, true)
	chat := f.store.Chat()
	assert.True(t, chat.IsOpen)
	assert.True(t, chat.IsTyping)
}

func TestPomodoroCompletesWorkPhaseOverTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	state := f.store.StartPomodoro(ctx)
	assert.True(t, state.IsActive)

	f.clock.Add(10 * time.Minute)
	state = f.store.Pomodoro(ctx)
	assert.Equal(t, 15, state.Minutes)
	assert.Equal(t, 0, state.Seconds)
	assert.True(t, state.IsActive)

	f.clock.Add(15*time.Minute + time.Second)
	state = f.store.Pomodoro(ctx)
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.Equal(t, 1, state.Sessions)
	assert.False(t, state.IsActive)
	assert.Equal(t, 5, state.Minutes)

	metrics := f.store.Metrics()
	assert.Equal(t, 1, metrics.PomodoroSessions)
	assert.Equal(t, 25, metrics.FocusTime)

	require.Len(t, f.recorder.sessions, 1)
	session := f.recorder.sessions[0]
	assert.Equal(t, model.SessionCompleted, session.Status)
	assert.Equal(t, model.ModeWork, session.Mode)
	assert.Equal(t, 1500, session.ActualDurationSeconds)
	assert.True(t, session.StartedAt.Equal(baseTime))
	assert.Equal(t, "user-1", session.UserID)

	assert.Equal(t, 1, f.open().Pomodoro(ctx).Sessions)
}

func TestPomodoroPauseTickAndSkip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	assert.False(t, f.store.TickPomodoro(ctx).IsActive)
	assert.Equal(t, 25, f.store.Pomodoro(ctx).Minutes)

	f.store.StartPomodoro(ctx)
	state := f.store.TickPomodoro(ctx)
	assert.Equal(t, 24, state.Minutes)
	assert.Equal(t, 59, state.Seconds)

	f.clock.Add(time.Minute)
	state = f.store.PausePomodoro(ctx)
	assert.False(t, state.IsActive)
	assert.Equal(t, 23, state.Minutes)

	f.clock.Add(time.Hour)
	assert.Equal(t, 23, f.store.Pomodoro(ctx).Minutes)

	state = f.store.SkipPomodoro(ctx)
	assert.Equal(t, model.ModeShortBreak, state.Mode)
	assert.Equal(t, 0, state.Sessions)
	require.Len(t, f.recorder.sessions, 1)
	assert.Equal(t, model.SessionSkipped, f.recorder.sessions[0].Status)
	assert.Equal(t, 61, f.recorder.sessions[0].ActualDurationSeconds)

	state = f.store.ResetPomodoro(ctx)
	assert.Equal(t, 5, state.Minutes)
	assert.Equal(t, model.ModeShortBreak, state.Mode)
}

func TestSubscribersSeeCommittedState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var got []State
	unsubscribe := f.store.Subscribe(func(state State) {
		got = append(got, state)
		_ = f.store.Metrics()
	})

	_, err := f.store.AddTask(ctx, model.NewTask{Text: "Tarefa nova", Type: model.CategoryWork})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Tasks, 1)
	assert.Equal(t, 1, got[0].Metrics.TasksPlanned)

	unsubscribe()
	_, err = f.store.AddTask(ctx, model.NewTask{Text: "Outra tarefa", Type: model.CategoryWork})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newFixture(t)

	task, err := source.store.AddTask(ctx, model.NewTask{Text: "Exportar", Type: model.CategoryWork})
	require.NoError(t, err)
	project, err := source.store.AddProject(ctx, model.NewProject{Title: "Backup", Category: model.CategoryPersonal, Deadline: "2025-07-01"})
	require.NoError(t, err)
	_, _, err = source.store.AddSubtask(ctx, project.ID, "Copiar")
	require.NoError(t, err)
	meeting, err := source.store.AddMeeting(ctx, model.NewMeeting{Title: "Revisão", StartTime: baseTime.Add(time.Hour), Duration: 30, Platform: model.PlatformZoom})
	require.NoError(t, err)

	doc := source.store.Export()
	assert.Equal(t, persistence.Version, doc.Version)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)

	var imported ImportDocument
	require.NoError(t, json.Unmarshal(raw, &imported))

	target := newFixture(t)
	target.store.Import(ctx, imported)

	tasks := target.store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)
	assert.True(t, tasks[0].CreatedAt.Equal(task.CreatedAt))

	projects := target.store.Projects()
	require.Len(t, projects, 1)
	assert.Len(t, projects[0].Subtasks, 1)

	meetings := target.store.Meetings()
	require.Len(t, meetings, 1)
	assert.True(t, meetings[0].StartTime.Equal(meeting.StartTime))
	assert.True(t, meetings[0].EndTime.Equal(meeting.EndTime))
	assert.Equal(t, meeting.Link, meetings[0].Link)
	assert.Len(t, target.store.Templates(), 5)

	next, err := target.store.AddTask(ctx, model.NewTask{Text: "Depois", Type: model.CategoryWork})
	require.NoError(t, err)
	assert.Greater(t, next.ID, meeting.ID)
}

func TestPartialImportKeepsOtherCollections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.AddTask(ctx, model.NewTask{Text: "Fica", Type: model.CategoryWork})
	require.NoError(t, err)

	sessions := 7
	f.store.Import(ctx, ImportDocument{PomodoroSessions: &sessions, Projects: []model.Project{}})

	assert.Len(t, f.store.Tasks(), 1)
	assert.Equal(t, 7, f.store.Metrics().PomodoroSessions)
}

func TestClearAllResetsWorkspace(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.store.AddTask(ctx, model.NewTask{Text: "Apagar", Type: model.CategoryWork})
	require.NoError(t, err)
	require.True(t, f.store.DeleteTemplate(ctx, 1))

	f.store.ClearAll(ctx)

	assert.Empty(t, f.store.Tasks())
	assert.Len(t, f.store.Templates(), 5)
	assert.Equal(t, model.Metrics{}, f.store.Metrics())

	usage := f.store.Usage(ctx)
	assert.GreaterOrEqual(t, usage.Available, 5*1024-2)
}
