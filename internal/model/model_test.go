package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtaskProgressAndStatus(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		progress  int
		status    ProjectStatus
	}{
		{"no subtasks", 0, 0, 0, ProjectNotStarted},
		{"none done", 0, 3, 0, ProjectNotStarted},
		{"one of three", 1, 3, 33, ProjectInProgress},
		{"two of three", 2, 3, 67, ProjectInProgress},
		{"half", 1, 2, 50, ProjectInProgress},
		{"all done", 4, 4, 100, ProjectDone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			project := Project{}
			for i := 0; i < tc.total; i++ {
				project.Subtasks = append(project.Subtasks, Subtask{ID: int64(i + 1), Completed: i < tc.completed})
			}
			project.Recalculate()
			assert.Equal(t, tc.progress, project.Progress)
			assert.Equal(t, tc.status, project.Status)
		})
	}
}

func TestMeetingScheduleKeepsEndInSync(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	start := time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC)

	var meeting Meeting
	meeting.Schedule(start, 90, loc)

	assert.Equal(t, start.Add(90*time.Minute), meeting.EndTime)
	assert.Equal(t, "11:00 - 12:30", meeting.Time)

	meeting.Schedule(start.Add(time.Hour), 30, loc)
	assert.Equal(t, "12:00 - 12:30", meeting.Time)
	assert.Equal(t, 30, meeting.Duration)
}

func TestPomodoroTickCompletesWorkPhase(t *testing.T) {
	settings := DefaultPomodoroSettings()
	state := PomodoroState{Minutes: 0, Seconds: 1, Mode: ModeWork, IsActive: true}

	require.Nil(t, state.Tick(settings))
	assert.Equal(t, 0, state.Minutes)
	assert.Equal(t, 0, state.Seconds)
	assert.Equal(t, 0, state.Sessions)

	result := state.Tick(settings)
	require.NotNil(t, result)
	assert.True(t, result.Completed)
	assert.Equal(t, ModeWork, result.Mode)
	assert.Equal(t, 1, state.Sessions)
	assert.Equal(t, ModeShortBreak, state.Mode)
	assert.Equal(t, settings.ShortBreakMinutes, state.Minutes)
	assert.False(t, state.IsActive)
}

func TestPomodoroTickBorrowsMinute(t *testing.T) {
	state := PomodoroState{Minutes: 2, Seconds: 0, Mode: ModeWork}
	state.Tick(DefaultPomodoroSettings())
	assert.Equal(t, 1, state.Minutes)
	assert.Equal(t, 59, state.Seconds)
}

func TestPomodoroLongBreakEveryNthSession(t *testing.T) {
	settings := DefaultPomodoroSettings()
	state := PomodoroState{Mode: ModeWork, Sessions: 3}

	state.Tick(settings)
	assert.Equal(t, 4, state.Sessions)
	assert.Equal(t, ModeLongBreak, state.Mode)

	state.Minutes, state.Seconds = 0, 0
	state.Tick(settings)
	assert.Equal(t, ModeWork, state.Mode)
	assert.Equal(t, 4, state.Sessions)
}

func TestPomodoroSkipDoesNotCount(t *testing.T) {
	settings := DefaultPomodoroSettings()
	state := PomodoroState{Minutes: 12, Mode: ModeWork, Sessions: 3, IsActive: true}

	result := state.Skip(settings)
	assert.False(t, result.Completed)
	assert.Equal(t, 3, state.Sessions)
	assert.Equal(t, ModeLongBreak, state.Mode)
	assert.Equal(t, settings.LongBreakMinutes, state.Minutes)

	state.Skip(settings)
	assert.Equal(t, ModeWork, state.Mode)
}

func TestAppendCappedEvictsOldest(t *testing.T) {
	var log []AIMessage
	for i := 1; i <= 101; i++ {
		log = AppendCapped(log, AIMessage{ID: int64(i)}, MaxChatMessages)
	}

	require.Len(t, log, MaxChatMessages)
	assert.Equal(t, int64(2), log[0].ID)
	assert.Equal(t, int64(101), log[len(log)-1].ID)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, CategoryPersonal.Valid())
	assert.False(t, Category("hobby").Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgente").Valid())
	assert.True(t, PlatformZoom.Valid())
	assert.False(t, Platform("webex").Valid())
}
