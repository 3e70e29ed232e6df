package store

import (
	"context"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

func (s *Store) Metrics() model.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// RecomputeMetrics recomputes the metrics against the current clock, which
// moves the today and this-week windows forward.
func (s *Store) RecomputeMetrics(ctx context.Context) model.Metrics {
	var metrics model.Metrics
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		metrics = s.computeMetricsLocked(now)
		if metrics == s.metrics {
			return nil, nil
		}
		return []string{}, nil
	})
	return metrics
}

func (s *Store) computeMetricsLocked(now time.Time) model.Metrics {
	return ComputeMetrics(MetricsInput{
		Tasks:     s.tasks,
		Projects:  s.projects,
		Meetings:  s.meetings,
		Sessions:  s.pomodoro.Sessions,
		Settings:  s.settings,
		Now:       now,
		Location:  s.loc,
		WeekStart: s.week,
	})
}

type MetricsInput struct {
	Tasks     []model.Task
	Projects  []model.Project
	Meetings  []model.Meeting
	Sessions  int
	Settings  model.PomodoroSettings
	Now       time.Time
	Location  *time.Location
	WeekStart time.Weekday
}

// ComputeMetrics derives the dashboard counters. Meetings without a start
// time are ignored.
func ComputeMetrics(in MetricsInput) model.Metrics {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	now := in.Now.In(loc)

	metrics := model.Metrics{
		TasksPlanned:     len(in.Tasks),
		PomodoroSessions: in.Sessions,
		FocusTime:        in.Sessions * in.Settings.WorkMinutes,
	}
	for _, task := range in.Tasks {
		if task.Completed {
			metrics.TasksCompleted++
		}
	}
	for _, project := range in.Projects {
		if project.Status == model.ProjectInProgress {
			metrics.ProjectsActive++
		}
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekStart := today.AddDate(0, 0, -((int(now.Weekday()) - int(in.WeekStart) + 7) % 7))
	weekEnd := weekStart.AddDate(0, 0, 7)

	for _, meeting := range in.Meetings {
		if meeting.StartTime.IsZero() {
			continue
		}
		start := meeting.StartTime.In(loc)
		if !start.Before(today) && start.Before(tomorrow) {
			metrics.MeetingsToday++
		}
		if !start.Before(weekStart) && start.Before(weekEnd) {
			metrics.MeetingsThisWeek++
		}
	}
	return metrics
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
