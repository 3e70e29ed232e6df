package store

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
)

// Pomodoro returns the timer after applying the ticks that elapsed since it
// was last observed.
func (s *Store) Pomodoro(ctx context.Context) model.PomodoroState {
	s.Advance(ctx, s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pomodoro
}

func (s *Store) StartPomodoro(ctx context.Context) model.PomodoroState {
	return s.updatePomodoro(ctx, func(p *model.PomodoroState, now time.Time) []string {
		if p.IsActive {
			return nil
		}
		p.IsActive = true
		p.LastTickAt = timePtr(now)
		if s.phaseStart.IsZero() {
			s.phaseStart = now
		}
		return []string{}
	})
}

func (s *Store) PausePomodoro(ctx context.Context) model.PomodoroState {
	s.Advance(ctx, s.now())
	return s.updatePomodoro(ctx, func(p *model.PomodoroState, _ time.Time) []string {
		if !p.IsActive {
			return nil
		}
		p.IsActive = false
		p.LastTickAt = nil
		return []string{}
	})
}

// ResetPomodoro restores the full duration of the current mode.
func (s *Store) ResetPomodoro(ctx context.Context) model.PomodoroState {
	return s.updatePomodoro(ctx, func(p *model.PomodoroState, _ time.Time) []string {
		p.Reset(s.settings)
		s.phaseStart = time.Time{}
		return []string{}
	})
}

// TickPomodoro advances a running timer by one second.
func (s *Store) TickPomodoro(ctx context.Context) model.PomodoroState {
	return s.updatePomodoro(ctx, func(p *model.PomodoroState, now time.Time) []string {
		if !p.IsActive {
			return nil
		}
		result := p.Tick(s.settings)
		if result == nil {
			p.LastTickAt = timePtr(now)
			return []string{}
		}
		s.finishPhaseLocked(ctx, result, 0, now)
		return []string{persistence.KeyPomodoroSessions}
	})
}

// SkipPomodoro moves to the next phase without counting the current one.
func (s *Store) SkipPomodoro(ctx context.Context) model.PomodoroState {
	s.Advance(ctx, s.now())
	return s.updatePomodoro(ctx, func(p *model.PomodoroState, now time.Time) []string {
		remaining := p.RemainingSeconds()
		result := p.Skip(s.settings)
		s.finishPhaseLocked(ctx, result, remaining, now)
		return []string{}
	})
}

// Advance applies every whole second elapsed between the last tick and now to
// a running timer. It stops at the first phase boundary, like the timer does.
func (s *Store) Advance(ctx context.Context, now time.Time) {
	s.mutate(ctx, func(time.Time) ([]string, error) {
		p := &s.pomodoro
		if !p.IsActive || p.LastTickAt == nil {
			return nil, nil
		}
		elapsed := int(now.Sub(*p.LastTickAt) / time.Second)
		if elapsed <= 0 {
			return nil, nil
		}

		last := *p.LastTickAt
		for i := 1; i <= elapsed; i++ {
			result := p.Tick(s.settings)
			if result != nil {
				s.finishPhaseLocked(ctx, result, 0, last.Add(time.Duration(i)*time.Second))
				return []string{persistence.KeyPomodoroSessions}, nil
			}
		}
		p.LastTickAt = timePtr(last.Add(time.Duration(elapsed) * time.Second))
		return []string{}, nil
	})
}

func (s *Store) updatePomodoro(ctx context.Context, change func(p *model.PomodoroState, now time.Time) []string) model.PomodoroState {
	var state model.PomodoroState
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		keys := change(&s.pomodoro, now)
		state = s.pomodoro
		return keys, nil
	})
	return state
}

// finishPhaseLocked records the phase that just ended.
func (s *Store) finishPhaseLocked(ctx context.Context, result *model.PhaseResult, remaining int, endedAt time.Time) {
	startedAt := s.phaseStart
	s.phaseStart = time.Time{}

	status := model.SessionSkipped
	if result.Completed {
		status = model.SessionCompleted
	}
	actual := result.Planned - remaining
	if actual < 0 {
		actual = 0
	}
	if startedAt.IsZero() {
		startedAt = endedAt.Add(-time.Duration(actual) * time.Second)
	}

	if s.recorder == nil {
		return
	}
	session := model.PomodoroSession{
		ID:                     uuid.NewString(),
		UserID:                 s.userID,
		Mode:                   result.Mode,
		PlannedDurationSeconds: result.Planned,
		ActualDurationSeconds:  actual,
		StartedAt:              startedAt,
		EndedAt:                endedAt,
		Status:                 status,
		CreatedAt:              endedAt,
	}
	if err := s.recorder.RecordSession(ctx, session); err != nil {
		log.Printf("store: record pomodoro session: %v", err)
	}
}
