package model

import "time"

type PomodoroMode string

const (
	ModeWork       PomodoroMode = "work"
	ModeShortBreak PomodoroMode = "shortBreak"
	ModeLongBreak  PomodoroMode = "longBreak"
)

const (
	DefaultWorkMinutes            = 25
	DefaultShortBreakMinutes      = 5
	DefaultLongBreakMinutes       = 15
	DefaultSessionsUntilLongBreak = 4
)

const (
	SessionCompleted = "completed"
	SessionSkipped   = "skipped"
)

type PomodoroSettings struct {
	WorkMinutes            int `json:"workMinutes"`
	ShortBreakMinutes      int `json:"shortBreakMinutes"`
	LongBreakMinutes       int `json:"longBreakMinutes"`
	SessionsUntilLongBreak int `json:"sessionsUntilLongBreak"`
}

func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		WorkMinutes:            DefaultWorkMinutes,
		ShortBreakMinutes:      DefaultShortBreakMinutes,
		LongBreakMinutes:       DefaultLongBreakMinutes,
		SessionsUntilLongBreak: DefaultSessionsUntilLongBreak,
	}
}

func (s PomodoroSettings) MinutesFor(mode PomodoroMode) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakMinutes
	case ModeLongBreak:
		return s.LongBreakMinutes
	default:
		return s.WorkMinutes
	}
}

// NextMode returns the mode that follows a finished phase. sessions is the
// work-session count including the phase that just ended.
func (s PomodoroSettings) NextMode(current PomodoroMode, sessions int) PomodoroMode {
	if current != ModeWork {
		return ModeWork
	}
	interval := s.SessionsUntilLongBreak
	if interval > 0 && sessions > 0 && sessions%interval == 0 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

type PomodoroState struct {
	Minutes    int          `json:"minutes"`
	Seconds    int          `json:"seconds"`
	IsActive   bool         `json:"isActive"`
	Mode       PomodoroMode `json:"mode"`
	Sessions   int          `json:"sessions"`
	LastTickAt *time.Time   `json:"lastTickAt,omitempty"`
}

func NewPomodoroState(settings PomodoroSettings) PomodoroState {
	return PomodoroState{
		Minutes: settings.WorkMinutes,
		Mode:    ModeWork,
	}
}

// PhaseResult describes a phase boundary crossed by Tick or Skip.
type PhaseResult struct {
	Mode      PomodoroMode
	Completed bool
	Planned   int
}

// Tick advances the countdown by one second. At 0:00 the phase finishes and
// the returned result is non-nil.
func (p *PomodoroState) Tick(settings PomodoroSettings) *PhaseResult {
	switch {
	case p.Seconds > 0:
		p.Seconds--
		return nil
	case p.Minutes > 0:
		p.Minutes--
		p.Seconds = 59
		return nil
	}

	finished := p.Mode
	if finished == ModeWork {
		p.Sessions++
	}
	p.enter(settings, settings.NextMode(finished, p.Sessions))
	return &PhaseResult{Mode: finished, Completed: true, Planned: settings.MinutesFor(finished) * 60}
}

// Skip ends the current phase immediately without counting it.
func (p *PomodoroState) Skip(settings PomodoroSettings) *PhaseResult {
	finished := p.Mode
	p.enter(settings, settings.NextMode(finished, p.Sessions+1))
	return &PhaseResult{Mode: finished, Planned: settings.MinutesFor(finished) * 60}
}

// Reset restores the full duration of the current mode and stops the timer.
func (p *PomodoroState) Reset(settings PomodoroSettings) {
	p.Minutes = settings.MinutesFor(p.Mode)
	p.Seconds = 0
	p.IsActive = false
	p.LastTickAt = nil
}

func (p *PomodoroState) RemainingSeconds() int {
	return p.Minutes*60 + p.Seconds
}

func (p *PomodoroState) enter(settings PomodoroSettings, mode PomodoroMode) {
	p.Mode = mode
	p.Minutes = settings.MinutesFor(mode)
	p.Seconds = 0
	p.IsActive = false
	p.LastTickAt = nil
}

type PomodoroSession struct {
	ID                     string       `json:"id"`
	UserID                 string       `json:"userId"`
	Mode                   PomodoroMode `json:"mode"`
	PlannedDurationSeconds int          `json:"plannedDurationSeconds"`
	ActualDurationSeconds  int          `json:"actualDurationSeconds"`
	StartedAt              time.Time    `json:"startedAt"`
	EndedAt                time.Time    `json:"endedAt"`
	Status                 string       `json:"status"`
	CreatedAt              time.Time    `json:"createdAt"`
}
