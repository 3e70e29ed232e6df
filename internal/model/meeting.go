package model

import (
	"fmt"
	"time"
)

type Platform string

const (
	PlatformTeams  Platform = "teams"
	PlatformMeet   Platform = "meet"
	PlatformZoom   Platform = "zoom"
	PlatformCustom Platform = "custom"
)

func (p Platform) Valid() bool {
	switch p {
	case PlatformTeams, PlatformMeet, PlatformZoom, PlatformCustom:
		return true
	}
	return false
}

type MeetingType string

const (
	MeetingOneOff    MeetingType = "unica"
	MeetingRecurring MeetingType = "recorrente"
	MeetingTemplated MeetingType = "template"
	MeetingAICreated MeetingType = "criada_ia"
)

type RecurrencePattern string

const (
	RecurDaily   RecurrencePattern = "daily"
	RecurWeekly  RecurrencePattern = "weekly"
	RecurMonthly RecurrencePattern = "monthly"
)

// CustomLinkPlaceholder is shown for custom-platform meetings created without
// an explicit link.
const CustomLinkPlaceholder = "Link personalizado"

type Meeting struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	Time             string            `json:"time"`
	Duration         int               `json:"duration"`
	Platform         Platform          `json:"platform"`
	Link             string            `json:"link,omitempty"`
	Type             MeetingType       `json:"type"`
	StartTime        time.Time         `json:"startTime"`
	EndTime          time.Time         `json:"endTime"`
	Description      string            `json:"description,omitempty"`
	Participants     []string          `json:"participants"`
	TemplateID       *int64            `json:"templateId,omitempty"`
	IsRecurring      bool              `json:"isRecurring,omitempty"`
	RecurringPattern RecurrencePattern `json:"recurringPattern,omitempty"`
	ExternalID       string            `json:"externalId,omitempty"`
}

type NewMeeting struct {
	Title            string            `json:"title"`
	StartTime        time.Time         `json:"startTime"`
	Duration         int               `json:"duration"`
	Platform         Platform          `json:"platform"`
	Link             string            `json:"link,omitempty"`
	Type             MeetingType       `json:"type,omitempty"`
	Description      string            `json:"description,omitempty"`
	Participants     []string          `json:"participants,omitempty"`
	TemplateID       *int64            `json:"templateId,omitempty"`
	IsRecurring      bool              `json:"isRecurring,omitempty"`
	RecurringPattern RecurrencePattern `json:"recurringPattern,omitempty"`
}

type MeetingUpdate struct {
	Title            *string            `json:"title,omitempty"`
	StartTime        *time.Time         `json:"startTime,omitempty"`
	Duration         *int               `json:"duration,omitempty"`
	Platform         *Platform          `json:"platform,omitempty"`
	Link             *string            `json:"link,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Participants     []string           `json:"participants,omitempty"`
	IsRecurring      *bool              `json:"isRecurring,omitempty"`
	RecurringPattern *RecurrencePattern `json:"recurringPattern,omitempty"`
}

type MeetingTemplate struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	Duration            int      `json:"duration"`
	Description         string   `json:"description"`
	Platform            Platform `json:"platform"`
	DefaultParticipants []string `json:"defaultParticipants"`
	IsRecurring         bool     `json:"isRecurring"`
	Category            Category `json:"category"`
}

// Schedule sets the start, end and display time of m. The end is always
// start + duration.
func (m *Meeting) Schedule(start time.Time, duration int, loc *time.Location) {
	m.StartTime = start
	m.Duration = duration
	m.EndTime = start.Add(time.Duration(duration) * time.Minute)
	m.Time = FormatTimeRange(m.StartTime, m.EndTime, loc)
}

// FormatTimeRange renders "HH:MM - HH:MM" in loc.
func FormatTimeRange(start, end time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return fmt.Sprintf("%s - %s", start.In(loc).Format("15:04"), end.In(loc).Format("15:04"))
}

// DefaultTemplates seeds a new workspace.
func DefaultTemplates() []MeetingTemplate {
	return []MeetingTemplate{
		{
			ID:                  1,
			Name:                "Daily Standup",
			Duration:            30,
			Description:         "Reunião diária da equipe para alinhamento",
			Platform:            PlatformTeams,
			DefaultParticipants: []string{"equipe@empresa.com"},
			IsRecurring:         true,
			Category:            CategoryWork,
		},
		{
			ID:                  2,
			Name:                "1:1 Meeting",
			Duration:            60,
			Description:         "Reunião individual para feedback e alinhamento",
			Platform:            PlatformMeet,
			DefaultParticipants: []string{},
			Category:            CategoryWork,
		},
		{
			ID:                  3,
			Name:                "Review de Sprint",
			Duration:            90,
			Description:         "Revisão dos resultados e planejamento",
			Platform:            PlatformZoom,
			DefaultParticipants: []string{"dev-team@empresa.com"},
			Category:            CategoryWork,
		},
		{
			ID:                  4,
			Name:                "Aula Online",
			Duration:            120,
			Description:         "Aula ou seminário acadêmico",
			Platform:            PlatformMeet,
			DefaultParticipants: []string{},
			IsRecurring:         true,
			Category:            CategorySchool,
		},
		{
			ID:                  5,
			Name:                "Reunião Familiar",
			Duration:            45,
			Description:         "Conversa com família ou amigos",
			Platform:            PlatformCustom,
			DefaultParticipants: []string{},
			Category:            CategoryPersonal,
		},
	}
}
