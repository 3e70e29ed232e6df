package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

func (s *Store) Meetings() []model.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMeetings(s.meetings)
}

func (s *Store) Templates() []model.MeetingTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTemplates(s.templates)
}

// AddMeeting creates a meeting. When TemplateID names an existing template,
// its defaults fill the fields the input leaves empty.
func (s *Store) AddMeeting(ctx context.Context, in model.NewMeeting) (model.Meeting, error) {
	var meeting model.Meeting
	err := s.mutate(ctx, func(now time.Time) ([]string, error) {
		if in.TemplateID != nil {
			if template, ok := s.templateLocked(*in.TemplateID); ok {
				in = applyTemplate(in, template)
			}
		}
		if err := validation.ValidateMeeting(in, now).Err(); err != nil {
			return nil, err
		}

		meeting = model.Meeting{
			ID:               s.nextIDLocked(now),
			Title:            strings.TrimSpace(in.Title),
			Platform:         in.Platform,
			Link:             meetingLink(in.Platform, in.Link),
			Type:             meetingType(in),
			Description:      in.Description,
			Participants:     nonBlank(in.Participants),
			TemplateID:       in.TemplateID,
			IsRecurring:      in.IsRecurring,
			RecurringPattern: in.RecurringPattern,
		}
		meeting.Schedule(in.StartTime, in.Duration, s.loc)
		s.meetings = append(cloneMeetings(s.meetings), meeting)
		return []string{persistence.KeyMeetings}, nil
	})
	return meeting, err
}

func (s *Store) UpdateMeeting(ctx context.Context, id int64, update model.MeetingUpdate) (model.Meeting, bool) {
	var meeting model.Meeting
	var found bool
	s.mutate(ctx, func(time.Time) ([]string, error) {
		meetings := cloneMeetings(s.meetings)
		for i := range meetings {
			m := &meetings[i]
			if m.ID != id {
				continue
			}
			if update.Title != nil {
				m.Title = strings.TrimSpace(*update.Title)
			}
			if update.Platform != nil && *update.Platform != m.Platform {
				m.Platform = *update.Platform
				if update.Link == nil {
					m.Link = meetingLink(m.Platform, "")
				}
			}
			if update.Link != nil {
				m.Link = meetingLink(m.Platform, *update.Link)
			}
			if update.Description != nil {
				m.Description = *update.Description
			}
			if update.Participants != nil {
				m.Participants = nonBlank(update.Participants)
			}
			if update.IsRecurring != nil {
				m.IsRecurring = *update.IsRecurring
			}
			if update.RecurringPattern != nil {
				m.RecurringPattern = *update.RecurringPattern
			}

			start, duration := m.StartTime, m.Duration
			if update.StartTime != nil {
				start = *update.StartTime
			}
			if update.Duration != nil {
				duration = *update.Duration
			}
			m.Schedule(start, duration, s.loc)

			meeting, found = cloneMeeting(*m), true
			s.meetings = meetings
			return []string{persistence.KeyMeetings}, nil
		}
		return nil, nil
	})
	return meeting, found
}

func (s *Store) DeleteMeeting(ctx context.Context, id int64) bool {
	var found bool
	s.mutate(ctx, func(time.Time) ([]string, error) {
		meetings := make([]model.Meeting, 0, len(s.meetings))
		for _, meeting := range s.meetings {
			if meeting.ID == id {
				found = true
				continue
			}
			meetings = append(meetings, meeting)
		}
		if !found {
			return nil, nil
		}
		s.meetings = meetings
		return []string{persistence.KeyMeetings}, nil
	})
	return found
}

// SyncExternalMeetings merges meetings imported from a calendar provider.
// Meetings are matched on ExternalID; unmatched ones are appended with a new
// local id. Provider data is trusted and skips validation.
func (s *Store) SyncExternalMeetings(ctx context.Context, external []model.Meeting) (added, updated int) {
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		meetings := cloneMeetings(s.meetings)
		index := make(map[string]int, len(meetings))
		for i, meeting := range meetings {
			if meeting.ExternalID != "" {
				index[meeting.ExternalID] = i
			}
		}

		for _, incoming := range external {
			if incoming.ExternalID == "" {
				continue
			}
			incoming = cloneMeeting(incoming)
			incoming.Schedule(incoming.StartTime, incoming.Duration, s.loc)
			if i, ok := index[incoming.ExternalID]; ok {
				incoming.ID = meetings[i].ID
				meetings[i] = incoming
				updated++
				continue
			}
			incoming.ID = s.nextIDLocked(now)
			index[incoming.ExternalID] = len(meetings)
			meetings = append(meetings, incoming)
			added++
		}

		if added+updated == 0 {
			return nil, nil
		}
		s.meetings = meetings
		return []string{persistence.KeyMeetings}, nil
	})
	return added, updated
}

func (s *Store) AddTemplate(ctx context.Context, in model.MeetingTemplate) (model.MeetingTemplate, error) {
	var template model.MeetingTemplate
	err := s.mutate(ctx, func(now time.Time) ([]string, error) {
		if err := validation.ValidateTemplate(in).Err(); err != nil {
			return nil, err
		}
		template = in
		template.ID = s.nextIDLocked(now)
		template.Name = strings.TrimSpace(in.Name)
		template.DefaultParticipants = nonBlank(in.DefaultParticipants)
		s.templates = append(cloneTemplates(s.templates), template)
		return []string{persistence.KeyMeetingTemplates}, nil
	})
	return template, err
}

// DeleteTemplate removes a template. Meetings created from it keep their
// TemplateID.
func (s *Store) DeleteTemplate(ctx context.Context, id int64) bool {
	var found bool
	s.mutate(ctx, func(time.Time) ([]string, error) {
		templates := make([]model.MeetingTemplate, 0, len(s.templates))
		for _, template := range s.templates {
			if template.ID == id {
				found = true
				continue
			}
			templates = append(templates, template)
		}
		if !found {
			return nil, nil
		}
		s.templates = templates
		return []string{persistence.KeyMeetingTemplates}, nil
	})
	return found
}

func (s *Store) templateLocked(id int64) (model.MeetingTemplate, bool) {
	for _, template := range s.templates {
		if template.ID == id {
			return template, true
		}
	}
	return model.MeetingTemplate{}, false
}

func applyTemplate(in model.NewMeeting, template model.MeetingTemplate) model.NewMeeting {
	if strings.TrimSpace(in.Title) == "" {
		in.Title = template.Name
	}
	if in.Duration == 0 {
		in.Duration = template.Duration
	}
	if in.Platform == "" {
		in.Platform = template.Platform
	}
	if in.Description == "" {
		in.Description = template.Description
	}
	if len(in.Participants) == 0 {
		in.Participants = append([]string{}, template.DefaultParticipants...)
	}
	if !in.IsRecurring {
		in.IsRecurring = template.IsRecurring
	}
	return in
}

func meetingType(in model.NewMeeting) model.MeetingType {
	switch {
	case in.Type != "":
		return in.Type
	case in.TemplateID != nil:
		return model.MeetingTemplated
	case in.IsRecurring:
		return model.MeetingRecurring
	default:
		return model.MeetingOneOff
	}
}

// meetingLink keeps an explicit link and otherwise generates a join link for
// the platform.
func meetingLink(platform model.Platform, link string) string {
	if link = strings.TrimSpace(link); link != "" {
		return link
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	switch platform {
	case model.PlatformMeet:
		return "https://meet.google.com/" + id
	case model.PlatformZoom:
		return "https://zoom.us/j/" + id
	case model.PlatformTeams:
		return "https://teams.microsoft.com/l/meetup-join/19%3ameeting_" + id
	case model.PlatformCustom:
		return model.CustomLinkPlaceholder
	default:
		return "#"
	}
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
