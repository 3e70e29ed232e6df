package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/calendar"
	apperrors "github.com/oliver-zyn/productivity-hub/internal/errors"
	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

type SyncResult struct {
	Added    int             `json:"added"`
	Updated  int             `json:"updated"`
	Meetings []model.Meeting `json:"meetings"`
}

type CreateEventInput struct {
	Title        string    `json:"title"`
	StartTime    time.Time `json:"startTime"`
	Duration     int       `json:"duration"`
	Description  string    `json:"description"`
	Participants []string  `json:"participants"`
}

// CalendarService mirrors events of the user's external calendar into the
// workspace.
type CalendarService struct {
	workspaces *WorkspaceService
	calendar   *calendar.Client
}

func NewCalendarService(workspaces *WorkspaceService, calendarClient *calendar.Client) *CalendarService {
	return &CalendarService{workspaces: workspaces, calendar: calendarClient}
}

// Sync imports today's and tomorrow's events. Events already imported are
// updated in place.
func (s *CalendarService) Sync(ctx context.Context, userID, token string) (*SyncResult, *apperrors.APIError) {
	ws := s.workspaces.Get(ctx, userID)
	from, to := calendar.DayWindow(s.workspaces.now().In(ws.Location()))
	events, err := s.calendar.ListEvents(ctx, token, from, to)
	if err != nil {
		return nil, calendarError(err)
	}

	added, updated := ws.SyncExternalMeetings(ctx, events)
	return &SyncResult{Added: added, Updated: updated, Meetings: ws.Meetings()}, nil
}

// CreateEvent creates the event on the provider and stores the returned
// meeting in the workspace.
func (s *CalendarService) CreateEvent(ctx context.Context, userID, token string, in CreateEventInput) (*model.Meeting, *apperrors.APIError) {
	result := validation.ValidateMeeting(model.NewMeeting{
		Title:        in.Title,
		StartTime:    in.StartTime,
		Duration:     in.Duration,
		Platform:     model.PlatformTeams,
		Description:  in.Description,
		Participants: in.Participants,
	}, s.workspaces.now())
	if err := result.Err(); err != nil {
		return nil, storeError(err)
	}

	meeting, err := s.calendar.CreateEvent(ctx, token, calendar.EventInput{
		Title:       strings.TrimSpace(in.Title),
		Start:       in.StartTime,
		End:         in.StartTime.Add(time.Duration(in.Duration) * time.Minute),
		Description: in.Description,
		Attendees:   in.Participants,
	})
	if err != nil {
		return nil, calendarError(err)
	}

	ws := s.workspaces.Get(ctx, userID)
	ws.SyncExternalMeetings(ctx, []model.Meeting{meeting})
	for _, stored := range ws.Meetings() {
		if stored.ExternalID != "" && stored.ExternalID == meeting.ExternalID {
			return &stored, nil
		}
	}
	return &meeting, nil
}

func calendarError(err error) *apperrors.APIError {
	if errors.Is(err, calendar.ErrUnauthenticated) {
		return apperrors.Unauthorized("calendar access token is required")
	}
	log.Printf("calendar request: %v", err)
	return apperrors.BadGateway("upstream_error", "calendar provider request failed")
}
