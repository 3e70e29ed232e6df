package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

func TestListEventsMapsMeetings(t *testing.T) {
	from := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	to := from.Add(48*time.Hour - time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/me/calendar/calendarView", r.URL.Path)
		assert.Equal(t, "2025-06-04T00:00:00Z", r.URL.Query().Get("startDateTime"))
		assert.Equal(t, "2025-06-05T23:59:59Z", r.URL.Query().Get("endDateTime"))
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"value":[
			{"id":"evt-1","subject":"Daily","bodyPreview":"alinhamento",
			 "start":{"dateTime":"2025-06-04T13:00:00.0000000","timeZone":"UTC"},
			 "end":{"dateTime":"2025-06-04T13:15:00.0000000","timeZone":"UTC"},
			 "attendees":[{"emailAddress":{"address":"ana@example.com"}},{"emailAddress":{"address":""}}],
			 "onlineMeeting":{"joinUrl":"https://teams.microsoft.com/l/meetup-join/abc"},
			 "webLink":"https://outlook.office.com/x",
			 "recurrence":{"pattern":{"type":"daily"}}},
			{"id":"evt-2","subject":"1:1",
			 "start":{"dateTime":"2025-06-05T10:00:00","timeZone":"UTC"},
			 "end":{"dateTime":"2025-06-05T11:00:00","timeZone":"UTC"},
			 "webLink":"https://outlook.office.com/y","recurrence":null}
		]}`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/v1.0/", "UTC", srv.Client())
	meetings, err := client.ListEvents(context.Background(), "graph-token", from, to)
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	daily := meetings[0]
	assert.Equal(t, "evt-1", daily.ExternalID)
	assert.Equal(t, "Daily", daily.Title)
	assert.Equal(t, 15, daily.Duration)
	assert.Equal(t, model.PlatformTeams, daily.Platform)
	assert.Equal(t, model.MeetingRecurring, daily.Type)
	assert.True(t, daily.IsRecurring)
	assert.Equal(t, "https://teams.microsoft.com/l/meetup-join/abc", daily.Link)
	assert.Equal(t, []string{"ana@example.com"}, daily.Participants)
	assert.True(t, daily.StartTime.Equal(time.Date(2025, 6, 4, 13, 0, 0, 0, time.UTC)))

	oneOnOne := meetings[1]
	assert.Equal(t, model.MeetingOneOff, oneOnOne.Type)
	assert.Equal(t, "https://outlook.office.com/y", oneOnOne.Link)
	assert.Equal(t, 60, oneOnOne.Duration)
}

func TestCreateEvent(t *testing.T) {
	start := time.Date(2025, 6, 4, 15, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/events", r.URL.Path)

		var event Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		assert.Equal(t, "Planejamento", event.Subject)
		assert.Equal(t, "2025-06-04T15:00:00", event.Start.DateTime)
		assert.Equal(t, "UTC", event.Start.TimeZone)
		assert.Equal(t, "2025-06-04T15:30:00", event.End.DateTime)
		assert.True(t, event.IsOnlineMeeting)
		if assert.NotNil(t, event.Body) {
			assert.Equal(t, "HTML", event.Body.ContentType)
		}
		if assert.Len(t, event.Attendees, 1) {
			assert.Equal(t, "bob@example.com", event.Attendees[0].EmailAddress.Address)
		}

		event.ID = "created-1"
		event.OnlineMeeting = &OnlineMeeting{JoinURL: "https://teams.microsoft.com/l/meetup-join/new"}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(event)
	}))
	defer srv.Close()

	client := New(srv.URL, "UTC", srv.Client())
	meeting, err := client.CreateEvent(context.Background(), "graph-token", EventInput{
		Title:       "Planejamento",
		Start:       start,
		End:         start.Add(30 * time.Minute),
		Description: "<p>pauta</p>",
		Attendees:   []string{"bob@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "created-1", meeting.ExternalID)
	assert.Equal(t, 30, meeting.Duration)
	assert.Equal(t, "https://teams.microsoft.com/l/meetup-join/new", meeting.Link)
}

func TestProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, "UTC", srv.Client())
	_, err := client.ListEvents(context.Background(), "expired", time.Now(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = client.ListEvents(context.Background(), "", time.Now(), time.Now())
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestDayWindow(t *testing.T) {
	now := time.Date(2025, 6, 4, 18, 30, 0, 0, time.UTC)
	from, to := DayWindow(now)
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 6, 5, 23, 59, 59, 0, time.UTC), to)
}

func TestToMeetingRejectsBadTimes(t *testing.T) {
	_, err := ToMeeting(Event{Start: DateTimeZone{DateTime: "amanhã"}})
	assert.Error(t, err)
}
