// Package calendar reads and creates events on a Microsoft Graph style
// calendar API and maps them onto meetings.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

const (
	DefaultBaseURL  = "https://graph.microsoft.com/v1.0"
	DefaultTimeZone = "America/Sao_Paulo"

	calendarViewPath = "/me/calendar/calendarView"
	eventsPath       = "/me/events"
	localLayout      = "2006-01-02T15:04:05"
)

var ErrUnauthenticated = errors.New("calendar: missing access token")

// graphLayouts covers the provider's zone-less timestamps, which carry up to
// seven fractional digits.
var graphLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	localLayout,
}

type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type EmailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type Attendee struct {
	EmailAddress EmailAddress `json:"emailAddress"`
	Type         string       `json:"type,omitempty"`
}

type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type OnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

type Event struct {
	ID              string          `json:"id,omitempty"`
	Subject         string          `json:"subject"`
	Body            *ItemBody       `json:"body,omitempty"`
	BodyPreview     string          `json:"bodyPreview,omitempty"`
	Start           DateTimeZone    `json:"start"`
	End             DateTimeZone    `json:"end"`
	Attendees       []Attendee      `json:"attendees,omitempty"`
	IsOnlineMeeting bool            `json:"isOnlineMeeting"`
	OnlineMeeting   *OnlineMeeting  `json:"onlineMeeting,omitempty"`
	WebLink         string          `json:"webLink,omitempty"`
	Recurrence      json.RawMessage `json:"recurrence,omitempty"`
}

type EventInput struct {
	Title       string
	Start       time.Time
	End         time.Time
	Description string
	Attendees   []string
}

type Client struct {
	baseURL  string
	timeZone string
	loc      *time.Location
	http     *http.Client
}

// New builds a client. An unknown timeZone falls back to UTC for rendering
// while still being sent to the provider as given.
func New(baseURL, timeZone string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeZone == "" {
		timeZone = DefaultTimeZone
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		loc = time.UTC
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeZone: timeZone,
		loc:      loc,
		http:     httpClient,
	}
}

// DayWindow returns the window used for syncing: from the start of now's day
// to the end of the following day.
func DayWindow(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	from = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	to = from.AddDate(0, 0, 2).Add(-time.Second)
	return from, to
}

func (c *Client) ListEvents(ctx context.Context, token string, from, to time.Time) ([]model.Meeting, error) {
	query := url.Values{}
	query.Set("startDateTime", from.UTC().Format(time.RFC3339))
	query.Set("endDateTime", to.UTC().Format(time.RFC3339))

	var page struct {
		Value []Event `json:"value"`
	}
	if err := c.do(ctx, token, http.MethodGet, calendarViewPath+"?"+query.Encode(), nil, &page); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	meetings := make([]model.Meeting, 0, len(page.Value))
	for _, event := range page.Value {
		meeting, err := ToMeeting(event)
		if err != nil {
			return nil, fmt.Errorf("map event %s: %w", event.ID, err)
		}
		meetings = append(meetings, meeting)
	}
	return meetings, nil
}

func (c *Client) CreateEvent(ctx context.Context, token string, in EventInput) (model.Meeting, error) {
	event := Event{
		Subject:         in.Title,
		Body:            &ItemBody{ContentType: "HTML", Content: in.Description},
		Start:           DateTimeZone{DateTime: in.Start.In(c.loc).Format(localLayout), TimeZone: c.timeZone},
		End:             DateTimeZone{DateTime: in.End.In(c.loc).Format(localLayout), TimeZone: c.timeZone},
		IsOnlineMeeting: true,
	}
	for _, address := range in.Attendees {
		event.Attendees = append(event.Attendees, Attendee{EmailAddress: EmailAddress{Address: address}, Type: "required"})
	}

	var created Event
	if err := c.do(ctx, token, http.MethodPost, eventsPath, event, &created); err != nil {
		return model.Meeting{}, fmt.Errorf("create event: %w", err)
	}
	return ToMeeting(created)
}

func (c *Client) do(ctx context.Context, token, method, path string, in, out any) error {
	if strings.TrimSpace(token) == "" {
		return ErrUnauthenticated
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.authorized(token).Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("graph api error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authorized wraps the configured client so every request carries the
// caller's delegated access token.
func (c *Client) authorized(token string) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.http.Transport,
		},
		Timeout: c.http.Timeout,
	}
}

// ToMeeting maps a provider event onto a meeting. The local id is left zero
// for the store to assign.
func ToMeeting(event Event) (model.Meeting, error) {
	start, err := parseDateTime(event.Start)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseDateTime(event.End)
	if err != nil {
		return model.Meeting{}, fmt.Errorf("end: %w", err)
	}

	meeting := model.Meeting{
		Title:        event.Subject,
		Duration:     int(end.Sub(start) / time.Minute),
		Platform:     model.PlatformTeams,
		Link:         event.WebLink,
		Type:         model.MeetingOneOff,
		StartTime:    start,
		EndTime:      end,
		Description:  event.BodyPreview,
		Participants: make([]string, 0, len(event.Attendees)),
		ExternalID:   event.ID,
	}
	if event.OnlineMeeting != nil && event.OnlineMeeting.JoinURL != "" {
		meeting.Link = event.OnlineMeeting.JoinURL
	}
	if len(event.Recurrence) > 0 && string(event.Recurrence) != "null" {
		meeting.Type = model.MeetingRecurring
		meeting.IsRecurring = true
	}
	for _, attendee := range event.Attendees {
		if attendee.EmailAddress.Address != "" {
			meeting.Participants = append(meeting.Participants, attendee.EmailAddress.Address)
		}
	}
	return meeting, nil
}

func parseDateTime(dt DateTimeZone) (time.Time, error) {
	loc := time.UTC
	if dt.TimeZone != "" {
		if l, err := time.LoadLocation(dt.TimeZone); err == nil {
			loc = l
		}
	}
	for _, layout := range graphLayouts {
		if t, err := time.ParseInLocation(layout, dt.DateTime, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date time %q", dt.DateTime)
}
