// Package validation holds the input checks applied before new entities enter
// a workspace. Every function is pure: it never mutates its input and never
// panics.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oliver-zyn/productivity-hub/internal/model"
)

const (
	taskTextMin       = 3
	taskTextMax       = 200
	titleMin          = 3
	titleMax          = 100
	descriptionMax    = 500
	subtaskTextMin    = 2
	subtaskTextMax    = 150
	meetingMinMinutes = 5
	meetingMaxMinutes = 480
	maxParticipants   = 50
	pastTolerance     = 5 * time.Minute
)

var (
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	return &Error{Errors: r.Errors}
}

// Error reports every violated constraint of one input.
type Error struct {
	Errors []string
}

func (e *Error) Error() string {
	return strings.Join(e.Errors, "; ")
}

func newResult(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func ValidateTask(task model.NewTask) Result {
	var errs []string

	switch n := length(task.Text); {
	case n == 0:
		errs = append(errs, "task text is required")
	case n < taskTextMin:
		errs = append(errs, fmt.Sprintf("task text must be at least %d characters", taskTextMin))
	case n > taskTextMax:
		errs = append(errs, fmt.Sprintf("task text cannot exceed %d characters", taskTextMax))
	}

	if !task.Type.Valid() {
		errs = append(errs, "invalid task type")
	}
	if task.Priority != "" && !task.Priority.Valid() {
		errs = append(errs, "invalid priority")
	}

	return newResult(errs)
}

// ValidateProject checks a new project against the calendar day of now.
func ValidateProject(project model.NewProject, now time.Time) Result {
	var errs []string

	errs = append(errs, checkTitle("project title", project.Title)...)

	if !project.Category.Valid() {
		errs = append(errs, "invalid category")
	}

	if strings.TrimSpace(project.Deadline) == "" {
		errs = append(errs, "deadline is required")
	} else if deadline, ok := ParseDeadline(project.Deadline, now.Location()); !ok {
		errs = append(errs, "invalid deadline")
	} else {
		today := startOfDay(now)
		if deadline.Before(today) {
			errs = append(errs, "deadline must be today or later")
		}
		if deadline.After(now.AddDate(2, 0, 0)) {
			errs = append(errs, "deadline cannot be more than 2 years ahead")
		}
	}

	if utf8.RuneCountInString(project.Description) > descriptionMax {
		errs = append(errs, fmt.Sprintf("description cannot exceed %d characters", descriptionMax))
	}

	return newResult(errs)
}

func ValidateMeeting(meeting model.NewMeeting, now time.Time) Result {
	var errs []string

	errs = append(errs, checkTitle("meeting title", meeting.Title)...)

	if meeting.StartTime.IsZero() {
		errs = append(errs, "start time is required")
	} else {
		if meeting.StartTime.Before(now.Add(-pastTolerance)) {
			errs = append(errs, "meeting cannot be scheduled in the past")
		}
		if meeting.StartTime.After(now.AddDate(0, 6, 0)) {
			errs = append(errs, "meeting cannot be scheduled more than 6 months ahead")
		}
	}

	errs = append(errs, checkDuration(meeting.Duration)...)

	if !meeting.Platform.Valid() {
		errs = append(errs, "invalid platform")
	}
	if link := strings.TrimSpace(meeting.Link); link != "" && !IsValidURL(link) {
		errs = append(errs, "meeting link must be a valid URL")
	}

	errs = append(errs, checkParticipants(meeting.Participants)...)

	if utf8.RuneCountInString(meeting.Description) > descriptionMax {
		errs = append(errs, fmt.Sprintf("description cannot exceed %d characters", descriptionMax))
	}

	return newResult(errs)
}

func ValidateSubtask(text string) Result {
	var errs []string

	switch n := length(text); {
	case n == 0:
		errs = append(errs, "subtask text is required")
	case n < subtaskTextMin:
		errs = append(errs, fmt.Sprintf("subtask text must be at least %d characters", subtaskTextMin))
	case n > subtaskTextMax:
		errs = append(errs, fmt.Sprintf("subtask text cannot exceed %d characters", subtaskTextMax))
	}

	return newResult(errs)
}

func ValidateTemplate(template model.MeetingTemplate) Result {
	var errs []string

	errs = append(errs, checkTitle("template name", template.Name)...)
	errs = append(errs, checkDuration(template.Duration)...)
	if !template.Platform.Valid() {
		errs = append(errs, "invalid platform")
	}
	if !template.Category.Valid() {
		errs = append(errs, "invalid category")
	}
	errs = append(errs, checkParticipants(template.DefaultParticipants)...)
	if utf8.RuneCountInString(template.Description) > descriptionMax {
		errs = append(errs, fmt.Sprintf("description cannot exceed %d characters", descriptionMax))
	}

	return newResult(errs)
}

func checkTitle(field, title string) []string {
	switch n := length(title); {
	case n == 0:
		return []string{field + " is required"}
	case n < titleMin:
		return []string{fmt.Sprintf("%s must be at least %d characters", field, titleMin)}
	case n > titleMax:
		return []string{fmt.Sprintf("%s cannot exceed %d characters", field, titleMax)}
	}
	return nil
}

func checkDuration(minutes int) []string {
	switch {
	case minutes <= 0:
		return []string{"duration must be greater than zero"}
	case minutes > meetingMaxMinutes:
		return []string{"duration cannot exceed 8 hours"}
	case minutes < meetingMinMinutes:
		return []string{fmt.Sprintf("duration must be at least %d minutes", meetingMinMinutes)}
	}
	return nil
}

func checkParticipants(participants []string) []string {
	var errs []string
	var invalid []string
	for _, participant := range participants {
		trimmed := strings.TrimSpace(participant)
		if trimmed != "" && !emailPattern.MatchString(trimmed) {
			invalid = append(invalid, trimmed)
		}
	}
	if len(invalid) > 0 {
		errs = append(errs, "invalid emails: "+strings.Join(invalid, ", "))
	}
	if len(participants) > maxParticipants {
		errs = append(errs, fmt.Sprintf("at most %d participants allowed", maxParticipants))
	}
	return errs
}

// ParseDeadline accepts a calendar date or an RFC 3339 timestamp and returns
// midnight of that date in loc.
func ParseDeadline(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(model.DeadlineLayout, raw, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return startOfDay(t.In(loc)), true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SanitizeString(s string) string {
	return whitespacePattern.ReplaceAllString(strings.TrimSpace(s), " ")
}

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func FormatErrors(errs []string) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0]
	}
	return "errors found:\n• " + strings.Join(errs, "\n• ")
}
