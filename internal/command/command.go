// Package command extracts structured intents from assistant replies.
//
// The assistant is asked to answer creation requests with a block such as
//
//	AÇÃO:CREATE_PROJECT
//	TÍTULO:Aprendizado de Machine Learning
//	CATEGORIA:pessoal
//	SUBTAREFAS:Estudar conceitos básicos|Fazer primeiro projeto prático
//
// but it interleaves commentary and emoji around the block, so fields are
// located by marker offsets and the text between them rather than by a strict
// grammar. Parse never fails: missing or malformed fields fall back to
// defaults.
package command

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

type Kind string

const (
	KindCreateProject       Kind = "CREATE_PROJECT"
	KindCreateMeeting       Kind = "CREATE_MEETING"
	KindAnalyzeProductivity Kind = "ANALYZE_PRODUCTIVITY"
)

const (
	DefaultProjectTitle  = "Novo Projeto"
	FallbackProjectTitle = "Projeto da IA"
	DefaultCategory      = model.CategoryPersonal
	DefaultMeetingTitle  = "Nova Reunião"
	DefaultHour          = 14
	DefaultMinute        = 0
	DefaultDuration      = 60
)

type Command struct {
	Type    Kind           `json:"type"`
	Project *ProjectParams `json:"project,omitempty"`
	Meeting *MeetingParams `json:"meeting,omitempty"`
}

type ProjectParams struct {
	Title    string         `json:"title"`
	Category model.Category `json:"category"`
	Subtasks []string       `json:"subtasks"`
}

type MeetingParams struct {
	Title    string `json:"title"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Duration int    `json:"duration"`
}

var (
	projectAction = []string{"AÇÃO:CREATE_PROJECT", "ACAO:CREATE_PROJECT"}
	meetingAction = []string{"AÇÃO:CREATE_MEETING", "ACAO:CREATE_MEETING"}

	titleMarker    = []string{"TÍTULO:", "TITULO:"}
	categoryMarker = []string{"CATEGORIA:"}
	subtasksMarker = []string{"SUBTAREFAS:"}
	timeMarker     = []string{"HORÁRIO:", "HORARIO:"}
	durationMarker = []string{"DURAÇÃO:", "DURACAO:"}

	commandSentinels = []string{"Projeto criado", "CONTEXTO ATUAL", "🚀", "sucesso!"}

	productivityKeywords = []string{"produtividade", "análise", "analise", "desempenho"}
)

var (
	titleDisallowed  = regexp.MustCompile(`[^\p{L}\p{N}_\s\-.]`)
	categoryDisallow = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	clockPattern     = regexp.MustCompile(`(\d{1,2})(?::(\d+))?`)
	leadingInt       = regexp.MustCompile(`^[+-]?\d+`)

	fallbackProject = regexp.MustCompile(
		`(?i)T[ÍI]TULO:\s*(?P<title>.+?)CATEGORIA` +
			`(?::\s*(?P<category>.+?)SUBTAREFAS` +
			`(?::\s*(?P<subtasks>.+?)(?:Projeto|$))?)?`)
)

const (
	// timeWindow and durationWindow bound the text read after a marker when
	// the following marker is missing.
	timeWindow     = 12
	durationWindow = 12
)

// Parse detects a command in text. It returns nil when the text is plain
// conversation.
func Parse(text string) *Command {
	clean := validation.SanitizeString(text)

	switch {
	case containsAny(clean, projectAction):
		return &Command{Type: KindCreateProject, Project: parseProject(clean)}
	case containsAny(clean, meetingAction):
		return &Command{Type: KindCreateMeeting, Meeting: parseMeeting(clean)}
	}

	lower := strings.ToLower(clean)
	if containsAny(lower, productivityKeywords) {
		return &Command{Type: KindAnalyzeProductivity}
	}
	return nil
}

func parseProject(text string) *ProjectParams {
	title := locate(text, titleMarker)
	category := locate(text, categoryMarker)
	subtasks := locate(text, subtasksMarker)

	params := &ProjectParams{Title: DefaultProjectTitle, Category: DefaultCategory}

	if title.found() && category.start > title.start {
		params.Title = sanitizeTitle(slice(text, title.end, category.start))
	}
	if params.Title == "" {
		params.Title = DefaultProjectTitle
	}

	if category.found() && subtasks.start > category.start {
		params.Category = sanitizeCategory(slice(text, category.end, subtasks.start))
	}

	if subtasks.found() {
		end := len(text)
		for _, sentinel := range commandSentinels {
			if pos := strings.Index(text[subtasks.end:], sentinel); pos >= 0 && subtasks.end+pos < end {
				end = subtasks.end + pos
			}
		}
		params.Subtasks = splitSubtasks(slice(text, subtasks.end, end))
	}

	if params.Title != DefaultProjectTitle || params.Category != DefaultCategory || len(params.Subtasks) > 0 {
		return params
	}
	if fallback, ok := fallbackExtract(text); ok {
		return fallback
	}
	return params
}

// fallbackExtract matches the three project fields with a single
// case-insensitive pattern.
func fallbackExtract(text string) (*ProjectParams, bool) {
	m := fallbackProject.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	group := func(name string) string {
		return strings.TrimSpace(m[fallbackProject.SubexpIndex(name)])
	}

	title := group("title")
	if title == "" {
		return nil, false
	}

	params := &ProjectParams{
		Title:    sanitizeTitle(title),
		Category: sanitizeCategory(group("category")),
		Subtasks: splitSubtasks(group("subtasks")),
	}
	if params.Title == "" {
		params.Title = FallbackProjectTitle
	}
	return params, true
}

func parseMeeting(text string) *MeetingParams {
	title := locate(text, titleMarker)
	clock := locate(text, timeMarker)
	duration := locate(text, durationMarker)

	params := &MeetingParams{
		Title:    DefaultMeetingTitle,
		Hour:     DefaultHour,
		Minute:   DefaultMinute,
		Duration: DefaultDuration,
	}

	if title.found() && clock.start > title.start {
		if t := strings.TrimSpace(slice(text, title.end, clock.start)); t != "" {
			params.Title = t
		}
	}

	if clock.found() {
		end := clock.end + timeWindow
		if duration.start > clock.start {
			end = duration.start
		}
		params.Hour, params.Minute = parseClock(slice(text, clock.end, end))
	}

	if duration.found() {
		raw := strings.TrimSpace(slice(text, duration.end, duration.end+durationWindow))
		if n, err := strconv.Atoi(leadingInt.FindString(raw)); err == nil && n > 0 {
			params.Duration = n
		}
	}

	return params
}

// parseClock reads H:MM or HH:MM. Each component falls back to its default on
// its own, so "9:5" yields 9:00.
func parseClock(s string) (hour, minute int) {
	hour, minute = DefaultHour, DefaultMinute

	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return hour, minute
	}
	if h, err := strconv.Atoi(m[1]); err == nil && h >= 0 && h <= 23 {
		hour = h
	}
	if len(m[2]) == 2 {
		if mm, err := strconv.Atoi(m[2]); err == nil && mm < 60 {
			minute = mm
		}
	}
	return hour, minute
}

type field struct {
	start int
	end   int
}

// locate finds the earliest occurrence of any spelling of a marker.
func locate(text string, spellings []string) field {
	f := field{start: -1}
	for _, spelling := range spellings {
		if pos := strings.Index(text, spelling); pos >= 0 && (f.start < 0 || pos < f.start) {
			f.start = pos
			f.end = pos + len(spelling)
		}
	}
	return f
}

func (f field) found() bool {
	return f.start >= 0
}

// slice returns text[from:to] clamped to the string and to rune boundaries.
func slice(text string, from, to int) string {
	if to > len(text) {
		to = len(text)
	}
	if from < 0 {
		from = 0
	}
	for to > from && to < len(text) && !utf8.RuneStart(text[to]) {
		to--
	}
	if from >= to {
		return ""
	}
	return text[from:to]
}

func sanitizeTitle(s string) string {
	return strings.TrimSpace(titleDisallowed.ReplaceAllString(strings.TrimSpace(s), ""))
}

func sanitizeCategory(s string) model.Category {
	category := model.Category(strings.ToLower(categoryDisallow.ReplaceAllString(s, "")))
	if !category.Valid() {
		return DefaultCategory
	}
	return category
}

func splitSubtasks(s string) []string {
	var subtasks []string
	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			subtasks = append(subtasks, part)
		}
	}
	return subtasks
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
