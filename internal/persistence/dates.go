package persistence

import (
	"regexp"
	"time"
)

var dateFields = map[string]struct{}{
	"createdAt":   {},
	"updatedAt":   {},
	"completedAt": {},
	"startTime":   {},
	"endTime":     {},
	"timestamp":   {},
	"lastTickAt":  {},
	"startedAt":   {},
	"endedAt":     {},
	"exportedAt":  {},
}

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?)?$`)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func IsDateField(name string) bool {
	_, ok := dateFields[name]
	return ok
}

// ParseISODate parses the ISO 8601 subset produced by JSON encoders: a
// calendar date, or a date-time with optional fraction and offset. Values
// without an offset are read as UTC.
func ParseISODate(s string) (time.Time, bool) {
	if !isoDatePattern.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// revive walks a decoded JSON tree. Strings under date fields always become
// time.Time; with loose set, any ISO-looking string does too.
func revive(node any, field string, loose bool) any {
	switch v := node.(type) {
	case string:
		if IsDateField(field) || loose {
			if t, ok := ParseISODate(v); ok {
				return t
			}
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = revive(item, "", loose)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			out[key] = revive(value, key, loose)
		}
		return out
	default:
		return v
	}
}
