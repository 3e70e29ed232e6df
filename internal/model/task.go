package model

import "time"

type Category string

const (
	CategoryWork     Category = "trabalho"
	CategorySchool   Category = "faculdade"
	CategoryPersonal Category = "pessoal"
)

var Categories = []Category{CategoryWork, CategorySchool, CategoryPersonal}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Task struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Type        Category   `json:"type"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type NewTask struct {
	Text     string   `json:"text"`
	Type     Category `json:"type"`
	Priority Priority `json:"priority,omitempty"`
}
