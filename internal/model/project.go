package model

import (
	"math"
	"time"
)

type ProjectStatus string

const (
	ProjectNotStarted ProjectStatus = "nao_iniciado"
	ProjectInProgress ProjectStatus = "em_andamento"
	ProjectDone       ProjectStatus = "concluido"
)

// DeadlineLayout is the calendar-date format used for project deadlines.
const DeadlineLayout = "2006-01-02"

type Subtask struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Project owns its subtasks. Status and Progress are derived from them and
// are only written by Recalculate.
type Project struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Category    Category      `json:"category"`
	Deadline    string        `json:"deadline"`
	Status      ProjectStatus `json:"status"`
	Progress    int           `json:"progress"`
	Description string        `json:"description"`
	Subtasks    []Subtask     `json:"subtasks"`
	Expanded    bool          `json:"expanded"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type NewProject struct {
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Deadline    string   `json:"deadline"`
	Description string   `json:"description"`
}

// ProjectUpdate carries the user-editable fields of a project. Nil fields are
// left untouched.
type ProjectUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Deadline    *string   `json:"deadline,omitempty"`
	Description *string   `json:"description,omitempty"`
}

// Recalculate refreshes the derived progress and status fields.
func (p *Project) Recalculate() {
	p.Progress = SubtaskProgress(p.Subtasks)
	p.Status = StatusForProgress(p.Progress)
}

func SubtaskProgress(subtasks []Subtask) int {
	if len(subtasks) == 0 {
		return 0
	}
	completed := 0
	for _, subtask := range subtasks {
		if subtask.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(subtasks)) * 100))
}

func StatusForProgress(progress int) ProjectStatus {
	switch progress {
	case 0:
		return ProjectNotStarted
	case 100:
		return ProjectDone
	default:
		return ProjectInProgress
	}
}
