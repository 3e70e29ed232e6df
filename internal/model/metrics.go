package model

type Metrics struct {
	TasksCompleted   int `json:"tasksCompleted"`
	TasksPlanned     int `json:"tasksPlanned"`
	PomodoroSessions int `json:"pomodoroSessions"`
	FocusTime        int `json:"focusTime"`
	ProjectsActive   int `json:"projectsActive"`
	MeetingsToday    int `json:"meetingsToday"`
	MeetingsThisWeek int `json:"meetingsThisWeek"`
}
