package store

import (
	"context"
	"strings"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

func (s *Store) Projects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProjects(s.projects)
}

func (s *Store) AddProject(ctx context.Context, in model.NewProject) (model.Project, error) {
	var project model.Project
	err := s.mutate(ctx, func(now time.Time) ([]string, error) {
		if err := validation.ValidateProject(in, now.In(s.loc)).Err(); err != nil {
			return nil, err
		}
		deadline, _ := validation.ParseDeadline(in.Deadline, s.loc)
		project = model.Project{
			ID:          s.nextIDLocked(now),
			Title:       strings.TrimSpace(in.Title),
			Category:    in.Category,
			Deadline:    deadline.Format(model.DeadlineLayout),
			Description: strings.TrimSpace(in.Description),
			Subtasks:    []model.Subtask{},
			Expanded:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		project.Recalculate()
		s.projects = append(cloneProjects(s.projects), project)
		return []string{persistence.KeyProjects}, nil
	})
	return project, err
}

// UpdateProject applies the user-editable fields. Status and progress are not
// part of the update and stay derived from the subtasks.
func (s *Store) UpdateProject(ctx context.Context, id int64, update model.ProjectUpdate) (model.Project, bool) {
	return s.updateProject(ctx, id, func(p *model.Project, now time.Time) bool {
		if update.Title != nil {
			p.Title = strings.TrimSpace(*update.Title)
		}
		if update.Category != nil {
			p.Category = *update.Category
		}
		if update.Deadline != nil {
			p.Deadline = strings.TrimSpace(*update.Deadline)
			if deadline, ok := validation.ParseDeadline(*update.Deadline, s.loc); ok {
				p.Deadline = deadline.Format(model.DeadlineLayout)
			}
		}
		if update.Description != nil {
			p.Description = *update.Description
		}
		p.UpdatedAt = now
		return true
	})
}

func (s *Store) DeleteProject(ctx context.Context, id int64) bool {
	var found bool
	s.mutate(ctx, func(time.Time) ([]string, error) {
		projects := make([]model.Project, 0, len(s.projects))
		for _, project := range s.projects {
			if project.ID == id {
				found = true
				continue
			}
			projects = append(projects, project)
		}
		if !found {
			return nil, nil
		}
		s.projects = projects
		return []string{persistence.KeyProjects}, nil
	})
	return found
}

func (s *Store) ToggleProjectExpanded(ctx context.Context, id int64) (model.Project, bool) {
	return s.updateProject(ctx, id, func(p *model.Project, _ time.Time) bool {
		p.Expanded = !p.Expanded
		return true
	})
}

// AddSubtask reports found=false when the project does not exist.
func (s *Store) AddSubtask(ctx context.Context, projectID int64, text string) (model.Subtask, bool, error) {
	if err := validation.ValidateSubtask(text).Err(); err != nil {
		return model.Subtask{}, false, err
	}

	var subtask model.Subtask
	_, found := s.updateProject(ctx, projectID, func(p *model.Project, now time.Time) bool {
		subtask = model.Subtask{
			ID:        s.nextIDLocked(now),
			Text:      strings.TrimSpace(text),
			CreatedAt: now,
		}
		p.Subtasks = append(p.Subtasks, subtask)
		p.UpdatedAt = now
		return true
	})
	return subtask, found, nil
}

func (s *Store) ToggleSubtask(ctx context.Context, projectID, subtaskID int64) (model.Project, bool) {
	return s.updateProject(ctx, projectID, func(p *model.Project, now time.Time) bool {
		for i := range p.Subtasks {
			if p.Subtasks[i].ID != subtaskID {
				continue
			}
			p.Subtasks[i].Completed = !p.Subtasks[i].Completed
			if p.Subtasks[i].Completed {
				p.Subtasks[i].CompletedAt = timePtr(now)
			} else {
				p.Subtasks[i].CompletedAt = nil
			}
			p.UpdatedAt = now
			return true
		}
		return false
	})
}

func (s *Store) DeleteSubtask(ctx context.Context, projectID, subtaskID int64) (model.Project, bool) {
	return s.updateProject(ctx, projectID, func(p *model.Project, now time.Time) bool {
		subtasks := make([]model.Subtask, 0, len(p.Subtasks))
		for _, subtask := range p.Subtasks {
			if subtask.ID != subtaskID {
				subtasks = append(subtasks, subtask)
			}
		}
		if len(subtasks) == len(p.Subtasks) {
			return false
		}
		p.Subtasks = subtasks
		p.UpdatedAt = now
		return true
	})
}

// updateProject applies change to a copy of the project and commits it when
// change reports a modification. Derived fields are recalculated on every
// commit.
func (s *Store) updateProject(ctx context.Context, id int64, change func(p *model.Project, now time.Time) bool) (model.Project, bool) {
	var project model.Project
	var changed bool
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		projects := cloneProjects(s.projects)
		for i := range projects {
			if projects[i].ID != id {
				continue
			}
			if !change(&projects[i], now) {
				return nil, nil
			}
			projects[i].Recalculate()
			project, changed = cloneProject(projects[i]), true
			s.projects = projects
			return []string{persistence.KeyProjects}, nil
		}
		return nil, nil
	})
	return project, changed
}
