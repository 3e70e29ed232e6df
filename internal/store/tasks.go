package store

import (
	"context"
	"strings"
	"time"

	"github.com/oliver-zyn/productivity-hub/internal/model"
	"github.com/oliver-zyn/productivity-hub/internal/persistence"
	"github.com/oliver-zyn/productivity-hub/internal/validation"
)

func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *Store) AddTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	var task model.Task
	err := s.mutate(ctx, func(now time.Time) ([]string, error) {
		if err := validation.ValidateTask(in).Err(); err != nil {
			return nil, err
		}
		priority := in.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		task = model.Task{
			ID:        s.nextIDLocked(now),
			Text:      strings.TrimSpace(in.Text),
			Type:      in.Type,
			Priority:  priority,
			CreatedAt: now,
		}
		s.tasks = append(cloneTasks(s.tasks), task)
		return []string{persistence.KeyTasks}, nil
	})
	return task, err
}

// ToggleTask flips completion and keeps CompletedAt in step with it.
func (s *Store) ToggleTask(ctx context.Context, id int64) (model.Task, bool) {
	var task model.Task
	var found bool
	s.mutate(ctx, func(now time.Time) ([]string, error) {
		tasks := cloneTasks(s.tasks)
		for i := range tasks {
			if tasks[i].ID != id {
				continue
			}
			tasks[i].Completed = !tasks[i].Completed
			if tasks[i].Completed {
				tasks[i].CompletedAt = timePtr(now)
			} else {
				tasks[i].CompletedAt = nil
			}
			task, found = tasks[i], true
		}
		if !found {
			return nil, nil
		}
		s.tasks = tasks
		return []string{persistence.KeyTasks}, nil
	})
	return task, found
}

func (s *Store) DeleteTask(ctx context.Context, id int64) bool {
	var found bool
	s.mutate(ctx, func(time.Time) ([]string, error) {
		tasks := make([]model.Task, 0, len(s.tasks))
		for _, task := range s.tasks {
			if task.ID == id {
				found = true
				continue
			}
			tasks = append(tasks, task)
		}
		if !found {
			return nil, nil
		}
		s.tasks = tasks
		return []string{persistence.KeyTasks}, nil
	})
	return found
}
