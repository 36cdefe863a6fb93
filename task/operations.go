package task

import (
	"fmt"

	"github.com/amonks/taskday/internal/kv"
)

// Add creates a task and places it at the front of the list.
// An empty priority selects PriorityNormal.
// An empty title after trimming returns ErrEmptyTitle and writes nothing.
func (s *Store) Add(title string, priority Priority) (*Task, error) {
	title = NormalizeTitle(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	if priority == "" {
		priority = PriorityNormal
	}
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}

	var created Task
	err := s.update(func(tasks []Task) ([]Task, error) {
		now := s.now()
		created = Task{
			ID:        GenerateID(title, now, tasks),
			Title:     title,
			Priority:  priority,
			CreatedAt: now,
		}

		updated := make([]Task, 0, len(tasks)+1)
		updated = append(updated, created)
		return append(updated, tasks...), nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ToggleComplete flips the completion flag of the task with id.
// Completing stamps completedAt and reopening clears it.
// An unknown id returns (nil, nil) and writes nothing.
func (s *Store) ToggleComplete(id string) (*Task, error) {
	var toggled *Task
	err := s.update(func(tasks []Task) ([]Task, error) {
		i := findIndex(tasks, id)
		if i < 0 {
			return nil, kv.ErrNoChange
		}

		t := &tasks[i]
		t.Completed = !t.Completed
		if t.Completed {
			now := s.now()
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}

		result := *t
		toggled = &result
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// Edit replaces the title of the task with id.
// An empty title after trimming returns ErrEmptyTitle and writes nothing.
// An unknown id returns (nil, nil) and writes nothing.
func (s *Store) Edit(id, title string) (*Task, error) {
	title = NormalizeTitle(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	var edited *Task
	err := s.update(func(tasks []Task) ([]Task, error) {
		i := findIndex(tasks, id)
		if i < 0 {
			return nil, kv.ErrNoChange
		}

		tasks[i].Title = title
		result := tasks[i]
		edited = &result
		return tasks, nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// Remove deletes the task with id and reports whether it existed.
// An unknown id writes nothing.
func (s *Store) Remove(id string) (bool, error) {
	removed := false
	err := s.update(func(tasks []Task) ([]Task, error) {
		i := findIndex(tasks, id)
		if i < 0 {
			return nil, kv.ErrNoChange
		}

		remaining := make([]Task, 0, len(tasks)-1)
		remaining = append(remaining, tasks[:i]...)
		remaining = append(remaining, tasks[i+1:]...)
		removed = true
		return remaining, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// LoadAll returns the stored list, newest first.
func (s *Store) LoadAll() ([]Task, error) {
	return s.readTasks()
}

// Find returns the task with the exact id, or nil when absent.
func (s *Store) Find(id string) (*Task, error) {
	tasks, err := s.readTasks()
	if err != nil {
		return nil, err
	}
	i := findIndex(tasks, id)
	if i < 0 {
		return nil, nil
	}
	found := tasks[i]
	return &found, nil
}

// Resolve maps an ID prefix to a full task ID.
func (s *Store) Resolve(prefix string) (string, error) {
	tasks, err := s.readTasks()
	if err != nil {
		return "", err
	}
	id, err := NewIDIndex(tasks).Resolve(prefix)
	if err != nil {
		return "", fmt.Errorf("resolve task: %w", err)
	}
	return id, nil
}
