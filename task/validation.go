package task

import (
	"errors"
	"fmt"

	internalstrings "github.com/amonks/taskday/internal/strings"
)

var (
	// ErrEmptyTitle is returned when a task title is empty after trimming.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidPriority is returned when a priority is not normal or high.
	ErrInvalidPriority = errors.New("priority must be normal or high")

	// ErrTaskNotFound is returned when no task matches an ID prefix.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousTaskIDPrefix is returned when an ID prefix matches multiple tasks.
	ErrAmbiguousTaskIDPrefix = errors.New("ambiguous task ID prefix")

	// ErrTaskCompleted is returned when editing a completed task is attempted.
	ErrTaskCompleted = errors.New("completed tasks cannot be edited")

	// ErrMissingID is returned when a stored task has no ID.
	ErrMissingID = errors.New("task must have an id")

	// ErrDuplicateID is returned when two stored tasks share an ID.
	ErrDuplicateID = errors.New("duplicate task id")

	// ErrMissingCreatedAt is returned when a stored task has no creation time.
	ErrMissingCreatedAt = errors.New("task must have createdAt timestamp")

	// ErrCompletedMissingCompletedAt is returned when a completed task has no completedAt.
	ErrCompletedMissingCompletedAt = errors.New("completed task must have completedAt timestamp")

	// ErrOpenTaskHasCompletedAt is returned when an open task carries completedAt.
	ErrOpenTaskHasCompletedAt = errors.New("open task cannot have completedAt timestamp")
)

// NormalizeTitle trims a title and collapses inner whitespace, line breaks
// included, to single spaces so every task renders on one line.
func NormalizeTitle(title string) string {
	return internalstrings.NormalizeWhitespace(title)
}

// ValidateTitle checks if an already normalized title is valid.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

// ValidatePriority checks if the priority is valid.
func ValidatePriority(priority Priority) error {
	if !priority.IsValid() {
		return fmt.Errorf("%w: got %q", ErrInvalidPriority, priority)
	}
	return nil
}

// ValidateTask checks a task struct against the stored-record invariants.
func ValidateTask(t *Task) error {
	if t.ID == "" {
		return ErrMissingID
	}

	if NormalizeTitle(t.Title) != t.Title {
		return fmt.Errorf("title %q is not normalized", t.Title)
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}

	if t.CreatedAt.IsZero() {
		return ErrMissingCreatedAt
	}

	if t.Completed && t.CompletedAt == nil {
		return ErrCompletedMissingCompletedAt
	}
	if !t.Completed && t.CompletedAt != nil {
		return ErrOpenTaskHasCompletedAt
	}

	return nil
}

// ValidateList checks every task plus ID uniqueness across the list.
func ValidateList(tasks []Task) error {
	seen := make(map[string]bool, len(tasks))
	for i := range tasks {
		if err := ValidateTask(&tasks[i]); err != nil {
			return fmt.Errorf("validate task %s: %w", tasks[i].ID, err)
		}
		if seen[tasks[i].ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, tasks[i].ID)
		}
		seen[tasks[i].ID] = true
	}
	return nil
}
