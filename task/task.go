package task

import "time"

// Task is a single entry in the task list.
type Task struct {
	// ID is a unique identifier (8-char base32, derived from title + creation time).
	ID string `json:"id"`

	// Title is the trimmed, non-empty summary (max 500 bytes).
	Title string `json:"title"`

	// Completed reports whether the task has been checked off.
	Completed bool `json:"completed"`

	// Priority is fixed at creation.
	Priority Priority `json:"priority"`

	// CreatedAt is when the task was added. It never changes.
	CreatedAt time.Time `json:"createdAt"`

	// CompletedAt is when the task was last checked off (nil while open).
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// CanEdit reports whether a presentation should offer editing the task.
// Completed tasks are read-only until reopened.
func CanEdit(t Task) bool {
	return !t.Completed
}

// CheckEditable returns ErrTaskCompleted when t cannot be edited.
func CheckEditable(t Task) error {
	if !CanEdit(t) {
		return ErrTaskCompleted
	}
	return nil
}
