// Package task implements the canonical task list for the signed-in user.
//
// Tasks live under a single key of a kv.Store as a JSON array ordered
// newest first. Every mutation rewrites the whole array in one write.
//
// The public API mirrors the CLI commands:
//   - Add, ToggleComplete, Edit, Remove for mutations
//   - LoadAll, Find, Resolve for reads
package task

import (
	"fmt"

	internalstrings "github.com/amonks/taskday/internal/strings"
)

// Priority is the importance of a task.
type Priority string

const (
	// PriorityNormal is the default priority.
	PriorityNormal Priority = "normal"

	// PriorityHigh marks a task as urgent.
	PriorityHigh Priority = "high"
)

// ValidPriorities returns all valid priority values.
func ValidPriorities() []Priority {
	return []Priority{PriorityNormal, PriorityHigh}
}

// IsValid returns true if the priority is a known value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// ParsePriority normalizes user input. The empty string selects PriorityNormal.
func ParsePriority(value string) (Priority, error) {
	normalized := Priority(internalstrings.NormalizeLowerTrimSpace(value))
	if normalized == "" {
		return PriorityNormal, nil
	}
	if !normalized.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, value)
	}
	return normalized, nil
}

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500
