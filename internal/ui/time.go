package ui

import (
	"fmt"
	"time"

	internalage "github.com/amonks/taskday/internal/age"
)

// FormatTimeAgeShort returns a compact age string like "2m".
func FormatTimeAgeShort(then time.Time, now time.Time) string {
	duration, ok := internalage.AgeData(then, now)
	if !ok {
		return "-"
	}
	return FormatDurationShort(duration)
}

// FormatCompletionTime returns how long a task stayed open, or "-" when it
// is still open.
func FormatCompletionTime(createdAt time.Time, completedAt *time.Time) string {
	duration, ok := internalage.DurationData(createdAt, completedAt)
	if !ok {
		return "-"
	}
	return FormatDurationShort(duration)
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	seconds := int64(duration.Truncate(time.Second).Seconds())
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", seconds)
	case seconds < 60*60:
		return fmt.Sprintf("%dm", seconds/60)
	case seconds < 24*60*60:
		return fmt.Sprintf("%dh", seconds/(60*60))
	default:
		return fmt.Sprintf("%dd", seconds/(24*60*60))
	}
}
