// Package age computes the elapsed times shown next to tasks.
package age

import "time"

// AgeData returns how long before now then was. Future times clamp to zero.
// ok is false when then is unset.
func AgeData(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	return clamp(now.Sub(then)), true
}

// DurationData returns how long a task stayed open before it was completed.
// ok is false for open tasks.
func DurationData(createdAt time.Time, completedAt *time.Time) (time.Duration, bool) {
	if createdAt.IsZero() || completedAt == nil || completedAt.IsZero() {
		return 0, false
	}
	return clamp(completedAt.Sub(createdAt)), true
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
