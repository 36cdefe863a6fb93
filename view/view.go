// Package view derives the grouped, filtered task display from the
// canonical task list. It performs no I/O and never mutates its input.
package view

import (
	"time"

	"github.com/amonks/taskday/task"
)

// DefaultDateLayout renders group labels like "Monday, 1 January 2024".
const DefaultDateLayout = "Monday, 2 January 2006"

// Options configures a projection.
type Options struct {
	// DateLayout is a time.Format layout for group labels.
	// Empty selects DefaultDateLayout.
	DateLayout string
}

// Group is the tasks created on one calendar day.
type Group struct {
	Label string
	Day   Day
	Tasks []task.Task
}

// Project filters tasks by f and groups the survivors by creation day.
//
// Days are computed in now's location. Tasks keep their list order within
// a group and groups are ordered by their first member. A nil filter is
// treated as NoFilter. The result is never nil.
func Project(tasks []task.Task, f Filter, now time.Time, opts Options) []Group {
	if f == nil {
		f = NoFilter{}
	}
	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	loc := now.Location()
	today := DayOf(now, loc)
	w := window{
		loc:      loc,
		today:    today,
		tomorrow: today.AddDays(1),
	}

	groups := []Group{}
	index := make(map[Day]int)
	for _, t := range tasks {
		if !f.keep(t, w) {
			continue
		}
		day := DayOf(t.CreatedAt, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, Group{Label: day.Format(layout, loc), Day: day})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// Count returns the number of tasks across groups.
func Count(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += len(g.Tasks)
	}
	return total
}

// Flatten returns the tasks of groups in display order.
func Flatten(groups []Group) []task.Task {
	tasks := make([]task.Task, 0, Count(groups))
	for _, g := range groups {
		tasks = append(tasks, g.Tasks...)
	}
	return tasks
}
