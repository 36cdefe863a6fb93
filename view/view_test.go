package view

import (
	"errors"
	"testing"
	"time"

	"github.com/amonks/taskday/task"
)

func at(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

func newTask(id string, priority task.Priority, created time.Time, completed bool) task.Task {
	t := task.Task{ID: id, Title: id, Priority: priority, CreatedAt: created, Completed: completed}
	if completed {
		done := created.Add(time.Hour)
		t.CompletedAt = &done
	}
	return t
}

func ids(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProjectPriorityScenario(t *testing.T) {
	tasks := []task.Task{
		newTask("A", task.PriorityHigh, at(2024, 1, 1, 9), false),
		newTask("B", task.PriorityNormal, at(2024, 1, 1, 10), false),
	}

	groups := Project(tasks, PriorityFilter{Priority: PriorityHigh}, at(2024, 1, 5, 12), Options{})
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Label != "Monday, 1 January 2024" {
		t.Fatalf("unexpected label %q", groups[0].Label)
	}
	if got := ids(groups[0].Tasks); !equalStrings(got, []string{"A"}) {
		t.Fatalf("expected [A], got %v", got)
	}
}

func TestProjectEmpty(t *testing.T) {
	groups := Project(nil, NoFilter{}, at(2024, 1, 1, 0), Options{})
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", groups)
	}

	tasks := []task.Task{newTask("A", task.PriorityNormal, at(2024, 1, 1, 9), false)}
	groups = Project(tasks, PriorityFilter{Priority: PriorityHigh}, at(2024, 1, 1, 9), Options{})
	if len(groups) != 0 {
		t.Fatalf("expected no groups when nothing matches, got %d", len(groups))
	}
}

func TestProjectGroupsByFirstAppearance(t *testing.T) {
	tasks := []task.Task{
		newTask("c", task.PriorityNormal, at(2024, 1, 3, 9), false),
		newTask("a1", task.PriorityNormal, at(2024, 1, 1, 9), false),
		newTask("c2", task.PriorityNormal, at(2024, 1, 3, 8), false),
		newTask("b", task.PriorityNormal, at(2024, 1, 2, 9), false),
		newTask("a2", task.PriorityNormal, at(2024, 1, 1, 7), false),
	}

	groups := Project(tasks, nil, at(2024, 1, 3, 12), Options{})

	wantLabels := []string{"Wednesday, 3 January 2024", "Monday, 1 January 2024", "Tuesday, 2 January 2024"}
	var labels []string
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	if !equalStrings(labels, wantLabels) {
		t.Fatalf("expected %v, got %v", wantLabels, labels)
	}
	if got := ids(groups[0].Tasks); !equalStrings(got, []string{"c", "c2"}) {
		t.Fatalf("expected list order within group, got %v", got)
	}
	if got := ids(groups[1].Tasks); !equalStrings(got, []string{"a1", "a2"}) {
		t.Fatalf("expected list order within group, got %v", got)
	}
}

func TestProjectCountsSumToInput(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < 20; i++ {
		created := at(2024, 1, 1+i%4, i%24)
		tasks = append(tasks, newTask(string(rune('a'+i)), task.PriorityNormal, created, i%3 == 0))
	}

	groups := Project(tasks, NoFilter{}, at(2024, 1, 10, 0), Options{})
	if Count(groups) != len(tasks) {
		t.Fatalf("expected %d tasks across groups, got %d", len(tasks), Count(groups))
	}

	seen := make(map[string]int)
	for _, task := range Flatten(groups) {
		seen[task.ID]++
	}
	for _, task := range tasks {
		if seen[task.ID] != 1 {
			t.Fatalf("task %s appears %d times", task.ID, seen[task.ID])
		}
	}
}

func TestProjectStatusFiltersPartition(t *testing.T) {
	tasks := []task.Task{
		newTask("a", task.PriorityNormal, at(2024, 1, 1, 9), true),
		newTask("b", task.PriorityHigh, at(2024, 1, 1, 10), false),
		newTask("c", task.PriorityNormal, at(2024, 1, 2, 9), true),
		newTask("d", task.PriorityNormal, at(2024, 1, 3, 9), false),
	}
	now := at(2024, 1, 3, 12)

	done := Flatten(Project(tasks, StatusFilter{Status: StatusCompleted}, now, Options{}))
	open := Flatten(Project(tasks, StatusFilter{Status: StatusUncompleted}, now, Options{}))
	all := Flatten(Project(tasks, StatusFilter{Status: StatusAll}, now, Options{}))

	union := make(map[string]bool)
	for _, item := range done {
		union[item.ID] = true
	}
	for _, task := range open {
		if union[task.ID] {
			t.Fatalf("task %s in both completed and uncompleted views", task.ID)
		}
		union[task.ID] = true
	}
	if len(union) != len(all) || len(all) != len(tasks) {
		t.Fatalf("expected union of %d tasks, got %d (all=%d)", len(tasks), len(union), len(all))
	}
	for _, task := range done {
		if !task.Completed {
			t.Fatalf("open task %s in completed view", task.ID)
		}
	}
}

func TestProjectDateFilter(t *testing.T) {
	now := at(2024, 1, 31, 23)
	tasks := []task.Task{
		newTask("today", task.PriorityNormal, at(2024, 1, 31, 1), false),
		newTask("tomorrow", task.PriorityNormal, at(2024, 2, 1, 8), false),
		newTask("yesterday", task.PriorityNormal, at(2024, 1, 30, 22), false),
	}

	tests := []struct {
		value DateValue
		want  []string
	}{
		{value: DateToday, want: []string{"today"}},
		{value: DateTomorrow, want: []string{"tomorrow"}},
		{value: DateAll, want: []string{"today", "tomorrow", "yesterday"}},
	}

	for _, tt := range tests {
		got := ids(Flatten(Project(tasks, DateFilter{Date: tt.value}, now, Options{})))
		if !equalStrings(got, tt.want) {
			t.Fatalf("date=%s: expected %v, got %v", tt.value, tt.want, got)
		}
	}
}

func TestProjectUsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC on 2 January is 21:00 on 1 January in UTC-5.
	tasks := []task.Task{newTask("late", task.PriorityNormal, at(2024, 1, 2, 2), false)}
	now := time.Date(2024, 1, 1, 22, 0, 0, 0, loc)

	groups := Project(tasks, DateFilter{Date: DateToday}, now, Options{})
	if len(groups) != 1 {
		t.Fatalf("expected task to count as today in %s, got %d groups", loc, len(groups))
	}
	if groups[0].Label != "Monday, 1 January 2024" {
		t.Fatalf("unexpected label %q", groups[0].Label)
	}
}

func TestProjectCustomLayout(t *testing.T) {
	tasks := []task.Task{newTask("a", task.PriorityNormal, at(2024, 1, 1, 9), false)}
	groups := Project(tasks, NoFilter{}, at(2024, 1, 1, 9), Options{DateLayout: "2006-01-02"})
	if groups[0].Label != "2024-01-01" {
		t.Fatalf("unexpected label %q", groups[0].Label)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	tasks := []task.Task{
		newTask("a", task.PriorityNormal, at(2024, 1, 1, 9), false),
		newTask("b", task.PriorityHigh, at(2024, 1, 2, 9), false),
	}
	before := ids(tasks)

	groups := Project(tasks, PriorityFilter{Priority: PriorityHigh}, at(2024, 1, 2, 9), Options{})
	groups[0].Tasks[0].Title = "changed"

	if !equalStrings(ids(tasks), before) {
		t.Fatalf("input reordered: %v", ids(tasks))
	}
}

func TestDayAddDaysCrossesMonth(t *testing.T) {
	today := Day{Year: 2024, Month: time.February, Day: 29}
	tomorrow := today.AddDays(1)

	if today != (Day{Year: 2024, Month: time.February, Day: 29}) {
		t.Fatalf("today changed: %v", today)
	}
	if tomorrow.String() != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", tomorrow)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		axis, value string
		want        Filter
		wantErr     bool
	}{
		{axis: "", value: "", want: NoFilter{}},
		{axis: "none", value: "", want: NoFilter{}},
		{axis: "priority", value: "HIGH", want: PriorityFilter{Priority: PriorityHigh}},
		{axis: "priority", value: "", want: PriorityFilter{Priority: PriorityAll}},
		{axis: "date", value: "tomorrow", want: DateFilter{Date: DateTomorrow}},
		{axis: "status", value: "incomplete", want: StatusFilter{Status: StatusUncompleted}},
		{axis: "status", value: "completed", want: StatusFilter{Status: StatusCompleted}},
		{axis: "priority", value: "low", wantErr: true},
		{axis: "colour", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFilter(tt.axis, tt.value)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFilter) {
				t.Fatalf("%s=%s: expected ErrInvalidFilter, got %v", tt.axis, tt.value, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s=%s: %v", tt.axis, tt.value, err)
		}
		if got != tt.want {
			t.Fatalf("%s=%s: expected %#v, got %#v", tt.axis, tt.value, tt.want, got)
		}
	}
}

func TestFilterString(t *testing.T) {
	if got := (NoFilter{}).String(); got != "none" {
		t.Fatalf("unexpected %q", got)
	}
	if got := (StatusFilter{Status: StatusCompleted}).String(); got != "status=completed" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestZeroValueFiltersKeepEverything(t *testing.T) {
	tasks := []task.Task{
		newTask("A", task.PriorityHigh, at(2024, 1, 1, 9), false),
		newTask("B", task.PriorityNormal, at(2024, 1, 2, 9), true),
	}
	now := at(2024, 1, 5, 12)

	filters := []Filter{
		PriorityFilter{},
		PriorityFilter{Priority: "urgent"},
		DateFilter{},
		StatusFilter{},
	}
	for _, f := range filters {
		if got := Count(Project(tasks, f, now, Options{})); got != len(tasks) {
			t.Errorf("%#v kept %d tasks, want %d", f, got, len(tasks))
		}
	}
}
