package task

import (
	"errors"
	"testing"
	"time"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    Priority
		wantErr bool
	}{
		{input: "", want: PriorityNormal},
		{input: "normal", want: PriorityNormal},
		{input: " HIGH ", want: PriorityHigh},
		{input: "low", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidPriority) {
				t.Fatalf("parse %q: expected ErrInvalidPriority, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parse %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("parse %q: expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestValidateTask(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	valid := func() Task {
		return Task{ID: "abcd1234", Title: "ok", Priority: PriorityNormal, CreatedAt: now}
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{name: "valid", mutate: func(*Task) {}},
		{name: "missing id", mutate: func(t *Task) { t.ID = "" }, wantErr: ErrMissingID},
		{name: "empty title", mutate: func(t *Task) { t.Title = "" }, wantErr: ErrEmptyTitle},
		{name: "bad priority", mutate: func(t *Task) { t.Priority = "meh" }, wantErr: ErrInvalidPriority},
		{name: "missing createdAt", mutate: func(t *Task) { t.CreatedAt = time.Time{} }, wantErr: ErrMissingCreatedAt},
		{name: "completed without completedAt", mutate: func(t *Task) { t.Completed = true }, wantErr: ErrCompletedMissingCompletedAt},
		{name: "open with completedAt", mutate: func(t *Task) { t.CompletedAt = &now }, wantErr: ErrOpenTaskHasCompletedAt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := valid()
			tt.mutate(&task)
			err := ValidateTask(&task)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateTaskRejectsUntrimmedTitle(t *testing.T) {
	task := Task{ID: "abcd1234", Title: " padded", Priority: PriorityNormal, CreatedAt: time.Now()}
	if err := ValidateTask(&task); err == nil {
		t.Fatal("expected error for untrimmed title")
	}
}

func TestValidateListRejectsDuplicateIDs(t *testing.T) {
	now := time.Now()
	tasks := []Task{
		{ID: "same", Title: "a", Priority: PriorityNormal, CreatedAt: now},
		{ID: "same", Title: "b", Priority: PriorityNormal, CreatedAt: now},
	}
	if err := ValidateList(tasks); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestCanEdit(t *testing.T) {
	if !CanEdit(Task{}) {
		t.Fatal("expected open task to be editable")
	}
	done := Task{Completed: true}
	if CanEdit(done) {
		t.Fatal("expected completed task to be read-only")
	}
	if !errors.Is(CheckEditable(done), ErrTaskCompleted) {
		t.Fatal("expected ErrTaskCompleted")
	}
}

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"  padded  ":        "padded",
		"two\nlines":        "two lines",
		"tabs\tand  spaces": "tabs and spaces",
		"\r\n\t ":           "",
	}
	for input, want := range cases {
		if got := NormalizeTitle(input); got != want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", input, got, want)
		}
	}
}
