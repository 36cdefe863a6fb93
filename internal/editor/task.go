package editor

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"github.com/BurntSushi/toml"

	"github.com/amonks/taskday/task"
)

// Draft is the editable form of a task.
type Draft struct {
	// IsUpdate hides the priority line; edits only change the title.
	IsUpdate bool
	ID       string
	Title    string
	Priority task.Priority
}

// NewDraft returns the draft for a new task.
func NewDraft() Draft {
	return Draft{Priority: task.PriorityNormal}
}

// DraftFromTask returns the draft for retitling t.
func DraftFromTask(t task.Task) Draft {
	return Draft{IsUpdate: true, ID: t.ID, Title: t.Title, Priority: t.Priority}
}

var draftTemplate = template.Must(template.New("task").Parse(`{{- if .IsUpdate }}# editing {{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
{{- if not .IsUpdate }}
priority = {{ printf "%q" .Priority }} # normal, high
{{- end }}
`))

// Render writes the draft as TOML.
func Render(draft Draft) (string, error) {
	var buf bytes.Buffer
	if err := draftTemplate.Execute(&buf, draft); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// Parsed is a validated draft read back from the editor.
type Parsed struct {
	Title    string        `toml:"title"`
	Priority task.Priority `toml:"priority"`
}

// Parse decodes and validates an edited draft.
func Parse(content string) (*Parsed, error) {
	var parsed Parsed
	if _, err := toml.Decode(content, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}

	parsed.Title = task.NormalizeTitle(parsed.Title)
	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	priority, err := task.ParsePriority(string(parsed.Priority))
	if err != nil {
		return nil, err
	}
	parsed.Priority = priority
	return &parsed, nil
}

// EditDraft opens the draft in the editor and returns the parsed result.
func EditDraft(draft Draft) (*Parsed, error) {
	content, err := Render(draft)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "td-task-*.toml")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return Parse(string(edited))
}
