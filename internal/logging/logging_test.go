package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: DefaultLevel},
		{input: "debug", want: slog.LevelDebug},
		{input: " INFO ", want: slog.LevelInfo},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", want: DefaultLevel, wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "key", "tasks")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Fatalf("expected info record to be filtered, got %q", output)
	}
	if !strings.Contains(output, "shown") || !strings.Contains(output, "key=tasks") {
		t.Fatalf("expected warn record with attrs, got %q", output)
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("expected a logger")
	}
	logger := New(&bytes.Buffer{}, slog.LevelInfo)
	if OrDiscard(logger) != logger {
		t.Fatal("expected the given logger to be returned")
	}
}
