package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{input: "", want: ColorAuto},
		{input: "Always", want: ColorAlways},
		{input: "never", want: ColorNever},
		{input: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseColorMode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseColorMode(%q) = %q, %v", tt.input, got, err)
		}
	}
}

func TestColorEnabledAutoRequiresTerminal(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm")

	if ColorEnabled(ColorAuto, &bytes.Buffer{}) {
		t.Fatal("expected buffer output to be uncolored")
	}
	if !ColorEnabled(ColorAlways, &bytes.Buffer{}) {
		t.Fatal("expected always to force color")
	}
}

func TestColorEnabledNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if ColorEnabled(ColorAuto, &bytes.Buffer{}) {
		t.Fatal("expected NO_COLOR to disable color")
	}
}

func TestPaletteDisabledIsPlain(t *testing.T) {
	p := PlainPalette()

	if got := p.HighlightID("abcdef", 2); got != "abcdef" {
		t.Fatalf("expected plain id, got %q", got)
	}
	if got := p.Completed("done"); got != "done" {
		t.Fatalf("expected plain title, got %q", got)
	}
}

func TestPaletteAlwaysStyles(t *testing.T) {
	p := NewPalette(&bytes.Buffer{}, ColorAlways)

	got := p.HighlightID("abcdef", 2)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI sequence, got %q", got)
	}
	if !strings.HasSuffix(got, "cdef") {
		t.Fatalf("expected unstyled suffix, got %q", got)
	}
	if displayWidth(got) != len("abcdef") {
		t.Fatalf("expected visible width 6, got %d", displayWidth(got))
	}
	if got := p.HighlightID("abcdef", 0); got != "abcdef" {
		t.Fatalf("expected no highlight without prefix, got %q", got)
	}
}

func TestPrefixLength(t *testing.T) {
	tests := []struct {
		name   string
		length map[string]int
		id     string
		want   int
	}{
		{name: "case insensitive lookup", length: map[string]int{"abc123": 4}, id: "ABC123", want: 4},
		{name: "missing id", length: map[string]int{"abc123": 4}, id: "", want: 0},
		{name: "nil map", length: nil, id: "ABC123", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PrefixLength(tt.length, tt.id); got != tt.want {
				t.Fatalf("PrefixLength() = %d, want %d", got, tt.want)
			}
		})
	}
}
