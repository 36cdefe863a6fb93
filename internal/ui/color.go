package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode controls whether styled output emits ANSI sequences.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color mode. The empty string selects ColorAuto.
func ParseColorMode(value string) (ColorMode, error) {
	mode := ColorMode(strings.ToLower(strings.TrimSpace(value)))
	switch mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown color mode %q", value)
	}
}

// ColorEnabled reports whether output to w should be styled.
// Auto honors NO_COLOR and TERM=dumb and requires w to be a terminal.
func ColorEnabled(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	file, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Palette holds the styles used for task output on one writer.
type Palette struct {
	enabled bool

	idPrefix lipgloss.Style
	heading  lipgloss.Style
	done     lipgloss.Style
	high     lipgloss.Style
	muted    lipgloss.Style
}

// NewPalette returns a palette that styles output to w according to mode.
func NewPalette(w io.Writer, mode ColorMode) *Palette {
	enabled := ColorEnabled(mode, w)

	renderer := lipgloss.NewRenderer(w)
	if enabled {
		if renderer.ColorProfile() == termenv.Ascii {
			renderer.SetColorProfile(termenv.ANSI)
		}
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Palette{
		enabled:  enabled,
		idPrefix: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		heading:  renderer.NewStyle().Bold(true).Underline(true),
		done:     renderer.NewStyle().Strikethrough(true).Faint(true),
		high:     renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		muted:    renderer.NewStyle().Faint(true),
	}
}

// PlainPalette returns a palette that never styles.
func PlainPalette() *Palette {
	return NewPalette(io.Discard, ColorNever)
}

// Enabled reports whether the palette emits ANSI sequences.
func (p *Palette) Enabled() bool {
	return p.enabled
}

// HighlightID returns an ID with its unique prefix highlighted.
func (p *Palette) HighlightID(id string, prefixLen int) string {
	if id == "" || !p.enabled {
		return id
	}
	if prefixLen <= 0 || prefixLen > len(id) {
		return id
	}
	return p.idPrefix.Render(id[:prefixLen]) + id[prefixLen:]
}

// Heading styles a group label.
func (p *Palette) Heading(value string) string {
	return p.render(p.heading, value)
}

// Completed styles the title of a completed task.
func (p *Palette) Completed(value string) string {
	return p.render(p.done, value)
}

// High styles a high-priority marker.
func (p *Palette) High(value string) string {
	return p.render(p.high, value)
}

// Muted styles secondary text.
func (p *Palette) Muted(value string) string {
	return p.render(p.muted, value)
}

func (p *Palette) render(style lipgloss.Style, value string) string {
	if !p.enabled || value == "" {
		return value
	}
	return style.Render(value)
}

// PrefixLength looks up an ID's unique prefix length case-insensitively.
func PrefixLength(lengths map[string]int, id string) int {
	if lengths == nil || id == "" {
		return 0
	}
	return lengths[strings.ToLower(id)]
}
