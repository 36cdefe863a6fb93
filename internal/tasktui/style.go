package tasktui

import "github.com/charmbracelet/lipgloss"

var (
	borderASCII = lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	titleBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true).Padding(0, 1)
	helpBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))

	headingStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	rowStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	rowSelectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	rowDoneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	highPriorityStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	labelStyle         = lipgloss.NewStyle().Bold(true)
	valueMuted         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueActive        = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	statusErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	modalStyle         = lipgloss.NewStyle().Border(borderASCII).Padding(1, 2)
)
