// Package tasktui is the interactive terminal UI for the task list.
package tasktui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/amonks/taskday/task"
	"github.com/amonks/taskday/view"
)

// Store is the subset of task.Store the UI drives.
type Store interface {
	LoadAll() ([]task.Task, error)
	Add(title string, priority task.Priority) (*task.Task, error)
	ToggleComplete(id string) (*task.Task, error)
	Edit(id, title string) (*task.Task, error)
	Remove(id string) (bool, error)
}

// Options configures the UI.
type Options struct {
	// UserName is shown in the title bar.
	UserName string

	// DateLayout formats group headings. Empty uses view.DefaultDateLayout.
	DateLayout string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

type model struct {
	store       Store
	opts        Options
	width       int
	height      int
	tasks       []task.Task
	groups      []view.Group
	visible     []task.Task
	cursor      int
	filter      view.Filter
	filterAxis  int
	filterValue int
	overlay     overlay
	input       textinput.Model
	addPriority task.Priority
	status      string
	statusLevel statusLevel

	// mutating is set while a store mutation runs; later ones wait in
	// pending and start in order as each one reports back.
	mutating bool
	pending  []tea.Cmd
}

// Run starts the UI and blocks until the user quits.
func Run(ctx context.Context, store Store, opts Options) error {
	if store == nil {
		return errors.New("task store is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	program := tea.NewProgram(newModel(store, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(store Store, opts Options) model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DateLayout == "" {
		opts.DateLayout = view.DefaultDateLayout
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = task.MaxTitleLength

	return model{
		store:       store,
		opts:        opts,
		filter:      view.NoFilter{},
		overlay:     noOverlay(),
		input:       input,
		addPriority: task.PriorityNormal,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadTasksCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-20, 10)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tasksLoadedMsg:
		m.handleTasksLoaded(msg)
		return m, nil
	case taskChangedMsg:
		return m.handleTaskChanged(msg)
	}

	if m.overlay.capturesInput() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	// esc leaves whatever overlay is open.
	if key == "esc" {
		return m.closeOverlay(), nil
	}

	switch m.overlay.kind {
	case overlayEditing, overlayAdding:
		return m.handleInputKey(msg)
	case overlayFilterOpen:
		return m.handleFilterKey(key), nil
	case overlayHelp:
		if key == "?" || key == "q" {
			return m.closeOverlay(), nil
		}
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.overlay = overlay{kind: overlayHelp}
		return m, nil
	case "up", "k":
		return m.moveCursor(-1), nil
	case "down", "j":
		return m.moveCursor(1), nil
	case "home", "g":
		return m.moveCursor(-len(m.visible)), nil
	case "end", "G":
		return m.moveCursor(len(m.visible)), nil
	case "a", "n":
		return m.startAdding()
	case "f", "/":
		return m.openFilter(), nil
	case " ", "x":
		if current, ok := m.currentTask(); ok {
			m.overlay = selected(current.ID)
			cmd := m.mutate(m.toggleCmd(current.ID))
			return m, cmd
		}
	case "enter", "e":
		return m.startEditing()
	case "d", "delete":
		if current, ok := m.currentTask(); ok {
			cmd := m.mutate(m.removeCmd(current.ID))
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.input.Value()
		var cmd tea.Cmd
		if m.overlay.kind == overlayAdding {
			cmd = m.mutate(m.addCmd(value, m.addPriority))
		} else {
			cmd = m.mutate(m.editCmd(m.overlay.taskID, value))
		}
		return m, cmd
	case "tab", "shift+tab":
		if m.overlay.kind == overlayAdding {
			if m.addPriority == task.PriorityHigh {
				m.addPriority = task.PriorityNormal
			} else {
				m.addPriority = task.PriorityHigh
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleFilterKey(key string) model {
	axes := view.Axes()
	switch key {
	case "left", "h", "shift+tab":
		m.filterAxis = (m.filterAxis + len(axes) - 1) % len(axes)
		m.filterValue = 0
	case "right", "l", "tab":
		m.filterAxis = (m.filterAxis + 1) % len(axes)
		m.filterValue = 0
	case "up", "k":
		if m.filterValue > 0 {
			m.filterValue--
		}
	case "down", "j":
		if values := view.Values(axes[m.filterAxis]); m.filterValue < len(values)-1 {
			m.filterValue++
		}
	case "enter", "f", "q":
		return m.closeOverlay()
	default:
		return m
	}

	m.filter = m.menuFilter()
	m.reproject()
	return m
}

// menuFilter builds the filter currently highlighted in the filter menu.
func (m model) menuFilter() view.Filter {
	axis := view.Axes()[m.filterAxis]
	value := ""
	if values := view.Values(axis); m.filterValue < len(values) {
		value = values[m.filterValue]
	}
	filter, err := view.ParseFilter(string(axis), value)
	if err != nil {
		return view.NoFilter{}
	}
	return filter
}

func (m model) openFilter() model {
	axes := view.Axes()
	m.filterAxis = 0
	m.filterValue = 0
	for i, axis := range axes {
		if axis != m.filter.Axis() {
			continue
		}
		m.filterAxis = i
		for j, value := range view.Values(axis) {
			if value == m.filter.Value() {
				m.filterValue = j
			}
		}
	}
	m.overlay = overlay{kind: overlayFilterOpen}
	return m
}

func (m model) closeOverlay() model {
	if m.overlay.capturesInput() {
		m.input.Blur()
		m.input.Reset()
	}
	m.overlay = noOverlay()
	return m
}

func (m model) startAdding() (tea.Model, tea.Cmd) {
	m.overlay = overlay{kind: overlayAdding}
	m.addPriority = task.PriorityNormal
	m.input.Reset()
	m.input.Placeholder = "What needs doing?"
	return m, m.input.Focus()
}

func (m model) startEditing() (tea.Model, tea.Cmd) {
	current, ok := m.currentTask()
	if !ok {
		return m, nil
	}
	if !task.CanEdit(current) {
		m.overlay = selected(current.ID)
		m.setStatus("Completed tasks cannot be edited; reopen it first", statusError)
		return m, nil
	}
	m.overlay = editing(current.ID)
	m.input.Placeholder = ""
	m.input.SetValue(current.Title)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m model) moveCursor(delta int) model {
	if len(m.visible) == 0 {
		return m
	}
	next := m.cursor + delta
	if m.overlay.kind == overlayNone && delta != 0 {
		// The first move only reveals the selection.
		next = m.cursor
	}
	next = min(max(next, 0), len(m.visible)-1)
	m.cursor = next
	m.overlay = selected(m.visible[next].ID)
	return m
}

func (m model) currentTask() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

func (m *model) handleTasksLoaded(msg tasksLoadedMsg) {
	if msg.err != nil {
		m.setStatus(fmt.Sprintf("Load failed: %v", msg.err), statusError)
		return
	}
	m.tasks = msg.tasks
	m.reproject()
}

// mutate starts cmd now, or queues it behind the mutation in flight.
func (m *model) mutate(cmd tea.Cmd) tea.Cmd {
	if m.mutating {
		m.pending = append(m.pending, cmd)
		return nil
	}
	m.mutating = true
	return cmd
}

// nextMutation starts the oldest queued mutation, if any.
func (m *model) nextMutation() tea.Cmd {
	if len(m.pending) == 0 {
		m.mutating = false
		return nil
	}
	next := m.pending[0]
	m.pending = m.pending[1:]
	return next
}

func (m model) handleTaskChanged(msg taskChangedMsg) (tea.Model, tea.Cmd) {
	next := m.nextMutation()
	if msg.err != nil {
		m.setStatus(msg.err.Error(), statusError)
		return m, next
	}

	wasInput := m.overlay.capturesInput()
	if wasInput {
		m.input.Blur()
		m.input.Reset()
	}

	switch {
	case msg.removed:
		m.overlay = noOverlay()
		m.setStatus("Task deleted", statusInfo)
	case msg.task == nil:
		m.overlay = noOverlay()
		m.setStatus("Task no longer exists", statusError)
	default:
		m.overlay = selected(msg.task.ID)
		m.setStatus(msg.verb+" "+msg.task.Title, statusInfo)
	}
	return m, tea.Batch(next, m.loadTasksCmd())
}

// reproject recomputes the grouped view and keeps the cursor on the
// selected task when it is still visible.
func (m *model) reproject() {
	m.groups = view.Project(m.tasks, m.filter, m.opts.Now(), view.Options{DateLayout: m.opts.DateLayout})
	m.visible = view.Flatten(m.groups)

	if id := m.overlay.taskID; id != "" {
		for i, t := range m.visible {
			if t.ID == id {
				m.cursor = i
				return
			}
		}
		if m.overlay.kind == overlaySelected {
			m.overlay = noOverlay()
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading tasks..."
	}

	header := titleBarStyle.Width(m.width).Render(truncateText(m.titleText(), m.width-2))
	filterLine := m.renderFilterLine()
	footer := []string{m.renderPromptLine(), m.renderStatusLine(), m.renderHelpLine()}

	bodyHeight := max(m.height-2-len(footer), 1)
	body := m.renderBody(bodyHeight)

	screen := strings.Join(append([]string{header, filterLine, body}, footer...), "\n")
	if m.overlay.kind == overlayHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(helpContent()))
	}
	return screen
}

func (m model) titleText() string {
	title := "taskday"
	if m.opts.UserName != "" {
		title += " | " + m.opts.UserName
	}
	return fmt.Sprintf("%s | %d of %d tasks", title, len(m.visible), len(m.tasks))
}

func (m model) renderFilterLine() string {
	if m.overlay.kind != overlayFilterOpen {
		return valueMuted.Render("Filter: " + m.filter.String())
	}

	axes := view.Axes()
	parts := make([]string, 0, len(axes))
	for i, axis := range axes {
		style := valueMuted
		if i == m.filterAxis {
			style = valueActive
		}
		parts = append(parts, style.Render(string(axis)))
	}
	line := labelStyle.Render("Filter:") + " " + strings.Join(parts, " ")

	values := view.Values(axes[m.filterAxis])
	if len(values) > 0 {
		choices := make([]string, 0, len(values))
		for i, value := range values {
			if i == m.filterValue {
				choices = append(choices, valueActive.Render("("+value+")"))
				continue
			}
			choices = append(choices, valueMuted.Render(value))
		}
		line += "  " + strings.Join(choices, " ")
	}
	return line
}

func (m model) renderBody(height int) string {
	if len(m.groups) == 0 {
		message := "No tasks yet. Press a to add one."
		if len(m.tasks) > 0 {
			message = "No tasks match the filter."
		}
		return lipgloss.NewStyle().Height(height).Render(valueMuted.Render(message))
	}

	lines := make([]string, 0, len(m.visible)+2*len(m.groups))
	cursorLine := 0
	index := 0
	for g, group := range m.groups {
		if g > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, headingStyle.Render(group.Label))
		for _, t := range group.Tasks {
			if index == m.cursor {
				cursorLine = len(lines)
			}
			lines = append(lines, m.renderRow(t, index == m.cursor && m.overlay.kind != overlayNone))
			index++
		}
	}

	start := 0
	if cursorLine >= height {
		start = cursorLine - height + 1
	}
	end := min(start+height, len(lines))
	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines[start:end], "\n"))
}

func (m model) renderRow(t task.Task, isSelected bool) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	marker := "  "
	if isSelected {
		marker = "> "
	}
	suffix := ""
	if t.Priority == task.PriorityHigh {
		suffix = " !"
	}

	width := max(m.width-len(marker)-len(box)-len(suffix)-1, 1)
	title := truncateText(t.Title, width)

	style := rowStyle
	switch {
	case isSelected:
		style = rowSelectedStyle
	case t.Completed:
		style = rowDoneStyle
	}
	line := marker + box + " " + style.Render(title)
	if suffix != "" {
		line += highPriorityStyle.Render(suffix)
	}
	return line
}

func (m model) renderPromptLine() string {
	switch m.overlay.kind {
	case overlayAdding:
		label := fmt.Sprintf("New task [%s]", m.addPriority)
		if m.addPriority == task.PriorityHigh {
			label = highPriorityStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		return label + " " + m.input.View()
	case overlayEditing:
		return labelStyle.Render("Edit") + " " + m.input.View()
	default:
		return ""
	}
}

func (m model) renderStatusLine() string {
	if strings.TrimSpace(m.status) == "" {
		return ""
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(truncateText(m.status, m.width))
}

func (m model) renderHelpLine() string {
	return helpBarStyle.Width(m.width).Render(truncateText(m.helpSummary(), m.width))
}

func (m model) helpSummary() string {
	switch m.overlay.kind {
	case overlayAdding:
		return "Keys: enter save | tab toggle priority | esc cancel"
	case overlayEditing:
		return "Keys: enter save | esc cancel"
	case overlayFilterOpen:
		return "Keys: left/right axis | up/down value | enter or esc close"
	default:
		return "Keys: up/down move | a add | space toggle | enter edit | d delete | f filter | ? help | q quit"
	}
}

func helpContent() string {
	sections := []string{
		labelStyle.Render("Global"),
		"q or ctrl+c: quit",
		"?: toggle help",
		"esc: close whatever is open",
		"",
		labelStyle.Render("Tasks"),
		"up/down or j/k: move selection",
		"a: add task (tab toggles priority)",
		"space or x: toggle complete",
		"enter or e: edit title (open tasks only)",
		"d: delete",
		"",
		labelStyle.Render("Filter"),
		"f: open filter",
		"left/right: choose axis",
		"up/down: choose value",
	}
	return strings.Join(sections, "\n")
}

func truncateText(value string, width int) string {
	if width <= 0 {
		return value
	}
	return truncate.StringWithTail(value, uint(width), "...")
}
