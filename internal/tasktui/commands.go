package tasktui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amonks/taskday/task"
)

type tasksLoadedMsg struct {
	tasks []task.Task
	err   error
}

// taskChangedMsg reports a mutation. task is nil when the target id no
// longer existed.
type taskChangedMsg struct {
	verb    string
	task    *task.Task
	removed bool
	err     error
}

func (m model) loadTasksCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		tasks, err := store.LoadAll()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m model) addCmd(title string, priority task.Priority) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		created, err := store.Add(title, priority)
		return taskChangedMsg{verb: "Added", task: created, err: err}
	}
}

func (m model) toggleCmd(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		toggled, err := store.ToggleComplete(id)
		verb := "Reopened"
		if toggled != nil && toggled.Completed {
			verb = "Completed"
		}
		return taskChangedMsg{verb: verb, task: toggled, err: err}
	}
}

func (m model) editCmd(id, title string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		edited, err := store.Edit(id, title)
		return taskChangedMsg{verb: "Updated", task: edited, err: err}
	}
}

func (m model) removeCmd(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		removed, err := store.Remove(id)
		if err == nil && !removed {
			return taskChangedMsg{}
		}
		return taskChangedMsg{verb: "Deleted", removed: removed, err: err}
	}
}
