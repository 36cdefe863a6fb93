package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/taskday/internal/editor"
	"github.com/amonks/taskday/task"
)

var addCmd = &cobra.Command{
	Use:   "add [title...]",
	Short: "Add a task",
	Long:  "Add a task. Without a title, td opens $EDITOR on a task draft.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runAdd,
}

var addPriority string

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Toggle completion of one or more tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runToggle,
}

var editCmd = &cobra.Command{
	Use:   "edit <id> [title...]",
	Short: "Change the title of an open task",
	Long:  "Change the title of an open task. Without a title, td opens $EDITOR on the current one.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEdit,
}

var removeCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Delete one or more tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(addCmd, toggleCmd, editCmd, removeCmd)

	addCmd.Flags().StringVarP(&addPriority, "priority", "p", string(task.PriorityNormal), "Priority (normal, high)")
	addPriorityFlagAliases(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	priority, err := task.ParsePriority(addPriority)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app) error {
		_, store, err := a.requireTasks()
		if err != nil {
			return err
		}

		title := strings.Join(args, " ")
		if len(args) == 0 {
			draft := editor.NewDraft()
			draft.Priority = priority
			parsed, err := editDraft(draft)
			if err != nil {
				return err
			}
			title = parsed.Title
			if !cmd.Flags().Changed("priority") {
				priority = parsed.Priority
			}
		}

		created, err := store.Add(title, priority)
		if err != nil {
			return err
		}

		lengths, err := prefixLengths(store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", a.palette.HighlightID(created.ID, lengths[created.ID]), created.Title)
		return nil
	})
}

func runToggle(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		_, store, err := a.requireTasks()
		if err != nil {
			return err
		}

		for _, prefix := range args {
			id, ok, err := resolveTaskID(cmd, store, prefix)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			toggled, err := store.ToggleComplete(id)
			if err != nil {
				return err
			}
			if toggled == nil {
				noteMissing(cmd, prefix)
				continue
			}
			verb := "Reopened"
			if toggled.Completed {
				verb = "Completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s task %s: %s\n", verb, toggled.ID, toggled.Title)
		}
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		_, store, err := a.requireTasks()
		if err != nil {
			return err
		}

		id, ok, err := resolveTaskID(cmd, store, args[0])
		if err != nil || !ok {
			return err
		}

		existing, err := store.Find(id)
		if err != nil {
			return err
		}
		if existing == nil {
			noteMissing(cmd, args[0])
			return nil
		}
		if err := task.CheckEditable(*existing); err != nil {
			return fmt.Errorf("edit %s: %w (toggle it open first)", existing.ID, err)
		}

		title := strings.Join(args[1:], " ")
		if len(args) == 1 {
			parsed, err := editDraft(editor.DraftFromTask(*existing))
			if err != nil {
				return err
			}
			title = parsed.Title
		}

		edited, err := store.Edit(id, title)
		if err != nil {
			return err
		}
		if edited == nil {
			noteMissing(cmd, args[0])
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", edited.ID, edited.Title)
		return nil
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		_, store, err := a.requireTasks()
		if err != nil {
			return err
		}

		for _, prefix := range args {
			id, ok, err := resolveTaskID(cmd, store, prefix)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}

			removed, err := store.Remove(id)
			if err != nil {
				return err
			}
			if !removed {
				noteMissing(cmd, prefix)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", id)
		}
		return nil
	})
}

// resolveTaskID maps a prefix to a task ID. Unknown prefixes are reported
// on stderr and skipped; ambiguous prefixes are errors.
func resolveTaskID(cmd *cobra.Command, store *task.Store, prefix string) (string, bool, error) {
	id, err := store.Resolve(prefix)
	if errors.Is(err, task.ErrTaskNotFound) {
		noteMissing(cmd, prefix)
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func noteMissing(cmd *cobra.Command, prefix string) {
	fmt.Fprintf(cmd.ErrOrStderr(), "No task matches %q; nothing to do\n", prefix)
}

// editDraft opens a draft in $EDITOR; it needs an interactive terminal.
func editDraft(draft editor.Draft) (*editor.Parsed, error) {
	if !editor.IsInteractive() {
		return nil, errors.New("title required: pass it as arguments when stdin is not a terminal")
	}
	return editor.EditDraft(draft)
}

func prefixLengths(store *task.Store) (map[string]int, error) {
	tasks, err := store.LoadAll()
	if err != nil {
		return nil, err
	}
	return task.NewIDIndex(tasks).PrefixLengths(), nil
}
