package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/taskday/internal/markdown"
	"github.com/amonks/taskday/internal/ui"
	"github.com/amonks/taskday/task"
	"github.com/amonks/taskday/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks grouped by the day they were created",
	Long: `List tasks grouped by the day they were created.

At most one filter may be given: --priority (all, normal, high),
--date (all, today, tomorrow) or --status (all, completed, uncompleted).`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var (
	listPriority string
	listDate     string
	listStatus   string
	listJSON     bool
	listFormat   string
)

const (
	listFormatGroups   = "groups"
	listFormatTable    = "table"
	listFormatMarkdown = "markdown"
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority (all, normal, high)")
	listCmd.Flags().StringVar(&listDate, "date", "", "Filter by creation day (all, today, tomorrow)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by completion (all, completed, uncompleted)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().StringVar(&listFormat, "format", listFormatGroups, "Output format (groups, table, markdown)")
	listCmd.MarkFlagsMutuallyExclusive("priority", "date", "status")
	listCmd.MarkFlagsMutuallyExclusive("json", "format")
	addPriorityFlagAliases(listCmd)
}

// listFilter builds the view filter from whichever axis flag was set.
func listFilter(cmd *cobra.Command) (view.Filter, error) {
	switch {
	case cmd.Flags().Changed("priority"):
		return view.ParseFilter(string(view.AxisPriority), listPriority)
	case cmd.Flags().Changed("date"):
		return view.ParseFilter(string(view.AxisDate), listDate)
	case cmd.Flags().Changed("status"):
		return view.ParseFilter(string(view.AxisStatus), listStatus)
	default:
		return view.NoFilter{}, nil
	}
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := listFilter(cmd)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app) error {
		_, store, err := a.requireTasks()
		if err != nil {
			return err
		}

		tasks, err := store.LoadAll()
		if err != nil {
			return err
		}

		now := time.Now()
		groups := view.Project(tasks, filter, now, view.Options{DateLayout: a.cfg.Display.DateLayout})
		a.logger.Debug("projected tasks", "filter", filter.String(), "groups", len(groups), "tasks", view.Count(groups))

		out := cmd.OutOrStdout()
		if listJSON {
			return encodeJSON(out, groupsJSON(groups))
		}

		lengths := task.NewIDIndex(tasks).PrefixLengths()
		switch listFormat {
		case listFormatGroups, "":
			_, err = io.WriteString(out, formatGroups(groups, lengths, a.palette))
		case listFormatTable:
			_, err = io.WriteString(out, formatTaskTable(groups, lengths, a.palette, now))
		case listFormatMarkdown:
			_, err = io.WriteString(out, renderMarkdown(groups, a.palette))
		default:
			return fmt.Errorf("unknown format %q (want groups, table or markdown)", listFormat)
		}
		return err
	})
}

type groupJSON struct {
	Label string      `json:"label"`
	Day   string      `json:"day"`
	Tasks []task.Task `json:"tasks"`
}

func groupsJSON(groups []view.Group) []groupJSON {
	out := make([]groupJSON, 0, len(groups))
	for _, group := range groups {
		out = append(out, groupJSON{Label: group.Label, Day: group.Day.String(), Tasks: group.Tasks})
	}
	return out
}

// formatGroups renders the default checklist view.
func formatGroups(groups []view.Group, lengths map[string]int, palette *ui.Palette) string {
	if len(groups) == 0 {
		return "No tasks found.\n"
	}

	var builder strings.Builder
	for i, group := range groups {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(palette.Heading(group.Label))
		builder.WriteByte('\n')
		for _, t := range group.Tasks {
			box := "[ ]"
			title := t.Title
			if t.Completed {
				box = "[x]"
				title = palette.Completed(title)
			}
			fmt.Fprintf(&builder, "  %s %s  %s", box, palette.HighlightID(t.ID, ui.PrefixLength(lengths, t.ID)), title)
			if t.Priority == task.PriorityHigh {
				builder.WriteString(" " + palette.High("(high)"))
			}
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func formatTaskTable(groups []view.Group, lengths map[string]int, palette *ui.Palette, now time.Time) string {
	if len(groups) == 0 {
		return "No tasks found.\n"
	}

	builder := ui.NewTableBuilder([]string{"ID", "PRI", "STATUS", "DAY", "AGE", "TOOK", "TITLE"}, view.Count(groups))
	for _, group := range groups {
		for _, t := range group.Tasks {
			status := "open"
			if t.Completed {
				status = "done"
			}
			builder.AddRow([]string{
				palette.HighlightID(t.ID, ui.PrefixLength(lengths, t.ID)),
				string(t.Priority),
				status,
				group.Day.String(),
				ui.FormatTimeAgeShort(t.CreatedAt, now),
				ui.FormatCompletionTime(t.CreatedAt, t.CompletedAt),
				ui.TruncateTableCell(t.Title),
			})
		}
	}
	return builder.String()
}

// renderMarkdown prints raw markdown, rendered through glamour when the
// output is styled.
func renderMarkdown(groups []view.Group, palette *ui.Palette) string {
	source := markdown.Checklist(groups)
	if !palette.Enabled() {
		return source
	}
	rendered := markdown.Render(terminalWidth(), 0, []byte(source))
	if len(rendered) == 0 {
		return source
	}
	return string(rendered) + "\n"
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
