package markdown

import (
	"strings"

	"github.com/amonks/taskday/task"
	"github.com/amonks/taskday/view"
)

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"#", `\#`,
	"~", `\~`,
)

// Checklist writes grouped tasks as a markdown document: one heading per
// day and a task-list item per task.
func Checklist(groups []view.Group) string {
	if len(groups) == 0 {
		return "_No tasks._\n"
	}

	var builder strings.Builder
	for i, group := range groups {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString("## ")
		builder.WriteString(escaper.Replace(group.Label))
		builder.WriteString("\n\n")
		for _, t := range group.Tasks {
			builder.WriteString(checklistItem(t))
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func checklistItem(t task.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	title := escaper.Replace(t.Title)
	if t.Priority == task.PriorityHigh {
		title = "**" + title + "** (high)"
	}
	if t.Completed {
		title = "~~" + title + "~~"
	}
	return "- " + box + " " + title + " `" + t.ID + "`"
}
