package main

import (
	"github.com/spf13/cobra"

	"github.com/amonks/taskday/internal/tasktui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive task list",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		user, store, err := a.requireTasks()
		if err != nil {
			return err
		}
		return tasktui.Run(cmd.Context(), store, tasktui.Options{
			UserName:   user.DisplayName(),
			DateLayout: a.cfg.Display.DateLayout,
		})
	})
}
