// Package main implements the td CLI tool.
package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "td",
	Short:        "taskday - a day-grouped task list",
	SilenceUsage: true,
}

var (
	rootDebug bool
	rootColor string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Log diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&rootColor, "color", "", "Color output (auto, always, never)")
}
