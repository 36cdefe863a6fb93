package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amonks/taskday/internal/config"
	"github.com/amonks/taskday/internal/logging"
	"github.com/amonks/taskday/internal/paths"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	Args:  cobra.ArbitraryArgs,
	RunE:  runHelp,
}

var helpEnvCmd = &cobra.Command{
	Use:   "environment",
	Short: "Show environment variables and files td reads",
	Args:  cobra.NoArgs,
	RunE:  runHelpEnvironment,
}

func init() {
	rootCmd.SetHelpCommand(helpCmd)
	helpCmd.AddCommand(helpEnvCmd)
}

func runHelp(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	if len(args) == 0 {
		return root.Help()
	}

	target, _, err := root.Find(args)
	if err != nil || target == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Unknown help topic %q\n", strings.Join(args, " "))
		return root.Help()
	}

	return target.Help()
}

func runHelpEnvironment(cmd *cobra.Command, args []string) error {
	configPath, err := paths.DefaultConfigPath()
	if err != nil {
		configPath = "~/.config/taskday/config.toml"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Config file\n  %s\n", configPath)
	fmt.Fprintf(&builder, "Environment\n")
	fmt.Fprintf(&builder, "  %s: config file overriding the global one\n", config.PathEnvVar)
	fmt.Fprintf(&builder, "  %s: state directory\n", paths.StateDirEnvVar)
	fmt.Fprintf(&builder, "  %s: log level (debug, info, warn, error)\n", logging.LevelEnvVar)
	fmt.Fprintf(&builder, "  NO_COLOR: disable colored output\n")
	_, err = fmt.Fprint(cmd.OutOrStdout(), builder.String())
	return err
}
