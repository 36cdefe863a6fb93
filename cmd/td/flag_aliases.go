package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var registerFlagAliases = map[string]string{
	"first-name": "first",
	"last-name":  "last",
}

var priorityFlagAliases = map[string]string{
	"pri": "priority",
}

func addRegisterFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), registerFlagAliases)
	}
}

func addPriorityFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), priorityFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}
