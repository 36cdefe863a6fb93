package main

import "testing"

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "td" {
		t.Fatalf("expected root command name td, got %q", rootCmd.Use)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	for _, name := range []string{"register", "login", "logout", "whoami", "add", "toggle", "edit", "rm", "list", "ui", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("find %s: %v", name, err)
		}
		if cmd.Name() != name {
			t.Fatalf("expected %s command, got %q", name, cmd.Name())
		}
	}
}
