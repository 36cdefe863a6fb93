// Package paths resolves the directories taskday reads and writes.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StateDirEnvVar overrides the state directory.
const StateDirEnvVar = "TASKDAY_STATE_DIR"

// HomeDir returns the current user's home directory.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return home, nil
}

// DefaultStateDir returns the taskday state directory, honoring
// TASKDAY_STATE_DIR when set.
func DefaultStateDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(StateDirEnvVar)); dir != "" {
		return dir, nil
	}

	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".local", "state", "taskday"), nil
}

// DefaultConfigPath returns the path of the global config file.
func DefaultConfigPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "taskday", "config.toml"), nil
}

// ResolveWithDefault returns override when non-empty, otherwise the result
// of defaultFn.
func ResolveWithDefault(override string, defaultFn func() (string, error)) (string, error) {
	if strings.TrimSpace(override) != "" {
		return override, nil
	}
	return defaultFn()
}
