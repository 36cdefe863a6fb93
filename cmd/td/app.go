package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amonks/taskday/auth"
	"github.com/amonks/taskday/internal/config"
	"github.com/amonks/taskday/internal/kv"
	"github.com/amonks/taskday/internal/logging"
	"github.com/amonks/taskday/internal/paths"
	"github.com/amonks/taskday/internal/ui"
	"github.com/amonks/taskday/task"
)

// sqliteFileName is the database created in the state directory when the
// sqlite backend has no explicit path.
const sqliteFileName = "taskday.db"

// errMemoryBackend rejects the memory backend, which forgets the session
// and tasks as soon as each td command exits.
var errMemoryBackend = errors.New(`storage.backend "memory" keeps nothing between td commands; use "file" or "sqlite"`)

// app holds the state shared by every command invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	kv      kv.Store
	gate    *auth.Gate
	palette *ui.Palette
}

func openApp(cmd *cobra.Command) (*app, error) {
	logger := logging.FromEnv(rootDebug)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	backend, err := kv.ParseBackend(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}
	if backend == kv.BackendMemory {
		return nil, errMemoryBackend
	}
	path, err := storagePath(backend, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	store, err := kv.Open(kv.Options{Backend: backend, Path: path, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", backend, err)
	}
	logger.Debug("opened storage", "backend", backend, "path", path)

	gate, err := auth.New(store, auth.Options{Logger: logger})
	if err != nil {
		store.Close()
		return nil, err
	}

	colorValue := cfg.Display.Color
	if cmd.Flags().Changed("color") {
		colorValue = rootColor
	}
	mode, err := ui.ParseColorMode(colorValue)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		kv:      store,
		gate:    gate,
		palette: ui.NewPalette(cmd.OutOrStdout(), mode),
	}, nil
}

func storagePath(backend kv.Backend, configured string) (string, error) {
	switch backend {
	case kv.BackendSQLite:
		if configured != "" {
			return configured, nil
		}
		dir, err := paths.DefaultStateDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, sqliteFileName), nil
	default:
		return paths.ResolveWithDefault(configured, paths.DefaultStateDir)
	}
}

func (a *app) close() {
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close storage", "error", err)
	}
}

// requireTasks returns the signed-in user and their task store.
func (a *app) requireTasks() (*auth.User, *task.Store, error) {
	user, err := a.gate.RequireUser()
	if errors.Is(err, auth.ErrNotSignedIn) {
		return nil, nil, fmt.Errorf("%w (run td login or td register)", err)
	}
	if err != nil {
		return nil, nil, err
	}

	scope := ""
	if a.cfg.Storage.PerUser {
		scope = user.ID
	}
	store, err := task.Open(a.kv, task.OpenOptions{Scope: scope, Logger: a.logger})
	if err != nil {
		return nil, nil, err
	}
	return user, store, nil
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}
