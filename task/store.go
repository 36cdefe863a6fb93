package task

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amonks/taskday/internal/kv"
	"github.com/amonks/taskday/internal/logging"
)

// TasksKey is the kv key holding the shared task list.
const TasksKey = "tasks"

// StorageKey returns the kv key for a task list scope.
// An empty scope selects the shared list.
func StorageKey(scope string) string {
	if scope == "" {
		return TasksKey
	}
	return TasksKey + ":" + scope
}

// OpenOptions configures a task Store.
type OpenOptions struct {
	// Scope namespaces the list, typically with a user ID.
	// Empty uses the shared "tasks" key.
	Scope string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives warnings about unreadable stored data.
	Logger *slog.Logger
}

// Store provides task operations on top of a kv.Store.
type Store struct {
	kv     kv.Store
	key    string
	now    func() time.Time
	logger *slog.Logger
}

// Open returns a Store for the list selected by opts.
func Open(store kv.Store, opts OpenOptions) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("open task store: nil kv store")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		kv:     store,
		key:    StorageKey(opts.Scope),
		now:    now,
		logger: logging.OrDiscard(opts.Logger),
	}, nil
}

// Key returns the kv key this store reads and writes.
func (s *Store) Key() string {
	return s.key
}

// readTasks loads the stored list. Absent or corrupt data reads as empty.
func (s *Store) readTasks() ([]Task, error) {
	return s.decodeTasks(func(dst any) (bool, error) {
		return s.kv.Get(s.key, dst)
	})
}

// decodeTasks reads the list through get. A corrupt list reads as empty,
// and records that break the task invariants are dropped, each with a
// warning, so one bad record cannot block every later write.
func (s *Store) decodeTasks(get kv.Getter) ([]Task, error) {
	var stored []Task
	_, err := get(&stored)
	if errors.Is(err, kv.ErrCorruptValue) {
		s.logger.Warn("ignoring unreadable task list", "key", s.key, "error", err)
		return []Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}

	tasks := make([]Task, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, t := range stored {
		t.Title = NormalizeTitle(t.Title)
		if err := ValidateTask(&t); err != nil {
			s.logger.Warn("ignoring invalid stored task", "key", s.key, "id", t.ID, "error", err)
			continue
		}
		if seen[t.ID] {
			s.logger.Warn("ignoring duplicate stored task", "key", s.key, "id", t.ID)
			continue
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// update runs fn on the current list and persists its result as one atomic
// read-modify-write. fn returns kv.ErrNoChange to skip the write.
func (s *Store) update(fn func(tasks []Task) ([]Task, error)) error {
	err := s.kv.Update(s.key, func(get kv.Getter) (any, error) {
		tasks, err := s.decodeTasks(get)
		if err != nil {
			return nil, err
		}
		next, err := fn(tasks)
		if err != nil {
			return nil, err
		}
		if next == nil {
			next = []Task{}
		}
		if err := ValidateList(next); err != nil {
			return nil, fmt.Errorf("write tasks: %w", err)
		}
		s.logger.Debug("writing task list", "key", s.key, "count", len(next))
		return next, nil
	})
	return err
}

func findIndex(tasks []Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}
