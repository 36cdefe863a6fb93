// Package kv provides the durable key/value store behind taskday.
//
// Values are JSON documents addressed by string keys, mirroring the
// get/set/remove contract of browser local storage. Three backends are
// available: a JSON state file guarded by an advisory lock (the default),
// a SQLite table through gorm, and an in-memory map for tests.
package kv

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amonks/taskday/internal/logging"
)

var (
	// ErrCorruptValue is returned by Get when the stored bytes are not valid
	// JSON for the destination. Callers are expected to treat the key as absent.
	ErrCorruptValue = errors.New("corrupt stored value")

	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrNoChange is returned by an UpdateFunc to leave the key untouched.
	// Update then returns nil without writing.
	ErrNoChange = errors.New("no change")
)

// Getter decodes the current value of the key being updated into dst, with
// the same results as Store.Get.
type Getter func(dst any) (bool, error)

// UpdateFunc computes the next value of a key from its current one.
type UpdateFunc func(get Getter) (any, error)

// Store is a durable mapping from string keys to JSON-serializable values.
type Store interface {
	// Get decodes the value stored at key into dst and reports whether the
	// key was present.
	Get(key string, dst any) (bool, error)

	// Set replaces the value stored at key.
	Set(key string, value any) error

	// Update reads key, calls fn, and stores the value fn returns as one
	// step: no other Update or Set of the store runs in between, in this
	// process or another one sharing the backend. An error from fn aborts
	// the write and is returned, except ErrNoChange, which returns nil.
	Update(key string, fn UpdateFunc) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error

	// Close releases backend resources.
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	// BackendFile stores every key in one JSON state file.
	BackendFile Backend = "file"

	// BackendSQLite stores keys as rows of a SQLite table.
	BackendSQLite Backend = "sqlite"

	// BackendMemory keeps keys in process memory only.
	BackendMemory Backend = "memory"
)

// ValidBackends returns all supported backends.
func ValidBackends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// ParseBackend normalizes a backend name. The empty string selects BackendFile.
func ParseBackend(value string) (Backend, error) {
	normalized := Backend(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return BackendFile, nil
	}
	for _, valid := range ValidBackends() {
		if normalized == valid {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, value)
}

// Options configures Open.
type Options struct {
	Backend Backend

	// Path is the state directory for BackendFile and the database file
	// for BackendSQLite. It is ignored by BackendMemory.
	Path string

	Logger *slog.Logger
}

// Open returns the Store selected by opts.
func Open(opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	switch opts.Backend {
	case BackendFile, "":
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("file backend requires a state directory")
		}
		return NewFileStore(opts.Path, logger), nil
	case BackendSQLite:
		store, err := OpenSQLite(opts.Path, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// finishUpdate maps the result of an UpdateFunc to whether to write.
func finishUpdate(err error) (write bool, _ error) {
	if errors.Is(err, ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func corruptValueError(key string, err error) error {
	return fmt.Errorf("%w: key %q: %v", ErrCorruptValue, key, err)
}
