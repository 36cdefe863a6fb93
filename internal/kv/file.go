package kv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amonks/taskday/internal/logging"
)

// FileStore keeps every key in a single JSON object on disk.
//
// Writes go through an exclusive flock and an atomic rename, so concurrent
// processes never observe a torn file. Reads take no lock; read-modify-write
// sequences go through Update, which holds the lock throughout.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &FileStore{dir: dir, logger: logger}
}

// Path returns the location of the state file.
func (s *FileStore) Path() string {
	return s.statePath()
}

func (s *FileStore) statePath() string {
	return filepath.Join(s.dir, "state.json")
}

func (s *FileStore) lockPath() string {
	return filepath.Join(s.dir, "state.lock")
}

// Get implements Store.
func (s *FileStore) Get(key string, dst any) (bool, error) {
	entries, err := s.load()
	if err != nil {
		return false, err
	}
	return decodeEntry(entries, key, dst)
}

func decodeEntry(entries map[string]json.RawMessage, key string, dst any) (bool, error) {
	raw, ok := entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, corruptValueError(key, err)
	}
	return true, nil
}

// Set implements Store.
func (s *FileStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	return s.update(func(entries map[string]json.RawMessage) (bool, error) {
		entries[key] = data
		return true, nil
	})
}

// Update implements Store.
func (s *FileStore) Update(key string, fn UpdateFunc) error {
	return s.update(func(entries map[string]json.RawMessage) (bool, error) {
		value, err := fn(func(dst any) (bool, error) {
			return decodeEntry(entries, key, dst)
		})
		write, err := finishUpdate(err)
		if !write {
			return false, err
		}

		data, err := json.Marshal(value)
		if err != nil {
			return false, fmt.Errorf("marshal %q: %w", key, err)
		}
		entries[key] = data
		return true, nil
	})
}

// Remove implements Store.
func (s *FileStore) Remove(key string) error {
	return s.update(func(entries map[string]json.RawMessage) (bool, error) {
		if _, ok := entries[key]; !ok {
			return false, nil
		}
		delete(entries, key)
		return true, nil
	})
}

// Close implements Store. FileStore holds no open handles between calls.
func (s *FileStore) Close() error {
	return nil
}

// load reads the state file. A missing file is an empty store.
func (s *FileStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.statePath())
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	entries := make(map[string]json.RawMessage)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: state file %s: %v", ErrCorruptValue, s.statePath(), err)
	}
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	return entries, nil
}

// save writes entries atomically, skipping the write when nothing changed.
func (s *FileStore) save(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if existing, err := os.ReadFile(s.statePath()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read state file: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, filepath.Base(s.statePath())+".tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(name, s.statePath()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename state file: %w", err)
	}

	return nil
}

// update reads, modifies, and writes the state file under an exclusive lock.
// fn reports whether it changed entries. A state file that no longer parses
// is moved aside and replaced by an empty store rather than blocking every
// future write.
func (s *FileStore) update(fn func(entries map[string]json.RawMessage) (bool, error)) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	entries, err := s.load()
	if errors.Is(err, ErrCorruptValue) {
		entries, err = s.quarantine(err)
	}
	if err != nil {
		return err
	}

	changed, err := fn(entries)
	if err != nil || !changed {
		return err
	}

	return s.save(entries)
}

func (s *FileStore) quarantine(cause error) (map[string]json.RawMessage, error) {
	backup := fmt.Sprintf("%s.corrupt-%d", s.statePath(), time.Now().UnixNano())
	if err := os.Rename(s.statePath(), backup); err != nil {
		return nil, fmt.Errorf("move corrupt state file aside: %w", err)
	}
	s.logger.Warn("state file was corrupt; starting empty", "backup", backup, "error", cause)
	return make(map[string]json.RawMessage), nil
}
