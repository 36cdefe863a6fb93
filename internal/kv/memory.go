package kv

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps values in process memory. Values are stored in their
// JSON encoding so that it behaves like the durable backends.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	writes  int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Get implements Store.
func (s *MemoryStore) Get(key string, dst any) (bool, error) {
	s.mu.Lock()
	data, ok := s.entries[key]
	s.mu.Unlock()
	return decodeBytes(key, data, ok, dst)
}

// Update implements Store. The store's mutex is held while fn runs.
func (s *MemoryStore) Update(key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.entries[key]
	value, err := fn(func(dst any) (bool, error) {
		return decodeBytes(key, data, ok, dst)
	})
	write, err := finishUpdate(err)
	if !write {
		return err
	}

	encoded, err := marshalValue(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	s.entries[key] = encoded
	s.writes++
	return nil
}

// Set implements Store.
func (s *MemoryStore) Set(key string, value any) error {
	data, err := marshalValue(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = data
	s.writes++
	return nil
}

// SetRaw stores data at key without validating it. It exists so tests can
// plant corrupt values.
func (s *MemoryStore) SetRaw(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), data...)
}

// Remove implements Store.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	s.writes++
	return nil
}

// Writes returns how many Set, Update and Remove calls have written.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

func decodeBytes(key string, data []byte, ok bool, dst any) (bool, error) {
	if !ok {
		return false, nil
	}
	if err := unmarshalValue(data, dst); err != nil {
		return false, corruptValueError(key, err)
	}
	return true, nil
}

func marshalValue(value any) ([]byte, error) {
	return json.Marshal(value)
}

func unmarshalValue(data []byte, dst any) error {
	return json.Unmarshal(data, dst)
}
