package kv

import (
	"context"
	"fmt"
	"sync"
)

// Store is an associative key/value mapping with unique keys.
type Store interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Get returns the value for key. found is false when the key is absent;
	// that is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)
}

// Entry is one key/value pair.
type Entry struct {
	Key   string `yaml:"key" json:"key"`
	Value string `yaml:"value" json:"value"`
}

// DefaultEntries are inserted by the run command when no seed file overrides them.
func DefaultEntries() []Entry {
	return []Entry{
		{Key: "key1", Value: "value1"},
		{Key: "key2", Value: "value2"},
	}
}

// SetAll stores entries in order, so a repeated key keeps its last value.
func SetAll(ctx context.Context, s Store, entries []Entry) error {
	for _, e := range entries {
		if err := s.Set(ctx, e.Key, e.Value); err != nil {
			return fmt.Errorf("set %q: %w", e.Key, err)
		}
	}
	return nil
}

// FormatLookup renders the result of a Get for humans.
func FormatLookup(value string, found bool) string {
	if !found {
		return "Not found"
	}
	return "Found: " + value
}

// MapStore is an in-process Store.
type MapStore struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Store = (*MapStore)(nil)

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{items: make(map[string]string)}
}

// Set implements Store.
func (s *MapStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

// Get implements Store.
func (s *MapStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	return v, ok, nil
}

// Len returns the number of keys.
func (s *MapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
