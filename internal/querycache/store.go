package querycache

import (
	"sort"
	"strings"
	"sync"
)

// Store persists cache entries by encoded key.
type Store interface {
	// Get returns the entry for key. ok is false on a miss.
	Get(key string) (e Entry, ok bool, err error)

	// Put stores or replaces an entry.
	Put(e Entry) error

	// Scan returns every entry whose key starts with prefix, sorted by key.
	Scan(prefix string) ([]Entry, error)

	// Delete removes an entry. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases the store.
	Close() error
}

// MemoryStore keeps entries for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore) Put(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key] = e
	return nil
}

func (s *MemoryStore) Scan(prefix string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for k, e := range s.entries {
		if strings.HasPrefix(k, prefix) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
