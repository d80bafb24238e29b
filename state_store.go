package personasim

import (
	"sync"
)

// ──────────────────────────────────────────────
// StateStore — pluggable storage backend
// ──────────────────────────────────────────────

// StateStore is the storage backend for agent state.
//
// Data is organized by namespace (the agent instance id) and key
// (e.g. "personality", "memories"). Lists are ordered and size-capped:
// callers append without checking and the store truncates silently,
// evicting the oldest entries first.
type StateStore interface {
	// KV operations
	Get(namespace, key string) (string, error)
	Set(namespace, key, value string) error
	Delete(namespace, key string) error
	ListKeys(namespace string) ([]string, error)

	// List operations (ordered sequences for memories, transitions, journal)
	Append(namespace, key, value string) error
	GetList(namespace, key string, limit, offset int) ([]string, error)
	TrimList(namespace, key string, maxSize int) error
	ClearList(namespace, key string) error
	ListLength(namespace, key string) (int, error)
}

// InMemoryStateStore is a thread-safe in-memory StateStore for development
// and tests. Data is lost on restart.
type InMemoryStateStore struct {
	mu    sync.RWMutex
	kv    map[string]map[string]string
	lists map[string]map[string][]string
}

// NewInMemoryStateStore creates a new in-memory store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		kv:    make(map[string]map[string]string),
		lists: make(map[string]map[string][]string),
	}
}

func (s *InMemoryStateStore) Get(namespace, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.kv[namespace]; ok {
		if v, ok := ns[key]; ok {
			return v, nil
		}
	}
	return "", nil
}

func (s *InMemoryStateStore) Set(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv[namespace] == nil {
		s.kv[namespace] = make(map[string]string)
	}
	s.kv[namespace][key] = value
	return nil
}

func (s *InMemoryStateStore) Delete(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.kv[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *InMemoryStateStore) ListKeys(namespace string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	if ns, ok := s.kv[namespace]; ok {
		for k := range ns {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *InMemoryStateStore) Append(namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lists[namespace] == nil {
		s.lists[namespace] = make(map[string][]string)
	}
	s.lists[namespace][key] = append(s.lists[namespace][key], value)
	return nil
}

func (s *InMemoryStateStore) GetList(namespace, key string, limit, offset int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.lists[namespace]
	if !ok {
		return nil, nil
	}
	list := ns[key]
	if offset >= len(list) {
		return nil, nil
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]string, end-offset)
	copy(out, list[offset:end])
	return out, nil
}

func (s *InMemoryStateStore) TrimList(namespace, key string, maxSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.lists[namespace]
	if !ok {
		return nil
	}
	list := ns[key]
	if maxSize > 0 && len(list) > maxSize {
		// keep the newest entries
		trimmed := make([]string, maxSize)
		copy(trimmed, list[len(list)-maxSize:])
		ns[key] = trimmed
	}
	return nil
}

func (s *InMemoryStateStore) ClearList(namespace, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ns, ok := s.lists[namespace]; ok {
		delete(ns, key)
	}
	return nil
}

func (s *InMemoryStateStore) ListLength(namespace, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ns, ok := s.lists[namespace]; ok {
		return len(ns[key]), nil
	}
	return 0, nil
}
