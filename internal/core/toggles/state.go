package toggles

import (
	"sort"
	"sync"
)

// State is the viewer's session-local set of toggled-on item ids.
// It is a rendering hint, never a source of truth: the server owns counts and
// duplicate prevention. Safe for concurrent use.
type State struct {
	on map[string]struct{}
	mu sync.RWMutex
}

// NewState creates a state seeded with ids.
func NewState(ids ...string) *State {
	s := &State{on: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.on[id] = struct{}{}
	}
	return s
}

// Has reports whether id is toggled on.
func (s *State) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.on[id]
	return ok
}

// Set puts id in the given state.
func (s *State) Set(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.on[id] = struct{}{}
		return
	}
	delete(s.on, id)
}

// Replace discards the current contents and seeds the set with ids.
func (s *State) Replace(ids []string) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}
	s.mu.Lock()
	s.on = next
	s.mu.Unlock()
}

// Len returns the number of toggled-on items.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.on)
}

// Snapshot returns the toggled-on ids in sorted order.
func (s *State) Snapshot() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.on))
	for id := range s.on {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
