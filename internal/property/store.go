package property

import (
	"sync"
)

// Listener is called after every applied patch with the new record.
type Listener func(Property)

// Store is an in-memory holder for the property being edited. It is the
// single mutation point for the record: every write goes through ApplyPatch
// or Replace, and readers always receive a copy.
type Store struct {
	mu        sync.RWMutex
	value     Property
	listeners []Listener
}

// NewStore creates a store holding a copy of initial.
func NewStore(initial Property) *Store {
	if initial == nil {
		initial = Property{}
	}
	return &Store{value: initial.Clone()}
}

// CurrentValue returns a copy of the stored record.
func (s *Store) CurrentValue() Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value.Clone()
}

// ApplyPatch merges patch into the record and notifies listeners.
// An empty patch is ignored.
func (s *Store) ApplyPatch(patch Patch) {
	if patch.Empty() {
		return
	}
	s.mu.Lock()
	s.value = s.value.Apply(patch)
	snapshot := s.value.Clone()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Replace swaps the whole record and notifies listeners.
func (s *Store) Replace(value Property) {
	if value == nil {
		value = Property{}
	}
	s.mu.Lock()
	s.value = value.Clone()
	snapshot := s.value.Clone()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Subscribe registers a listener invoked after each change. Listeners run
// outside the store lock and may read the store again.
func (s *Store) Subscribe(l Listener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}
