package settings

import "sync"

// Store holds the current settings and notifies subscribers on change
type Store struct {
	mu          sync.RWMutex
	current     Settings
	subscribers []func(old, new Settings)
}

// NewStore creates a store with initial settings
func NewStore(initial Settings) *Store {
	return &Store{current: initial}
}

// Get returns a copy of the current settings
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy of the settings and stores it if it
// validates. Subscribers run after the lock is released.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	old := s.current
	next := old
	fn(&next)
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	subscribers := append([]func(old, new Settings){}, s.subscribers...)
	s.mu.Unlock()

	if old == next {
		return nil
	}
	for _, sub := range subscribers {
		sub(old, next)
	}
	return nil
}

// Subscribe registers fn to be called after every effective change
func (s *Store) Subscribe(fn func(old, new Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}
