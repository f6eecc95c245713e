// Package store keeps per-session application state in memory.
package store

import (
	"sync"
	"time"

	"github.com/fairyhunter13/cryzo-storefront/internal/state"
)

type sessionState struct {
	st       state.AppState
	lastSeen time.Time
}

// Store maps session ids to application state. Every mutation is a
// read-modify-write through a pure reducer under the write lock.
type Store struct {
	mu  sync.RWMutex
	m   map[string]sessionState
	now func() time.Time
}

func New() *Store {
	return &Store{m: make(map[string]sessionState), now: time.Now}
}

// Get returns the state for id, or the initial state for an unknown session.
func (s *Store) Get(id string) state.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ss, ok := s.m[id]
	if !ok {
		return state.Initial()
	}
	return ss.st
}

// Update applies fn to the state of id and stores the result.
func (s *Store) Update(id string, fn func(state.AppState) state.AppState) state.AppState {
	if id == "" {
		return fn(state.Initial())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.m[id]
	if !ok {
		ss = sessionState{st: state.Initial()}
	}
	ss.st = fn(ss.st)
	ss.lastSeen = s.now()
	s.m[id] = ss
	return ss.st
}

// Touch marks id as active without changing its state.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ss, ok := s.m[id]; ok {
		ss.lastSeen = s.now()
		s.m[id] = ss
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Sweep removes sessions idle for longer than maxIdle and returns their ids.
func (s *Store) Sweep(maxIdle time.Duration) []string {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []string
	for id, ss := range s.m {
		if ss.lastSeen.Before(cutoff) {
			delete(s.m, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
