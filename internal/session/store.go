package session

import (
	"sync"

	"github.com/rs/zerolog"
)

// Store is the single owner of the session state. Actions are applied one at a
// time; listeners run after the state lock is released, in registration order,
// and see transitions in the order they were applied.
type Store struct {
	mu        sync.RWMutex
	notifyMu  sync.Mutex
	state     State
	listeners []listener
	nextID    int
	log       zerolog.Logger
}

type listener struct {
	id int
	fn func(State)
}

func NewStore(log zerolog.Logger) *Store {
	return &Store{state: Initial(), log: log}
}

func (s *Store) Dispatch(a Action) State {
	next, _ := s.apply(a)
	return next
}

// apply reduces a and reports whether it was applied. Stale refresh outcomes
// leave the state alone and notify nobody.
func (s *Store) apply(a Action) (State, bool) {
	// notifyMu spans the reduction and the listener calls so a later dispatch
	// cannot notify ahead of this one.
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	prev := s.state
	if Stale(prev, a) {
		s.mu.Unlock()
		return prev.clone(), false
	}
	next := Reduce(prev, a)
	s.state = next
	listeners := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	if prev.Phase != next.Phase {
		event := s.log.Debug().
			Str("from", prev.Phase.String()).
			Str("to", next.Phase.String())
		if next.User != nil {
			event = event.Int64("user_id", next.User.ID)
		}
		event.Msg("session transition")
	}

	for _, l := range listeners {
		l.fn(next.clone())
	}
	return next.clone(), true
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Subscribe registers fn for every future transition and returns a function
// that removes it. fn must not dispatch.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
