package sync

import (
	stdsync "sync"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
)

// Store owns the State and is its single writer. Dispatch applies the
// transition atomically, so flag transitions are linearizable; observers only
// ever see a state produced by a completed transition.
type Store struct {
	mu        stdsync.Mutex
	state     State
	subs      map[int]func(State)
	nextSubID int
}

// NewStore returns a Store in the initial state: empty collection, all flags
// false.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(State))}
}

// Dispatch applies ev through the transition function and notifies
// subscribers with the resulting snapshot.
func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	s.state = reduce(s.state, ev)
	snap := cloneState(s.state)
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Snapshot returns a defensive copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Subscribe registers fn to run after every dispatch and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func cloneState(s State) State {
	out := s
	out.Bikes = make([]models.Bike, len(s.Bikes))
	copy(out.Bikes, s.Bikes)
	return out
}
