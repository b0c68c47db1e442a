// Package sync implements the offline-first synchronization engine: the
// state store observed by the UI layer, the save/delete/fetch orchestration,
// the reconciler that replays offline changes after connectivity returns, and
// the push listener folding server-side notifications into the same view.
package sync

import "github.com/adriancondrea/Bikes-Shop/internal/client/models"

// State is the in-memory view of the collection plus request-lifecycle flags.
// It is only ever modified through reduce.
type State struct {
	Bikes []models.Bike

	Fetching bool
	FetchErr error

	Saving  bool
	SaveErr error

	Deleting  bool
	DeleteErr error

	// Connected mirrors the monitor's published state.
	Connected bool

	// PendingChanges is true while some change exists only locally and has
	// not been confirmed by the server.
	PendingChanges bool
}

// Event is a named state transition. Events unknown to reduce are ignored.
type Event interface {
	isEvent()
}

type FetchStarted struct{}

type FetchSucceeded struct {
	Bikes []models.Bike
}

type FetchFailed struct {
	Err error
}

type SaveStarted struct{}

type SaveSucceeded struct {
	Bike models.Bike
}

type SaveFailed struct {
	Err error
}

type DeleteStarted struct{}

type DeleteSucceeded struct {
	Bike models.Bike
}

type DeleteFailed struct {
	Err error
}

type NetworkStatusChanged struct {
	Connected bool
}

type PendingChangesSet struct {
	Pending bool
}

func (FetchStarted) isEvent()         {}
func (FetchSucceeded) isEvent()       {}
func (FetchFailed) isEvent()          {}
func (SaveStarted) isEvent()          {}
func (SaveSucceeded) isEvent()        {}
func (SaveFailed) isEvent()           {}
func (DeleteStarted) isEvent()        {}
func (DeleteSucceeded) isEvent()      {}
func (DeleteFailed) isEvent()         {}
func (NetworkStatusChanged) isEvent() {}
func (PendingChangesSet) isEvent()    {}

// reduce is the pure transition function. It never mutates its input: the
// bike slice is copied before any change, so snapshots held by observers
// stay stable.
func reduce(s State, ev Event) State {
	switch ev := ev.(type) {
	case FetchStarted:
		s.Fetching = true
		s.FetchErr = nil
	case FetchSucceeded:
		s.Bikes = ev.Bikes
		s.Fetching = false
	case FetchFailed:
		s.FetchErr = ev.Err
		s.Fetching = false
	case SaveStarted:
		s.Saving = true
		s.SaveErr = nil
	case SaveSucceeded:
		s.Bikes = upsert(s.Bikes, ev.Bike)
		s.Saving = false
	case SaveFailed:
		s.SaveErr = ev.Err
		s.Saving = false
	case DeleteStarted:
		s.Deleting = true
		s.DeleteErr = nil
	case DeleteSucceeded:
		s.Bikes = remove(s.Bikes, ev.Bike.Id)
		s.Deleting = false
	case DeleteFailed:
		s.DeleteErr = ev.Err
		s.Deleting = false
	case NetworkStatusChanged:
		s.Connected = ev.Connected
	case PendingChangesSet:
		s.PendingChanges = ev.Pending
	}
	return s
}

// upsert replaces the bike with a matching id in place, or prepends it when
// the id is unseen.
func upsert(bikes []models.Bike, bike models.Bike) []models.Bike {
	for i, b := range bikes {
		if b.Id == bike.Id {
			out := make([]models.Bike, len(bikes))
			copy(out, bikes)
			out[i] = bike
			return out
		}
	}
	out := make([]models.Bike, 0, len(bikes)+1)
	out = append(out, bike)
	out = append(out, bikes...)
	return out
}

// remove drops the bike with a matching id; unknown ids are a no-op.
func remove(bikes []models.Bike, id string) []models.Bike {
	for i, b := range bikes {
		if b.Id == id {
			out := make([]models.Bike, 0, len(bikes)-1)
			out = append(out, bikes[:i]...)
			out = append(out, bikes[i+1:]...)
			return out
		}
	}
	return bikes
}
