package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/adriancondrea/Bikes-Shop/internal/client/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListener_FoldsNotificationsIntoStore(t *testing.T) {
	rc := newFakeRemote()
	store := NewStore()
	store.Dispatch(FetchSucceeded{Bikes: []models.Bike{{Id: "7", Name: "Trek"}}})

	l := NewListener(rc, store, testLogger())
	require.NoError(t, l.Open(context.Background()))
	t.Cleanup(l.Close)

	rc.push(remote.Change{Kind: remote.ChangeCreated, Bike: models.Bike{Id: "8", Name: "Giant"}})
	require.Len(t, store.Snapshot().Bikes, 2)

	rc.push(remote.Change{Kind: remote.ChangeUpdated, Bike: models.Bike{Id: "8", Name: "Giant v2"}})
	s := store.Snapshot()
	require.Len(t, s.Bikes, 2)
	assert.Equal(t, "Giant v2", s.Bikes[0].Name)

	rc.push(remote.Change{Kind: remote.ChangeDeleted, Bike: models.Bike{Id: "7"}})
	s = store.Snapshot()
	require.Len(t, s.Bikes, 1)
	assert.Equal(t, "8", s.Bikes[0].Id)

	// Deleting an absent identifier leaves the view unchanged.
	rc.push(remote.Change{Kind: remote.ChangeDeleted, Bike: models.Bike{Id: "7"}})
	assert.Len(t, store.Snapshot().Bikes, 1)
}

func TestListener_UnknownKindIgnored(t *testing.T) {
	rc := newFakeRemote()
	store := NewStore()
	l := NewListener(rc, store, testLogger())
	require.NoError(t, l.Open(context.Background()))
	t.Cleanup(l.Close)

	rc.push(remote.Change{Kind: "renamed", Bike: models.Bike{Id: "1"}})
	assert.Empty(t, store.Snapshot().Bikes)
}

func TestListener_CloseDropsRacingEvents(t *testing.T) {
	rc := newFakeRemote()
	store := NewStore()
	l := NewListener(rc, store, testLogger())
	require.NoError(t, l.Open(context.Background()))

	l.Close()
	assert.Equal(t, 1, rc.closeCalls)

	// The read loop may still be draining; its events must be dropped.
	rc.push(remote.Change{Kind: remote.ChangeCreated, Bike: models.Bike{Id: "1"}})
	assert.Empty(t, store.Snapshot().Bikes)

	// Closing again is a no-op.
	l.Close()
	assert.Equal(t, 1, rc.closeCalls)
}

func TestListener_OpenAfterCloseIsNoop(t *testing.T) {
	rc := newFakeRemote()
	l := NewListener(rc, NewStore(), testLogger())

	l.Close()
	require.NoError(t, l.Open(context.Background()))
	assert.Nil(t, rc.onMessage)
}

func TestListener_Reopen(t *testing.T) {
	rc := newFakeRemote()
	store := NewStore()
	l := NewListener(rc, store, testLogger())
	require.NoError(t, l.Open(context.Background()))

	require.NoError(t, l.Reopen(context.Background()))
	assert.Equal(t, 1, rc.closeCalls)

	// The fresh channel keeps delivering.
	rc.push(remote.Change{Kind: remote.ChangeCreated, Bike: models.Bike{Id: "1"}})
	assert.Len(t, store.Snapshot().Bikes, 1)

	l.Close()
	assert.Equal(t, 2, rc.closeCalls)
}

func TestListener_OpenFailure(t *testing.T) {
	rc := newFakeRemote()
	rc.openErr = errors.New("dial failed")
	l := NewListener(rc, NewStore(), testLogger())

	require.Error(t, l.Open(context.Background()))
}
