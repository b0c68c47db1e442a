// Package remote implements the client of the bike service API: JSON REST
// for CRUD and a websocket channel for push notifications. It is pure I/O
// and holds no collection state.
package remote

import (
	"context"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
)

// Change notification kinds delivered on the push channel.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Change is a push notification about a bike modified by another client.
type Change struct {
	Kind string
	Bike models.Bike
}

// Client describes the remote service surface consumed by the sync engine.
//
// Errors returned by CRUD calls are mapped onto the common taxonomy:
// common.ErrValidation for entity rejections, common.ErrUnavailable for
// transport failures, common.ErrNotFound for missing entities.
type Client interface {
	// List fetches the full remote collection.
	List(ctx context.Context) ([]models.Bike, error)

	// Create stores a new bike; the server assigns the canonical identifier.
	Create(ctx context.Context, bike models.Bike) (models.Bike, error)

	// Update replaces the bike stored under bike.Id.
	Update(ctx context.Context, bike models.Bike) (models.Bike, error)

	// Delete removes the bike stored under id.
	Delete(ctx context.Context, id string) error

	// OpenChannel opens the push-notification channel authenticated with the
	// current credential. onMessage is invoked for every notification in the
	// order received. The returned function closes the channel; no messages
	// are delivered after it returns.
	OpenChannel(ctx context.Context, onMessage func(Change)) (func(), error)

	// Ping probes server reachability.
	Ping(ctx context.Context) error
}

// TokenSource supplies the current credential for outbound calls.
type TokenSource func(ctx context.Context) (string, error)
