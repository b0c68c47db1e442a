package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adriancondrea/Bikes-Shop/internal/client/cache"
	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/adriancondrea/Bikes-Shop/internal/client/remote"
	"github.com/adriancondrea/Bikes-Shop/internal/common"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
)

// Connectivity is the slice of the monitor the service needs.
type Connectivity interface {
	Current() bool
}

// Service orchestrates fetch/save/delete against either the remote service
// (online) or the local cache (offline). Outcomes are surfaced exclusively
// through store events; no call here returns an error to the caller.
type Service struct {
	store  *Store
	remote remote.Client
	cache  cache.Store
	conn   Connectivity
	log    logging.Logger
}

// NewService constructs a Service bound to its collaborators.
func NewService(store *Store, rc remote.Client, cs cache.Store, conn Connectivity, log logging.Logger) *Service {
	return &Service{store: store, remote: rc, cache: cs, conn: conn, log: log}
}

// Fetch loads the collection: from the server while online (mirroring the
// result into the cache), from the cache while offline or when the online
// call fails at the transport level.
func (s *Service) Fetch(ctx context.Context) {
	s.store.Dispatch(FetchStarted{})

	if s.conn.Current() {
		bikes, err := s.remote.List(ctx)
		if err == nil {
			for i := range bikes {
				s.mirror(ctx, bikes[i])
			}
			s.store.Dispatch(FetchSucceeded{Bikes: bikes})
			return
		}
		s.log.Warn(ctx, "remote fetch failed, falling back to cache", "error", err)
	}

	bikes, err := s.cachedBikes(ctx)
	if err != nil {
		s.store.Dispatch(FetchFailed{Err: fmt.Errorf("reading cached bikes: %w", err)})
		return
	}
	s.store.Dispatch(FetchSucceeded{Bikes: bikes})
}

// Save persists a bike. Online: create (no id) or update (id present) on the
// server, then best-effort mirror into the cache. Offline, or on a transport
// error: mint a local id if needed, write the cache record, and mark changes
// pending. A validation error is never retried offline.
func (s *Service) Save(ctx context.Context, bike models.Bike) {
	s.store.Dispatch(SaveStarted{})

	if s.conn.Current() {
		var saved models.Bike
		var err error
		if bike.Id == "" {
			saved, err = s.remote.Create(ctx, bike)
		} else {
			saved, err = s.remote.Update(ctx, bike)
		}
		if err == nil {
			s.mirror(ctx, saved)
			s.store.Dispatch(SaveSucceeded{Bike: saved})
			return
		}
		if errors.Is(err, common.ErrValidation) {
			s.store.Dispatch(SaveFailed{Err: err})
			return
		}
		s.log.Warn(ctx, "remote save failed, saving offline", "error", err)
	}

	if bike.Id == "" {
		bike.Id = models.NewLocalID()
	}
	data, err := json.Marshal(bike)
	if err != nil {
		s.store.Dispatch(SaveFailed{Err: fmt.Errorf("encoding bike: %w", err)})
		return
	}
	if err := s.cache.Set(ctx, bike.Id, data); err != nil {
		// The cache is the sole persistence path here, so its failure fails
		// the operation.
		s.store.Dispatch(SaveFailed{Err: fmt.Errorf("caching bike: %w", err)})
		return
	}
	s.store.Dispatch(SaveSucceeded{Bike: bike})
	s.store.Dispatch(PendingChangesSet{Pending: true})
}

// Delete removes a bike. Online: delete on the server. Offline, or on a
// transport error: drop the cache record and mark changes pending. Any other
// remote failure surfaces as DeleteFailed with no local mutation.
func (s *Service) Delete(ctx context.Context, bike models.Bike) {
	s.store.Dispatch(DeleteStarted{})

	if s.conn.Current() {
		err := s.remote.Delete(ctx, bike.Id)
		if err == nil {
			if cerr := s.cache.Remove(ctx, bike.Id); cerr != nil {
				s.log.Warn(ctx, "cache remove failed", "id", bike.Id, "error", cerr)
			}
			s.store.Dispatch(DeleteSucceeded{Bike: bike})
			return
		}
		if !errors.Is(err, common.ErrUnavailable) {
			s.store.Dispatch(DeleteFailed{Err: err})
			return
		}
		s.log.Warn(ctx, "remote delete failed, deleting offline", "error", err)
	}

	if bike.Id == "" {
		bike.Id = models.NewLocalID()
	}
	if err := s.cache.Remove(ctx, bike.Id); err != nil {
		s.store.Dispatch(DeleteFailed{Err: fmt.Errorf("removing cached bike: %w", err)})
		return
	}
	s.store.Dispatch(DeleteSucceeded{Bike: bike})
	s.store.Dispatch(PendingChangesSet{Pending: true})
}

// mirror writes a server copy of a bike into the cache. Mirroring is
// best-effort: a failure is logged, never escalated.
func (s *Service) mirror(ctx context.Context, bike models.Bike) {
	data, err := json.Marshal(bike)
	if err == nil {
		err = s.cache.Set(ctx, bike.Id, data)
	}
	if err != nil {
		s.log.Warn(ctx, "cache mirror failed", "id", bike.Id, "error", err)
	}
}

// cachedBikes enumerates all cached entity records. Records that fail to
// decode are skipped with a warning.
func (s *Service) cachedBikes(ctx context.Context) ([]models.Bike, error) {
	keys, err := s.cache.ListKeys(ctx)
	if err != nil {
		return nil, err
	}
	bikes := make([]models.Bike, 0, len(keys))
	for _, key := range keys {
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		var bike models.Bike
		if err := json.Unmarshal(data, &bike); err != nil {
			s.log.Warn(ctx, "skipping unreadable cache record", "key", key, "error", err)
			continue
		}
		bikes = append(bikes, bike)
	}
	return bikes, nil
}
