package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/adriancondrea/Bikes-Shop/internal/client/cache"
	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/adriancondrea/Bikes-Shop/internal/client/remote"
	"github.com/adriancondrea/Bikes-Shop/internal/common"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	retryBaseDelay  = 200 * time.Millisecond
	retryMaxRetries = 3
)

// Reconciler replays offline-made changes against the server after
// connectivity returns. Runs are serialized on a single goroutine; triggers
// arriving during a run coalesce into one follow-up run.
//
// Tie-break rule: the server is authoritative for identifier assignment,
// the local copy is authoritative for field values.
type Reconciler struct {
	remote  remote.Client
	cache   cache.Store
	store   *Store
	log     logging.Logger
	metrics *Metrics

	trigger chan struct{}
}

// NewReconciler constructs a Reconciler. metrics may not be nil; pass
// NewMetrics(prometheus.NewRegistry()) when aggregate counters are not
// scraped.
func NewReconciler(rc remote.Client, cs cache.Store, store *Store, log logging.Logger, metrics *Metrics) *Reconciler {
	return &Reconciler{
		remote:  rc,
		cache:   cs,
		store:   store,
		log:     log,
		metrics: metrics,
		trigger: make(chan struct{}, 1),
	}
}

// Trigger requests a reconciliation run. Requests arriving while a run is
// active coalesce into a single follow-up run.
func (r *Reconciler) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Run serves trigger requests until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	for {
		select {
		case <-r.trigger:
			r.reconcile(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// reconcile performs one full pass: fetch the remote collection, replay every
// cached record that differs, then refresh the store from a fresh fetch so
// the view reflects canonical identifiers. Per-record failures are isolated
// and surfaced in aggregate.
func (r *Reconciler) reconcile(ctx context.Context) {
	r.metrics.Runs.Inc()
	r.log.Info(ctx, "reconciliation started")

	remoteBikes, err := r.remote.List(ctx)
	if err != nil {
		r.log.Error(ctx, "reconciliation aborted: remote fetch failed", "error", err)
		return
	}
	byID := make(map[string]models.Bike, len(remoteBikes))
	for _, b := range remoteBikes {
		byID[b.Id] = b
	}

	keys, err := r.cache.ListKeys(ctx)
	if err != nil {
		r.log.Error(ctx, "reconciliation aborted: cache enumeration failed", "error", err)
		return
	}

	failures := 0
	for _, key := range keys {
		if err := r.reconcileRecord(ctx, key, byID); err != nil {
			failures++
			r.metrics.RecordFailures.Inc()
			r.log.Warn(ctx, "record reconciliation failed", "key", key, "error", err)
		}
	}

	fresh, err := r.remote.List(ctx)
	if err != nil {
		r.log.Error(ctx, "post-reconciliation refresh failed", "error", err)
	} else {
		r.store.Dispatch(FetchSucceeded{Bikes: fresh})
	}

	if failures == 0 {
		r.store.Dispatch(PendingChangesSet{Pending: false})
	}
	r.log.Info(ctx, "reconciliation finished", "records", len(keys), "failures", failures)
}

// reconcileRecord replays one cached record against the remote snapshot:
// field-equal records are a no-op, differing records are updated with the
// cached values, records unknown to the server are created (the server
// assigns the canonical id and the temporary one is pruned).
func (r *Reconciler) reconcileRecord(ctx context.Context, key string, byID map[string]models.Bike) error {
	data, err := r.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("reading cache record: %w", err)
	}
	var cached models.Bike
	if err := json.Unmarshal(data, &cached); err != nil {
		return fmt.Errorf("decoding cache record: %w", err)
	}
	cached.Id = key

	if remoteBike, ok := byID[key]; ok {
		if cached.FieldsEqual(remoteBike) {
			return nil
		}
		var updated models.Bike
		err := r.withRetry(ctx, func(ctx context.Context) error {
			var uerr error
			updated, uerr = r.remote.Update(ctx, cached)
			return uerr
		})
		if err != nil {
			return fmt.Errorf("updating %s: %w", key, err)
		}
		r.metrics.Updates.Inc()
		r.mirror(ctx, updated)
		return nil
	}

	create := cached
	create.Id = ""
	var created models.Bike
	err = r.withRetry(ctx, func(ctx context.Context) error {
		var cerr error
		created, cerr = r.remote.Create(ctx, create)
		return cerr
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", key, err)
	}
	r.metrics.Creates.Inc()

	// The temporary identifier is superseded by the canonical one.
	data, merr := json.Marshal(created)
	if merr == nil {
		merr = r.cache.Replace(ctx, key, created.Id, data)
	}
	if merr != nil {
		r.log.Warn(ctx, "replacing superseded cache record failed", "key", key, "error", merr)
	}
	return nil
}

// withRetry retries fn with fibonacci backoff while it fails at the
// transport level. Validation errors are returned immediately.
func (r *Reconciler) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewFibonacci(retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, common.ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *Reconciler) mirror(ctx context.Context, bike models.Bike) {
	data, err := json.Marshal(bike)
	if err == nil {
		err = r.cache.Set(ctx, bike.Id, data)
	}
	if err != nil {
		r.log.Warn(ctx, "cache mirror failed", "id", bike.Id, "error", err)
	}
}
