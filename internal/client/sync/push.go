package sync

import (
	"context"
	stdsync "sync"

	"github.com/adriancondrea/Bikes-Shop/internal/client/remote"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
)

// Listener consumes push notifications from the remote channel and folds
// them into the store. The channel is opened with the current credential;
// Reopen re-dials after a credential change. Close is idempotent and
// guarantees no event is dispatched after it returns.
type Listener struct {
	remote remote.Client
	store  *Store
	log    logging.Logger

	mu      stdsync.Mutex
	closed  bool
	closeFn func()
}

// NewListener constructs a Listener bound to the store.
func NewListener(rc remote.Client, store *Store, log logging.Logger) *Listener {
	return &Listener{remote: rc, store: store, log: log}
}

// Open dials the push channel. Opening an already-closed listener is a no-op.
func (l *Listener) Open(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	closeFn, err := l.remote.OpenChannel(ctx, l.onChange)
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		closeFn()
		return nil
	}
	l.closeFn = closeFn
	l.mu.Unlock()
	return nil
}

// Reopen tears down the current channel and dials again, picking up the
// current credential.
func (l *Listener) Reopen(ctx context.Context) error {
	l.mu.Lock()
	closeFn := l.closeFn
	l.closeFn = nil
	l.mu.Unlock()

	if closeFn != nil {
		closeFn()
	}
	return l.Open(ctx)
}

// Close shuts the channel down exactly once. Events racing the close are
// dropped, not delivered.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	closeFn := l.closeFn
	l.closeFn = nil
	l.mu.Unlock()

	if closeFn != nil {
		closeFn()
	}
}

func (l *Listener) onChange(ch remote.Change) {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}

	switch ch.Kind {
	case remote.ChangeCreated, remote.ChangeUpdated:
		l.store.Dispatch(SaveSucceeded{Bike: ch.Bike})
	case remote.ChangeDeleted:
		l.store.Dispatch(DeleteSucceeded{Bike: ch.Bike})
	default:
		l.log.Warn(context.Background(), "ignoring unknown push notification", "kind", ch.Kind)
	}
}
