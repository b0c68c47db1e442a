package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	stdsync "sync"

	"github.com/adriancondrea/Bikes-Shop/internal/client/models"
	"github.com/adriancondrea/Bikes-Shop/internal/client/remote"
	"github.com/adriancondrea/Bikes-Shop/internal/common"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeRemote is a stateful in-memory stand-in for the bike service.
type fakeRemote struct {
	mu     stdsync.Mutex
	bikes  []models.Bike
	nextID int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	// updateErrOnce is consumed by the first Update call.
	updateErrOnce error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int

	onMessage  func(remote.Change)
	openErr    error
	closeCalls int
}

func newFakeRemote(bikes ...models.Bike) *fakeRemote {
	return &fakeRemote{bikes: bikes}
}

func (f *fakeRemote) List(ctx context.Context) ([]models.Bike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Bike, len(f.bikes))
	copy(out, f.bikes)
	return out, nil
}

func (f *fakeRemote) Create(ctx context.Context, bike models.Bike) (models.Bike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return models.Bike{}, f.createErr
	}
	f.nextID++
	bike.Id = fmt.Sprintf("srv-%d", f.nextID)
	f.bikes = append(f.bikes, bike)
	return bike, nil
}

func (f *fakeRemote) Update(ctx context.Context, bike models.Bike) (models.Bike, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErrOnce != nil {
		err := f.updateErrOnce
		f.updateErrOnce = nil
		return models.Bike{}, err
	}
	if f.updateErr != nil {
		return models.Bike{}, f.updateErr
	}
	for i, b := range f.bikes {
		if b.Id == bike.Id {
			f.bikes[i] = bike
			return bike, nil
		}
	}
	return models.Bike{}, common.ErrNotFound
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, b := range f.bikes {
		if b.Id == id {
			f.bikes = append(f.bikes[:i], f.bikes[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeRemote) OpenChannel(ctx context.Context, onMessage func(remote.Change)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.onMessage = onMessage
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.closeCalls++
	}, nil
}

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }

func (f *fakeRemote) push(ch remote.Change) {
	f.mu.Lock()
	onMessage := f.onMessage
	f.mu.Unlock()
	if onMessage != nil {
		onMessage(ch)
	}
}

// fakeCache is an in-memory cache.Store.
type fakeCache struct {
	mu   stdsync.Mutex
	data map[string][]byte

	getErr    error
	setErr    error
	removeErr error
	listErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	value, ok := f.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return value, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Replace(ctx context.Context, oldKey, newKey string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	delete(f.data, oldKey)
	f.data[newKey] = value
	return nil
}

func (f *fakeCache) ListKeys(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for key := range f.data {
		if key == common.CredentialCacheKey {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeCache) Credential(ctx context.Context) (string, error) {
	value, err := f.Get(ctx, common.CredentialCacheKey)
	if err != nil {
		return "", nil
	}
	return string(value), nil
}

func (f *fakeCache) SetCredential(ctx context.Context, token string) error {
	return f.Set(ctx, common.CredentialCacheKey, []byte(token))
}

func (f *fakeCache) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.data)
	if _, ok := f.data[common.CredentialCacheKey]; ok {
		n--
	}
	return n
}

// fakeConn reports a fixed connectivity state.
type fakeConn struct {
	online bool
}

func (f *fakeConn) Current() bool { return f.online }
