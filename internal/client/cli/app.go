// Package cli wires the sync engine together and drives it from a small
// interactive REPL.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"

	"github.com/adriancondrea/Bikes-Shop/internal/client/cache"
	"github.com/adriancondrea/Bikes-Shop/internal/client/config"
	"github.com/adriancondrea/Bikes-Shop/internal/client/connectivity"
	"github.com/adriancondrea/Bikes-Shop/internal/client/remote"
	"github.com/adriancondrea/Bikes-Shop/internal/client/sync"
	"github.com/adriancondrea/Bikes-Shop/internal/logging"
	"github.com/prometheus/client_golang/prometheus"

	_ "modernc.org/sqlite"
)

// App owns the engine components and their lifetimes: constructed once at
// startup, torn down explicitly when Run returns.
type App struct {
	config     *config.Config
	log        logging.Logger
	db         *sql.DB
	cache      cache.Store
	remote     remote.Client
	store      *sync.Store
	service    *sync.Service
	monitor    *connectivity.Monitor
	reconciler *sync.Reconciler
	listener   *sync.Listener
}

// NewApp builds the component graph from config.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := cache.Open(ctx, c.CacheDSN)
	if err != nil {
		return nil, err
	}
	cacheStore := cache.NewSQLiteStore(db)

	tokenSource := func(ctx context.Context) (string, error) {
		return cacheStore.Credential(ctx)
	}
	apiClient := remote.NewRESTClient(c.ServerBaseURL, c.RequestTimeout, tokenSource, log)

	store := sync.NewStore()
	monitor := connectivity.NewMonitor(apiClient, c.OnlineCheckInterval, c.DebounceCount, log)
	service := sync.NewService(store, apiClient, cacheStore, monitor, log)
	metrics := sync.NewMetrics(prometheus.DefaultRegisterer)
	reconciler := sync.NewReconciler(apiClient, cacheStore, store, log, metrics)
	listener := sync.NewListener(apiClient, store, log)

	return &App{
		config:     c,
		log:        log,
		db:         db,
		cache:      cacheStore,
		remote:     apiClient,
		store:      store,
		service:    service,
		monitor:    monitor,
		reconciler: reconciler,
		listener:   listener,
	}, nil
}

// Run starts the background components, serves the REPL until EOF or exit,
// then tears everything down. After Run returns no component touches the
// store again.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	unsubscribe := a.monitor.Subscribe(func(online bool) {
		a.store.Dispatch(sync.NetworkStatusChanged{Connected: online})
		if online {
			a.reconciler.Trigger()
		}
	})

	go a.monitor.Run(ctx)
	go a.reconciler.Run(ctx)

	if err := a.listener.Open(ctx); err != nil {
		a.log.Warn(ctx, "push channel unavailable", "error", err)
	}

	a.service.Fetch(ctx)

	a.runREPL(ctx, bufio.NewScanner(os.Stdin))

	unsubscribe()
	a.listener.Close()
	cancel()
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "closing cache database", "error", err)
	}
}
