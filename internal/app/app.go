package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/data/db"
	"github.com/yungbote/bookshelf-backend/internal/http"
	httpH "github.com/yungbote/bookshelf-backend/internal/http/handlers"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
	"github.com/yungbote/bookshelf-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub
	Metrics  *observability.Metrics

	store        *db.Service
	bus          bus.Bus
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.OtelConfig())

	store, err := db.New(log, cfg.DBOptions())
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		log.Sync()
		return nil, fmt.Errorf("store automigrate: %w", err)
	}
	theDB := store.DB()

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics(0)
	}

	hub := realtime.NewHub(log, cfg.SubscriberBuffer)
	checks := map[string]httpH.Pinger{"database": store.Ping}

	// Without a relay the hub is the bus. With one, every instance
	// publishes to redis and its forwarder feeds the local hub.
	var (
		pub      realtime.Publisher = hub
		relayBus bus.Bus
	)
	if cfg.RedisAddr != "" {
		relayBus, err = bus.NewRedisBus(log, bus.RedisOptions{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
		if err != nil {
			_ = store.Close()
			log.Sync()
			return nil, fmt.Errorf("init notification relay: %w", err)
		}
		pub = bus.Publisher(relayBus)
		checks["redis"] = relayBus.Ping
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, pub, metrics)
	if err != nil {
		if relayBus != nil {
			_ = relayBus.Close()
		}
		_ = store.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, hub, metrics, checks)
	middleware := wireMiddleware(log, cfg, serviceset, metrics)
	server := wireServer(handlerset, middleware)
	server.OnShutdown = append(server.OnShutdown, hub.Close)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		Metrics:      metrics,
		store:        store,
		bus:          relayBus,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves the API and its background loops until ctx is cancelled or
// one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	if a.bus != nil {
		if err := a.bus.StartForwarder(gctx, func(m realtime.Message) { a.Hub.Broadcast(m) }); err != nil {
			return fmt.Errorf("start notification forwarder: %w", err)
		}
		g.Go(func() error { return a.Metrics.CollectRelayHealth(gctx, a.Log, a.bus.Ping) })
	}
	if a.Metrics != nil {
		g.Go(func() error { return a.Metrics.Serve(gctx, a.Log, a.Cfg.MetricsAddr) })
		g.Go(func() error { return a.Metrics.CollectDBStats(gctx, a.Log, a.DB) })
	}
	g.Go(func() error {
		addr := ":" + a.Cfg.Port
		a.Log.Info("Server listening", "addr", addr)
		return a.Server.Run(gctx, addr)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
