package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/http"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
	"github.com/yungbote/rsvp-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig(nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("config loaded", "port", cfg.Port, "db_driver", cfg.DB.Driver, "redis", cfg.Redis.Addr != "")

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.NewMetrics()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}
	theDB := clients.Store.DB()

	reposet := wireRepos(theDB, log)
	if cfg.SeedDemo {
		if err := seedDemo(ctx, theDB, log, reposet); err != nil {
			clients.Close()
			_ = otelShutdown(ctx)
			log.Sync()
			return nil, err
		}
	}

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, metrics)
	if err != nil {
		clients.Close()
		_ = otelShutdown(ctx)
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, clients)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: peer invalidation and pool collectors.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Bus != nil {
		cache := a.Services.Stats
		err := a.Services.Bus.StartForwarder(ctx, func(evt bus.Event) {
			if evt.Kind == bus.KindStatsInvalidate {
				cache.InvalidateFrom("peer")
			}
		})
		if err != nil {
			return fmt.Errorf("start invalidation forwarder: %w", err)
		}
	}
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB, a.Cfg.MetricsInterval)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, a.Cfg.MetricsInterval)
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("http server listening", "addr", a.Cfg.Addr())
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown drains HTTP, waits for in-flight statistics refreshes and
// releases clients. It is bounded by ctx.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if a.Services.Stats != nil {
		if err := a.Services.Stats.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stats cache close: %w", err))
		}
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	a.Close()
	if a.otelShutdown != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.otelShutdown(flushCtx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
