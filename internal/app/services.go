package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/data/aggregates"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
	"github.com/yungbote/rsvp-backend/internal/realtime/bus"
	"github.com/yungbote/rsvp-backend/internal/services/auth"
	"github.com/yungbote/rsvp-backend/internal/services/collections"
	"github.com/yungbote/rsvp-backend/internal/services/stats"
)

type Services struct {
	Auth        auth.AuthService
	Stats       *stats.Cache
	Collections collections.Service

	// Bus is nil without redis.
	Bus bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	authService, err := auth.NewAuthService(log, auth.Config{
		JWTSecretKey: cfg.JWTSecretKey,
		PasswordHash: cfg.AdminPasswordHash,
		TokenTTL:     cfg.AdminTokenTTL,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH not set; admin login disabled")
	}

	var invalidationBus bus.Bus
	if clients.Redis != nil {
		invalidationBus, err = bus.NewRedisBus(log, clients.Redis, cfg.Redis.Channel, metrics)
		if err != nil {
			return Services{}, fmt.Errorf("init invalidation bus: %w", err)
		}
	}

	aggregator := stats.NewAggregator(log, repos.Guest, repos.MenuOption)
	cache := stats.NewCache(aggregator, stats.CacheConfig{
		TTL:            cfg.StatsCacheTTL,
		RefreshTimeout: cfg.StatsRefreshTimeout,
		Log:            log,
		Metrics:        metrics,
	})

	sequencer := aggregates.NewSequencer(aggregates.SequencerDeps{
		BaseDeps: aggregates.BaseDeps{
			DB:    db,
			Log:   log,
			Hooks: aggregates.NewObservabilityHooks(metrics),
		},
		Store: repos.Collection,
		Base:  cfg.ReorderBase,
		Step:  cfg.ReorderStep,
	})

	return Services{
		Auth:        authService,
		Stats:       cache,
		Collections: collections.NewService(log, sequencer, repos.Collection, cache, invalidationBus),
		Bus:         invalidationBus,
	}, nil
}
