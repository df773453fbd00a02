package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/rsvp-backend/internal/data/db"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type Clients struct {
	Store *db.PostgresService
	// Redis is nil when REDIS_ADDR is unset; invalidation then stays local.
	Redis goredis.UniversalClient
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	store, err := db.NewPostgresService(log, cfg.DB)
	if err != nil {
		return Clients{}, fmt.Errorf("init store: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		return Clients{}, fmt.Errorf("store automigrate: %w", err)
	}

	var rdb goredis.UniversalClient
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			_ = rdb.Close()
			_ = store.Close()
			return Clients{}, fmt.Errorf("redis ping %s: %w", addr, err)
		}
		log.Info("redis connected", "addr", addr)
	}

	return Clients{Store: store, Redis: rdb}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}
