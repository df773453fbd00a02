package app

import (
	"context"

	"github.com/yungbote/rsvp-backend/internal/http"
	httpH "github.com/yungbote/rsvp-backend/internal/http/handlers"
	httpMW "github.com/yungbote/rsvp-backend/internal/http/middleware"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Statistics *httpH.StatisticsHandler
	Collection *httpH.CollectionHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{
		"db": func(ctx context.Context) error {
			sqlDB, err := clients.Store.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	return Handlers{
		Health:     httpH.NewHealthHandler(checks),
		Auth:       httpH.NewAuthHandler(services.Auth),
		Statistics: httpH.NewStatisticsHandler(services.Stats),
		Collection: httpH.NewCollectionHandler(services.Collections),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       serviceName,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		StatisticsHandler: handlers.Statistics,
		CollectionHandler: handlers.Collection,
	})
}
