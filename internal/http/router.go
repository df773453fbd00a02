package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/rsvp-backend/internal/http/handlers"
	httpMW "github.com/yungbote/rsvp-backend/internal/http/middleware"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics
	// ServiceName enables otelgin spans when set.
	ServiceName    string
	AllowedOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	StatisticsHandler *httpH.StatisticsHandler
	CollectionHandler *httpH.CollectionHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	admin := api.Group("/admin")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			admin.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := admin.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAdmin())
		}

		// Statistics
		if cfg.StatisticsHandler != nil {
			protected.GET("/statistics", cfg.StatisticsHandler.GetStatistics)
			protected.GET("/statistics/status", cfg.StatisticsHandler.GetStatus)
		}

		// Ordered collections
		if cfg.CollectionHandler != nil {
			protected.GET("/collections", cfg.CollectionHandler.ListNames)
			protected.GET("/collections/:name", cfg.CollectionHandler.List)
			protected.PUT("/collections/:name/order", cfg.CollectionHandler.Reorder)
		}
	}

	return r
}
