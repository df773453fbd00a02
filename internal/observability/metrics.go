package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

const namespace = "rsvp"

// Metrics owns every Prometheus collector the service exports. All methods
// are safe on a nil receiver so callers never need to check whether metrics
// are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	aggregateOps       *prometheus.CounterVec
	aggregateLatency   *prometheus.HistogramVec
	aggregateConflicts *prometheus.CounterVec
	aggregateRetries   *prometheus.CounterVec

	cacheHits          prometheus.Counter
	cacheRefreshes     *prometheus.CounterVec
	cacheRefreshTime   prometheus.Histogram
	cacheCoalesced     prometheus.Counter
	cacheInvalidations *prometheus.CounterVec
	cacheVersion       prometheus.Gauge

	busEvents *prometheus.CounterVec

	dbStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

// NewMetrics builds the collectors and registers them, together with the Go
// runtime and process collectors, on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight API requests.",
		}),
		aggregateOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "operations_total",
			Help:      "Aggregate write operations by operation/status.",
		}, []string{"operation", "status"}),
		aggregateLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "operation_duration_seconds",
			Help:      "Aggregate write operation latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"operation", "status"}),
		aggregateConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "conflicts_total",
			Help:      "Aggregate write conflicts by operation.",
		}, []string{"operation"}),
		aggregateRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "retryable_total",
			Help:      "Aggregate writes that failed with a retryable error, by operation.",
		}, []string{"operation"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "hits_total",
			Help:      "Statistics reads served from a fresh snapshot.",
		}),
		cacheRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "refreshes_total",
			Help:      "Statistics recomputations by status.",
		}, []string{"status"}),
		cacheRefreshTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "refresh_duration_seconds",
			Help:      "Statistics recomputation latency in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		cacheCoalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "coalesced_total",
			Help:      "Statistics reads that joined an in-flight refresh instead of starting one.",
		}),
		cacheInvalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "invalidations_total",
			Help:      "Snapshot invalidations by source.",
		}, []string{"source"}),
		cacheVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stats_cache",
			Name:      "snapshot_version",
			Help:      "Version of the most recently computed statistics snapshot.",
		}),
		busEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bus",
			Name:      "events_total",
			Help:      "Invalidation bus events by direction/status.",
		}, []string{"direction", "status"}),
		dbStats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_stats",
			Help:      "Database pool statistics by stat name.",
		}, []string{"stat"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "up",
			Help:      "Whether the last Redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "ping_seconds",
			Help:      "Latency of the last Redis ping in seconds.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.cacheHits, m.cacheRefreshes, m.cacheRefreshTime, m.cacheCoalesced, m.cacheInvalidations, m.cacheVersion,
		m.busEvents,
		m.dbStats, m.redisUp, m.redisPing,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.WithLabelValues(method, route, code).Inc()
	m.apiLatency.WithLabelValues(method, route, code).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	name = labelOr(name, "unknown")
	status = labelOr(status, "unknown")
	m.aggregateOps.WithLabelValues(name, status).Inc()
	m.aggregateLatency.WithLabelValues(name, status).Observe(dur.Seconds())
}

func (m *Metrics) IncAggregateConflict(name string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.WithLabelValues(labelOr(name, "unknown")).Inc()
}

func (m *Metrics) IncAggregateRetry(name string) {
	if m == nil {
		return
	}
	m.aggregateRetries.WithLabelValues(labelOr(name, "unknown")).Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) IncCacheCoalesced() {
	if m == nil {
		return
	}
	m.cacheCoalesced.Inc()
}

func (m *Metrics) ObserveCacheRefresh(status string, dur time.Duration, version uint64) {
	if m == nil {
		return
	}
	m.cacheRefreshes.WithLabelValues(labelOr(status, "unknown")).Inc()
	m.cacheRefreshTime.Observe(dur.Seconds())
	if version > 0 {
		m.cacheVersion.Set(float64(version))
	}
}

func (m *Metrics) IncCacheInvalidation(source string) {
	if m == nil {
		return
	}
	m.cacheInvalidations.WithLabelValues(labelOr(source, "local")).Inc()
}

func (m *Metrics) IncBusEvent(direction, status string) {
	if m == nil {
		return
	}
	m.busEvents.WithLabelValues(labelOr(direction, "unknown"), labelOr(status, "unknown")).Inc()
}

// StartDBCollector samples the pool statistics of db every interval until
// ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.dbStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.dbStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.dbStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.dbStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.dbStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

// StartRedisCollector pings rdb every interval until ctx is done. The client
// is owned by the caller.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func labelOr(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
