package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/trace"

	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
	domainstats "github.com/yungbote/rsvp-backend/internal/domain/stats"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

const (
	refreshOp = "stats.refresh"

	DefaultTTL            = 5 * time.Second
	DefaultRefreshTimeout = 30 * time.Second
)

// ErrCacheClosed is returned by Get after Close.
var ErrCacheClosed = errors.New("stats cache closed")

type CacheConfig struct {
	// TTL is the maximum age of a snapshot served without recomputation.
	TTL time.Duration
	// RefreshTimeout bounds one Aggregator run. Zero leaves it unbounded.
	RefreshTimeout time.Duration
	Clock          clockwork.Clock
	Log            *logger.Logger
	Metrics        *observability.Metrics
}

// CacheStatus is a point-in-time view of the cache bookkeeping.
type CacheStatus struct {
	Version     uint64    `json:"version"`
	Pending     int       `json:"pending"`
	InProgress  bool      `json:"inProgress"`
	LastUpdated time.Time `json:"lastUpdated"`
	Stale       bool      `json:"stale"`
	TTLMillis   int64     `json:"ttlMs"`
	LastError   string    `json:"lastError,omitempty"`
}

// flight is one Aggregator run. Everyone attached to it receives its result.
type flight struct {
	done chan struct{}
	gen  uint64
	snap domainstats.Snapshot
	err  error
}

func newFlight() *flight { return &flight{done: make(chan struct{})} }

func (f *flight) result() (domainstats.Snapshot, error) {
	return f.snap.Clone(), f.err
}

// Cache serves the statistics snapshot, recomputing it at most once per TTL.
//
// While a refresh runs, further stale readers are counted in pending and
// attached to a single follow-up flight. When the running refresh finishes
// and pending is non-zero, pending is reset and the follow-up runs once, so
// any burst of concurrent readers costs at most two Aggregator runs.
type Cache struct {
	agg            Aggregator
	ttl            time.Duration
	refreshTimeout time.Duration
	clock          clockwork.Clock
	log            *logger.Logger
	metrics        *observability.Metrics

	baseCtx context.Context
	stop    context.CancelFunc

	mu          sync.Mutex
	current     *domainstats.Snapshot
	version     uint64
	gen         uint64
	invalidated bool
	running     *flight
	next        *flight
	pending     int
	lastErr     error
	closed      bool

	wg sync.WaitGroup
}

func NewCache(agg Aggregator, cfg CacheConfig) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.RefreshTimeout < 0 {
		cfg.RefreshTimeout = 0
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}
	baseCtx, stop := context.WithCancel(context.Background())
	return &Cache{
		agg:            agg,
		ttl:            cfg.TTL,
		refreshTimeout: cfg.RefreshTimeout,
		clock:          cfg.Clock,
		log:            cfg.Log.With("service", "StatsCache"),
		metrics:        cfg.Metrics,
		baseCtx:        baseCtx,
		stop:           stop,
	}
}

// Get returns the current snapshot, refreshing it first when it is older
// than the TTL or was invalidated.
//
// On a failed refresh the error is returned together with the last good
// snapshot (zero when none exists). A waiter whose ctx ends before its
// flight completes gets the last good snapshot and ctx.Err().
func (c *Cache) Get(ctx context.Context) (domainstats.Snapshot, error) {
	c.mu.Lock()
	if c.closed {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrCacheClosed
	}
	if c.freshLocked() {
		snap := c.current.Clone()
		c.mu.Unlock()
		c.metrics.IncCacheHit()
		return snap, nil
	}

	if c.running == nil {
		f := newFlight()
		f.gen = c.gen
		c.running = f
		c.wg.Add(1)
		c.mu.Unlock()

		runCtx := c.detach(ctx)
		next := c.runFlight(runCtx, f)
		c.wg.Done()
		if next != nil {
			go c.drain(runCtx, next)
		}
		return f.result()
	}

	c.pending++
	if c.next == nil {
		c.next = newFlight()
	}
	f := c.next
	c.mu.Unlock()
	c.metrics.IncCacheCoalesced()

	select {
	case <-f.done:
		return f.result()
	case <-ctx.Done():
		c.mu.Lock()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ctx.Err()
	}
}

// Invalidate marks the snapshot stale so the next Get recomputes it.
func (c *Cache) Invalidate() {
	c.InvalidateFrom("local")
}

// InvalidateFrom is Invalidate with the origin recorded in metrics.
func (c *Cache) InvalidateFrom(source string) {
	c.mu.Lock()
	c.gen++
	c.invalidated = true
	c.mu.Unlock()
	c.metrics.IncCacheInvalidation(source)
}

func (c *Cache) Status() CacheStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := CacheStatus{
		Version:    c.version,
		Pending:    c.pending,
		InProgress: c.running != nil,
		Stale:      !c.freshLocked(),
		TTLMillis:  c.ttl.Milliseconds(),
	}
	if c.current != nil {
		st.LastUpdated = c.current.LastUpdated
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// Close stops new refreshes and waits for running ones. If ctx ends first
// the running Aggregator calls are cancelled and ctx.Err() is returned.
func (c *Cache) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		c.stop()
		return nil
	case <-ctx.Done():
		c.stop()
		return ctx.Err()
	}
}

// drain runs promoted follow-up flights until none is queued.
func (c *Cache) drain(ctx context.Context, f *flight) {
	for f != nil {
		next := c.runFlight(ctx, f)
		c.wg.Done()
		f = next
	}
}

// runFlight computes f, publishes the result, and promotes the queued
// follow-up flight when readers are pending. The promoted flight is already
// counted in wg and must be run by the caller.
func (c *Cache) runFlight(ctx context.Context, f *flight) *flight {
	start := c.clock.Now()
	snap, err := c.compute(ctx)
	dur := c.clock.Since(start)

	c.mu.Lock()
	status := "success"
	if err == nil {
		c.version++
		snap.Version = c.version
		snap.LastUpdated = c.clock.Now()
		stored := snap.Clone()
		c.current = &stored
		c.invalidated = c.gen != f.gen
		c.lastErr = nil
	} else {
		status = string(domainagg.CodeOf(err))
		c.lastErr = err
	}
	version := c.version
	f.snap = c.snapshotLocked()
	f.err = err
	c.running = nil

	var next *flight
	if c.pending > 0 {
		next = c.next
		c.next = nil
		c.pending = 0
		if c.closed {
			next.snap = c.snapshotLocked()
			next.err = ErrCacheClosed
			close(next.done)
			next = nil
		} else {
			next.gen = c.gen
			c.running = next
			c.wg.Add(1)
		}
	}
	c.mu.Unlock()
	close(f.done)

	c.metrics.ObserveCacheRefresh(status, dur, version)
	if err != nil {
		c.log.Warn("statistics refresh failed", "code", status, "version", version, "error", err)
	} else {
		c.log.Debug("statistics refreshed", "version", version, "duration_ms", dur.Milliseconds(), "follow_up", next != nil)
	}
	return next
}

func (c *Cache) compute(ctx context.Context) (snap domainstats.Snapshot, err error) {
	if c.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.refreshTimeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			snap = domainstats.Snapshot{}
			err = domainagg.NewError(domainagg.CodeAggregationFailed, refreshOp, fmt.Sprintf("aggregator panic: %v", r), nil)
		}
	}()
	if c.agg == nil {
		return domainstats.Snapshot{}, domainagg.NewError(domainagg.CodeInternal, refreshOp, "no aggregator configured", nil)
	}
	snap, err = c.agg.Aggregate(ctx)
	if err == nil {
		return snap, nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
		return domainstats.Snapshot{}, domainagg.NewError(domainagg.CodeAggregationFailed, refreshOp,
			fmt.Sprintf("aggregator exceeded %s", c.refreshTimeout), err)
	}
	if domainagg.CodeOf(err) == "" {
		return domainstats.Snapshot{}, domainagg.Wrap(domainagg.CodeAggregationFailed, refreshOp, err)
	}
	return domainstats.Snapshot{}, err
}

// detach keeps the caller's trace but not its cancellation: a refresh keeps
// running for the readers attached to it after its initiator goes away.
func (c *Cache) detach(ctx context.Context) context.Context {
	return trace.ContextWithSpanContext(c.baseCtx, trace.SpanContextFromContext(ctx))
}

func (c *Cache) freshLocked() bool {
	if c.current == nil || c.invalidated {
		return false
	}
	return c.clock.Since(c.current.LastUpdated) <= c.ttl
}

func (c *Cache) snapshotLocked() domainstats.Snapshot {
	if c.current == nil {
		return domainstats.Snapshot{}.Clone()
	}
	return c.current.Clone()
}
