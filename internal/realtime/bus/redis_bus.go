package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type redisBus struct {
	log      *logger.Logger
	rdb      goredis.UniversalClient
	channel  string
	instance string
	metrics  *observability.Metrics
}

// NewRedisBus wraps rdb. The client is owned by the caller; Close is a no-op
// for it.
func NewRedisBus(log *logger.Logger, rdb goredis.UniversalClient, channel string, metrics *observability.Metrics) (Bus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis bus: nil client")
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = DefaultChannel
	}
	if log == nil {
		log = logger.Nop()
	}
	return &redisBus{
		log:      log.With("service", "RedisInvalidationBus"),
		rdb:      rdb,
		channel:  channel,
		instance: uuid.NewString(),
		metrics:  metrics,
	}, nil
}

func (b *redisBus) InstanceID() string { return b.instance }

func (b *redisBus) Publish(ctx context.Context, evt Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis invalidation bus not initialized")
	}
	evt.Source = b.instance
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		b.metrics.IncBusEvent("publish", "error")
		return err
	}
	if err := b.rdb.Publish(ctx, b.channel, raw).Err(); err != nil {
		b.metrics.IncBusEvent("publish", "error")
		return fmt.Errorf("redis publish: %w", err)
	}
	b.metrics.IncBusEvent("publish", "ok")
	return nil
}

func (b *redisBus) StartForwarder(ctx context.Context, onEvent func(Event)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis invalidation bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				if evt, ok := b.decode(m.Payload); ok {
					onEvent(evt)
				}
			}
		}
	}()

	return nil
}

// decode parses one payload and drops events this instance published.
func (b *redisBus) decode(payload string) (Event, bool) {
	var evt Event
	if err := json.Unmarshal([]byte(payload), &evt); err != nil {
		b.log.Warn("bad invalidation payload", "error", err)
		b.metrics.IncBusEvent("receive", "bad_payload")
		return Event{}, false
	}
	if evt.Source == b.instance {
		b.metrics.IncBusEvent("receive", "self")
		return Event{}, false
	}
	b.metrics.IncBusEvent("receive", "ok")
	return evt, true
}

func (b *redisBus) Close() error {
	return nil
}
