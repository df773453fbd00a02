package stats

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/rsvp-backend/internal/data/aggregates"
	guestrepos "github.com/yungbote/rsvp-backend/internal/data/repos/guests"
	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
	"github.com/yungbote/rsvp-backend/internal/domain/guests"
	domainstats "github.com/yungbote/rsvp-backend/internal/domain/stats"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

const aggregateOp = "stats.aggregate"

var tracer = otel.Tracer("github.com/yungbote/rsvp-backend/internal/services/stats")

// Aggregator computes one statistics snapshot from the guest store. The
// result never carries Version or LastUpdated; those belong to the cache.
type Aggregator interface {
	Aggregate(ctx context.Context) (domainstats.Snapshot, error)
}

// AggregatorFunc adapts a plain function to Aggregator.
type AggregatorFunc func(ctx context.Context) (domainstats.Snapshot, error)

func (f AggregatorFunc) Aggregate(ctx context.Context) (domainstats.Snapshot, error) {
	return f(ctx)
}

// GuestCounter is the part of the guest repo the aggregator reads.
type GuestCounter interface {
	Count(dbc dbctx.Context, filter guestrepos.GuestFilter) (int64, error)
	CountAttendingByOption(dbc dbctx.Context, kind guests.MenuKind) (map[uuid.UUID]int64, error)
}

// OptionLister is the part of the menu option repo the aggregator reads.
type OptionLister interface {
	ListActive(dbc dbctx.Context, kind guests.MenuKind) ([]*guests.MenuOption, error)
}

type guestAggregator struct {
	log     *logger.Logger
	guests  GuestCounter
	options OptionLister
}

// NewAggregator runs its queries concurrently and without a shared read
// transaction, so counts taken while guests respond may disagree by the
// in-between writes.
func NewAggregator(log *logger.Logger, guestRepo GuestCounter, optionRepo OptionLister) Aggregator {
	if log == nil {
		log = logger.Nop()
	}
	return &guestAggregator{
		log:     log.With("service", "StatsAggregator"),
		guests:  guestRepo,
		options: optionRepo,
	}
}

func (a *guestAggregator) Aggregate(ctx context.Context) (out domainstats.Snapshot, err error) {
	ctx, span := tracer.Start(ctx, aggregateOp)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		}
		span.End()
	}()

	var (
		total, responded, attending, notAttending int64
		meals, desserts                           map[string]domainstats.OptionStat
	)
	yes, no := true, false

	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.New(gctx)
	g.Go(guard(func() (e error) {
		total, e = a.guests.Count(dbc, guestrepos.GuestFilter{})
		return e
	}))
	g.Go(guard(func() (e error) {
		responded, e = a.guests.Count(dbc, guestrepos.GuestFilter{Responded: &yes})
		return e
	}))
	g.Go(guard(func() (e error) {
		attending, e = a.guests.Count(dbc, guestrepos.GuestFilter{Attending: &yes})
		return e
	}))
	g.Go(guard(func() (e error) {
		notAttending, e = a.guests.Count(dbc, guestrepos.GuestFilter{Attending: &no})
		return e
	}))
	g.Go(guard(func() (e error) {
		meals, e = a.optionStats(dbc, guests.MenuKindMeal)
		return e
	}))
	g.Go(guard(func() (e error) {
		desserts, e = a.optionStats(dbc, guests.MenuKindDessert)
		return e
	}))
	if err := g.Wait(); err != nil {
		mapped := aggregates.MapError(aggregateOp, err)
		a.log.Warn("statistics aggregation failed", "code", string(domainagg.CodeOf(mapped)), "error", err)
		if domainagg.IsCode(mapped, domainagg.CodeAggregationFailed) {
			return domainstats.Snapshot{}, mapped
		}
		return domainstats.Snapshot{}, domainagg.NewError(domainagg.CodeAggregationFailed, aggregateOp, "statistics query failed", mapped)
	}

	return domainstats.Snapshot{
		TotalGuests:        total,
		RespondedGuests:    responded,
		AttendingGuests:    attending,
		NotAttendingGuests: notAttending,
		MealStats:          meals,
		DessertStats:       desserts,
	}, nil
}

// optionStats lists every active option of kind, including ones nobody chose.
func (a *guestAggregator) optionStats(dbc dbctx.Context, kind guests.MenuKind) (map[string]domainstats.OptionStat, error) {
	opts, err := a.options.ListActive(dbc, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s options: %w", kind, err)
	}
	counts, err := a.guests.CountAttendingByOption(dbc, kind)
	if err != nil {
		return nil, fmt.Errorf("count %s choices: %w", kind, err)
	}
	out := make(map[string]domainstats.OptionStat, len(opts))
	for _, o := range opts {
		if o == nil {
			continue
		}
		out[o.ID.String()] = domainstats.OptionStat{
			Name:          o.Name,
			IsChildOption: o.IsChildOption,
			Count:         counts[o.ID],
			Position:      o.Position,
		}
	}
	return out, nil
}

// guard turns a panic inside an errgroup task into an aggregation error.
func guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = domainagg.NewError(domainagg.CodeAggregationFailed, aggregateOp, fmt.Sprintf("panic: %v", r), nil)
			}
		}()
		return fn()
	}
}
