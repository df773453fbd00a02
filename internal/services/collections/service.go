package collections

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/rsvp-backend/internal/data/aggregates"
	"github.com/yungbote/rsvp-backend/internal/data/repos/ordering"
	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
	"github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/platform/ctxutil"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
	"github.com/yungbote/rsvp-backend/internal/realtime/bus"
)

const listOp = "collections.list"

// Invalidator is satisfied by the statistics cache.
type Invalidator interface {
	Invalidate()
}

type Service interface {
	// Reorder persists ids as the order of the named collection and, when
	// anything changed, invalidates cached statistics here and on peers.
	Reorder(ctx context.Context, collection string, ids []uuid.UUID) (domainagg.ReorderResult, error)
	List(ctx context.Context, collection string) ([]ordering.Item, error)
	Names() []string
}

type service struct {
	log       *logger.Logger
	sequencer domainagg.ReorderAggregate
	repo      ordering.CollectionRepo
	cache     Invalidator
	bus       bus.Bus
}

// NewService wires the reorder path. cache and publisher may be nil.
func NewService(
	log *logger.Logger,
	sequencer domainagg.ReorderAggregate,
	repo ordering.CollectionRepo,
	cache Invalidator,
	publisher bus.Bus,
) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		log:       log.With("service", "CollectionService"),
		sequencer: sequencer,
		repo:      repo,
		cache:     cache,
		bus:       publisher,
	}
}

func (s *service) Reorder(ctx context.Context, collection string, ids []uuid.UUID) (domainagg.ReorderResult, error) {
	res, err := s.sequencer.Apply(ctx, collection, ids)
	if err != nil {
		return res, err
	}
	if res.NoOp {
		return res, nil
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	if s.bus != nil {
		evt := bus.Event{Kind: bus.KindStatsInvalidate, Collection: res.Collection, At: time.Now().UTC()}
		if perr := s.bus.Publish(ctx, evt); perr != nil {
			// the reorder is committed; peers catch up within their TTL
			s.log.Warn("publish invalidation failed", "collection", res.Collection, "error", perr)
		}
	}
	fields := []any{
		"collection", res.Collection,
		"items", len(res.Ordered),
		"duplicates", res.Duplicates,
		"trailing", res.Trailing,
	}
	s.log.Info("collection reordered", append(fields, ctxutil.LogFields(ctx)...)...)
	return res, nil
}

func (s *service) List(ctx context.Context, collection string) ([]ordering.Item, error) {
	coll, ok := guests.LookupCollection(collection)
	if !ok {
		return nil, domainagg.NewError(domainagg.CodeValidation, listOp, fmt.Sprintf("unknown collection %q", collection), nil)
	}
	items, err := s.repo.ListOrdered(dbctx.New(ctx), coll)
	if err != nil {
		return nil, aggregates.MapError(listOp, err)
	}
	return items, nil
}

func (s *service) Names() []string {
	return guests.CollectionNames()
}
