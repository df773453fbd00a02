package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/rsvp-backend/internal/domain/aggregates"
	"github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/data/repos/ordering"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

const reorderOp = "aggregate.collection.reorder"

// OrderStore is the slice of the guest store the sequencer needs.
type OrderStore interface {
	ListOrdered(dbc dbctx.Context, coll guests.Collection) ([]ordering.Item, error)
	UpdateMany(dbc dbctx.Context, coll guests.Collection, updates []ordering.PositionUpdate) error
}

type SequencerDeps struct {
	BaseDeps
	Store OrderStore
	// Base is the position given to input index 0; Step separates neighbours.
	Base int
	Step int
}

// Sequencer assigns a new total order to one collection in a single transaction.
type Sequencer struct {
	deps  BaseDeps
	store OrderStore
	base  int
	step  int
	log   *logger.Logger
}

var _ domainagg.ReorderAggregate = (*Sequencer)(nil)

func NewSequencer(deps SequencerDeps) *Sequencer {
	base := deps.BaseDeps.withDefaults()
	step := deps.Step
	if step <= 0 {
		step = 1
	}
	return &Sequencer{
		deps:  base,
		store: deps.Store,
		base:  deps.Base,
		step:  step,
		log:   base.Log.With("aggregate", "Sequencer"),
	}
}

func (s *Sequencer) Contract() domainagg.Contract {
	return domainagg.Contract{
		Name:             "collection_order",
		WriteTxOwnership: domainagg.WriteTxOwnedByAggregate,
		Notes:            "every position of a collection is rewritten in one transaction; unknown ids abort before any write",
	}
}

// Apply persists orderedIDs as the order of the named collection.
//
// An empty batch is a successful no-op. When an id repeats, its last
// occurrence decides its place. Members of the collection missing from the
// batch keep their relative order and follow the named ones. Positions are
// Base + i*Step where i is the input index of the id's last occurrence, so
// they strictly increase with input order.
func (s *Sequencer) Apply(ctx context.Context, collection string, orderedIDs []uuid.UUID) (domainagg.ReorderResult, error) {
	coll, ok := guests.LookupCollection(collection)
	if !ok {
		return domainagg.ReorderResult{Collection: collection}, domainagg.NewError(
			domainagg.CodeValidation, reorderOp, fmt.Sprintf("unknown collection %q", collection), nil)
	}
	result := domainagg.ReorderResult{Collection: coll.Name}
	for _, id := range orderedIDs {
		if id == uuid.Nil {
			return result, MapError(reorderOp, ValidationError("batch contains the nil id"))
		}
	}

	slots := dedupeLastWins(orderedIDs)
	result.Duplicates = len(orderedIDs) - len(slots)
	if len(slots) == 0 {
		result.NoOp = true
		result.Ordered = []uuid.UUID{}
		return result, nil
	}
	if s.store == nil {
		return result, domainagg.NewError(domainagg.CodeInternal, reorderOp, "sequencer has no order store", nil)
	}

	var final []uuid.UUID
	err := executeWrite(ctx, s.deps, reorderOp, func(dbc dbctx.Context) error {
		current, err := s.store.ListOrdered(dbc, coll)
		if err != nil {
			return err
		}
		members := make(map[uuid.UUID]struct{}, len(current))
		for _, it := range current {
			members[it.ID] = struct{}{}
		}
		named := make(map[uuid.UUID]struct{}, len(slots))
		for _, sl := range slots {
			if _, ok := members[sl.id]; !ok {
				return domainagg.NotFound(reorderOp, sl.id.String(), "id is not a member of "+coll.Name)
			}
			named[sl.id] = struct{}{}
		}

		updates := make([]ordering.PositionUpdate, 0, len(current))
		order := make([]uuid.UUID, 0, len(current))
		for _, sl := range slots {
			updates = append(updates, ordering.PositionUpdate{ID: sl.id, Position: s.base + sl.index*s.step})
			order = append(order, sl.id)
		}
		next := len(orderedIDs)
		for _, it := range current {
			if _, ok := named[it.ID]; ok {
				continue
			}
			updates = append(updates, ordering.PositionUpdate{ID: it.ID, Position: s.base + next*s.step})
			order = append(order, it.ID)
			next++
		}

		if err := s.store.UpdateMany(dbc, coll, updates); err != nil {
			return domainagg.NewError(domainagg.CodeTransactionFailed, reorderOp,
				"position update aborted; nothing changed", MapError(reorderOp, err))
		}
		final = order
		return nil
	})
	if err != nil {
		err = asTransactionFailure(err)
		s.log.Warn("reorder rejected",
			"collection", coll.Name,
			"code", string(domainagg.CodeOf(err)),
			"failed_id", domainagg.FailedIDOf(err),
			"error", err,
		)
		return result, err
	}

	result.Ordered = final
	result.Trailing = len(final) - len(slots)
	s.log.Debug("reorder applied", "collection", coll.Name, "items", len(final), "duplicates", result.Duplicates)
	return result, nil
}

// asTransactionFailure folds commit/rollback level failures into the
// transaction_failed code, keeping caller-actionable codes intact.
func asTransactionFailure(err error) error {
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation,
		domainagg.CodeNotFound,
		domainagg.CodeStoreUnavailable,
		domainagg.CodeTransactionFailed:
		return err
	}
	return domainagg.NewError(domainagg.CodeTransactionFailed, reorderOp, "transaction aborted; nothing changed", err)
}

type slot struct {
	id    uuid.UUID
	index int
}

// dedupeLastWins keeps one slot per id at the index of its last occurrence,
// returned in ascending index order.
func dedupeLastWins(ids []uuid.UUID) []slot {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	rev := make([]slot, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if _, ok := seen[ids[i]]; ok {
			continue
		}
		seen[ids[i]] = struct{}{}
		rev = append(rev, slot{id: ids[i], index: i})
	}
	out := make([]slot, len(rev))
	for i := range rev {
		out[len(rev)-1-i] = rev[i]
	}
	return out
}
