package aggregates

import (
	"context"

	"github.com/google/uuid"
)

// WriteTxOwnership defines who owns write transaction boundaries.
type WriteTxOwnership string

const (
	// WriteTxOwnedByAggregate means aggregate write methods start/manage atomic DB transactions internally.
	WriteTxOwnedByAggregate WriteTxOwnership = "aggregate_owned"
)

// Contract describes aggregate-level policy expectations.
type Contract struct {
	Name             string
	WriteTxOwnership WriteTxOwnership
	Notes            string
}

// Aggregate is the common marker for all aggregate contracts.
type Aggregate interface {
	Contract() Contract
}

// RequiresAggregateOwnedTx returns true when write transaction ownership is aggregate-owned.
func (c Contract) RequiresAggregateOwnedTx() bool {
	return c.WriteTxOwnership == WriteTxOwnedByAggregate
}

// ReorderResult reports the order persisted by a reorder batch.
type ReorderResult struct {
	Collection string      `json:"collection"`
	Ordered    []uuid.UUID `json:"ordered"`
	// Duplicates counts input ids dropped because a later occurrence won.
	Duplicates int `json:"duplicates"`
	// Trailing counts collection members not named in the batch; they keep
	// their relative order after the named ones.
	Trailing int  `json:"trailing"`
	NoOp     bool `json:"no_op"`
}

// ReorderAggregate persists a total order for one named collection.
type ReorderAggregate interface {
	Aggregate
	Apply(ctx context.Context, collection string, orderedIDs []uuid.UUID) (ReorderResult, error)
}
