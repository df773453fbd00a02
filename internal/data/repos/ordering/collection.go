package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

// Item is one member of an orderable collection.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
	Label    string    `json:"label"`
}

// PositionUpdate assigns a new position to one collection member.
type PositionUpdate struct {
	ID       uuid.UUID
	Position int
}

// CollectionRepo reads and rewrites the position column of any registered
// collection. UpdateMany is only all-or-nothing when dbc carries a transaction.
type CollectionRepo interface {
	ListOrdered(dbc dbctx.Context, coll domain.Collection) ([]Item, error)
	UpdateMany(dbc dbctx.Context, coll domain.Collection, updates []PositionUpdate) error
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	return &collectionRepo{
		db:  db,
		log: baseLog.With("repo", "CollectionRepo"),
	}
}

func (r *collectionRepo) scoped(dbc dbctx.Context, coll domain.Collection) *gorm.DB {
	q := dbc.Conn(r.db).Table(coll.Table).Where("deleted_at IS NULL")
	if len(coll.Scope) > 0 {
		q = q.Where(coll.Scope)
	}
	return q
}

type itemRow struct {
	ID       uuid.UUID
	Position int
	Label    string
}

func (r *collectionRepo) ListOrdered(dbc dbctx.Context, coll domain.Collection) ([]Item, error) {
	if coll.Table == "" || coll.PositionColumn == "" {
		return nil, fmt.Errorf("collection %q is not orderable", coll.Name)
	}
	label := "''"
	if coll.LabelColumn != "" {
		label = coll.LabelColumn
	}
	q := r.scoped(dbc, coll)
	if dbc.Tx != nil && dbc.Tx.Dialector.Name() == "postgres" {
		// serializes concurrent reorders of the same collection
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []itemRow
	if err := q.
		Select(fmt.Sprintf("id, %s AS position, %s AS label", coll.PositionColumn, label)).
		Order(coll.PositionColumn + " ASC").
		Order("created_at ASC").
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, Item{ID: row.ID, Position: row.Position, Label: row.Label})
	}
	return out, nil
}

func (r *collectionRepo) UpdateMany(dbc dbctx.Context, coll domain.Collection, updates []PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, u := range updates {
		res := r.scoped(dbc, coll).
			Where("id = ?", u.ID).
			Updates(map[string]interface{}{
				coll.PositionColumn: u.Position,
				"updated_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%s %s: %w", coll.Name, u.ID, gorm.ErrRecordNotFound)
		}
	}
	return nil
}
