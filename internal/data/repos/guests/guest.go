package guests

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

// GuestFilter narrows guest counts. Nil fields do not filter.
type GuestFilter struct {
	// Responded selects guests with (true) or without (false) a recorded decision.
	Responded *bool
	Attending *bool
	IsChild   *bool
}

type GuestRepo interface {
	Create(dbc dbctx.Context, guests []*domain.Guest) ([]*domain.Guest, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Guest, error)
	Count(dbc dbctx.Context, filter GuestFilter) (int64, error)
	// CountAttendingByOption tallies attending guests per chosen option of one kind.
	CountAttendingByOption(dbc dbctx.Context, kind domain.MenuKind) (map[uuid.UUID]int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type guestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGuestRepo(db *gorm.DB, baseLog *logger.Logger) GuestRepo {
	return &guestRepo{
		db:  db,
		log: baseLog.With("repo", "GuestRepo"),
	}
}

func (r *guestRepo) Create(dbc dbctx.Context, guests []*domain.Guest) ([]*domain.Guest, error) {
	if len(guests) == 0 {
		return []*domain.Guest{}, nil
	}
	if err := dbc.Conn(r.db).Create(&guests).Error; err != nil {
		return nil, err
	}
	return guests, nil
}

func (r *guestRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Guest, error) {
	var out []*domain.Guest
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *guestRepo) Count(dbc dbctx.Context, filter GuestFilter) (int64, error) {
	q := dbc.Conn(r.db).Model(&domain.Guest{})
	if filter.Responded != nil {
		if *filter.Responded {
			q = q.Where("attending IS NOT NULL")
		} else {
			q = q.Where("attending IS NULL")
		}
	}
	if filter.Attending != nil {
		q = q.Where("attending = ?", *filter.Attending)
	}
	if filter.IsChild != nil {
		q = q.Where("is_child = ?", *filter.IsChild)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

type optionCountRow struct {
	OptionID uuid.UUID
	N        int64
}

func (r *guestRepo) CountAttendingByOption(dbc dbctx.Context, kind domain.MenuKind) (map[uuid.UUID]int64, error) {
	column := "meal_option_id"
	if kind == domain.MenuKindDessert {
		column = "dessert_option_id"
	}
	var rows []optionCountRow
	if err := dbc.Conn(r.db).
		Model(&domain.Guest{}).
		Select(column+" AS option_id, COUNT(*) AS n").
		Where("attending = ?", true).
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.OptionID] = row.N
	}
	return out, nil
}

func (r *guestRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&domain.Guest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
