package guests

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type MenuOptionRepo interface {
	Create(dbc dbctx.Context, options []*domain.MenuOption) ([]*domain.MenuOption, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MenuOption, error)
	// ListActive returns active options of one kind ordered by position.
	ListActive(dbc dbctx.Context, kind domain.MenuKind) ([]*domain.MenuOption, error)
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type menuOptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMenuOptionRepo(db *gorm.DB, baseLog *logger.Logger) MenuOptionRepo {
	return &menuOptionRepo{
		db:  db,
		log: baseLog.With("repo", "MenuOptionRepo"),
	}
}

func (r *menuOptionRepo) Create(dbc dbctx.Context, options []*domain.MenuOption) ([]*domain.MenuOption, error) {
	if len(options) == 0 {
		return []*domain.MenuOption{}, nil
	}
	if err := dbc.Conn(r.db).Create(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *menuOptionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.MenuOption, error) {
	var out []*domain.MenuOption
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

func (r *menuOptionRepo) ListActive(dbc dbctx.Context, kind domain.MenuKind) ([]*domain.MenuOption, error) {
	var out []*domain.MenuOption
	if err := dbc.Conn(r.db).
		Where("kind = ? AND active = ?", kind, true).
		Order("position ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *menuOptionRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("id IN ?", ids).
		Delete(&domain.MenuOption{}).Error
}
