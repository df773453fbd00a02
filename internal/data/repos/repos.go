package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/data/repos/guests"
	"github.com/yungbote/rsvp-backend/internal/data/repos/ordering"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type GuestRepo = guests.GuestRepo
type GuestFilter = guests.GuestFilter
type MenuOptionRepo = guests.MenuOptionRepo

type CollectionRepo = ordering.CollectionRepo

func NewGuestRepo(db *gorm.DB, baseLog *logger.Logger) GuestRepo {
	return guests.NewGuestRepo(db, baseLog)
}
func NewMenuOptionRepo(db *gorm.DB, baseLog *logger.Logger) MenuOptionRepo {
	return guests.NewMenuOptionRepo(db, baseLog)
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	return ordering.NewCollectionRepo(db, baseLog)
}
