package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/data/repos"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

type Repos struct {
	Guest      repos.GuestRepo
	MenuOption repos.MenuOptionRepo
	Collection repos.CollectionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Guest:      repos.NewGuestRepo(db, log),
		MenuOption: repos.NewMenuOptionRepo(db, log),
		Collection: repos.NewCollectionRepo(db, log),
	}
}
