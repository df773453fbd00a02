package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/domain/guests"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Guests + RSVP
		// =========================
		&guests.Guest{},
		&guests.MenuOption{},

		// =========================
		// Orderable site content
		// =========================
		&guests.BridalPartyMember{},
		&guests.GalleryImage{},
	)
}
