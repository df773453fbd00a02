package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/platform/dbctx"
	"github.com/yungbote/rsvp-backend/internal/platform/logger"
)

// seedDemo fills an empty store with a small wedding so the admin UI has
// something to show. A store that already has menu options is left alone.
func seedDemo(ctx context.Context, db *gorm.DB, log *logger.Logger, repos Repos) error {
	var existing int64
	if err := db.WithContext(ctx).Model(&guests.MenuOption{}).Count(&existing).Error; err != nil {
		return fmt.Errorf("seed: count menu options: %w", err)
	}
	if existing > 0 {
		log.Info("seed skipped; store not empty", "menu_options", existing)
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		options := []*guests.MenuOption{
			{Kind: guests.MenuKindMeal, Name: "Braised short rib", Active: true, Position: 0},
			{Kind: guests.MenuKindMeal, Name: "Seared salmon", Active: true, Position: 1},
			{Kind: guests.MenuKindMeal, Name: "Wild mushroom risotto", Active: true, Position: 2},
			{Kind: guests.MenuKindMeal, Name: "Chicken tenders", IsChildOption: true, Active: true, Position: 3},
			{Kind: guests.MenuKindDessert, Name: "Lemon tart", Active: true, Position: 0},
			{Kind: guests.MenuKindDessert, Name: "Chocolate torte", Active: true, Position: 1},
		}
		if _, err := repos.MenuOption.Create(dbc, options); err != nil {
			return fmt.Errorf("seed menu options: %w", err)
		}
		opt := func(i int) *uuid.UUID { return &options[i].ID }

		yes, no := true, false
		now := time.Now().UTC()
		people := []*guests.Guest{
			{FirstName: "Maya", LastName: "Ortiz", Attending: &yes, MealOptionID: opt(0), DessertOptionID: opt(4), RespondedAt: &now},
			{FirstName: "Leo", LastName: "Ortiz", Attending: &yes, MealOptionID: opt(2), DessertOptionID: opt(5), RespondedAt: &now},
			{FirstName: "Ivy", LastName: "Ortiz", IsChild: true, Attending: &yes, MealOptionID: opt(3), RespondedAt: &now},
			{FirstName: "Sam", LastName: "Reyes", Attending: &no, RespondedAt: &now},
			{FirstName: "Priya", LastName: "Shah", Attending: &yes, MealOptionID: opt(1), DessertOptionID: opt(4), RespondedAt: &now},
			{FirstName: "Tom", LastName: "Becker"},
			{FirstName: "June", LastName: "Park"},
		}
		if _, err := repos.Guest.Create(dbc, people); err != nil {
			return fmt.Errorf("seed guests: %w", err)
		}

		party := []*guests.BridalPartyMember{
			{Name: "Alex Kim", Role: "Maid of honor", Side: "bride", Position: 0},
			{Name: "Jordan Lee", Role: "Best man", Side: "groom", Position: 1},
			{Name: "Casey Nguyen", Role: "Bridesmaid", Side: "bride", Position: 2},
		}
		if err := tx.Create(&party).Error; err != nil {
			return fmt.Errorf("seed bridal party: %w", err)
		}

		gallery := []*guests.GalleryImage{
			{Caption: "Engagement", ImageURL: "/images/gallery/engagement.jpg", Position: 0},
			{Caption: "First trip", ImageURL: "/images/gallery/first-trip.jpg", Position: 1},
		}
		if err := tx.Create(&gallery).Error; err != nil {
			return fmt.Errorf("seed gallery: %w", err)
		}

		log.Info("demo data seeded",
			"menu_options", len(options),
			"guests", len(people),
			"bridal_party", len(party),
			"gallery_images", len(gallery),
		)
		return nil
	})
}
