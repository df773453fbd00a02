package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/rsvp-backend/internal/domain/guests"
)

func PtrBool(v bool) *bool { return &v }

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

// SeedGuest creates a guest. attending nil means no response yet.
func SeedGuest(tb testing.TB, ctx context.Context, tx *gorm.DB, attending *bool, meal, dessert *uuid.UUID) *guests.Guest {
	tb.Helper()
	g := &guests.Guest{
		ID:              uuid.New(),
		FirstName:       "Guest",
		LastName:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Attending:       attending,
		MealOptionID:    meal,
		DessertOptionID: dessert,
	}
	if attending != nil {
		now := time.Now().UTC()
		g.RespondedAt = &now
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed guest: %v", err)
	}
	return g
}

func SeedMenuOption(tb testing.TB, ctx context.Context, tx *gorm.DB, kind guests.MenuKind, name string, position int) *guests.MenuOption {
	tb.Helper()
	o := &guests.MenuOption{
		ID:       uuid.New(),
		Kind:     kind,
		Name:     name,
		Active:   true,
		Position: position,
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed menu option: %v", err)
	}
	return o
}

func SeedBridalPartyMember(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, position int) *guests.BridalPartyMember {
	tb.Helper()
	m := &guests.BridalPartyMember{
		ID:       uuid.New(),
		Name:     name,
		Role:     "Bridesmaid",
		Position: position,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed bridal party member: %v", err)
	}
	return m
}

func SeedGalleryImage(tb testing.TB, ctx context.Context, tx *gorm.DB, caption string, position int) *guests.GalleryImage {
	tb.Helper()
	img := &guests.GalleryImage{
		ID:       uuid.New(),
		Caption:  caption,
		ImageURL: "https://example.com/" + caption + ".jpg",
		Position: position,
	}
	if err := tx.WithContext(ctx).Create(img).Error; err != nil {
		tb.Fatalf("seed gallery image: %v", err)
	}
	return img
}
