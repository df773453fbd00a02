package app

import (
	"context"
	"testing"

	"github.com/yungbote/rsvp-backend/internal/data/repos/testutil"
	"github.com/yungbote/rsvp-backend/internal/domain/guests"
	"github.com/yungbote/rsvp-backend/internal/services/stats"
)

func TestSeedDemoPopulatesOnce(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repos := wireRepos(db, log)

	if err := seedDemo(ctx, db, log, repos); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := seedDemo(ctx, db, log, repos); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var options int64
	if err := db.Model(&guests.MenuOption{}).Count(&options).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if options != 6 {
		t.Fatalf("menu options: want=6 got=%d", options)
	}

	snap, err := stats.NewAggregator(log, repos.Guest, repos.MenuOption).Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if snap.TotalGuests != 7 || snap.RespondedGuests != 5 || snap.AttendingGuests != 4 || snap.NotAttendingGuests != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
