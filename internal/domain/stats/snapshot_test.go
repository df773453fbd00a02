package stats

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCloneDoesNotShareMaps(t *testing.T) {
	orig := Snapshot{
		TotalGuests:  3,
		MealStats:    map[string]OptionStat{"a": {Name: "Beef", Count: 2}},
		DessertStats: map[string]OptionStat{},
	}
	cp := orig.Clone()
	cp.MealStats["a"] = OptionStat{Name: "Fish", Count: 9}
	cp.MealStats["b"] = OptionStat{Name: "Tofu"}

	if orig.MealStats["a"].Name != "Beef" || len(orig.MealStats) != 1 {
		t.Fatalf("clone mutated original: %+v", orig.MealStats)
	}
}

func TestCloneNormalizesNilMaps(t *testing.T) {
	cp := Snapshot{}.Clone()
	if cp.MealStats == nil || cp.DessertStats == nil {
		t.Fatalf("expected non-nil maps after clone")
	}
}

func TestPendingGuests(t *testing.T) {
	if got := (Snapshot{TotalGuests: 10, RespondedGuests: 4}).PendingGuests(); got != 6 {
		t.Fatalf("pending: want=6 got=%d", got)
	}
	// counts come from independent queries and may briefly disagree
	if got := (Snapshot{TotalGuests: 3, RespondedGuests: 4}).PendingGuests(); got != 0 {
		t.Fatalf("pending: want=0 got=%d", got)
	}
}

func TestSnapshotJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(Snapshot{
		TotalGuests: 1,
		MealStats:   map[string]OptionStat{"x": {Name: "Kids pasta", IsChildOption: true, Count: 1}},
		LastUpdated: time.Unix(0, 0).UTC(),
		Version:     4,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"totalGuests", "respondedGuests", "attendingGuests", "notAttendingGuests", "mealStats", "dessertStats", "lastUpdated", "version"} {
		if _, ok := generic[key]; !ok {
			t.Fatalf("missing json key %q in %s", key, raw)
		}
	}
	meal := generic["mealStats"].(map[string]any)["x"].(map[string]any)
	if meal["isChildOption"] != true {
		t.Fatalf("isChildOption not serialized: %v", meal)
	}
}
