package stats

import (
	"time"
)

// OptionStat is the attending-guest tally for one menu option.
type OptionStat struct {
	Name          string `json:"name"`
	IsChildOption bool   `json:"isChildOption"`
	Count         int64  `json:"count"`
	Position      int    `json:"position"`
}

// Snapshot is one complete, versioned statistics result.
// LastUpdated and Version are assigned by the cache, never by the aggregator.
type Snapshot struct {
	TotalGuests        int64                 `json:"totalGuests"`
	RespondedGuests    int64                 `json:"respondedGuests"`
	AttendingGuests    int64                 `json:"attendingGuests"`
	NotAttendingGuests int64                 `json:"notAttendingGuests"`
	MealStats          map[string]OptionStat `json:"mealStats"`
	DessertStats       map[string]OptionStat `json:"dessertStats"`
	LastUpdated        time.Time             `json:"lastUpdated"`
	Version            uint64                `json:"version"`
}

// PendingGuests is the number of guests without a recorded decision.
func (s Snapshot) PendingGuests() int64 {
	if s.RespondedGuests > s.TotalGuests {
		return 0
	}
	return s.TotalGuests - s.RespondedGuests
}

// IsZero reports whether the snapshot was never produced by a refresh.
func (s Snapshot) IsZero() bool { return s.Version == 0 }

// Clone returns a deep copy so callers never share map state with the cache.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.MealStats = cloneStats(s.MealStats)
	out.DessertStats = cloneStats(s.DessertStats)
	return out
}

func cloneStats(in map[string]OptionStat) map[string]OptionStat {
	out := make(map[string]OptionStat, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
