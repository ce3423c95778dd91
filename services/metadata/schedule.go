package metadata

import (
	"sort"
	"strings"
	"time"

	"aniview/models"
)

// Days lists the canonical lowercase weekday names in schedule order.
var Days = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// normalizeDay maps an upstream broadcast day ("Mondays", "Monday", "monday")
// to the canonical lowercase name. Returns "" for anything unrecognized.
func normalizeDay(day string) string {
	d := strings.ToLower(strings.TrimSpace(day))
	d = strings.TrimSuffix(d, "s")
	for _, canonical := range Days {
		if d == canonical {
			return canonical
		}
	}
	return ""
}

// parseMinutes parses a strict "HH:MM" broadcast time into minutes since
// midnight. ok is false for missing or malformed strings.
func parseMinutes(t string) (int, bool) {
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return 0, false
	}
	return parsed.Hour()*60 + parsed.Minute(), true
}

// GroupByTimeSlot partitions schedule entries into buckets keyed by their
// exact broadcast time string. Slots are ordered ascending by
// minutes-since-midnight; entries within a slot descending by score with an
// absent score sorting lowest. Entries with a missing or malformed time are
// dropped entirely rather than collected into an "unknown" slot.
func GroupByTimeSlot(entries []models.ScheduleEntry) []models.TimeSlot {
	buckets := make(map[string][]models.ScheduleEntry)
	minutes := make(map[string]int)
	for _, e := range entries {
		m, ok := parseMinutes(e.Time)
		if !ok {
			continue
		}
		buckets[e.Time] = append(buckets[e.Time], e)
		minutes[e.Time] = m
	}

	slots := make([]models.TimeSlot, 0, len(buckets))
	for t, group := range buckets {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ScoreValue() > group[j].ScoreValue()
		})
		slots = append(slots, models.TimeSlot{Time: t, Entries: group})
	}
	sort.Slice(slots, func(i, j int) bool {
		return minutes[slots[i].Time] < minutes[slots[j].Time]
	})
	return slots
}
