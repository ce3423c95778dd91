package metadata

import (
	"testing"

	"aniview/models"
)

func scoref(v float64) *float64 { return &v }

func entry(title, day, timestr string, score *float64) models.ScheduleEntry {
	return models.ScheduleEntry{
		Anime: models.Anime{Title: title, Score: score},
		Day:   day,
		Time:  timestr,
	}
}

func TestGroupByTimeSlotOrdersSlotsAndEntries(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("Late A", "monday", "21:00", scoref(7.2)),
		entry("Morning", "monday", "09:30", scoref(8.1)),
		entry("Late B", "monday", "21:00", scoref(8.9)),
	}

	slots := GroupByTimeSlot(entries)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:30" || slots[1].Time != "21:00" {
		t.Fatalf("slots not ascending by time: %s, %s", slots[0].Time, slots[1].Time)
	}
	late := slots[1].Entries
	if len(late) != 2 {
		t.Fatalf("expected both 21:00 entries in one slot, got %d", len(late))
	}
	if late[0].Title != "Late B" || late[1].Title != "Late A" {
		t.Fatalf("slot entries not in descending score order: %s, %s", late[0].Title, late[1].Title)
	}
}

func TestGroupByTimeSlotDropsMalformedTimes(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("Good", "monday", "12:00", nil),
		entry("Empty", "monday", "", nil),
		entry("Garbage", "monday", "soon", nil),
		entry("Short", "monday", "9:30", nil),
	}
	slots := GroupByTimeSlot(entries)
	if len(slots) != 1 {
		t.Fatalf("expected only the well-formed entry to survive, got %d slots", len(slots))
	}
	if slots[0].Time != "12:00" || len(slots[0].Entries) != 1 {
		t.Fatalf("unexpected surviving slot: %+v", slots[0])
	}
}

func TestGroupByTimeSlotAbsentScoreSortsLowest(t *testing.T) {
	entries := []models.ScheduleEntry{
		entry("No score", "monday", "18:00", nil),
		entry("Scored", "monday", "18:00", scoref(5.0)),
	}
	slots := GroupByTimeSlot(entries)
	if len(slots) != 1 || len(slots[0].Entries) != 2 {
		t.Fatalf("unexpected grouping: %+v", slots)
	}
	if slots[0].Entries[0].Title != "Scored" {
		t.Fatal("entry with a score must sort above an absent score")
	}
}

func TestNormalizeDay(t *testing.T) {
	tests := map[string]string{
		"Mondays":   "monday",
		"monday":    "monday",
		"Sunday":    "sunday",
		"SATURDAYS": "saturday",
		"Unknown":   "",
		"":          "",
	}
	for in, want := range tests {
		if got := normalizeDay(in); got != want {
			t.Errorf("normalizeDay(%q) = %q, want %q", in, got, want)
		}
	}
}
