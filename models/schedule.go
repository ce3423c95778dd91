package models

// ScheduleEntry is a catalog record plus its broadcast descriptor. Day is one
// of the seven canonical lowercase weekday names; Time is the upstream
// broadcast time string ("HH:MM"), kept verbatim and not normalized across
// timezones.
type ScheduleEntry struct {
	Anime
	Day      string `json:"day"`
	Time     string `json:"time,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// TimeSlot groups the schedule entries sharing one exact broadcast time
// string. Entries are ordered by descending score.
type TimeSlot struct {
	Time    string          `json:"time"`
	Entries []ScheduleEntry `json:"entries"`
}

// DaySchedule is one day of the weekly schedule, grouped into ascending time
// slots. An empty Slots means the day's fetch failed or nothing airs that day.
type DaySchedule struct {
	Day   string     `json:"day"`
	Slots []TimeSlot `json:"slots"`
}
