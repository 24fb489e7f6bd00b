package streaks

import (
	"time"
)

// dayLayout is the calendar-day key format. Keys are always rendered in the
// calculator's location, so two timestamps share a key iff they fall on the
// same local calendar day.
const dayLayout = "2006-01-02"

// ActivityRecord is a read-only snapshot of one activity (a learning log).
// CreatedAt is assigned by the persistence layer and never changes.
type ActivityRecord struct {
	CreatedAt time.Time `json:"createdAt"`
}

// Calculator computes consecutive-day streaks in a fixed time zone.
// The zero value uses time.Local and the wall clock.
type Calculator struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalculator creates a calculator for the given location.
// A nil location falls back to UTC.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{
		Location: loc,
		Now:      time.Now,
	}
}

// Calculate returns the current streak for records relative to Now().
func (c *Calculator) Calculate(records []ActivityRecord) int {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return c.CalculateAt(records, now())
}

// CalculateAt returns the number of consecutive calendar days, ending today or
// yesterday, on which at least one record exists.
//
// A missing record today does not break the streak as long as yesterday has
// one. Records with a zero CreatedAt are skipped.
func (c *Calculator) CalculateAt(records []ActivityRecord, now time.Time) int {
	if len(records) == 0 {
		return 0
	}

	loc := c.location()
	days := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.CreatedAt.IsZero() {
			continue
		}
		days[dayKey(rec.CreatedAt, loc)] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}

	today := midnight(now, loc)
	yesterday := today.AddDate(0, 0, -1)

	var cursor time.Time
	switch {
	case has(days, today, loc):
		cursor = yesterday
	case has(days, yesterday, loc):
		cursor = yesterday.AddDate(0, 0, -1)
	default:
		return 0
	}

	streak := 1
	for has(days, cursor, loc) {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// HasActivityOn reports whether any record falls on the same local calendar day as t.
func (c *Calculator) HasActivityOn(records []ActivityRecord, t time.Time) bool {
	loc := c.location()
	want := dayKey(t, loc)
	for _, rec := range records {
		if !rec.CreatedAt.IsZero() && dayKey(rec.CreatedAt, loc) == want {
			return true
		}
	}
	return false
}

func (c *Calculator) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// midnight truncates t to the start of its calendar day in loc.
// AddDate on the result always lands on the neighbouring calendar day, even
// across DST transitions, which plain 24h arithmetic does not guarantee.
func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

func has(days map[string]struct{}, day time.Time, loc *time.Location) bool {
	_, ok := days[dayKey(day, loc)]
	return ok
}

// RecordsFromTimestamps parses RFC 3339 timestamps into records.
// Unparseable values are dropped rather than failing the whole batch; the
// number of dropped values is returned so callers can log it.
func RecordsFromTimestamps(raw []string) ([]ActivityRecord, int) {
	records := make([]ActivityRecord, 0, len(raw))
	skipped := 0
	for _, s := range raw {
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, ActivityRecord{CreatedAt: ts})
	}
	return records, skipped
}
