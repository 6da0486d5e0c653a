// Package duedate normalizes raw Canvas deadlines into ClickUp due
// timestamps. It is the single place timezone conversion and edge-time
// adjustment happen; everything here is pure and side-effect free.
package duedate

import "time"

// Policy controls normalization.
type Policy struct {
	// Location is the destination system's local timezone. Defaults to UTC.
	Location *time.Location
	// WeekdayFallback enables the superseded default-hour rule for
	// date-only deadlines: Mon/Wed/Fri 11:00, Tue/Thu 20:00 local.
	WeekdayFallback bool
}

// layouts accepted for raw due dates. Canvas emits RFC3339 in UTC; the
// date-only form comes from calendar scrapes.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize converts a raw deadline into an epoch-millisecond timestamp in
// the policy's local timezone. The boolean result is the explicit invalid
// marker: false when the input is absent or unparseable. It never panics.
//
// Edge-time rules, applied to the converted local time:
//   - exactly 23:59 → minus one hour (22:59 same day)
//   - exactly 00:00 on day D → minus one hour, plus one day, minus one
//     minute, in that literal order (lands on day D at 22:59); the 23:59
//     rule is not reapplied afterwards
//
// The midnight arithmetic is preserved verbatim from the system of record;
// see the explicit unit tests before changing it.
func Normalize(raw string, p Policy) (int64, bool) {
	if raw == "" {
		return 0, false
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	var t time.Time
	var layout string
	parsed := false
	for _, l := range layouts {
		if v, err := time.Parse(l, raw); err == nil {
			t, layout, parsed = v, l, true
			break
		}
	}
	if !parsed {
		return 0, false
	}

	local := t.In(loc)
	if layout == "2006-01-02" {
		// Date-only input carries no zone; treat it as local midnight.
		local = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if p.WeekdayFallback {
			local = applyWeekdayHour(local)
		}
	}

	switch {
	case local.Hour() == 23 && local.Minute() == 59:
		local = local.Add(-time.Hour)
	case local.Hour() == 0 && local.Minute() == 0:
		local = local.Add(-time.Hour).AddDate(0, 0, 1).Add(-time.Minute)
	}

	return local.UnixMilli(), true
}

// applyWeekdayHour sets the default due hour for date-only deadlines under
// the weekday fallback policy. Weekend dates stay at midnight.
func applyWeekdayHour(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Monday, time.Wednesday, time.Friday:
		return time.Date(t.Year(), t.Month(), t.Day(), 11, 0, 0, 0, t.Location())
	case time.Tuesday, time.Thursday:
		return time.Date(t.Year(), t.Month(), t.Day(), 20, 0, 0, 0, t.Location())
	default:
		return t
	}
}
