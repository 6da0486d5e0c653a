package duedate

import (
	"testing"
	"time"
)

func denver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return loc
}

func TestNormalize_InvalidInputs(t *testing.T) {
	p := Policy{Location: denver(t)}

	for _, raw := range []string{"", "null", "not-a-date", "2023-13-45T99:00:00Z"} {
		if millis, ok := Normalize(raw, p); ok {
			t.Errorf("Normalize(%q) = %d, want invalid marker", raw, millis)
		}
	}
}

func TestNormalize_PlainTimeKeepsInstant(t *testing.T) {
	p := Policy{Location: denver(t)}

	// 18:30 UTC is 12:30 in Denver during DST; no edge rule applies, so the
	// instant is unchanged by timezone conversion.
	raw := "2023-04-13T18:30:00Z"
	want := time.Date(2023, 4, 13, 18, 30, 0, 0, time.UTC).UnixMilli()

	got, ok := Normalize(raw, p)
	if !ok {
		t.Fatalf("Normalize(%q) reported invalid", raw)
	}
	if got != want {
		t.Errorf("Normalize(%q) = %d, want %d", raw, got, want)
	}
}

func TestNormalize_ElevenFiftyNineRule(t *testing.T) {
	loc := denver(t)
	p := Policy{Location: loc}

	// 05:59 UTC on the 13th is 23:59 on the 12th in Denver; the edge rule
	// pulls it back to 22:59 the same local day.
	raw := "2023-04-13T05:59:00Z"
	want := time.Date(2023, 4, 12, 22, 59, 0, 0, loc).UnixMilli()

	got, ok := Normalize(raw, p)
	if !ok {
		t.Fatalf("Normalize(%q) reported invalid", raw)
	}
	if got != want {
		t.Errorf("Normalize(%q) = %d, want %d (local 22:59)", raw, got, want)
	}
}

// The midnight rule is intentionally the literal operation sequence
// (-1h, +1d, -1m) from the system of record, landing on the same local day
// at 22:59. Do not re-derive it; this test pins the exact arithmetic.
func TestNormalize_MidnightRule(t *testing.T) {
	loc := denver(t)
	p := Policy{Location: loc}

	// 06:00 UTC on the 13th is 00:00 on the 13th in Denver.
	raw := "2023-04-13T06:00:00Z"
	want := time.Date(2023, 4, 13, 22, 59, 0, 0, loc).UnixMilli()

	got, ok := Normalize(raw, p)
	if !ok {
		t.Fatalf("Normalize(%q) reported invalid", raw)
	}
	if got != want {
		t.Errorf("Normalize(%q) = %d, want %d (same day 22:59)", raw, got, want)
	}
}

func TestNormalize_MidnightRuleNotChained(t *testing.T) {
	loc := denver(t)
	p := Policy{Location: loc}

	// The 23:59 rule must not reapply to the midnight rule's 22:59 result:
	// if it did, this would land on 21:59.
	got, ok := Normalize("2023-04-13T06:00:00Z", p)
	if !ok {
		t.Fatal("Normalize reported invalid")
	}
	chained := time.Date(2023, 4, 13, 21, 59, 0, 0, loc).UnixMilli()
	if got == chained {
		t.Error("midnight rule result had the 23:59 rule reapplied")
	}
}

func TestNormalize_DateOnlyDefaultsToMidnightRule(t *testing.T) {
	loc := denver(t)
	p := Policy{Location: loc}

	// Date-only input is local midnight, which the midnight rule shifts to
	// 22:59 on the same day.
	got, ok := Normalize("2026-09-05", p)
	if !ok {
		t.Fatal("Normalize reported invalid")
	}
	want := time.Date(2026, 9, 5, 22, 59, 0, 0, loc).UnixMilli()
	if got != want {
		t.Errorf("Normalize(date-only) = %d, want %d", got, want)
	}
}

func TestNormalize_WeekdayFallback(t *testing.T) {
	loc := denver(t)
	p := Policy{Location: loc, WeekdayFallback: true}

	tc := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "monday defaults to 11:00",
			raw:  "2026-09-07",
			want: time.Date(2026, 9, 7, 11, 0, 0, 0, loc),
		},
		{
			name: "wednesday defaults to 11:00",
			raw:  "2026-09-09",
			want: time.Date(2026, 9, 9, 11, 0, 0, 0, loc),
		},
		{
			name: "tuesday defaults to 20:00",
			raw:  "2026-09-08",
			want: time.Date(2026, 9, 8, 20, 0, 0, 0, loc),
		},
		{
			name: "thursday defaults to 20:00",
			raw:  "2026-09-10",
			want: time.Date(2026, 9, 10, 20, 0, 0, 0, loc),
		},
		{
			name: "saturday stays at midnight and hits the midnight rule",
			raw:  "2026-09-05",
			want: time.Date(2026, 9, 5, 22, 59, 0, 0, loc),
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw, p)
			if !ok {
				t.Fatalf("Normalize(%q) reported invalid", tt.raw)
			}
			if got != tt.want.UnixMilli() {
				t.Errorf("Normalize(%q) = %d, want %d", tt.raw, got, tt.want.UnixMilli())
			}
		})
	}
}

func TestNormalize_NilLocationDefaultsUTC(t *testing.T) {
	got, ok := Normalize("2023-04-12T23:59:00Z", Policy{})
	if !ok {
		t.Fatal("Normalize reported invalid")
	}
	want := time.Date(2023, 4, 12, 22, 59, 0, 0, time.UTC).UnixMilli()
	if got != want {
		t.Errorf("Normalize with nil location = %d, want %d", got, want)
	}
}
