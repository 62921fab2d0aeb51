package timeutil

import (
	"testing"
	"time"
)

func TestWeekdayIgnoresLocalTimezone(t *testing.T) {
	// 2025-03-10 is a Monday everywhere; pin an extreme zone to prove the
	// computation never consults it.
	orig := time.Local
	loc, err := time.LoadLocation("Pacific/Kiritimati")
	if err == nil {
		time.Local = loc
		defer func() { time.Local = orig }()
	}

	got, err := Weekday("2025-03-10")
	if err != nil {
		t.Fatalf("Weekday: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected Monday (1), got %d", got)
	}
}

func TestWeekdayKnownDates(t *testing.T) {
	cases := map[string]int{
		"2025-03-09": 0, // Sunday
		"2025-03-15": 6, // Saturday
		"2024-02-29": 4, // leap-day Thursday
	}
	for date, want := range cases {
		got, err := Weekday(date)
		if err != nil {
			t.Fatalf("Weekday(%s): %v", date, err)
		}
		if got != want {
			t.Errorf("Weekday(%s) = %d, want %d", date, got, want)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "2025-13-01", "2025-02-30", "10/03/2025", "2025-3-10"} {
		if _, _, _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) accepted invalid input", bad)
		}
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2025-03-10", 6)
	if err != nil {
		t.Fatalf("AddDays: %v", err)
	}
	if got != "2025-03-16" {
		t.Fatalf("AddDays = %s, want 2025-03-16", got)
	}

	got, err = AddDays("2025-02-27", 3) // across month boundary
	if err != nil {
		t.Fatalf("AddDays: %v", err)
	}
	if got != "2025-03-02" {
		t.Fatalf("AddDays = %s, want 2025-03-02", got)
	}
}

func TestMinuteOfDay(t *testing.T) {
	got, err := MinuteOfDay("18:30")
	if err != nil {
		t.Fatalf("MinuteOfDay: %v", err)
	}
	if got != 18*60+30 {
		t.Fatalf("MinuteOfDay = %d", got)
	}
	for _, bad := range []string{"24:00", "18:60", "8:00", "1830", ""} {
		if _, err := MinuteOfDay(bad); err == nil {
			t.Errorf("MinuteOfDay(%q) accepted invalid input", bad)
		}
	}
}

func TestOverlaps(t *testing.T) {
	type tc struct {
		name           string
		ss, se, bs, be int
		want           bool
	}
	cases := []tc{
		{"identical", 1080, 1140, 1080, 1140, true},
		{"booking covers slot start", 1080, 1140, 1050, 1100, true},
		{"booking covers slot end", 1080, 1140, 1100, 1160, true},
		{"booking inside slot", 1080, 1140, 1090, 1130, true},
		{"slot inside booking", 1080, 1140, 1050, 1200, true},
		{"adjacent before", 1080, 1140, 1020, 1080, false},
		{"adjacent after", 1080, 1140, 1140, 1200, false},
		{"disjoint", 1080, 1140, 600, 660, false},
	}
	for _, c := range cases {
		if got := Overlaps(c.ss, c.se, c.bs, c.be); got != c.want {
			t.Errorf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestOverlapsClockMalformedCountsAsOverlap(t *testing.T) {
	if !OverlapsClock("18:00", "19:00", "bad", "19:00") {
		t.Fatal("malformed booking time must count as overlapping")
	}
}
