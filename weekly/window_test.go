package weekly

import (
	"reflect"
	"testing"
)

const today = "2025-03-10"

func TestVisibleDatesDefaultWindow(t *testing.T) {
	dates, err := VisibleDates(today, "", 30)
	if err != nil {
		t.Fatalf("VisibleDates: %v", err)
	}
	want := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14", "2025-03-15"}
	if !reflect.DeepEqual(dates, want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
}

func TestVisibleDatesClipsPastDates(t *testing.T) {
	dates, err := VisibleDates(today, "2025-03-08", 30)
	if err != nil {
		t.Fatalf("VisibleDates: %v", err)
	}
	// 08 and 09 fall before today and drop out.
	want := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
	if !reflect.DeepEqual(dates, want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
}

func TestVisibleDatesClipsBeyondHorizon(t *testing.T) {
	// Horizon is today+4: only 5 sellable days exist at all.
	dates, err := VisibleDates(today, "2025-03-12", 4)
	if err != nil {
		t.Fatalf("VisibleDates: %v", err)
	}
	want := []string{"2025-03-12", "2025-03-13", "2025-03-14"}
	if !reflect.DeepEqual(dates, want) {
		t.Fatalf("dates = %v, want %v", dates, want)
	}
}

func TestVisibleDatesRejectsBadStart(t *testing.T) {
	if _, err := VisibleDates(today, "notadate", 30); err == nil {
		t.Fatal("expected error for malformed start")
	}
}

func TestNextStartStopsAtHorizon(t *testing.T) {
	next, err := NextStart(today, today, 30)
	if err != nil {
		t.Fatalf("NextStart: %v", err)
	}
	if next != "2025-03-16" {
		t.Fatalf("next = %s, want 2025-03-16", next)
	}

	// With a 4-day horizon the next page would start past it; stay put.
	next, err = NextStart(today, today, 4)
	if err != nil {
		t.Fatalf("NextStart: %v", err)
	}
	if next != today {
		t.Fatalf("next = %s, want %s", next, today)
	}
}

func TestPrevStartStopsAtToday(t *testing.T) {
	prev, err := PrevStart(today, "2025-03-16")
	if err != nil {
		t.Fatalf("PrevStart: %v", err)
	}
	if prev != today {
		t.Fatalf("prev = %s, want %s", prev, today)
	}

	prev, err = PrevStart(today, "2025-03-22")
	if err != nil {
		t.Fatalf("PrevStart: %v", err)
	}
	if prev != "2025-03-16" {
		t.Fatalf("prev = %s, want 2025-03-16", prev)
	}
}
