// Package timeutil handles civil dates ("YYYY-MM-DD") and HH:MM clock times.
// Dates are treated as plain calendar values: day-of-week is computed from
// the date components pinned to UTC, so results never depend on the host
// timezone.
package timeutil

import (
	"fmt"
	"time"
)

// ParseDate validates a YYYY-MM-DD string and returns its components.
func ParseDate(date string) (year int, month time.Month, day int, err error) {
	var m int
	if _, err = fmt.Sscanf(date, "%4d-%2d-%2d", &year, &m, &day); err != nil {
		return 0, 0, 0, fmt.Errorf("bad date %q: %w", date, err)
	}
	month = time.Month(m)
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Format("2006-01-02") != date {
		return 0, 0, 0, fmt.Errorf("bad date %q", date)
	}
	return year, month, day, nil
}

// Weekday returns 0=Sunday..6=Saturday for a civil date, independent of the
// local timezone.
func Weekday(date string) (int, error) {
	y, m, d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	// Noon UTC keeps the computation clear of any DST edge.
	return int(time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Weekday()), nil
}

// AddDays shifts a civil date by n days.
func AddDays(date string, n int) (string, error) {
	y, m, d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n).Format("2006-01-02"), nil
}

// CivilDate formats t as its civil date in t's own location.
func CivilDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// MinuteOfDay parses "HH:MM" into minutes since midnight.
func MinuteOfDay(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%2d:%2d", &h, &m); err != nil {
		return 0, fmt.Errorf("bad time %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, fmt.Errorf("bad time %q", hhmm)
	}
	return h*60 + m, nil
}

// Overlaps applies the inclusive overlap test between a candidate range
// [slotStart,slotEnd) and a booking range [bookingStart,bookingEnd), all in
// minutes since midnight:
//
//	bookingStart <= slotStart < bookingEnd
//	OR bookingStart < slotEnd <= bookingEnd
//	OR (bookingStart >= slotStart AND bookingEnd <= slotEnd)
func Overlaps(slotStart, slotEnd, bookingStart, bookingEnd int) bool {
	if bookingStart <= slotStart && slotStart < bookingEnd {
		return true
	}
	if bookingStart < slotEnd && slotEnd <= bookingEnd {
		return true
	}
	return bookingStart >= slotStart && bookingEnd <= slotEnd
}

// OverlapsClock is Overlaps over HH:MM strings. Unparseable inputs count as
// overlapping so a malformed booking can never be sold around.
func OverlapsClock(slotStart, slotEnd, bookingStart, bookingEnd string) bool {
	ss, err1 := MinuteOfDay(slotStart)
	se, err2 := MinuteOfDay(slotEnd)
	bs, err3 := MinuteOfDay(bookingStart)
	be, err4 := MinuteOfDay(bookingEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return true
	}
	return Overlaps(ss, se, bs, be)
}
