// Package weekly presents the rolling 6-day navigation window over the
// availability engine, with per-(field, date) caching.
package weekly

import (
	"cancha/faults"
	"cancha/timeutil"
)

// WindowDays is the width of one navigation page.
const WindowDays = 6

// VisibleDates returns the dates of the window starting at windowStart
// (today when empty), dropping any date before today or strictly past
// today+lookahead. The result may be empty at the horizon's edge.
func VisibleDates(today, windowStart string, lookahead int) ([]string, error) {
	if windowStart == "" {
		windowStart = today
	}
	if _, _, _, err := timeutil.ParseDate(windowStart); err != nil {
		return nil, faults.Invalid("start", "must be YYYY-MM-DD")
	}
	horizon, err := timeutil.AddDays(today, lookahead)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, WindowDays)
	for i := 0; i < WindowDays; i++ {
		d, err := timeutil.AddDays(windowStart, i)
		if err != nil {
			return nil, err
		}
		if d < today || d > horizon {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// NextStart advances the window by one page, refusing to start past the
// horizon.
func NextStart(today, windowStart string, lookahead int) (string, error) {
	if windowStart == "" {
		windowStart = today
	}
	next, err := timeutil.AddDays(windowStart, WindowDays)
	if err != nil {
		return "", faults.Invalid("start", "must be YYYY-MM-DD")
	}
	horizon, err := timeutil.AddDays(today, lookahead)
	if err != nil {
		return "", err
	}
	if next > horizon {
		return windowStart, nil
	}
	return next, nil
}

// PrevStart moves the window back one page, refusing to move before today.
func PrevStart(today, windowStart string) (string, error) {
	if windowStart == "" {
		return today, nil
	}
	prev, err := timeutil.AddDays(windowStart, -WindowDays)
	if err != nil {
		return "", faults.Invalid("start", "must be YYYY-MM-DD")
	}
	if prev < today {
		return today, nil
	}
	return prev, nil
}
