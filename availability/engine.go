// Package availability computes which (slot, price) pairs a field can sell
// on a given civil date: active catalog slots that carry a price for the
// resolved day and do not overlap any active booking.
package availability

import (
	"context"
	"sort"
	"time"

	"cancha/faults"
	"cancha/holidays"
	"cancha/models"
	"cancha/timeutil"
)

// Store is the read surface the engine needs. Implementations translate
// their own failures into faults.ErrDataUnavailable.
type Store interface {
	ActiveSlots(ctx context.Context) ([]models.TimeSlot, error)
	PriceBySlot(ctx context.Context, fieldID string, day models.DayKey) (map[string]models.PriceEntry, error)
	// ActiveBookings returns bookings in a holding state (reserved,
	// occupied, blocked) for the field and date.
	ActiveBookings(ctx context.Context, fieldID, date string) ([]models.Booking, error)
	LookaheadDays(ctx context.Context, fieldID string) (int, error)
}

type Engine struct {
	Store    Store
	Holidays holidays.Calendar
	Now      func() time.Time // injectable for tests; defaults to time.Now
}

func NewEngine(store Store) *Engine {
	return &Engine{Store: store, Holidays: holidays.None{}, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// ResolveDayKey maps a civil date onto its pricing day, letting a holiday
// override the weekday. The weekday comes from the date components alone,
// never from a timezone-sensitive parse.
func (e *Engine) ResolveDayKey(date string) (models.DayKey, error) {
	if e.Holidays != nil && e.Holidays.IsHoliday(date) {
		return models.Holiday, nil
	}
	wd, err := timeutil.Weekday(date)
	if err != nil {
		return 0, faults.Invalid("date", "must be YYYY-MM-DD")
	}
	return models.DayKey(wd), nil
}

// InWindow reports whether date falls inside [today, today+lookahead].
// Lexicographic comparison is sound for YYYY-MM-DD strings.
func (e *Engine) InWindow(ctx context.Context, fieldID, date string) (bool, error) {
	today := timeutil.CivilDate(e.now())
	if date < today {
		return false, nil
	}
	lookahead, err := e.Store.LookaheadDays(ctx, fieldID)
	if err != nil {
		return false, err
	}
	if lookahead <= 0 {
		lookahead = models.DefaultLookaheadDays
	}
	horizon, err := timeutil.AddDays(today, lookahead)
	if err != nil {
		return false, err
	}
	return date <= horizon, nil
}

// GetAvailableSlots returns the sellable (slot, price) pairs for a field and
// date, sorted by slot start. Out-of-window dates yield an empty result, not
// an error: the caller may legitimately probe the edges of the window.
func (e *Engine) GetAvailableSlots(ctx context.Context, fieldID, date string) ([]models.SlotPrice, error) {
	if fieldID == "" {
		return nil, faults.Invalid("fieldId", "required")
	}
	if _, _, _, err := timeutil.ParseDate(date); err != nil {
		return nil, faults.Invalid("date", "must be YYYY-MM-DD")
	}

	ok, err := e.InWindow(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.SlotPrice{}, nil
	}

	day, err := e.ResolveDayKey(date)
	if err != nil {
		return nil, err
	}

	priced, err := e.Store.PriceBySlot(ctx, fieldID, day)
	if err != nil {
		return nil, err
	}
	if len(priced) == 0 {
		return []models.SlotPrice{}, nil
	}

	catalog, err := e.Store.ActiveSlots(ctx)
	if err != nil {
		return nil, err
	}
	booked, err := e.Store.ActiveBookings(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}

	out := []models.SlotPrice{}
	for _, slot := range catalog {
		entry, ok := priced[slot.ID]
		if !ok {
			continue
		}
		if overlapsAny(slot, booked) {
			continue
		}
		out = append(out, models.SlotPrice{Slot: slot, Price: entry.Price})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.StartTime < out[j].Slot.StartTime })
	return out, nil
}

func overlapsAny(slot models.TimeSlot, bookings []models.Booking) bool {
	for _, b := range bookings {
		if timeutil.OverlapsClock(slot.StartTime, slot.EndTime, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}
