package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"cancha/faults"
	"cancha/holidays"
	"cancha/models"
)

// fakeStore serves canned data so the engine can be exercised without a
// database.
type fakeStore struct {
	slots     []models.TimeSlot
	prices    map[models.DayKey]map[string]models.PriceEntry
	bookings  []models.Booking
	lookahead int
	err       error
}

func (f *fakeStore) ActiveSlots(ctx context.Context) ([]models.TimeSlot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

func (f *fakeStore) PriceBySlot(ctx context.Context, fieldID string, day models.DayKey) (map[string]models.PriceEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.prices[day], nil
}

func (f *fakeStore) ActiveBookings(ctx context.Context, fieldID, date string) ([]models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

func (f *fakeStore) LookaheadDays(ctx context.Context, fieldID string) (int, error) {
	if f.lookahead > 0 {
		return f.lookahead, nil
	}
	return models.DefaultLookaheadDays, nil
}

var (
	slot18 = models.TimeSlot{ID: "s18", StartTime: "18:00", EndTime: "19:00", Active: true}
	slot19 = models.TimeSlot{ID: "s19", StartTime: "19:00", EndTime: "20:00", Active: true}
)

// monday is a fixed "today" so window checks are deterministic.
const monday = "2025-03-10"

func testEngine(store *fakeStore) *Engine {
	e := NewEngine(store)
	e.Now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
	return e
}

func TestAvailableSlotOnPricedFreeDay(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot18},
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday: {"s18": {SlotID: "s18", Price: 1000}},
		},
	}
	e := testEngine(store)

	got, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 1 || got[0].Slot.ID != "s18" || got[0].Price != 1000 {
		t.Fatalf("got %+v, want one s18 offer at 1000", got)
	}
}

func TestBookedSlotIsExcluded(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot18},
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday: {"s18": {SlotID: "s18", Price: 1000}},
		},
		bookings: []models.Booking{{
			StartTime: "18:00", EndTime: "19:00", State: models.BookingReserved,
		}},
	}
	e := testEngine(store)

	got, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}

func TestPartialOverlapExcludesSlot(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot18, slot19},
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday: {
				"s18": {SlotID: "s18", Price: 1000},
				"s19": {SlotID: "s19", Price: 1200},
			},
		},
		bookings: []models.Booking{{
			StartTime: "18:30", EndTime: "19:30", State: models.BookingBlocked,
		}},
	}
	e := testEngine(store)

	got, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("booking 18:30-19:30 should knock out both slots, got %+v", got)
	}
}

func TestUnpricedSlotIsExcluded(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot18, slot19},
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday: {"s18": {SlotID: "s18", Price: 1000}},
		},
	}
	e := testEngine(store)

	got, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 1 || got[0].Slot.ID != "s18" {
		t.Fatalf("only the priced slot should be offered, got %+v", got)
	}
}

func TestHorizonBounds(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot18},
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday: {"s18": {SlotID: "s18", Price: 1000}},
		},
		lookahead: 30,
	}
	e := testEngine(store)

	for _, date := range []string{"2025-03-09", "2025-04-10"} {
		got, err := e.GetAvailableSlots(context.Background(), "f1", date)
		if err != nil {
			t.Fatalf("GetAvailableSlots(%s): %v", date, err)
		}
		if len(got) != 0 {
			t.Fatalf("date %s is out of window, got %+v", date, got)
		}
	}

	// The horizon day itself is sellable.
	got, err := e.GetAvailableSlots(context.Background(), "f1", "2025-04-07") // today+28, a Monday
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("in-window Monday should sell, got %+v", got)
	}
}

func TestHolidayOverridesWeekday(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot18},
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday:  {"s18": {SlotID: "s18", Price: 1000}},
			models.Holiday: {"s18": {SlotID: "s18", Price: 1800}},
		},
	}
	e := testEngine(store)
	e.Holidays = holidays.Fixed{monday: true}

	got, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 1 || got[0].Price != 1800 {
		t.Fatalf("holiday price should win, got %+v", got)
	}
}

func TestResultSortedByStartTime(t *testing.T) {
	store := &fakeStore{
		slots: []models.TimeSlot{slot19, slot18}, // intentionally unordered
		prices: map[models.DayKey]map[string]models.PriceEntry{
			models.Monday: {
				"s18": {SlotID: "s18", Price: 1000},
				"s19": {SlotID: "s19", Price: 1200},
			},
		},
	}
	e := testEngine(store)

	got, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if err != nil {
		t.Fatalf("GetAvailableSlots: %v", err)
	}
	if len(got) != 2 || got[0].Slot.ID != "s18" || got[1].Slot.ID != "s19" {
		t.Fatalf("expected s18 before s19, got %+v", got)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	store := &fakeStore{err: faults.Unavailable(errors.New("network down"))}
	e := testEngine(store)

	_, err := e.GetAvailableSlots(context.Background(), "f1", monday)
	if !errors.Is(err, faults.ErrDataUnavailable) {
		t.Fatalf("expected DataUnavailable, got %v", err)
	}
}

func TestBadInputs(t *testing.T) {
	e := testEngine(&fakeStore{})
	if _, err := e.GetAvailableSlots(context.Background(), "", monday); err == nil {
		t.Fatal("missing fieldId must fail validation")
	}
	if _, err := e.GetAvailableSlots(context.Background(), "f1", "2025/03/10"); err == nil {
		t.Fatal("malformed date must fail validation")
	}
}
