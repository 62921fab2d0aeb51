package matches

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cancha/faults"
	"cancha/models"
)

// memStore is an in-memory Store safe for concurrent use, with pluggable
// failure injection for the partial-failure paths.
type memStore struct {
	mu       sync.Mutex
	matches  map[string]*models.Match
	bookings map[string]*models.Booking
	players  map[string][]models.Player

	insertBookingErr error
	linkErr          error
	childrenErr      error
	bookingStateErr  error
}

func newMemStore() *memStore {
	return &memStore{
		matches:  make(map[string]*models.Match),
		bookings: make(map[string]*models.Booking),
		players:  make(map[string][]models.Player),
	}
}

func (m *memStore) ActiveBookings(ctx context.Context, fieldID, date string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.FieldID == fieldID && b.Date == date && b.ActiveState() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) InsertMatch(ctx context.Context, match *models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *match
	m.matches[match.ID] = &cp
	return nil
}

func (m *memStore) InsertBooking(ctx context.Context, b *models.Booking) error {
	if m.insertBookingErr != nil {
		return m.insertBookingErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) LinkBooking(ctx context.Context, matchID, bookingID string) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return faults.ErrNotFound
	}
	match.BookingID = bookingID
	return nil
}

func (m *memStore) Match(ctx context.Context, id string) (*models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[id]
	if !ok {
		return nil, faults.ErrNotFound
	}
	cp := *match
	return &cp, nil
}

func (m *memStore) SetMatchState(ctx context.Context, id, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[id]
	if !ok {
		return faults.ErrNotFound
	}
	match.State = state
	return nil
}

func (m *memStore) SetBookingState(ctx context.Context, id, state string) error {
	if m.bookingStateErr != nil {
		return m.bookingStateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return faults.ErrNotFound
	}
	b.State = state
	return nil
}

func (m *memStore) SetPayment(ctx context.Context, matchID string, p models.PaymentInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[matchID]
	if !ok {
		return faults.ErrNotFound
	}
	match.Payment = p
	return nil
}

func (m *memStore) DeleteMatchChildren(ctx context.Context, matchID string) error {
	if m.childrenErr != nil {
		return m.childrenErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, matchID)
	return nil
}

func (m *memStore) DeleteMatch(ctx context.Context, matchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[matchID]; !ok {
		return faults.ErrNotFound
	}
	delete(m.matches, matchID)
	return nil
}

func (m *memStore) InsertPlayer(ctx context.Context, p *models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.MatchID] = append(m.players[p.MatchID], *p)
	return nil
}

func (m *memStore) ListPlayers(ctx context.Context, matchID string) ([]models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.players[matchID], nil
}

func (m *memStore) DeletePlayer(ctx context.Context, matchID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.players[matchID]
	for i, p := range list {
		if p.ID == playerID {
			m.players[matchID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return faults.ErrNotFound
}

func testAllocator(store Store) *Allocator {
	return &Allocator{
		Store:    store,
		Now:      func() time.Time { return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC) },
		OnChange: func(ctx context.Context, fieldID, date string) {},
	}
}

func validDraft() *Draft {
	return &Draft{
		FieldID:    "f1",
		Date:       "2025-03-12",
		StartTime:  "18:00",
		EndTime:    "19:00",
		SlotID:     "s18",
		MatchType:  5,
		TotalPrice: 1000,
		CreatorID:  "u1",
	}
}

func TestCreateMatchWithBooking(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)

	res, err := a.CreateMatchWithBooking(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("CreateMatchWithBooking: %v", err)
	}

	m, err := store.Match(context.Background(), res.MatchID)
	if err != nil {
		t.Fatalf("match not persisted: %v", err)
	}
	if m.State != models.MatchPending {
		t.Fatalf("match state = %s, want pending", m.State)
	}
	if m.BookingID != res.BookingID {
		t.Fatalf("bookingId not back-filled: %q vs %q", m.BookingID, res.BookingID)
	}
	if m.PricePerPlayer != 100 {
		t.Fatalf("pricePerPlayer = %v, want 1000/(5*2)=100", m.PricePerPlayer)
	}

	b := store.bookings[res.BookingID]
	if b == nil || b.State != models.BookingReserved || b.MatchID != res.MatchID {
		t.Fatalf("booking not reserved against the match: %+v", b)
	}
}

func TestCreateRejectsConflict(t *testing.T) {
	store := newMemStore()
	store.bookings["b0"] = &models.Booking{
		ID: "b0", FieldID: "f1", Date: "2025-03-12",
		StartTime: "18:30", EndTime: "19:30", State: models.BookingOccupied,
	}
	a := testAllocator(store)

	_, err := a.CreateMatchWithBooking(context.Background(), validDraft())
	var conflict *faults.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Booking.ID != "b0" {
		t.Fatalf("conflict should carry the holder, got %+v", conflict.Booking)
	}
	if len(store.matches) != 0 {
		t.Fatal("no match record may exist after a rejected allocation")
	}
}

func TestCreateValidation(t *testing.T) {
	a := testAllocator(newMemStore())
	ctx := context.Background()

	mutations := []func(*Draft){
		func(d *Draft) { d.FieldID = "" },
		func(d *Draft) { d.CreatorID = "" },
		func(d *Draft) { d.Date = "12-03-2025" },
		func(d *Draft) { d.StartTime = "25:00" },
		func(d *Draft) { d.EndTime = d.StartTime },
		func(d *Draft) { d.MatchType = 0 },
		func(d *Draft) { d.TotalPrice = -1 },
	}
	for i, mutate := range mutations {
		d := validDraft()
		mutate(d)
		if _, err := a.CreateMatchWithBooking(ctx, d); err == nil {
			t.Errorf("mutation %d: expected validation error", i)
		}
	}
}

func TestConcurrentCreatorsOneWins(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)
	ctx := context.Background()

	const racers = 8
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.CreateMatchWithBooking(ctx, validDraft())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	won, lost := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			won++
		default:
			var conflict *faults.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			lost++
		}
	}
	if won != 1 || lost != racers-1 {
		t.Fatalf("won=%d lost=%d, want exactly one winner", won, lost)
	}
	if len(store.bookings) != 1 {
		t.Fatalf("field sold %d times", len(store.bookings))
	}
}

func TestBookingWriteFailureIsPartial(t *testing.T) {
	store := newMemStore()
	store.insertBookingErr = errors.New("write timeout")
	a := testAllocator(store)

	_, err := a.CreateMatchWithBooking(context.Background(), validDraft())
	var partial *faults.PartialFailure
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialFailure, got %v", err)
	}
	if partial.MatchID == "" {
		t.Fatal("PartialFailure must name the orphaned match")
	}
	if _, err := store.Match(context.Background(), partial.MatchID); err != nil {
		t.Fatal("the orphaned match record should remain for reconciliation")
	}
}

func TestLinkFailureIsPartial(t *testing.T) {
	store := newMemStore()
	store.linkErr = errors.New("write timeout")
	a := testAllocator(store)

	_, err := a.CreateMatchWithBooking(context.Background(), validDraft())
	var partial *faults.PartialFailure
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialFailure, got %v", err)
	}
}

func TestDeleteMatchReleasesAndCascades(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)
	ctx := context.Background()

	res, err := a.CreateMatchWithBooking(ctx, validDraft())
	if err != nil {
		t.Fatalf("CreateMatchWithBooking: %v", err)
	}
	_ = store.InsertPlayer(ctx, &models.Player{ID: "p1", MatchID: res.MatchID})

	if err := a.DeleteMatch(ctx, res.MatchID); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if _, err := store.Match(ctx, res.MatchID); !errors.Is(err, faults.ErrNotFound) {
		t.Fatal("match record should be gone")
	}
	if store.bookings[res.BookingID].State != models.BookingAvailable {
		t.Fatal("booking should be released")
	}
	if len(store.players[res.MatchID]) != 0 {
		t.Fatal("players should be cascaded away")
	}
}

func TestDeleteMatchToleratesMissingBooking(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)
	ctx := context.Background()

	res, err := a.CreateMatchWithBooking(ctx, validDraft())
	if err != nil {
		t.Fatalf("CreateMatchWithBooking: %v", err)
	}
	delete(store.bookings, res.BookingID)

	if err := a.DeleteMatch(ctx, res.MatchID); err != nil {
		t.Fatalf("delete should survive a missing booking, got %v", err)
	}
	if _, err := store.Match(ctx, res.MatchID); !errors.Is(err, faults.ErrNotFound) {
		t.Fatal("match record should be gone")
	}
}

func TestDeleteMatchToleratesChildFailure(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)
	ctx := context.Background()

	res, err := a.CreateMatchWithBooking(ctx, validDraft())
	if err != nil {
		t.Fatalf("CreateMatchWithBooking: %v", err)
	}
	store.childrenErr = errors.New("players collection down")

	if err := a.DeleteMatch(ctx, res.MatchID); err != nil {
		t.Fatalf("delete should continue past child cleanup, got %v", err)
	}
}

func TestConfirmAndCancel(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)
	ctx := context.Background()

	res, err := a.CreateMatchWithBooking(ctx, validDraft())
	if err != nil {
		t.Fatalf("CreateMatchWithBooking: %v", err)
	}

	m, err := a.Confirm(ctx, res.MatchID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if m.State != models.MatchConfirmed {
		t.Fatalf("state = %s, want confirmed", m.State)
	}
	if store.bookings[res.BookingID].State != models.BookingOccupied {
		t.Fatal("booking should move to occupied on confirm")
	}

	// confirming twice is invalid
	if _, err := a.Confirm(ctx, res.MatchID); err == nil {
		t.Fatal("confirming a confirmed match must fail")
	}

	m, err = a.Cancel(ctx, res.MatchID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if m.State != models.MatchCancelled {
		t.Fatalf("state = %s, want cancelled", m.State)
	}
	if store.bookings[res.BookingID].State != models.BookingAvailable {
		t.Fatal("booking should be released on cancel")
	}

	if _, err := a.Cancel(ctx, res.MatchID); err == nil {
		t.Fatal("cancelling a cancelled match must fail")
	}
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store)
	ctx := context.Background()

	res, err := a.CreateMatchWithBooking(ctx, validDraft())
	if err != nil {
		t.Fatalf("CreateMatchWithBooking: %v", err)
	}

	if _, err := a.Complete(ctx, res.MatchID); err == nil {
		t.Fatal("completing a pending match must fail")
	}

	if _, err := a.Confirm(ctx, res.MatchID); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	m, err := a.Complete(ctx, res.MatchID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if m.State != models.MatchCompleted {
		t.Fatalf("state = %s, want completed", m.State)
	}
	if store.bookings[res.BookingID].State != models.BookingAvailable {
		t.Fatal("booking should be released after completion")
	}

	if _, err := a.Cancel(ctx, res.MatchID); err == nil {
		t.Fatal("cancelling a completed match must fail")
	}
}
