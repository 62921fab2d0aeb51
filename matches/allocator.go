// Package matches owns the match lifecycle and the booking allocator: the
// write-time conflict re-check plus the match→booking write pair that keeps
// a field from being sold twice.
package matches

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"cancha/booking"
	"cancha/faults"
	"cancha/models"
	"cancha/timeutil"
	"cancha/utils"
)

// Store is the persistence surface the allocator drives.
type Store interface {
	ActiveBookings(ctx context.Context, fieldID, date string) ([]models.Booking, error)
	InsertMatch(ctx context.Context, m *models.Match) error
	InsertBooking(ctx context.Context, b *models.Booking) error
	// LinkBooking back-fills match.bookingId after the booking write.
	LinkBooking(ctx context.Context, matchID, bookingID string) error
	Match(ctx context.Context, id string) (*models.Match, error)
	SetMatchState(ctx context.Context, id, state string) error
	SetBookingState(ctx context.Context, id, state string) error
	SetPayment(ctx context.Context, matchID string, p models.PaymentInfo) error
	DeleteMatchChildren(ctx context.Context, matchID string) error
	DeleteMatch(ctx context.Context, matchID string) error
	InsertPlayer(ctx context.Context, p *models.Player) error
	ListPlayers(ctx context.Context, matchID string) ([]models.Player, error)
	DeletePlayer(ctx context.Context, matchID, playerID string) error
}

// Draft is the user input for a new match.
type Draft struct {
	FieldID    string  `json:"fieldId"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	SlotID     string  `json:"slotId"`
	MatchType  int     `json:"matchType"` // players per side
	TotalPrice float64 `json:"totalPrice"`
	PriceID    string  `json:"priceId"`
	CreatorID  string  `json:"creatorId"`
}

// Result links the two records a successful allocation produced.
type Result struct {
	MatchID   string `json:"matchId"`
	BookingID string `json:"bookingId"`
}

type Allocator struct {
	Store Store
	Now   func() time.Time
	// OnChange fires after any mutation that affects availability for a
	// (field, date); used for cache invalidation and live updates.
	OnChange func(ctx context.Context, fieldID, date string)

	locks keyedMutex
}

func NewAllocator(store Store) *Allocator {
	return &Allocator{
		Store: store,
		Now:   time.Now,
		OnChange: func(ctx context.Context, fieldID, date string) {
			booking.NotifyChange(ctx, fieldID, date)
		},
	}
}

func (a *Allocator) changed(ctx context.Context, fieldID, date string) {
	if a.OnChange != nil {
		a.OnChange(ctx, fieldID, date)
	}
}

func validateDraft(d *Draft) error {
	if d.FieldID == "" {
		return faults.Invalid("fieldId", "required")
	}
	if d.CreatorID == "" {
		return faults.Invalid("creatorId", "required")
	}
	if _, _, _, err := timeutil.ParseDate(d.Date); err != nil {
		return faults.Invalid("date", "must be YYYY-MM-DD")
	}
	start, err := timeutil.MinuteOfDay(d.StartTime)
	if err != nil {
		return faults.Invalid("startTime", "must be HH:MM")
	}
	end, err := timeutil.MinuteOfDay(d.EndTime)
	if err != nil {
		return faults.Invalid("endTime", "must be HH:MM")
	}
	if start >= end {
		return faults.Invalid("endTime", "must be after startTime")
	}
	if d.MatchType <= 0 {
		return faults.Invalid("matchType", "must be positive")
	}
	if d.TotalPrice <= 0 {
		return faults.Invalid("totalPrice", "must be positive")
	}
	return nil
}

// CreateMatchWithBooking re-validates the time range against current
// bookings and, if free, writes the match then its booking. The two writes
// are not one transaction; a booking or back-fill failure after the match
// write surfaces as a PartialFailure for operator reconciliation, never as
// success. Racing creators on the same node are serialized per (field, date);
// across nodes the store-level read-then-write window remains (see the
// design notes in the repo root).
func (a *Allocator) CreateMatchWithBooking(ctx context.Context, draft *Draft) (*Result, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	unlock := a.locks.lock(draft.FieldID + "|" + draft.Date)
	defer unlock()

	existing, err := a.Store.ActiveBookings(ctx, draft.FieldID, draft.Date)
	if err != nil {
		return nil, err
	}
	if hit := booking.FindConflict(existing, draft.StartTime, draft.EndTime); hit != nil {
		return nil, &faults.ConflictError{Booking: *hit}
	}

	now := a.Now().Unix()
	m := &models.Match{
		ID:             utils.NewID(),
		FieldID:        draft.FieldID,
		Date:           draft.Date,
		StartTime:      draft.StartTime,
		EndTime:        draft.EndTime,
		SlotID:         draft.SlotID,
		MatchType:      draft.MatchType,
		TotalPrice:     draft.TotalPrice,
		PricePerPlayer: draft.TotalPrice / float64(draft.MatchType*2),
		PriceID:        draft.PriceID,
		State:          models.MatchPending,
		Payment:        models.PaymentInfo{State: models.PaymentPending},
		CreatorID:      draft.CreatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := a.Store.InsertMatch(ctx, m); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:        utils.NewID(),
		FieldID:   draft.FieldID,
		Date:      draft.Date,
		StartTime: draft.StartTime,
		EndTime:   draft.EndTime,
		State:     models.BookingReserved,
		MatchID:   m.ID,
		CreatedBy: draft.CreatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Store.InsertBooking(ctx, b); err != nil {
		return nil, &faults.PartialFailure{MatchID: m.ID, Err: err}
	}
	if err := a.Store.LinkBooking(ctx, m.ID, b.ID); err != nil {
		return nil, &faults.PartialFailure{MatchID: m.ID, Err: err}
	}

	a.changed(ctx, draft.FieldID, draft.Date)
	return &Result{MatchID: m.ID, BookingID: b.ID}, nil
}

// DeleteMatch is the inverse of allocation: release the booking, drop the
// sub-records, drop the match. Sub-step failures are logged and skipped —
// partial cleanup beats none — but a missing match or a failed final delete
// is reported.
func (a *Allocator) DeleteMatch(ctx context.Context, matchID string) error {
	m, err := a.Store.Match(ctx, matchID)
	if err != nil {
		return err
	}

	if m.BookingID != "" {
		if err := a.Store.SetBookingState(ctx, m.BookingID, models.BookingAvailable); err != nil {
			if errors.Is(err, faults.ErrNotFound) {
				log.Printf("deleteMatch %s: booking %s already gone", matchID, m.BookingID)
			} else {
				log.Printf("deleteMatch %s: release booking %s failed: %v", matchID, m.BookingID, err)
			}
		}
	}

	if err := a.Store.DeleteMatchChildren(ctx, matchID); err != nil {
		log.Printf("deleteMatch %s: child cleanup failed: %v", matchID, err)
	}

	if err := a.Store.DeleteMatch(ctx, matchID); err != nil {
		return err
	}

	a.changed(ctx, m.FieldID, m.Date)
	return nil
}

// Confirm moves a pending match to confirmed and its booking to occupied,
// normally driven by an approved payment.
func (a *Allocator) Confirm(ctx context.Context, matchID string) (*models.Match, error) {
	m, err := a.Store.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.State != models.MatchPending {
		return nil, faults.Invalid("state", "only pending matches can be confirmed")
	}

	if err := a.Store.SetMatchState(ctx, matchID, models.MatchConfirmed); err != nil {
		return nil, err
	}
	if m.BookingID != "" {
		if err := a.Store.SetBookingState(ctx, m.BookingID, models.BookingOccupied); err != nil {
			log.Printf("confirm match %s: booking %s transition failed: %v", matchID, m.BookingID, err)
		}
	}
	m.State = models.MatchConfirmed

	a.changed(ctx, m.FieldID, m.Date)
	return m, nil
}

// Complete marks a confirmed match as played and releases its booking.
func (a *Allocator) Complete(ctx context.Context, matchID string) (*models.Match, error) {
	m, err := a.Store.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.State != models.MatchConfirmed {
		return nil, faults.Invalid("state", "only confirmed matches can be completed")
	}

	if err := a.Store.SetMatchState(ctx, matchID, models.MatchCompleted); err != nil {
		return nil, err
	}
	if m.BookingID != "" {
		if err := a.Store.SetBookingState(ctx, m.BookingID, models.BookingAvailable); err != nil {
			log.Printf("complete match %s: booking %s release failed: %v", matchID, m.BookingID, err)
		}
	}
	m.State = models.MatchCompleted

	a.changed(ctx, m.FieldID, m.Date)
	return m, nil
}

// Cancel moves a match to cancelled and releases its booking.
func (a *Allocator) Cancel(ctx context.Context, matchID string) (*models.Match, error) {
	m, err := a.Store.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.State == models.MatchCancelled || m.State == models.MatchCompleted {
		return nil, faults.Invalid("state", "match is already "+m.State)
	}

	if err := a.Store.SetMatchState(ctx, matchID, models.MatchCancelled); err != nil {
		return nil, err
	}
	if m.BookingID != "" {
		if err := a.Store.SetBookingState(ctx, m.BookingID, models.BookingAvailable); err != nil {
			log.Printf("cancel match %s: booking %s release failed: %v", matchID, m.BookingID, err)
		}
	}
	m.State = models.MatchCancelled

	a.changed(ctx, m.FieldID, m.Date)
	return m, nil
}

// keyedMutex serializes work per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*lockEntry)
	}
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
