// Package booking owns the booking records that hold field time: conflict
// detection, the state machine, maintenance blocks and the admin accessors.
package booking

import (
	"context"
	"time"

	"cancha/db"
	"cancha/faults"
	"cancha/models"
	"cancha/rdx"
	"cancha/timeutil"
	"cancha/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindConflict returns the first booking whose range overlaps
// [start,end) under the inclusive test, or nil when the range is free.
func FindConflict(bookings []models.Booking, start, end string) *models.Booking {
	for i := range bookings {
		b := &bookings[i]
		if timeutil.OverlapsClock(start, end, b.StartTime, b.EndTime) {
			return b
		}
	}
	return nil
}

// allowedTransition encodes the booking state machine. Blocked is never a
// transition target; maintenance holds are created directly in that state.
func allowedTransition(from, to string) bool {
	if to == models.BookingCancelled {
		return true
	}
	switch from {
	case models.BookingReserved:
		return to == models.BookingOccupied || to == models.BookingAvailable
	case models.BookingOccupied:
		return to == models.BookingAvailable
	case models.BookingBlocked:
		return to == models.BookingAvailable
	}
	return false
}

// ActiveForFieldDate returns the bookings holding the field on a date.
func ActiveForFieldDate(ctx context.Context, fieldID, date string) ([]models.Booking, error) {
	cur, err := db.BookingsCollection.Find(ctx, bson.M{
		"fieldId": fieldID,
		"date":    date,
		"state":   bson.M{"$in": models.ActiveBookingStates},
	})
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, faults.Unavailable(err)
	}
	return out, nil
}

// Get fetches one booking by id.
func Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, faults.ErrNotFound
	}
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	return &b, nil
}

// Insert writes a new booking record.
func Insert(ctx context.Context, b *models.Booking) error {
	if _, err := db.BookingsCollection.InsertOne(ctx, b); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

// SetState transitions a booking, enforcing the state machine.
func SetState(ctx context.Context, id, to string) (*models.Booking, error) {
	b, err := Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !allowedTransition(b.State, to) {
		return nil, faults.Invalid("state", "cannot move "+b.State+" to "+to)
	}

	_, err = db.BookingsCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"state": to, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	b.State = to
	NotifyChange(ctx, b.FieldID, b.Date)
	return b, nil
}

// CreateBlock places a maintenance hold on a field time range. Blocks carry
// no match and are subject to the same overlap rule as any booking.
func CreateBlock(ctx context.Context, fieldID, date, start, end, reason, createdBy string) (*models.Booking, error) {
	if fieldID == "" || date == "" {
		return nil, faults.Invalid("fieldId/date", "required")
	}
	if _, _, _, err := timeutil.ParseDate(date); err != nil {
		return nil, faults.Invalid("date", "must be YYYY-MM-DD")
	}
	s, err := timeutil.MinuteOfDay(start)
	if err != nil {
		return nil, faults.Invalid("startTime", "must be HH:MM")
	}
	e, err := timeutil.MinuteOfDay(end)
	if err != nil {
		return nil, faults.Invalid("endTime", "must be HH:MM")
	}
	if s >= e {
		return nil, faults.Invalid("endTime", "must be after startTime")
	}

	existing, err := ActiveForFieldDate(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}
	if hit := FindConflict(existing, start, end); hit != nil {
		return nil, &faults.ConflictError{Booking: *hit}
	}

	now := time.Now().Unix()
	b := &models.Booking{
		ID:        utils.NewID(),
		FieldID:   fieldID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		State:     models.BookingBlocked,
		Reason:    reason,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := Insert(ctx, b); err != nil {
		return nil, err
	}
	NotifyChange(ctx, fieldID, date)
	return b, nil
}

// AvailabilityCacheKey is the cache key for one (field, date) availability
// result; shared with the weekly view.
func AvailabilityCacheKey(fieldID, date string) string {
	return "avail:" + fieldID + ":" + date
}

// NotifyChange invalidates the cached availability for the field/date and
// pushes a live update to subscribers. Both are best-effort.
func NotifyChange(ctx context.Context, fieldID, date string) {
	_ = rdx.Del(ctx, AvailabilityCacheKey(fieldID, date))
	broadcastUpdate(fieldID + "_" + date)
}
