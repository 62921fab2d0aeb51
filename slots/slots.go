// Package slots holds the time-slot catalog: the fixed daily windows a venue
// can sell. Rows are reference data; admins deactivate, never delete.
package slots

import (
	"context"
	"sort"
	"time"

	"cancha/db"
	"cancha/faults"
	"cancha/models"
	"cancha/timeutil"
	"cancha/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// ListActive returns the active catalog sorted by start time.
func ListActive(ctx context.Context) ([]models.TimeSlot, error) {
	cur, err := db.SlotsCollection.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.TimeSlot
	if err := cur.All(ctx, &out); err != nil {
		return nil, faults.Unavailable(err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// Create validates and inserts a catalog row.
func Create(ctx context.Context, slot *models.TimeSlot) error {
	start, err := timeutil.MinuteOfDay(slot.StartTime)
	if err != nil {
		return faults.Invalid("startTime", "must be HH:MM")
	}
	end, err := timeutil.MinuteOfDay(slot.EndTime)
	if err != nil {
		return faults.Invalid("endTime", "must be HH:MM")
	}
	if start >= end {
		return faults.Invalid("endTime", "must be after startTime")
	}

	slot.ID = utils.NewID()
	slot.Active = true
	slot.CreatedAt = time.Now().Unix()
	if _, err := db.SlotsCollection.InsertOne(ctx, slot); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

// Deactivate retires a slot from sale without touching history.
func Deactivate(ctx context.Context, slotID string) error {
	res, err := db.SlotsCollection.UpdateOne(ctx,
		bson.M{"id": slotID},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		return faults.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}
