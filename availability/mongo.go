package availability

import (
	"context"

	"cancha/booking"
	"cancha/db"
	"cancha/faults"
	"cancha/models"
	"cancha/prices"
	"cancha/slots"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore reads the shared collections.
type MongoStore struct {
	prices *prices.Service
}

func NewMongoStore() *MongoStore {
	return &MongoStore{prices: &prices.Service{Store: prices.MongoStore{}}}
}

func (s *MongoStore) ActiveSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return slots.ListActive(ctx)
}

func (s *MongoStore) PriceBySlot(ctx context.Context, fieldID string, day models.DayKey) (map[string]models.PriceEntry, error) {
	return s.prices.PriceBySlot(ctx, fieldID, day)
}

func (s *MongoStore) ActiveBookings(ctx context.Context, fieldID, date string) ([]models.Booking, error) {
	return booking.ActiveForFieldDate(ctx, fieldID, date)
}

// LookaheadDays resolves the venue horizon through the field. Missing
// configuration falls back to the default rather than blocking sales.
func (s *MongoStore) LookaheadDays(ctx context.Context, fieldID string) (int, error) {
	var field models.Field
	err := db.FieldsCollection.FindOne(ctx, bson.M{"id": fieldID}).Decode(&field)
	if err == mongo.ErrNoDocuments {
		return models.DefaultLookaheadDays, nil
	}
	if err != nil {
		return 0, faults.Unavailable(err)
	}

	var venue models.Venue
	err = db.VenuesCollection.FindOne(ctx, bson.M{"id": field.VenueID}).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		return models.DefaultLookaheadDays, nil
	}
	if err != nil {
		return 0, faults.Unavailable(err)
	}
	if venue.LookaheadDays <= 0 {
		return models.DefaultLookaheadDays, nil
	}
	return venue.LookaheadDays, nil
}
