package prices

import (
	"context"
	"time"

	"cancha/db"
	"cancha/faults"
	"cancha/models"
	"cancha/slots"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore backs the price table with the shared collections.
type MongoStore struct{}

func (MongoStore) ActiveSlots(ctx context.Context) ([]models.TimeSlot, error) {
	return slots.ListActive(ctx)
}

func (MongoStore) Find(ctx context.Context, fieldID, slotID string, day models.DayKey) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	err := db.PricesCollection.FindOne(ctx, bson.M{
		"fieldId": fieldID, "slotId": slotID, "dayKey": day, "active": true,
	}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, faults.ErrNotFound
	}
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	return &entry, nil
}

func (MongoStore) Insert(ctx context.Context, entry *models.PriceEntry) error {
	if _, err := db.PricesCollection.InsertOne(ctx, entry); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

func (MongoStore) Update(ctx context.Context, id string, price float64) error {
	_, err := db.PricesCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"price": price, "active": true, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

func (MongoStore) ListForField(ctx context.Context, fieldID string, day models.DayKey) ([]models.PriceEntry, error) {
	cur, err := db.PricesCollection.Find(ctx, bson.M{
		"fieldId": fieldID, "dayKey": day, "active": true,
	})
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.PriceEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, faults.Unavailable(err)
	}
	return out, nil
}
