package matches

import (
	"context"
	"time"

	"cancha/booking"
	"cancha/db"
	"cancha/faults"
	"cancha/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore drives the allocator against the shared collections.
type MongoStore struct{}

func (MongoStore) ActiveBookings(ctx context.Context, fieldID, date string) ([]models.Booking, error) {
	return booking.ActiveForFieldDate(ctx, fieldID, date)
}

func (MongoStore) InsertMatch(ctx context.Context, m *models.Match) error {
	if _, err := db.MatchesCollection.InsertOne(ctx, m); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

func (MongoStore) InsertBooking(ctx context.Context, b *models.Booking) error {
	return booking.Insert(ctx, b)
}

func (MongoStore) LinkBooking(ctx context.Context, matchID, bookingID string) error {
	res, err := db.MatchesCollection.UpdateOne(ctx,
		bson.M{"id": matchID},
		bson.M{"$set": bson.M{"bookingId": bookingID, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return faults.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}

func (MongoStore) Match(ctx context.Context, id string) (*models.Match, error) {
	var m models.Match
	err := db.MatchesCollection.FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, faults.ErrNotFound
	}
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	return &m, nil
}

func (MongoStore) SetMatchState(ctx context.Context, id, state string) error {
	res, err := db.MatchesCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"state": state, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return faults.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}

func (MongoStore) SetBookingState(ctx context.Context, id, state string) error {
	_, err := booking.SetState(ctx, id, state)
	return err
}

func (MongoStore) SetPayment(ctx context.Context, matchID string, p models.PaymentInfo) error {
	res, err := db.MatchesCollection.UpdateOne(ctx,
		bson.M{"id": matchID},
		bson.M{"$set": bson.M{"payment": p, "updatedAt": time.Now().Unix()}},
	)
	if err != nil {
		return faults.Unavailable(err)
	}
	if res.MatchedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}

func (MongoStore) DeleteMatchChildren(ctx context.Context, matchID string) error {
	if _, err := db.PlayersCollection.DeleteMany(ctx, bson.M{"matchId": matchID}); err != nil {
		return faults.Unavailable(err)
	}
	if _, err := db.PaymentsCollection.DeleteMany(ctx, bson.M{"matchId": matchID}); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

func (MongoStore) DeleteMatch(ctx context.Context, matchID string) error {
	res, err := db.MatchesCollection.DeleteOne(ctx, bson.M{"id": matchID})
	if err != nil {
		return faults.Unavailable(err)
	}
	if res.DeletedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}

func (MongoStore) InsertPlayer(ctx context.Context, p *models.Player) error {
	if _, err := db.PlayersCollection.InsertOne(ctx, p); err != nil {
		return faults.Unavailable(err)
	}
	return nil
}

func (MongoStore) ListPlayers(ctx context.Context, matchID string) ([]models.Player, error) {
	cur, err := db.PlayersCollection.Find(ctx, bson.M{"matchId": matchID})
	if err != nil {
		return nil, faults.Unavailable(err)
	}
	defer cur.Close(ctx)

	var out []models.Player
	if err := cur.All(ctx, &out); err != nil {
		return nil, faults.Unavailable(err)
	}
	return out, nil
}

func (MongoStore) DeletePlayer(ctx context.Context, matchID, playerID string) error {
	res, err := db.PlayersCollection.DeleteOne(ctx, bson.M{"matchId": matchID, "id": playerID})
	if err != nil {
		return faults.Unavailable(err)
	}
	if res.DeletedCount == 0 {
		return faults.ErrNotFound
	}
	return nil
}
