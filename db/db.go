package db

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	VenuesCollection   *mongo.Collection
	FieldsCollection   *mongo.Collection
	SlotsCollection    *mongo.Collection
	PricesCollection   *mongo.Collection
	BookingsCollection *mongo.Collection
	MatchesCollection  *mongo.Collection
	PlayersCollection  *mongo.Collection
	PaymentsCollection *mongo.Collection
	UsersCollection    *mongo.Collection
	Client             *mongo.Client
)

// Initialize MongoDB connection
func init() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	Client, err = mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("canchadb")
	VenuesCollection = database.Collection("venues")
	FieldsCollection = database.Collection("fields")
	SlotsCollection = database.Collection("slots")
	PricesCollection = database.Collection("prices")
	BookingsCollection = database.Collection("bookings")
	MatchesCollection = database.Collection("matches")
	PlayersCollection = database.Collection("players")
	PaymentsCollection = database.Collection("payments")
	UsersCollection = database.Collection("users")
}
