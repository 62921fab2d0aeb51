// Package venues holds the venue and field admin surface: thin CRUD plus
// venue configuration the core reads (lookahead horizon, payment split).
package venues

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cancha/db"
	"cancha/models"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func ListVenues(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.VenuesCollection.Find(ctx, bson.M{"active": true})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	defer cur.Close(ctx)

	var venues []models.Venue
	if err := cur.All(ctx, &venues); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"venues": venues})
}

func GetVenue(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var venue models.Venue
	err := db.VenuesCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "venue not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"venue": venue})
}

func CreateVenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var venue models.Venue
	if err := json.NewDecoder(r.Body).Decode(&venue); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if venue.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing name")
		return
	}
	if venue.LookaheadDays <= 0 {
		venue.LookaheadDays = models.DefaultLookaheadDays
	}
	if venue.SplitPolicy == "" {
		venue.SplitPolicy = models.SplitFull
	}
	if venue.SplitPolicy != models.SplitFull && venue.SplitPolicy != models.SplitPerPlayer {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid splitPolicy")
		return
	}

	venue.ID = utils.NewID()
	venue.Active = true
	venue.CreatedAt = time.Now().Unix()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.VenuesCollection.InsertOne(ctx, venue); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"venue": venue})
}

func UpdateVenue(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Name          *string `json:"name"`
		Address       *string `json:"address"`
		LookaheadDays *int    `json:"lookaheadDays"`
		SplitPolicy   *string `json:"splitPolicy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	patch := bson.M{}
	if body.Name != nil {
		patch["name"] = *body.Name
	}
	if body.Address != nil {
		patch["address"] = *body.Address
	}
	if body.LookaheadDays != nil {
		if *body.LookaheadDays <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "lookaheadDays must be positive")
			return
		}
		patch["lookaheadDays"] = *body.LookaheadDays
	}
	if body.SplitPolicy != nil {
		if *body.SplitPolicy != models.SplitFull && *body.SplitPolicy != models.SplitPerPlayer {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid splitPolicy")
			return
		}
		patch["splitPolicy"] = *body.SplitPolicy
	}
	if len(patch) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.VenuesCollection.UpdateOne(ctx, bson.M{"id": ps.ByName("id")}, bson.M{"$set": patch})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "venue not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

func ListFields(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.FieldsCollection.Find(ctx, bson.M{"venueId": ps.ByName("id"), "active": true})
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	defer cur.Close(ctx)

	var fields []models.Field
	if err := cur.All(ctx, &fields); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"fields": fields})
}

func CreateField(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	venueID := ps.ByName("id")
	var field models.Field
	if err := json.NewDecoder(r.Body).Decode(&field); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if field.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// The field must hang off an existing venue.
	err := db.VenuesCollection.FindOne(ctx, bson.M{"id": venueID}).Err()
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "venue not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}

	field.ID = utils.NewID()
	field.VenueID = venueID
	field.Active = true
	field.CreatedAt = time.Now().Unix()

	if _, err := db.FieldsCollection.InsertOne(ctx, field); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"field": field})
}

func DeactivateField(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.FieldsCollection.UpdateOne(ctx,
		bson.M{"id": ps.ByName("fieldid")},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "field not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
