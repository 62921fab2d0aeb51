package matches

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cancha/db"
	"cancha/faults"
	"cancha/models"
	"cancha/notify"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var allocator = NewAllocator(MongoStore{})

// CreateMatch allocates a match plus its booking for the requesting user.
func CreateMatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var draft Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	draft.CreatorID = utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := allocator.CreateMatchWithBooking(ctx, &draft)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	notify.Emit(ctx, notify.Event{
		Kind:    notify.KindMatchCreated,
		MatchID: res.MatchID,
		UserID:  draft.CreatorID,
		Amount:  draft.TotalPrice,
	})
	utils.RespondWithJSON(w, http.StatusCreated, res)
}

func GetMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m, err := allocator.Store.Match(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	players, err := allocator.Store.ListPlayers(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"match": m, "players": players})
}

// ListMatches serves ?fieldId=&date=&state= admin listing.
func ListMatches(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if v := r.URL.Query().Get("fieldId"); v != "" {
		filter["fieldId"] = v
	}
	if v := r.URL.Query().Get("date"); v != "" {
		filter["date"] = v
	}
	if v := r.URL.Query().Get("state"); v != "" {
		filter["state"] = v
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cur, err := db.MatchesCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	defer cur.Close(ctx)

	var out []models.Match
	if err := cur.All(ctx, &out); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"matches": out})
}

func CancelMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := allocator.Cancel(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	notify.Emit(ctx, notify.Event{Kind: notify.KindMatchCancelled, MatchID: matchID, UserID: m.CreatorID})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"match": m})
}

func CompleteMatch(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := allocator.Complete(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"match": m})
}

func DeleteMatchHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := allocator.DeleteMatch(ctx, matchID); err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func AddPlayer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")
	var body struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing name")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m, err := allocator.Store.Match(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	if m.State == models.MatchCancelled || m.State == models.MatchCompleted {
		utils.RespondWithError(w, http.StatusBadRequest, "match is "+m.State)
		return
	}

	player := &models.Player{
		ID:       utils.NewID(),
		MatchID:  matchID,
		UserID:   body.UserID,
		Name:     body.Name,
		Email:    body.Email,
		JoinedAt: time.Now().Unix(),
	}
	if err := allocator.Store.InsertPlayer(ctx, player); err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	notify.Emit(ctx, notify.Event{
		Kind:    notify.KindPlayerInvited,
		MatchID: matchID,
		UserID:  body.UserID,
		Player:  body.Name,
		Amount:  m.PricePerPlayer,
	})
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"player": player})
}

func RemovePlayer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")
	playerID := ps.ByName("playerid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := allocator.Store.DeletePlayer(ctx, matchID, playerID); err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
