package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cancha/db"
	"cancha/faults"
	"cancha/models"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListBookings serves admin listing by field, optionally bounded by a civil
// date range (?from=YYYY-MM-DD&to=YYYY-MM-DD) and state.
func ListBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fieldID := ps.ByName("fieldid")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	state := r.URL.Query().Get("state")

	filter := bson.M{"fieldId": fieldID}
	if from != "" || to != "" {
		dateRange := bson.M{}
		if from != "" {
			dateRange["$gte"] = from
		}
		if to != "" {
			dateRange["$lte"] = to
		}
		filter["date"] = dateRange
	}
	if state != "" {
		filter["state"] = state
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})
	cur, err := db.BookingsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "db error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}

// UpdateBookingState serves admin transitions: confirm attendance
// (occupied), release (available) or cancel.
func UpdateBookingState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("id")
	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	switch body.State {
	case models.BookingOccupied, models.BookingAvailable, models.BookingCancelled:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "invalid state")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := SetState(ctx, bookingID, body.State)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": updated})
}

// CreateBlockHandler places a maintenance hold.
func CreateBlockHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		FieldID   string `json:"fieldId"`
		Date      string `json:"date"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := CreateBlock(ctx, body.FieldID, body.Date, body.StartTime, body.EndTime,
		body.Reason, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"booking": b})
}
