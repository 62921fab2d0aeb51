package prices

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"cancha/faults"
	"cancha/models"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
)

var service = &Service{Store: MongoStore{}}

func SetPrice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		FieldID string        `json:"fieldId"`
		SlotID  string        `json:"slotId"`
		DayKey  models.DayKey `json:"dayKey"`
		Price   float64       `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := service.Upsert(ctx, body.FieldID, body.SlotID, body.DayKey, body.Price)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"created": created})
}

func BulkPricing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		FieldID   string          `json:"fieldId"`
		Days      []models.DayKey `json:"days"`
		TimeRange []string        `json:"timeRange"` // ["18:00", "20:00"]
		Price     float64         `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(body.TimeRange) != 2 {
		utils.RespondWithError(w, http.StatusBadRequest, "timeRange must be [start, end]")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := service.ApplyBulkPricing(ctx, body.FieldID, body.Days, body.TimeRange[0], body.TimeRange[1], body.Price)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func ListFieldPrices(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fieldID := ps.ByName("fieldid")
	var day models.DayKey
	if d := r.URL.Query().Get("dayKey"); d != "" {
		var parsed int
		if err := json.Unmarshal([]byte(d), &parsed); err != nil || !models.DayKey(parsed).Valid() {
			utils.RespondWithError(w, http.StatusBadRequest, "bad dayKey")
			return
		}
		day = models.DayKey(parsed)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	entries, err := service.Store.ListForField(ctx, fieldID, day)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"prices": entries})
}
