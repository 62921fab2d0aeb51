package weekly

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cancha/availability"
	"cancha/booking"
	"cancha/faults"
	"cancha/models"
	"cancha/rdx"
	"cancha/timeutil"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
)

// cacheTTL keeps a (field, date) result alive between re-renders of the same
// window; booking mutations drop keys eagerly via booking.NotifyChange.
const cacheTTL = 60 * time.Second

var engine = availability.NewEngine(availability.NewMongoStore())

func cachedAvailability(ctx context.Context, fieldID, date string) ([]models.SlotPrice, error) {
	key := booking.AvailabilityCacheKey(fieldID, date)
	if raw, err := rdx.Get(ctx, key); err == nil {
		var out []models.SlotPrice
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	}

	out, err := engine.GetAvailableSlots(ctx, fieldID, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := rdx.Set(ctx, key, string(data), cacheTTL); err != nil {
			log.Printf("weekly: cache write for %s failed: %v", key, err)
		}
	}
	return out, nil
}

// GetWeek serves GET /api/fields/:fieldid/week?start=YYYY-MM-DD — the
// visible dates of the window plus availability per date, and the starts for
// next/previous page navigation.
func GetWeek(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fieldID := ps.ByName("fieldid")
	start := r.URL.Query().Get("start")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	today := timeutil.CivilDate(time.Now())
	lookahead, err := engine.Store.LookaheadDays(ctx, fieldID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	if lookahead <= 0 {
		lookahead = models.DefaultLookaheadDays
	}

	dates, err := VisibleDates(today, start, lookahead)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	days := make(map[string][]models.SlotPrice, len(dates))
	for _, date := range dates {
		avail, err := cachedAvailability(ctx, fieldID, date)
		if err != nil {
			utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
			return
		}
		days[date] = avail
	}

	next, err := NextStart(today, start, lookahead)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	prev, err := PrevStart(today, start)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"fieldId": fieldID,
		"dates":   dates,
		"days":    days,
		"next":    next,
		"prev":    prev,
	})
}
