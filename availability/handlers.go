package availability

import (
	"context"
	"net/http"
	"time"

	"cancha/faults"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
)

var engine = NewEngine(NewMongoStore())

// GetFieldAvailability serves GET /api/fields/:fieldid/availability/:date
func GetFieldAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	fieldID := ps.ByName("fieldid")
	date := ps.ByName("date")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := engine.GetAvailableSlots(ctx, fieldID, date)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"fieldId": fieldID, "date": date, "available": out})
}
