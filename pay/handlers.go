package pay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"cancha/db"
	"cancha/faults"
	"cancha/matches"
	"cancha/models"
	"cancha/notify"
	"cancha/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	provider  Provider = LocalProvider{}
	allocator          = matches.NewAllocator(matches.MongoStore{})
)

// splitAmount resolves what the payer owes now: the whole price, or one
// player's share when the venue splits payments.
func splitAmount(ctx context.Context, m *models.Match) float64 {
	var field models.Field
	if err := db.FieldsCollection.FindOne(ctx, bson.M{"id": m.FieldID}).Decode(&field); err != nil {
		return m.TotalPrice
	}
	var venue models.Venue
	if err := db.VenuesCollection.FindOne(ctx, bson.M{"id": field.VenueID}).Decode(&venue); err != nil {
		return m.TotalPrice
	}
	if venue.SplitPolicy == models.SplitPerPlayer {
		return m.PricePerPlayer
	}
	return m.TotalPrice
}

// CreatePaymentIntent starts a payment for a pending match.
func CreatePaymentIntent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")
	var body struct {
		PayerEmail string `json:"payerEmail"`
		PayerName  string `json:"payerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	m, err := allocator.Store.Match(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	if m.State != models.MatchPending {
		utils.RespondWithError(w, http.StatusBadRequest, "match is "+m.State)
		return
	}

	amount := splitAmount(ctx, m)
	session, err := provider.CreateIntent(ctx, Intent{
		MatchID:     matchID,
		Amount:      amount,
		PayerEmail:  body.PayerEmail,
		PayerName:   body.PayerName,
		Description: "Field booking " + m.Date + " " + m.StartTime,
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "payment provider error")
		return
	}

	if err := allocator.Store.SetPayment(ctx, matchID, models.PaymentInfo{
		PaymentID: session.PaymentID,
		State:     models.PaymentPending,
		Amount:    amount,
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, session)
}

// PaymentCallback receives the provider's verdict. Approved confirms the
// match (booking → occupied); rejected cancels it (booking → available).
// A Redis lock makes duplicate deliveries harmless.
func PaymentCallback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")
	status := r.URL.Query().Get("status")
	if status != models.PaymentApproved && status != models.PaymentRejected {
		utils.RespondWithError(w, http.StatusBadRequest, "status must be approved or rejected")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	ok, err := acquireCallbackLock(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "lock unavailable")
		return
	}
	if !ok {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "duplicate": true})
		return
	}
	defer releaseCallbackLock(ctx, matchID)

	m, err := allocator.Store.Match(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	if m.Payment.State != models.PaymentPending {
		// Already settled; report the current state instead of flapping.
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "state": m.Payment.State})
		return
	}

	m.Payment.State = status
	m.Payment.UpdatedAt = time.Now().Unix()
	if err := allocator.Store.SetPayment(ctx, matchID, m.Payment); err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}

	// Keep an audit row per settled payment.
	if _, err := db.PaymentsCollection.InsertOne(ctx, bson.M{
		"id": utils.NewID(), "matchId": matchID, "paymentId": m.Payment.PaymentID,
		"state": status, "amount": m.Payment.Amount, "at": time.Now().Unix(),
	}); err != nil {
		log.Printf("pay: audit insert for match %s failed: %v", matchID, err)
	}

	var kind string
	if status == models.PaymentApproved {
		kind = notify.KindPaymentOK
		if _, err := allocator.Confirm(ctx, matchID); err != nil {
			utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
			return
		}
	} else {
		kind = notify.KindPaymentFailed
		if _, err := allocator.Cancel(ctx, matchID); err != nil {
			utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
			return
		}
	}

	notify.Emit(ctx, notify.Event{Kind: kind, MatchID: matchID, UserID: m.CreatorID, Amount: m.Payment.Amount})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "state": status})
}

// GetPaymentStatus reports the match's payment state.
func GetPaymentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	matchID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	m, err := allocator.Store.Match(ctx, matchID)
	if err != nil {
		utils.RespondWithError(w, faults.HTTPStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"payment": m.Payment})
}
