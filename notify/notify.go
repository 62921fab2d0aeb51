// Package notify is the fire-and-forget notification collaborator. Events
// are published to a Redis channel; a background worker picks them up for
// delivery. Failures are logged, never propagated — notifications must not
// block booking operations.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"cancha/rdx"
)

const channel = "booking-events"

// Event kinds.
const (
	KindMatchCreated   = "match_created"
	KindMatchCancelled = "match_cancelled"
	KindPaymentOK      = "payment_approved"
	KindPaymentFailed  = "payment_rejected"
	KindPlayerInvited  = "player_invited"
)

type Event struct {
	Kind    string  `json:"kind"`
	MatchID string  `json:"matchId,omitempty"`
	UserID  string  `json:"userId,omitempty"`
	Player  string  `json:"player,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	At      int64   `json:"at"`
}

// Emit publishes an event, best-effort.
func Emit(ctx context.Context, ev Event) {
	ev.At = time.Now().Unix()
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("notify: marshal failed: %v", err)
		return
	}
	if err := rdx.Publish(ctx, channel, data); err != nil {
		log.Printf("notify: publish failed: %v", err)
	}
}

// StartWorker consumes the channel and hands events to delivery. Delivery
// transports (email/WhatsApp) are external; here they are logged.
func StartWorker(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	log.Println("notify: worker listening")
	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("notify: bad event payload: %v", err)
			continue
		}
		deliver(ev)
	}
}

func deliver(ev Event) {
	log.Printf("notify: %s match=%s user=%s player=%s amount=%.2f",
		ev.Kind, ev.MatchID, ev.UserID, ev.Player, ev.Amount)
}
