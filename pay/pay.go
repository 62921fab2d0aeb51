// Package pay adapts the external payment collaborator. The core only needs
// an intent (redirect the payer somewhere) and the resulting state; gateway
// wire protocol and webhook signatures live outside this repo.
package pay

import (
	"context"
	"os"
	"time"

	"cancha/rdx"
)

// Intent is what the provider needs to start a payment.
type Intent struct {
	MatchID     string  `json:"matchId"`
	Amount      float64 `json:"amount"`
	PayerEmail  string  `json:"payerEmail"`
	PayerName   string  `json:"payerName"`
	Description string  `json:"description"`
}

// Session is the provider's answer: where to send the payer.
type Session struct {
	PaymentID   string `json:"paymentId"`
	RedirectURL string `json:"redirectUrl"`
}

// Provider is the payment collaborator contract.
type Provider interface {
	CreateIntent(ctx context.Context, intent Intent) (Session, error)
	// Status returns pending, approved or rejected.
	Status(ctx context.Context, paymentID string) (string, error)
}

// LocalProvider fakes a gateway with a redirect back into the frontend,
// useful for development and tests. State arrives via the callback endpoint.
type LocalProvider struct{}

func (LocalProvider) CreateIntent(ctx context.Context, intent Intent) (Session, error) {
	base := os.Getenv("PAY_REDIRECT_BASE")
	if base == "" {
		base = "http://localhost:5173/pay"
	}
	paymentID := "local-" + intent.MatchID
	return Session{
		PaymentID:   paymentID,
		RedirectURL: base + "/" + intent.MatchID,
	}, nil
}

func (LocalProvider) Status(ctx context.Context, paymentID string) (string, error) {
	// The local provider has no out-of-band state; callbacks drive it.
	return "pending", nil
}

// acquireCallbackLock guards against double-delivered callbacks
// re-transitioning a match.
func acquireCallbackLock(ctx context.Context, matchID string) (bool, error) {
	return rdx.SetNX(ctx, "paylock:"+matchID, "1", 30*time.Second)
}

func releaseCallbackLock(ctx context.Context, matchID string) {
	_ = rdx.Del(ctx, "paylock:"+matchID)
}
