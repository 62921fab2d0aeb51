package utils

import (
	rndm "math/rand"
	"net/http"

	"cancha/globals"

	"github.com/google/uuid"
)

// NewID returns an opaque record id.
func NewID() string {
	return uuid.NewString()
}

var digitRunes = []rune("0123456789")

// GenerateRandomDigitString creates a random numeric string of length n,
// used for human-facing booking reference codes.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}
