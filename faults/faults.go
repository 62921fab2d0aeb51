package faults

import (
	"errors"
	"fmt"
	"net/http"

	"cancha/models"
)

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")

// ErrDataUnavailable marks collaborator I/O failures. Callers may retry with
// backoff; nothing inside the core retries automatically.
var ErrDataUnavailable = errors.New("data unavailable")

// ValidationError reports bad input, fixable by the caller.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// ConflictError reports that a requested time range is already held.
type ConflictError struct {
	Booking models.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time %s-%s on %s is already booked",
		e.Booking.StartTime, e.Booking.EndTime, e.Booking.Date)
}

// PartialFailure reports a match that was created while a later write
// (booking or back-fill) failed. It must reach an operator, never be
// swallowed as success.
type PartialFailure struct {
	MatchID string
	Err     error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("match %s created but booking write failed: %v", e.MatchID, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }

// Unavailable translates a store error into the taxonomy, preserving the
// cause for logs.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
}

// HTTPStatus maps a taxonomy error onto a response code.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var ce *ConflictError
	var pf *PartialFailure
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &ce):
		return http.StatusConflict
	case errors.As(err, &pf):
		return http.StatusInternalServerError
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
