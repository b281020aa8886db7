// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// ever leaking raw SQL errors to clients.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateReservation is returned when a user who already holds a
// reservation for a concert tries to claim seats for it again.
// Handlers should translate this into an HTTP 409 response.
var ErrDuplicateReservation = errors.New("user already has a reservation for this concert")

// ErrUnknownConcert is returned when a claim names a concert that does
// not exist. Handlers should translate this into an HTTP 404 response.
var ErrUnknownConcert = errors.New("concert does not exist")

// ErrTheaterMismatch is returned when the theater supplied with a claim
// does not match the theater the concert is scheduled in.
var ErrTheaterMismatch = errors.New("theater does not match the concert's theater")

// ErrBusy is returned when a claim or release cannot acquire its row
// locks within the configured timeout. The operation has not taken
// effect and may be retried. Handlers should translate this into an
// HTTP 503 response with a Retry-After hint.
var ErrBusy = errors.New("seat ledger busy, try again")

// SeatsUnavailableError reports a failed claim caused by one or more of
// the requested seats not being available. OccupiedSeatIDs lists every
// requested concert seat ID that was occupied (or unknown to the
// concert) at the time the transaction re-read the statuses.
type SeatsUnavailableError struct {
	OccupiedSeatIDs []uint64
}

func (e *SeatsUnavailableError) Error() string {
	ids := make([]string, 0, len(e.OccupiedSeatIDs))
	for _, id := range e.OccupiedSeatIDs {
		ids = append(ids, fmt.Sprintf("%d", id))
	}
	return "one or more seats are not available; occupied seat IDs: " + strings.Join(ids, ", ")
}
