// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the publisher and the background consumer.
const (
    ReservationConfirmedQueue = "reservation.confirmed"
    ReservationCancelledQueue = "reservation.cancelled"
)

// ReservationConfirmedEvent is published after a claim transaction
// commits. It carries enough information for downstream consumers to
// log or notify without querying the seat ledger.
type ReservationConfirmedEvent struct {
    ReservationID uint64   `json:"reservation_id"`
    UserID        uint64   `json:"user_id"`
    ConcertID     uint64   `json:"concert_id"`
    TheaterID     uint64   `json:"theater_id"`
    SeatIDs       []uint64 `json:"seat_ids"`
    ConfirmedAt   string   `json:"confirmed_at"`
}

// ReservationCancelledEvent is published after a release transaction
// commits and actually freed seats (idempotent no-op releases publish
// nothing).
type ReservationCancelledEvent struct {
    ReservationID uint64   `json:"reservation_id"`
    UserID        uint64   `json:"user_id"`
    SeatIDs       []uint64 `json:"seat_ids"`
    CancelledAt   string   `json:"cancelled_at"`
}
