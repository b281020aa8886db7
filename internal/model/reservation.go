package model

import "time"

// Reservation records a user's claim on one or more seats for a
// concert. A user can hold at most one reservation per concert
// (unique key on user_id+concert_id). The seats belonging to a
// reservation never change after creation; cancelling deletes the
// whole reservation and frees every seat in one transaction.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  ConcertID – concert being reserved.
//  CreatedAt – creation timestamp, set by the database.
type Reservation struct {
    ID        uint64    // reservations.reservation_id
    UserID    uint64    // reservations.user_id
    ConcertID uint64    // reservations.concert_id
    CreatedAt time.Time // reservations.created_at
}
