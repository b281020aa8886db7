package model

// Seat statuses used in the concert_seats table. A seat is occupied
// iff exactly one reservation_seats row references it; the status
// column and the link table are only ever changed together inside a
// transaction. Seat rows themselves never cross the repository
// boundary: the read paths return per-concert views joining the seat
// and its availability, and the transaction engine works on concert
// seat IDs alone.
const (
    SeatAvailable = "available"
    SeatOccupied  = "occupied"
)
