package model

// Theater describes a venue hosting concerts. The seat map of a
// theater is fully determined by its row count and seats per row;
// every concert held in the theater gets one concert_seat row per
// physical seat.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the theater.
//  Rows        – number of seat rows.
//  SeatsPerRow – number of seats in each row.
type Theater struct {
    ID          uint64 // theaters.theater_id
    Name        string // theaters.name
    Rows        uint32 // theaters.rows
    SeatsPerRow uint32 // theaters.seats_per_row
}

// Concert is a single event scheduled in exactly one theater.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – concert title.
//  TheaterID – theater hosting the concert.
type Concert struct {
    ID        uint64 // concerts.concert_id
    Name      string // concerts.name
    TheaterID uint64 // concerts.theater_id
}
