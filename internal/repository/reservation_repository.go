package repository

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/amarchese/concert-seats/internal/model"
)

// MySQL error numbers that indicate the transaction lost a lock race
// rather than hitting a real storage fault.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// ReservationRepo owns the two transactional operations of the seat
// ledger: claiming a set of seats for a user and releasing a
// reservation. Every mutation of reservations, reservation_seats and
// concert_seats goes through one of these two methods, each of which
// runs as a single transaction: no partial seat occupation is ever
// observable outside of it. Seat availability is re-read under row
// locks inside the transaction, so two concurrent claims for the same
// seat serialize at the lock and the loser sees "occupied".
type ReservationRepo struct {
	db           *sql.DB
	seats        *SeatRepo
	claimTimeout time.Duration
}

// NewReservationRepo returns a ReservationRepo bound to the given
// database. claimTimeout bounds how long a claim or release may wait on
// row locks before failing with ErrBusy; zero means a 3 second default.
func NewReservationRepo(db *sql.DB, seats *SeatRepo, claimTimeout time.Duration) *ReservationRepo {
	if claimTimeout <= 0 {
		claimTimeout = 3 * time.Second
	}
	return &ReservationRepo{db: db, seats: seats, claimTimeout: claimTimeout}
}

// GetForUserAndConcert returns the user's reservation for a concert, or
// sql.ErrNoRows when none exists.
func (r *ReservationRepo) GetForUserAndConcert(ctx context.Context, userID, concertID uint64) (*model.Reservation, error) {
	const q = `SELECT reservation_id, user_id, concert_id, created_at
	           FROM reservations WHERE user_id = ? AND concert_id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, userID, concertID).Scan(&res.ID, &res.UserID, &res.ConcertID, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByUser returns every reservation the user currently holds,
// ordered by reservation ID. Used by the concert listing to let a
// logged-in client see which concerts it already booked.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT reservation_id, user_id, concert_id, created_at
	           FROM reservations WHERE user_id = ? ORDER BY reservation_id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.ConcertID, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ReservedRowNumbers returns the row number of every seat the user has
// reserved for the given concert. This is the read path of the
// entitlement token issuer; an empty slice is a valid result and means
// the user holds no reservation for that concert.
func (r *ReservationRepo) ReservedRowNumbers(ctx context.Context, userID, concertID uint64) ([]uint32, error) {
	const q = `SELECT s.row_number
	           FROM reservations r
	           JOIN reservation_seats rs ON rs.reservation_id = r.reservation_id
	           JOIN concert_seats cs ON cs.concert_seat_id = rs.concert_seat_id
	           JOIN seats s ON s.seat_id = cs.seat_id
	           WHERE r.user_id = ? AND r.concert_id = ?
	           ORDER BY s.row_number, s.seat_position`
	rows, err := r.db.QueryContext(ctx, q, userID, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Claim atomically reserves the given concert seats for the user. The
// whole contract runs inside one transaction:
//
//  1. fail with ErrDuplicateReservation when the user already holds a
//     reservation for the concert,
//  2. fail with ErrUnknownConcert / ErrTheaterMismatch when the concert
//     does not exist or is not scheduled in theaterID,
//  3. re-read the status of exactly the requested seats under row
//     locks and fail with SeatsUnavailableError naming every seat that
//     is occupied (IDs unknown to the concert count as unavailable),
//  4. insert the reservation, flip the seats to occupied and link them.
//
// Any failure rolls the transaction back in full. Lock waits beyond the
// claim timeout surface as ErrBusy.
func (r *ReservationRepo) Claim(ctx context.Context, userID, concertID, theaterID uint64, seatIDs []uint64) (uint64, error) {
	if len(seatIDs) == 0 {
		return 0, errors.New("seatIDs must not be empty")
	}
	ctx, cancel := context.WithTimeout(ctx, r.claimTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, busyOr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Duplicate-reservation guard. Locking the existing row (if any)
	// serializes two concurrent claims by the same user for the same
	// concert on the unique (user_id, concert_id) key.
	var existing uint64
	err = tx.QueryRowContext(ctx,
		`SELECT reservation_id FROM reservations WHERE user_id = ? AND concert_id = ? FOR UPDATE`,
		userID, concertID).Scan(&existing)
	switch {
	case err == nil:
		return 0, ErrDuplicateReservation
	case !errors.Is(err, sql.ErrNoRows):
		return 0, busyOr(err)
	}

	// Concert existence and theater match.
	var actualTheaterID uint64
	err = tx.QueryRowContext(ctx,
		`SELECT theater_id FROM concerts WHERE concert_id = ?`, concertID).Scan(&actualTheaterID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUnknownConcert
	}
	if err != nil {
		return 0, busyOr(err)
	}
	if actualTheaterID != theaterID {
		return 0, ErrTheaterMismatch
	}

	// Availability check under row locks. Client-supplied status is
	// never trusted; only this re-read decides.
	statuses, err := r.seats.StatusesTx(ctx, tx, concertID, seatIDs)
	if err != nil {
		return 0, busyOr(err)
	}
	occupied := make([]uint64, 0)
	for _, id := range seatIDs {
		status, ok := statuses[id]
		if !ok || status != model.SeatAvailable {
			occupied = append(occupied, id)
		}
	}
	if len(occupied) > 0 {
		sort.Slice(occupied, func(i, j int) bool { return occupied[i] < occupied[j] })
		return 0, &SeatsUnavailableError{OccupiedSeatIDs: occupied}
	}

	// All requested seats are free and locked: create the reservation,
	// flip the statuses and link the seats.
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations (user_id, concert_id) VALUES (?, ?)`, userID, concertID)
	if err != nil {
		return 0, busyOr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	reservationID := uint64(id)
	if err := r.seats.BulkUpdateStatusTx(ctx, tx, seatIDs, model.SeatOccupied); err != nil {
		return 0, busyOr(err)
	}
	if err := r.linkSeatsTx(ctx, tx, reservationID, seatIDs); err != nil {
		return 0, busyOr(err)
	}
	if err := tx.Commit(); err != nil {
		return 0, busyOr(err)
	}
	committed = true
	return reservationID, nil
}

// Release atomically frees every seat of the reservation and deletes
// it. Releasing a reservation that does not exist, or that belongs to
// another user, succeeds as a no-op: the bool result reports whether
// anything was actually released. A failure at any step rolls the
// whole release back, leaving the occupied state intact.
func (r *ReservationRepo) Release(ctx context.Context, userID, reservationID uint64) (bool, []uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.claimTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, nil, busyOr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var owner uint64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM reservations WHERE reservation_id = ? FOR UPDATE`,
		reservationID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil, nil // nothing to release
	}
	if err != nil {
		return false, nil, busyOr(err)
	}
	if owner != userID {
		return false, nil, nil // foreign reservation, idempotent no-op
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT concert_seat_id FROM reservation_seats WHERE reservation_id = ? FOR UPDATE`,
		reservationID)
	if err != nil {
		return false, nil, busyOr(err)
	}
	seatIDs := make([]uint64, 0)
	for rows.Next() {
		var sid uint64
		if err := rows.Scan(&sid); err != nil {
			rows.Close()
			return false, nil, err
		}
		seatIDs = append(seatIDs, sid)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, nil, err
	}
	rows.Close()

	if err := r.seats.BulkUpdateStatusTx(ctx, tx, seatIDs, model.SeatAvailable); err != nil {
		return false, nil, busyOr(err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_seats WHERE reservation_id = ?`, reservationID); err != nil {
		return false, nil, busyOr(err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE reservation_id = ?`, reservationID); err != nil {
		return false, nil, busyOr(err)
	}
	if err := tx.Commit(); err != nil {
		return false, nil, busyOr(err)
	}
	committed = true
	return true, seatIDs, nil
}

// linkSeatsTx inserts one reservation_seats row per claimed seat in a
// single statement.
func (r *ReservationRepo) linkSeatsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_seats (reservation_id, concert_seat_id) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, sid := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, sid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// busyOr maps lock-wait timeouts, deadlocks and deadline expiry to
// ErrBusy so handlers can tell a retryable contention failure from a
// real storage fault. Everything else passes through unchanged.
func busyOr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrBusy
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == mysqlErrLockWaitTimeout || me.Number == mysqlErrDeadlock) {
		return ErrBusy
	}
	return err
}
