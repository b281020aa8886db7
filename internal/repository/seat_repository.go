package repository // repository for concert seat persistence

import (
	"context"
	"database/sql"
	"strings"
)

// SeatRepo encapsulates database operations on concert_seats, the per
// concert availability rows of the seat ledger. Status flips only ever
// happen through the Tx methods, inside a transaction owned by
// ReservationRepo; the plain methods are read paths for the catalog.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// SeatView is the seat map entry returned to clients. SeatID is the
// concert_seat_id, the identifier clients send back when claiming.
type SeatView struct {
	SeatID       uint64 `json:"seatId"`
	RowNumber    uint32 `json:"rowNumber"`
	SeatPosition uint32 `json:"seatPosition"`
	Status       string `json:"status"`
}

// MapForConcert returns the full seat map for a concert, any status.
// Seats are ordered by row then position for deterministic output.
func (r *SeatRepo) MapForConcert(ctx context.Context, concertID uint64) ([]SeatView, error) {
	const q = `SELECT cs.concert_seat_id, s.row_number, s.seat_position, cs.status
	           FROM concert_seats cs
	           JOIN seats s ON s.seat_id = cs.seat_id
	           WHERE cs.concert_id = ?
	           ORDER BY s.row_number, s.seat_position`
	rows, err := r.db.QueryContext(ctx, q, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SeatView, 0)
	for rows.Next() {
		var v SeatView
		if err := rows.Scan(&v.SeatID, &v.RowNumber, &v.SeatPosition, &v.Status); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// StatusesTx re-reads the status of exactly the given concert seat IDs
// within the transaction, taking row locks (SELECT ... FOR UPDATE) so
// that a concurrent claim cannot interleave between this check and the
// subsequent status flip. Seat IDs not present for the concert are
// simply absent from the returned map.
func (r *SeatRepo) StatusesTx(ctx context.Context, tx *sql.Tx, concertID uint64, seatIDs []uint64) (map[uint64]string, error) {
	if len(seatIDs) == 0 {
		return map[uint64]string{}, nil
	}
	q := `SELECT concert_seat_id, status FROM concert_seats
	      WHERE concert_id = ? AND concert_seat_id IN (` + placeholders(len(seatIDs)) + `) FOR UPDATE`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, concertID)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	statuses := make(map[uint64]string, len(seatIDs))
	for rows.Next() {
		var id uint64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		statuses[id] = status
	}
	return statuses, rows.Err()
}

// BulkUpdateStatusTx flips the status of the given concert seats inside
// the provided transaction. Passing an empty slice has no effect.
func (r *SeatRepo) BulkUpdateStatusTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64, status string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	q := `UPDATE concert_seats SET status = ? WHERE concert_seat_id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, status)
	for _, id := range seatIDs {
		args = append(args, id)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// placeholders returns a comma separated list of n SQL placeholders.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
