package repository

import (
	"context"
	"database/sql"

	"github.com/amarchese/concert-seats/internal/model"
)

// ConcertRepo provides read access to the concert catalog. The catalog
// is never mutated through this service, so only query methods exist.
type ConcertRepo struct {
	db *sql.DB
}

// NewConcertRepo returns a new ConcertRepo bound to the given database.
func NewConcertRepo(db *sql.DB) *ConcertRepo { return &ConcertRepo{db: db} }

// ListAll returns every concert ordered by ID for deterministic
// output. The theater ID rides along so clients can pass it back
// verbatim on a claim.
func (r *ConcertRepo) ListAll(ctx context.Context) ([]model.Concert, error) {
	const q = `SELECT concert_id, name, theater_id
	           FROM concerts ORDER BY concert_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Concert, 0)
	for rows.Next() {
		var c model.Concert
		if err := rows.Scan(&c.ID, &c.Name, &c.TheaterID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TheaterForConcert returns the theater hosting the given concert.
// When the concert does not exist, sql.ErrNoRows is returned.
func (r *ConcertRepo) TheaterForConcert(ctx context.Context, concertID uint64) (*model.Theater, error) {
	const q = `SELECT t.theater_id, t.name, t.rows, t.seats_per_row
	           FROM concerts c
	           JOIN theaters t ON t.theater_id = c.theater_id
	           WHERE c.concert_id = ?`
	var t model.Theater
	if err := r.db.QueryRowContext(ctx, q, concertID).Scan(&t.ID, &t.Name, &t.Rows, &t.SeatsPerRow); err != nil {
		return nil, err
	}
	return &t, nil
}
