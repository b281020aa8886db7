package repository

import (
	"context"
	"database/sql"

	"github.com/amarchese/concert-seats/internal/model"
)

// UserRepo provides read access to user credentials for login. Account
// management is out of scope for this service; users are provisioned
// directly in the database.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByUsername fetches a user by login name. Returns sql.ErrNoRows
// when the user does not exist.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT user_id, username, password_hash, role, created_at
	           FROM users WHERE username = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
