package model

import "time"

// Role names stored in the `users` table and carried in the JWT "role"
// claim. The discount estimator recognises exactly these two values:
// LOYAL users keep their full seat-row sum as the discount base while
// REGULAR users get it divided by three.
const (
    RoleLoyal   = "LOYAL"
    RoleRegular = "REGULAR"
)

// User represents an application user record as stored in the
// `users` table. The json tags are omitted because these structs are
// used internally by the repository layer; handlers define separate
// response types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – loyalty classification (LOYAL or REGULAR).
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.user_id
    Username     string    // users.username
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    CreatedAt    time.Time // users.created_at
}
