// Package token issues the short-lived entitlement tokens that carry a
// user's reservation facts to the discount estimator. A token is a
// capability, not a record: it is never persisted and there is no
// revocation path, its 35 second lifetime bounds the staleness window
// instead.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs entitlement tokens with a process-wide secret. The
// secret, TTL and clock are explicit construction parameters rather
// than ambient state so tests can pin them.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. ttl should be short (the reference
// deployment uses 35 seconds); zero falls back to that default.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 35 * time.Second
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 JWT asserting the row numbers of the user's
// reserved seats and the user's role. An empty rowNumbers slice is a
// valid payload; the estimator is the one that rejects it.
func (i *Issuer) Issue(rowNumbers []uint32, role string) (string, error) {
	now := i.now().UTC()
	claims := jwt.MapClaims{
		"reservations": rowNumbers,
		"role":         role,
		"iat":          now.Unix(),
		"exp":          now.Add(i.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}
