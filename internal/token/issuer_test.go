package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseClaims(t *testing.T, signed, secret string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(signed, func(tk *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodHMAC{}, tk.Method)
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestIssueCarriesReservationsAndRole(t *testing.T) {
	i := NewIssuer("issuer-secret", 35*time.Second)

	signed, err := i.Issue([]uint32{7, 8}, "LOYAL")
	require.NoError(t, err)

	claims := parseClaims(t, signed, "issuer-secret")
	assert.Equal(t, "LOYAL", claims["role"])
	rows, ok := claims["reservations"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, float64(7), rows[0])
	assert.Equal(t, float64(8), rows[1])
}

func TestIssueExpiryIsIssuedAtPlusTTL(t *testing.T) {
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	i := NewIssuer("issuer-secret", 35*time.Second)
	i.now = func() time.Time { return fixed }

	signed, err := i.Issue([]uint32{3}, "REGULAR")
	require.NoError(t, err)

	claims := parseClaims(t, signed, "issuer-secret")
	assert.Equal(t, float64(fixed.Unix()), claims["iat"])
	assert.Equal(t, float64(fixed.Add(35*time.Second).Unix()), claims["exp"])
}

func TestIssueZeroTTLFallsBackToDefault(t *testing.T) {
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	i := NewIssuer("issuer-secret", 0)
	i.now = func() time.Time { return fixed }

	signed, err := i.Issue(nil, "REGULAR")
	require.NoError(t, err)

	claims := parseClaims(t, signed, "issuer-secret")
	assert.Equal(t, float64(fixed.Add(35*time.Second).Unix()), claims["exp"])
}

func TestIssuedTokenExpires(t *testing.T) {
	i := NewIssuer("issuer-secret", 35*time.Second)
	i.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	signed, err := i.Issue([]uint32{1}, "LOYAL")
	require.NoError(t, err)

	_, err = jwt.Parse(signed, func(tk *jwt.Token) (interface{}, error) {
		return []byte("issuer-secret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestIssueEmptyReservationListIsValid(t *testing.T) {
	i := NewIssuer("issuer-secret", 35*time.Second)

	signed, err := i.Issue([]uint32{}, "REGULAR")
	require.NoError(t, err)

	claims := parseClaims(t, signed, "issuer-secret")
	rows, ok := claims["reservations"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, rows)
}
