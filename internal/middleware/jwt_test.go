package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mwSecret = "middleware-test-secret"

func accessToken(t *testing.T, secret string, sub uint64, role string, ttl time.Duration) string {
	t.Helper()
	now := time.Now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runJWT(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	reached := false
	err := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	return c, rec, reached
}

func TestJWTAuthValidToken(t *testing.T) {
	tok := accessToken(t, mwSecret, 42, "LOYAL", time.Minute)
	c, rec, reached := runJWT(t, JWTAuth(mwSecret), "Bearer "+tok)

	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(42), c.Get("user_id"))
	assert.Equal(t, "LOYAL", c.Get("role"))
}

func TestJWTAuthMissingHeader(t *testing.T) {
	_, rec, reached := runJWT(t, JWTAuth(mwSecret), "")
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok := accessToken(t, "other-secret", 42, "LOYAL", time.Minute)
	_, rec, reached := runJWT(t, JWTAuth(mwSecret), "Bearer "+tok)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok := accessToken(t, mwSecret, 42, "LOYAL", -time.Minute)
	_, rec, reached := runJWT(t, JWTAuth(mwSecret), "Bearer "+tok)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalJWTAuthWithoutToken(t *testing.T) {
	c, rec, reached := runJWT(t, OptionalJWTAuth(mwSecret), "")
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get("user_id"))
}

func TestOptionalJWTAuthWithToken(t *testing.T) {
	tok := accessToken(t, mwSecret, 7, "REGULAR", time.Minute)
	c, _, reached := runJWT(t, OptionalJWTAuth(mwSecret), "Bearer "+tok)
	assert.True(t, reached)
	assert.Equal(t, float64(7), c.Get("user_id"))
	assert.Equal(t, "REGULAR", c.Get("role"))
}

func TestRequireRoleRejectsUnknownRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/concerts/1/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "ADMIN")

	err := RequireRole("LOYAL", "REGULAR")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/concerts/1/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "REGULAR")

	err := RequireRole("LOYAL", "REGULAR")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
