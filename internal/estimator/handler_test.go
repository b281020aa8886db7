package estimator_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amarchese/concert-seats/internal/estimator"
)

const testSecret = "estimator-test-secret"

// signToken builds a token the way the booking service's issuer does,
// with full control over the claims for negative cases.
func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func entitlementClaims(reservations interface{}, role string) jwt.MapClaims {
	now := time.Now().UTC()
	return jwt.MapClaims{
		"reservations": reservations,
		"role":         role,
		"iat":          now.Unix(),
		"exp":          now.Add(35 * time.Second).Unix(),
	}
}

func doEstimation(h *estimator.Handler, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/get-estimation", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = h.GetEstimation(c)
	return rec
}

func TestGetEstimationLoyal(t *testing.T) {
	// rows 1+2+3 = 6 for a loyal user, pinned bonus 5 -> "11%".
	h := estimator.NewHandler(testSecret, func(min, max int) int { return min })
	tok := signToken(t, testSecret, entitlementClaims([]int{1, 2, 3}, "LOYAL"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"11%"`, strings.TrimSpace(rec.Body.String()))
}

func TestGetEstimationRegularDividesSeatSum(t *testing.T) {
	// rows 4+5 = 9, divided by 3 = 3, pinned bonus 5 -> "8%".
	h := estimator.NewHandler(testSecret, func(min, max int) int { return min })
	tok := signToken(t, testSecret, entitlementClaims([]int{4, 5}, "REGULAR"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"8%"`, strings.TrimSpace(rec.Body.String()))
}

func TestGetEstimationClampsAtFifty(t *testing.T) {
	h := estimator.NewHandler(testSecret, func(min, max int) int { return max })
	tok := signToken(t, testSecret, entitlementClaims([]int{40, 40}, "LOYAL"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"50%"`, strings.TrimSpace(rec.Body.String()))
}

func TestGetEstimationMissingHeader(t *testing.T) {
	h := estimator.NewHandler(testSecret, nil)
	rec := doEstimation(h, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetEstimationWrongSecret(t *testing.T) {
	h := estimator.NewHandler(testSecret, nil)
	tok := signToken(t, "a-different-secret", entitlementClaims([]int{1}, "LOYAL"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetEstimationExpiredToken(t *testing.T) {
	h := estimator.NewHandler(testSecret, nil)
	past := time.Now().UTC().Add(-2 * time.Minute)
	tok := signToken(t, testSecret, jwt.MapClaims{
		"reservations": []int{1, 2},
		"role":         "LOYAL",
		"iat":          past.Unix(),
		"exp":          past.Add(35 * time.Second).Unix(),
	})

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetEstimationEmptyReservations(t *testing.T) {
	h := estimator.NewHandler(testSecret, nil)
	tok := signToken(t, testSecret, entitlementClaims([]int{}, "LOYAL"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "reservations")
}

func TestGetEstimationNonIntegerReservations(t *testing.T) {
	h := estimator.NewHandler(testSecret, nil)
	tok := signToken(t, testSecret, entitlementClaims([]interface{}{"front", "row"}, "LOYAL"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEstimationUnknownRole(t *testing.T) {
	h := estimator.NewHandler(testSecret, nil)
	tok := signToken(t, testSecret, entitlementClaims([]int{1, 2}, "ADMIN"))

	rec := doEstimation(h, "Bearer "+tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "role")
}

func TestGetEstimationResultAlwaysInBounds(t *testing.T) {
	// Default random source: run a batch and check the product bounds.
	h := estimator.NewHandler(testSecret, nil)
	tok := signToken(t, testSecret, entitlementClaims([]int{3, 7}, "REGULAR"))

	for i := 0; i < 50; i++ {
		rec := doEstimation(h, "Bearer "+tok)
		require.Equal(t, http.StatusOK, rec.Code)
		body := strings.TrimSpace(rec.Body.String())
		require.True(t, strings.HasPrefix(body, `"`) && strings.HasSuffix(body, `%"`), body)
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(body, `"`), `%"`))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, estimator.MinDiscount)
		assert.LessOrEqual(t, n, estimator.MaxDiscount)
	}
}
