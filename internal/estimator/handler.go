package estimator

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/amarchese/concert-seats/internal/model"
)

// Handler serves the discount estimation endpoint. It shares nothing
// with the booking service except the token signing secret.
type Handler struct {
	secret []byte
	rnd    RandInt
}

// NewHandler constructs a Handler. rnd may be nil, in which case the
// default random source is used.
func NewHandler(secret string, rnd RandInt) *Handler {
	if rnd == nil {
		rnd = DefaultRandInt
	}
	return &Handler{secret: []byte(secret), rnd: rnd}
}

// GetEstimation handles GET /api/get-estimation. The bearer token is
// verified (signature and expiry) before any payload inspection; an
// invalid or expired token is a 401 regardless of its contents. The
// payload must carry a non-empty integer array of reserved row numbers
// and one of the two recognised roles, otherwise 400. The response is
// the JSON string "NN%".
func (h *Handler) GetEstimation(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return h.secret, nil
	})
	if err != nil || !tok.Valid {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
	}

	rowNumbers, ok := intSlice(claims["reservations"])
	if !ok || len(rowNumbers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or missing reservations data"})
	}
	role, ok := claims["role"].(string)
	if !ok || (role != model.RoleLoyal && role != model.RoleRegular) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	sum := SeatSum(rowNumbers, role == model.RoleLoyal)
	discount := Discount(sum, h.rnd)
	return c.JSON(http.StatusOK, fmt.Sprintf("%d%%", discount))
}

// intSlice converts a decoded JSON claim into a slice of integers.
// JSON numbers arrive as float64; anything with a fractional part, or
// any non-numeric element, fails the conversion.
func intSlice(v interface{}) ([]int, bool) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(arr))
	for _, e := range arr {
		f, ok := e.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, false
		}
		out = append(out, int(f))
	}
	return out, true
}
