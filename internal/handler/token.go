package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/amarchese/concert-seats/internal/repository"
	"github.com/amarchese/concert-seats/internal/token"
)

// TokenHandler mints entitlement tokens for the discount estimator. It
// reads the caller's reserved seat rows through the ledger's read path
// and packages them into a signed, short-lived token. Nothing is
// persisted; issuing a token has no side effects.
type TokenHandler struct {
	Issuer       *token.Issuer
	Reservations *repository.ReservationRepo
}

func NewTokenHandler(issuer *token.Issuer, reservations *repository.ReservationRepo) *TokenHandler {
	if issuer == nil || reservations == nil {
		panic("nil dependency passed to NewTokenHandler")
	}
	return &TokenHandler{Issuer: issuer, Reservations: reservations}
}

// GetAuthToken handles GET /v1/auth-token?concertID=n. A missing or
// non-numeric concert id is a 400. Holding no reservation for the
// concert is not an error: the token simply carries an empty list and
// the estimator will reject it there.
func (h *TokenHandler) GetAuthToken(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, err := getRole(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	concertID, err := strconv.ParseUint(c.QueryParam("concertID"), 10, 64)
	if err != nil || concertID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or missing concertID"})
	}

	rowNumbers, err := h.Reservations.ReservedRowNumbers(c.Request().Context(), userID, concertID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	signed, err := h.Issuer.Issue(rowNumbers, role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sign token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": signed})
}
