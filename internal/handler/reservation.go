package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/amarchese/concert-seats/internal/queue"
	"github.com/amarchese/concert-seats/internal/repository"
	queue_publisher "github.com/amarchese/concert-seats/internal/service"
)

// ReservationHandler exposes the claim and release operations. All
// transactional work happens in the repository; the handler validates
// input, maps the sentinel errors onto HTTP statuses and publishes the
// post-commit domain events. Methods assume JWT authentication has
// already run; they return 401 when no user id is in the context.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(reservations *repository.ReservationRepo) *ReservationHandler {
	if reservations == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

type claimReq struct {
	TheaterID uint64   `json:"theater_id"`
	SeatIDs   []uint64 `json:"seat_ids"`
}

// ClaimSeats handles POST /v1/concerts/:id/reservations. The body
// carries the theater id the client most recently fetched and a
// non-empty array of concert seat ids. On success it responds 201 with
// the new reservation id. A failed claim leaves the seat map exactly
// as it was; the client refreshes and retries with adjusted seats.
func (h *ReservationHandler) ClaimSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	concertID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || concertID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	var body claimReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TheaterID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theater_id is required"})
	}
	if len(body.SeatIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
	}
	// Deduplicate seat ids so a repeated id cannot double-link.
	unique := make([]uint64, 0, len(body.SeatIDs))
	seen := make(map[uint64]struct{})
	for _, id := range body.SeatIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid seat IDs provided"})
	}

	ctx := c.Request().Context()
	reservationID, err := h.Reservations.Claim(ctx, userID, concertID, body.TheaterID, unique)
	if err != nil {
		switch e := err.(type) {
		case *repository.SeatsUnavailableError:
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             "some seats are not available",
				"occupied_seat_ids": e.OccupiedSeatIDs,
			})
		}
		switch err {
		case repository.ErrDuplicateReservation:
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already has a reservation for this concert"})
		case repository.ErrUnknownConcert:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert does not exist"})
		case repository.ErrTheaterMismatch:
			return c.JSON(http.StatusConflict, echo.Map{"error": "theater does not match the concert's theater"})
		case repository.ErrBusy:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat ledger busy, try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to claim seats"})
	}

	// The claim is committed; event publishing is best-effort.
	_ = queue_publisher.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
		ReservationID: reservationID,
		UserID:        userID,
		ConcertID:     concertID,
		TheaterID:     body.TheaterID,
		SeatIDs:       unique,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": reservationID,
		"message":        "seats added to reservation successfully",
	})
}

// ReleaseReservation handles DELETE /v1/reservations/:id. Deletion is
// idempotent: releasing an unknown or already-released reservation is
// a 204 no-op, not an error.
func (h *ReservationHandler) ReleaseReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	released, seatIDs, err := h.Reservations.Release(ctx, userID, reservationID)
	if err != nil {
		if err == repository.ErrBusy {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "seat ledger busy, try again"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release reservation"})
	}
	if released {
		_ = queue_publisher.PublishReservationCancelled(ctx, queue.ReservationCancelledEvent{
			ReservationID: reservationID,
			UserID:        userID,
			SeatIDs:       seatIDs,
			CancelledAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.NoContent(http.StatusNoContent)
}
