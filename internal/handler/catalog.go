// This file defines the read-only catalog handlers. They do no
// mutation: concerts and seat maps are browsable by guests, and a
// logged-in user additionally sees their own reservations merged into
// the concert listing so the client knows which concerts it already
// booked.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/amarchese/concert-seats/internal/repository"
)

// CatalogHandler aggregates the repositories needed for browsing.
type CatalogHandler struct {
	ConcertRepo     *repository.ConcertRepo
	SeatRepo        *repository.SeatRepo
	ReservationRepo *repository.ReservationRepo
}

func NewCatalogHandler(concertRepo *repository.ConcertRepo, seatRepo *repository.SeatRepo, reservationRepo *repository.ReservationRepo) *CatalogHandler {
	if concertRepo == nil || seatRepo == nil || reservationRepo == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{ConcertRepo: concertRepo, SeatRepo: seatRepo, ReservationRepo: reservationRepo}
}

type reservationPart struct {
	ReservationID uint64 `json:"reservation_id"`
	ConcertID     uint64 `json:"concert_id"`
}

type concertPart struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	TheaterID uint64 `json:"theater_id"`
}

type theaterPart struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Rows        uint32 `json:"rows"`
	SeatsPerRow uint32 `json:"seats_per_row"`
}

// GetConcerts handles GET /v1/concerts. Guests receive the plain
// concert list; authenticated callers also get their reservations.
func (h *CatalogHandler) GetConcerts(c echo.Context) error {
	ctx := c.Request().Context()
	concerts, err := h.ConcertRepo.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	list := make([]concertPart, 0, len(concerts))
	for _, con := range concerts {
		list = append(list, concertPart{ID: con.ID, Title: con.Name, TheaterID: con.TheaterID})
	}
	resp := echo.Map{"concerts": list}
	if userID, err := getUserID(c); err == nil {
		reservations, err := h.ReservationRepo.ListByUser(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		parts := make([]reservationPart, 0, len(reservations))
		for _, r := range reservations {
			parts = append(parts, reservationPart{ReservationID: r.ID, ConcertID: r.ConcertID})
		}
		resp["reservations"] = parts
	}
	return c.JSON(http.StatusOK, resp)
}

// GetTheater handles GET /v1/concerts/:id/theater. It returns the
// theater metadata together with the full seat map of the concert,
// any status. The client is expected to pass the theater id back
// verbatim when claiming seats.
func (h *CatalogHandler) GetTheater(c echo.Context) error {
	concertID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || concertID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	ctx := c.Request().Context()
	theater, err := h.ConcertRepo.TheaterForConcert(ctx, concertID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no theater found for the provided concert"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	seats, err := h.SeatRepo.MapForConcert(ctx, concertID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"theater": theaterPart{ID: theater.ID, Name: theater.Name, Rows: theater.Rows, SeatsPerRow: theater.SeatsPerRow},
		"seats":   seats,
	})
}
