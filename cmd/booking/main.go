// Entry point of the booking service: seat ledger, reservations and
// entitlement token issuing.
package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/amarchese/concert-seats/internal/config"
	"github.com/amarchese/concert-seats/internal/database"
	"github.com/amarchese/concert-seats/internal/handler"
	"github.com/amarchese/concert-seats/internal/queue"
	"github.com/amarchese/concert-seats/internal/repository"
	"github.com/amarchese/concert-seats/internal/router"
	"github.com/amarchese/concert-seats/internal/token"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the API runs with no response cache
	// and no rate limiting, which is fine for local development.
	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	concerts := repository.NewConcertRepo(db)
	seats := repository.NewSeatRepo(db)
	reservations := repository.NewReservationRepo(db, seats, cfg.ClaimTimeout)
	issuer := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLSeconds)*time.Second)

	authH := handler.NewAuthHandler(cfg, users)
	catalogH := handler.NewCatalogHandler(concerts, seats, reservations)
	reservationH := handler.NewReservationHandler(reservations)
	tokenH := handler.NewTokenHandler(issuer, reservations)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, rdb)
	router.RegisterBooking(e, reservationH, tokenH, cfg.JWTSecret, rdb)

	// Background consumer writes confirmed/cancelled events to the
	// reservation log. It reconnects on its own and never stops the API.
	go queue.StartReservationConsumer()

	addr := ":" + cfg.Port
	log.Printf("booking service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
