// Entry point of the discount estimator. The estimator is a separate
// process that shares nothing with the booking service except the JWT
// secret: it never touches the database or the message broker.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/amarchese/concert-seats/internal/config"
	"github.com/amarchese/concert-seats/internal/estimator"
)

func main() {
	_ = godotenv.Load()

	cfg := config.LoadEstimator()
	h := estimator.NewHandler(cfg.JWTSecret, nil)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	e.GET("/api/get-estimation", h.GetEstimation)

	addr := ":" + cfg.Port
	log.Printf("estimator listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
