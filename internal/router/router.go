// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/amarchese/concert-seats/internal/config"
	"github.com/amarchese/concert-seats/internal/handler"
	"github.com/amarchese/concert-seats/internal/middleware"
	"github.com/amarchese/concert-seats/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login endpoint and the authenticated /v1/me
// route. Login lives under /v1/auth and requires no token; /v1/me runs
// the JWT middleware with the same secret used to sign access tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the concert browse endpoints.
//
// GET /v1/concerts works with or without a token: authenticated callers
// additionally see their own reservations merged into the listing, so
// the route uses OptionalJWTAuth and must never be response-cached (two
// users would otherwise share a payload). The theater seat map is the
// same for every caller and is the hot read during an on-sale, so it
// sits behind the Redis response cache when a client is available.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1")
	g.GET("/concerts", h.GetConcerts, middleware.OptionalJWTAuth(jwtSecret))

	theater := g.Group("")
	if rdb != nil {
		theater.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}
	theater.GET("/concerts/:id/theater", h.GetTheater)
}

// RegisterBooking registers the seat claim, release and entitlement
// token endpoints. All of them require a valid access token with a
// known role. The claim route additionally sits behind the Redis token
// bucket when a client is available: it is the only write that contends
// on seat rows, so it gets per-user throttling while the rest of the
// API stays unthrottled.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, t *handler.TokenHandler, jwtSecret string, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleLoyal, model.RoleRegular))

	claim := g.Group("")
	if rdb != nil {
		claim.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	}
	claim.POST("/concerts/:id/reservations", r.ClaimSeats)

	g.DELETE("/reservations/:id", r.ReleaseReservation)
	g.GET("/auth-token", t.GetAuthToken)
}
