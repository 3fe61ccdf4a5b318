// Package middleware assembles the cross-cutting HTTP chain: security
// headers, request ids, CORS, per-client rate limiting, panic recovery and
// development request logging, plus the centralized error boundary.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"userapi/internal/config"
	"userapi/pkg/response"
)

// Register attaches the middleware chain to the app in order. The rate
// limiter is a per-process sliding window keyed by client IP and is skipped
// entirely in test mode.
func Register(app *fiber.App, cfg *config.Config) {
	app.Use(helmet.New())
	app.Use(requestid.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		// Fiber rejects credentialed CORS with a wildcard origin.
		AllowCredentials: cfg.CORSOrigin != "*",
	}))

	app.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitMax,
		Expiration:        cfg.RateLimitWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			return cfg.AppEnv == "test"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests,
				"Too many requests, please try again later.", nil)
		},
	}))

	app.Use(recover.New())

	if cfg.IsDevelopment() {
		app.Use(fiberlogger.New())
	}
}
