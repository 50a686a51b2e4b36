package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"institute_backend/internals/configs"
	"institute_backend/internals/middlewares/logger"
)

// SetupMiddlewares: recover → cors → access log → global limiter.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware(configs.AppTimezone))
	app.Use(GlobalRateLimiter())
}
