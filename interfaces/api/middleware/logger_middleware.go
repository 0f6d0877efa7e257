package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tasklist-api/pkg/logger"
)

// LoggerMiddleware emits one structured line per request, leveled by
// status class.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		latency := time.Since(start)
		status := c.Response().StatusCode()

		logFunc := logger.InfoContext
		if status >= 500 {
			logFunc = logger.ErrorContext
		} else if status >= 400 {
			logFunc = logger.WarnContext
		}

		logFunc(c.UserContext(), "Request completed",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency.String(),
			"ip", c.IP(),
		)

		return err
	}
}
