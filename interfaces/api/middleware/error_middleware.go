package middleware

import (
	"github.com/gofiber/fiber/v2"

	"tasklist-api/pkg/logger"
	"tasklist-api/pkg/utils"
)

// ErrorHandler turns errors that escape handlers (bad routes, panics
// recovered by fiber, handler-returned fiber errors) into the standard
// error envelope.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.ErrorContext(c.UserContext(), "Unhandled error", "status", code, "error", err)

		return utils.ErrorResponse(c, code, message)
	}
}
