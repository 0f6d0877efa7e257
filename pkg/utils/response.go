package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ========== Response Structures ==========

// Response is the envelope every endpoint uses. Cached is only present
// on read endpoints and reports whether the payload came from the cache.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Cached  *bool  `json:"cached,omitempty"`
	Message string `json:"message,omitempty"`
	ID      *uint  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func CachedResponse(c *fiber.Ctx, data any, cached bool) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
		Cached:  &cached,
	})
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func DeletedResponse(c *fiber.Ctx, message string, id uint) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		ID:      &id,
	})
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, fiber.StatusBadRequest, message)
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(c, fiber.StatusNotFound, message)
}

func InternalServerErrorResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return ErrorResponse(c, fiber.StatusInternalServerError, message)
}
