package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"tasklist-api/domain/services"
)

// Pinger is the reachability probe the health endpoint runs against each
// dependency. ports.Cache satisfies it; the database is wrapped by
// postgres.NewPinger.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports per-dependency status. Cache degradation is
// surfaced here and nowhere else: read/write paths absorb cache
// failures silently.
type HealthHandler struct {
	db           Pinger
	cache        Pinger
	cacheEnabled bool
	taskService  services.TaskService
}

func NewHealthHandler(db Pinger, cache Pinger, cacheEnabled bool, taskService services.TaskService) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cache:        cache,
		cacheEnabled: cacheEnabled,
		taskService:  taskService,
	}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx := c.UserContext()

	status := "ok"
	httpStatus := fiber.StatusOK

	dbStatus := "ok"
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "error"
		status = "degraded"
		httpStatus = fiber.StatusInternalServerError
	}

	cacheStatus := "disabled"
	if h.cacheEnabled {
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			// The service keeps working without the cache, so a cache
			// outage degrades the report but not the status code.
			cacheStatus = "degraded"
		}
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"services": fiber.Map{
			"api":      "ok",
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"cache_invalidation_failures": h.taskService.InvalidationFailures(),
	})
}
