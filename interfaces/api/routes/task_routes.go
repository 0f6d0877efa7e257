package routes

import (
	"github.com/gofiber/fiber/v2"

	"tasklist-api/interfaces/api/handlers"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/tasks")
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)

	api.Get("/stats", h.TaskHandler.Stats)

	// Operational endpoint, drops the whole tasks:* cache namespace.
	api.Post("/cache/flush", h.TaskHandler.FlushCache)
}
