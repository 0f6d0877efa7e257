package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"tasklist-api/domain/dto"
	"tasklist-api/domain/services"
	"tasklist-api/domain/taskerr"
	"tasklist-api/pkg/logger"
	"tasklist-api/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// parseTaskID rejects non-numeric ids as not-found: an unparseable id
// can never name an existing record.
func parseTaskID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// serviceError maps the error taxonomy to the response envelope.
// Validation → 400, not found → 404, store failures → 500 with the
// underlying message.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case taskerr.IsValidation(err):
		return utils.BadRequestResponse(c, err.Error())
	case taskerr.IsNotFound(err):
		return utils.NotFoundResponse(c, "Task not found")
	default:
		return utils.InternalServerErrorResponse(c, err.Error())
	}
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	tasks, cached, err := h.taskService.ListTasks(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "error", err)
		return serviceError(c, err)
	}

	return utils.CachedResponse(c, dto.TasksToTaskResponses(tasks), cached)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseTaskID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	task, cached, err := h.taskService.GetTask(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.CachedResponse(c, dto.TaskToTaskResponse(task), cached)
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		message := utils.ValidationErrorMessage(err)
		logger.WarnContext(ctx, "Validation failed", "error", message)
		return utils.BadRequestResponse(c, message)
	}

	task, err := h.taskService.CreateTask(ctx, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseTaskID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		message := utils.ValidationErrorMessage(err)
		logger.WarnContext(ctx, "Validation failed", "error", message)
		return utils.BadRequestResponse(c, message)
	}

	task, err := h.taskService.UpdateTask(ctx, id, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, ok := parseTaskID(c)
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	if err := h.taskService.DeleteTask(ctx, id); err != nil {
		return serviceError(c, err)
	}

	return utils.DeletedResponse(c, "Task deleted", id)
}

func (h *TaskHandler) Stats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	stats, cached, err := h.taskService.Stats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to compute stats", "error", err)
		return serviceError(c, err)
	}

	return utils.CachedResponse(c, stats, cached)
}

func (h *TaskHandler) FlushCache(c *fiber.Ctx) error {
	ctx := c.UserContext()

	deleted, err := h.taskService.FlushCache(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Cache flush failed", "error", err)
		return utils.InternalServerErrorResponse(c, err.Error())
	}

	logger.InfoContext(ctx, "Cache flushed", "deleted", deleted)

	return utils.SuccessResponse(c, fiber.Map{"deleted": deleted})
}
