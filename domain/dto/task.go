package dto

import (
	"time"

	"tasklist-api/domain/models"
)

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateTaskRequest uses pointer fields so an absent field can be told
// apart from an explicit zero value ("completed": false must apply).
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
}

// Empty reports whether no field was supplied at all. An empty update
// is a validation error, not a no-op.
func (r *UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Completed == nil
}

type TaskResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StatsResponse struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *TaskToTaskResponse(task)
	}
	return responses
}
