package services

import (
	"context"

	"tasklist-api/domain/dto"
	"tasklist-api/domain/models"
)

// TaskService composes the store and the cache. Read operations report
// whether the result came from the cache so handlers can surface it.
type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, id uint) (*models.Task, bool, error)
	ListTasks(ctx context.Context) ([]*models.Task, bool, error)
	UpdateTask(ctx context.Context, id uint, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*dto.StatsResponse, bool, error)
	// FlushCache drops every cache key in the task namespace.
	FlushCache(ctx context.Context) (int64, error)
	// InvalidationFailures reports how many eager invalidations have
	// failed since startup. Writes still succeed when invalidation
	// fails; the counter exists for observability only.
	InvalidationFailures() uint64
}
