package repositories

import (
	"context"

	"tasklist-api/domain/models"
)

// TaskCounts is the aggregate the stats endpoint reports.
type TaskCounts struct {
	Total     int64
	Completed int64
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	// List returns every task ordered by created_at descending.
	List(ctx context.Context) ([]*models.Task, error)
	// Update persists the given record; returns taskerr.ErrNotFound when
	// no row with that id exists.
	Update(ctx context.Context, task *models.Task) error
	// Delete removes the record; returns taskerr.ErrNotFound when no row
	// was affected.
	Delete(ctx context.Context, id uint) error
	Counts(ctx context.Context) (TaskCounts, error)
}
