package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tasklist-api/domain/models"
	"tasklist-api/domain/repositories"
	"tasklist-api/domain/taskerr"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, taskerr.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	return tasks, err
}

// Update writes the whole record in a single UPDATE ... WHERE id = ?,
// which is the only atomicity this design needs per write. Zero affected
// rows means the id no longer exists.
func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskerr.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return taskerr.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryImpl) Counts(ctx context.Context) (repositories.TaskCounts, error) {
	var counts repositories.TaskCounts

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE completed) AS completed").
		Scan(&counts).Error
	if err != nil {
		return repositories.TaskCounts{}, err
	}
	return counts, nil
}
