package serviceimpl

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tasklist-api/domain/dto"
	"tasklist-api/domain/models"
	"tasklist-api/domain/ports"
	"tasklist-api/domain/repositories"
	"tasklist-api/domain/services"
	"tasklist-api/domain/taskerr"
	"tasklist-api/pkg/config"
	"tasklist-api/pkg/logger"
)

// Cache keys. Writes invalidate by enumerating the exact keys they
// touch; KeyPattern covers the whole namespace for the admin flush.
const (
	KeyAllTasks = "tasks:all"
	KeyStats    = "tasks:stats"
	KeyPattern  = "tasks:*"
)

func ItemKey(id uint) string {
	return fmt.Sprintf("tasks:id:%d", id)
}

// TaskServiceImpl enforces the cache-consistency contract: reads go
// through the cache, every write commits to the store first, then
// invalidates its key set, then returns. Cache failures are absorbed
// here; callers only ever see store errors.
type TaskServiceImpl struct {
	taskRepo  repositories.TaskRepository
	cache     ports.Cache
	publisher ports.EventPublisher
	ttl       config.CacheConfig

	invalidationFailures atomic.Uint64
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	cache ports.Cache,
	publisher ports.EventPublisher,
	ttl config.CacheConfig,
) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		cache:     cache,
		publisher: publisher,
		ttl:       ttl,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, taskerr.Validationf("title is required")
	}

	now := time.Now().UTC()
	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "error", err)
		return nil, err
	}

	// The new record changes the collection and the aggregate but no
	// per-id entry can exist for a fresh id.
	s.invalidate(ctx, KeyAllTasks, KeyStats)
	s.publish(ctx, ports.ActionTaskCreated, task.ID)

	logger.InfoContext(ctx, "Task created", "task_id", task.ID)

	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, id uint) (*models.Task, bool, error) {
	var cached models.Task
	if found := s.cacheGet(ctx, ItemKey(id), &cached); found {
		return &cached, true, nil
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	s.cacheSet(ctx, ItemKey(id), task, s.ttl.ItemTTL)

	return task, false, nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]*models.Task, bool, error) {
	var cached []*models.Task
	if found := s.cacheGet(ctx, KeyAllTasks, &cached); found {
		return cached, true, nil
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, false, err
	}

	s.cacheSet(ctx, KeyAllTasks, tasks, s.ttl.ListTTL)

	return tasks, false, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id uint, req *dto.UpdateTaskRequest) (*models.Task, error) {
	if req.Empty() {
		return nil, taskerr.Validationf("at least one field must be provided")
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, taskerr.Validationf("title cannot be empty")
		}
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if !taskerr.IsNotFound(err) {
			logger.ErrorContext(ctx, "Failed to update task", "task_id", id, "error", err)
		}
		return nil, err
	}

	s.invalidate(ctx, KeyAllTasks, KeyStats, ItemKey(id))
	s.publish(ctx, ports.ActionTaskUpdated, id)

	logger.InfoContext(ctx, "Task updated", "task_id", id)

	return task, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id uint) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if !taskerr.IsNotFound(err) {
			logger.ErrorContext(ctx, "Failed to delete task", "task_id", id, "error", err)
		}
		return err
	}

	s.invalidate(ctx, KeyAllTasks, KeyStats, ItemKey(id))
	s.publish(ctx, ports.ActionTaskDeleted, id)

	logger.InfoContext(ctx, "Task deleted", "task_id", id)

	return nil
}

func (s *TaskServiceImpl) Stats(ctx context.Context) (*dto.StatsResponse, bool, error) {
	var cached dto.StatsResponse
	if found := s.cacheGet(ctx, KeyStats, &cached); found {
		return &cached, true, nil
	}

	counts, err := s.taskRepo.Counts(ctx)
	if err != nil {
		return nil, false, err
	}

	stats := &dto.StatsResponse{
		Total:     counts.Total,
		Completed: counts.Completed,
		Pending:   counts.Total - counts.Completed,
	}

	s.cacheSet(ctx, KeyStats, stats, s.ttl.ListTTL)

	return stats, false, nil
}

func (s *TaskServiceImpl) FlushCache(ctx context.Context) (int64, error) {
	return s.cache.DeletePattern(ctx, KeyPattern)
}

func (s *TaskServiceImpl) InvalidationFailures() uint64 {
	return s.invalidationFailures.Load()
}

// cacheGet absorbs cache errors: a failed lookup is treated as a miss
// so the store read proceeds.
func (s *TaskServiceImpl) cacheGet(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.WarnContext(ctx, "Cache read failed, falling back to store", "key", key, "error", err)
		return false
	}
	return found
}

func (s *TaskServiceImpl) cacheSet(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logger.WarnContext(ctx, "Cache populate failed", "key", key, "error", err)
	}
}

// invalidate runs synchronously between the store commit and the
// caller's response. A failure is recorded but never surfaced: the
// short TTL on collection keys bounds the resulting staleness.
func (s *TaskServiceImpl) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.invalidationFailures.Add(1)
		logger.WarnContext(ctx, "Cache invalidation failed",
			"keys", strings.Join(keys, ","),
			"failures", s.invalidationFailures.Load(),
			"error", err,
		)
	}
}

func (s *TaskServiceImpl) publish(ctx context.Context, action string, taskID uint) {
	event := ports.TaskEvent{
		ID:     uuid.New().String(),
		Action: action,
		TaskID: taskID,
		At:     time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Event publish failed", "action", action, "task_id", taskID, "error", err)
	}
}
