package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist-api/application/serviceimpl"
	"tasklist-api/domain/models"
	"tasklist-api/domain/ports"
	"tasklist-api/domain/repositories"
	"tasklist-api/domain/taskerr"
	"tasklist-api/interfaces/api/handlers"
	"tasklist-api/interfaces/api/middleware"
	"tasklist-api/interfaces/api/routes"
	"tasklist-api/pkg/config"
)

// --- fakes ---

type memRepo struct {
	mu     sync.Mutex
	nextID uint
	tasks  map[uint]models.Task
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, tasks: map[uint]models.Task{}}
}

func (r *memRepo) Create(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task.ID = r.nextID
	r.nextID++
	r.tasks[task.ID] = *task
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, taskerr.ErrNotFound
	}
	return &task, nil
}

func (r *memRepo) List(ctx context.Context) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make([]*models.Task, 0, len(r.tasks))
	for id := r.nextID; id > 0; id-- {
		if task, ok := r.tasks[id]; ok {
			t := task
			tasks = append(tasks, &t)
		}
	}
	return tasks, nil
}

func (r *memRepo) Update(ctx context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return taskerr.ErrNotFound
	}
	r.tasks[task.ID] = *task
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return taskerr.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memRepo) Counts(ctx context.Context) (repositories.TaskCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts repositories.TaskCounts
	for _, task := range r.tasks {
		counts.Total++
		if task.Completed {
			counts.Completed++
		}
	}
	return counts, nil
}

type pingFake struct {
	err error
}

func (p pingFake) Ping(ctx context.Context) error { return p.err }

// --- helpers ---

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	repo := newMemRepo()
	svc := serviceimpl.NewTaskService(
		repo,
		ports.NewNoopCache(),
		ports.NewNoopPublisher(),
		config.CacheConfig{ListTTL: time.Minute, ItemTTL: 5 * time.Minute},
	)

	taskHandler := handlers.NewTaskHandler(svc)
	healthHandler := handlers.NewHealthHandler(pingFake{}, ports.NewNoopCache(), false, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(middleware.RequestIDMiddleware())
	routes.SetupRoutes(app, handlers.NewHandlers(taskHandler, healthHandler))

	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Cached  *bool           `json:"cached"`
	Message string          `json:"message"`
	ID      *uint           `json:"id"`
	Error   string          `json:"error"`
}

type taskPayload struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)

	return resp, env
}

func decodeTask(t *testing.T, data json.RawMessage) taskPayload {
	t.Helper()
	var task taskPayload
	require.NoError(t, json.Unmarshal(data, &task))
	return task
}

// --- tests ---

func TestTaskLifecycleScenario(t *testing.T) {
	app := newTestApp(t)

	// create
	resp, env := doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)
	created := decodeTask(t, env.Data)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "", created.Description)
	assert.False(t, created.Completed)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// complete it
	resp, env = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeTask(t, env.Data)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "", updated.Description)

	// delete it
	resp, env = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	require.NotNil(t, env.ID)
	assert.Equal(t, created.ID, *env.ID)
	assert.NotEmpty(t, env.Message)

	// gone
	resp, env = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/tasks/%d", created.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestCreateTask_MissingTitle(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": ""})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "title is required")
}

func TestCreateTask_MalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTask_NoFields(t *testing.T) {
	app := newTestApp(t)

	_, env := doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": "Target"})
	created := decodeTask(t, env.Data)

	resp, env := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), map[string]any{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "at least one field")
}

func TestUpdateTask_UnknownID(t *testing.T) {
	app := newTestApp(t)

	resp, env := doJSON(t, app, http.MethodPut, "/api/tasks/424242", map[string]any{"completed": true})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestDeleteTask_UnknownID(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodDelete, "/api/tasks/424242", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetTask_NonNumericID(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/tasks/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTasks_EnvelopeCarriesCachedFlag(t *testing.T) {
	app := newTestApp(t)

	_, _ = doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": "One"})
	_, _ = doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": "Two"})

	resp, env := doJSON(t, app, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, env.Success)
	require.NotNil(t, env.Cached, "list responses must report cache state")
	assert.False(t, *env.Cached)

	var tasks []taskPayload
	require.NoError(t, json.Unmarshal(env.Data, &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Two", tasks[0].Title, "newest first")
	assert.Equal(t, "One", tasks[1].Title)
}

func TestStats_Endpoint(t *testing.T) {
	app := newTestApp(t)

	_, env := doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": "Done one"})
	created := decodeTask(t, env.Data)
	_, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/tasks/%d", created.ID), map[string]any{"completed": true})
	_, _ = doJSON(t, app, http.MethodPost, "/api/tasks", map[string]any{"title": "Pending one"})

	resp, env := doJSON(t, app, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Total     int64 `json:"total"`
		Completed int64 `json:"completed"`
		Pending   int64 `json:"pending"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, stats.Total, stats.Completed+stats.Pending)
}

func TestRequestIDHeaderEchoed(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set(middleware.RequestIDHeader, "test-req-1")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "test-req-1", resp.Header.Get(middleware.RequestIDHeader))
}
