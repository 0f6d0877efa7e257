package ports

import (
	"context"
	"time"
)

// Task change actions carried in events.
const (
	ActionTaskCreated = "created"
	ActionTaskUpdated = "updated"
	ActionTaskDeleted = "deleted"
)

// TaskEvent describes a committed write. Events are published after the
// HTTP response path completes its cache invalidation; they are
// best-effort and never affect the outcome of the write itself.
type TaskEvent struct {
	ID     string    `json:"id"` // event id, not task id
	Action string    `json:"action"`
	TaskID uint      `json:"task_id"`
	At     time.Time `json:"at"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event TaskEvent) error
	Close() error
}

// NoopPublisher is used when no message broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) Publish(ctx context.Context, event TaskEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
