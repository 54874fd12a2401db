package driven

import (
	"context"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// TaskQueue handles background task queuing and processing.
// Implementations can use Redis (preferred) or Postgres (fallback).
type TaskQueue interface {
	// Enqueue adds a task to the queue for processing.
	Enqueue(ctx context.Context, task *domain.Task) error

	// Dequeue retrieves the next available task for processing.
	// The task is marked as processing and will not be returned to
	// other workers. Returns nil, nil if no tasks are available.
	Dequeue(ctx context.Context) (*domain.Task, error)

	// DequeueWithTimeout retrieves the next available task, waiting up
	// to timeout seconds. Returns nil, nil on timeout with no tasks.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack acknowledges successful completion of a task.
	Ack(ctx context.Context, taskID string) error

	// Nack indicates task processing failed and should be retried.
	// If max retries are exceeded the task moves to failed state.
	Nack(ctx context.Context, taskID string, reason string) error

	// Reject marks a task as permanently failed without retrying.
	// Used for terminal errors such as missing sync settings.
	Reject(ctx context.Context, taskID string, reason string) error

	// GetTask retrieves a task by ID (for status checking).
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// Stats returns queue statistics.
	Stats(ctx context.Context) (*QueueStats, error)

	// Ping checks if the queue backend is healthy.
	Ping(ctx context.Context) error

	// Close cleans up resources.
	Close() error
}

// QueueStats contains queue statistics
type QueueStats struct {
	// PendingCount is the number of tasks waiting to be processed
	PendingCount int64 `json:"pending_count"`

	// ProcessingCount is the number of tasks currently being processed
	ProcessingCount int64 `json:"processing_count"`

	// CompletedCount is the number of successfully completed tasks
	CompletedCount int64 `json:"completed_count"`

	// FailedCount is the number of tasks that failed after all retries
	FailedCount int64 `json:"failed_count"`
}
