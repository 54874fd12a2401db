package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Ensure Queue implements TaskQueue
var _ driven.TaskQueue = (*Queue)(nil)

const taskColumns = `id, type, payload, status, priority,
	   attempts, max_attempts, error, created_at, updated_at,
	   started_at, completed_at, scheduled_for`

// Queue implements TaskQueue using PostgreSQL with SKIP LOCKED for reliable task processing.
// This is the fallback queue when Redis is not available.
type Queue struct {
	db *sql.DB
}

// NewQueue creates a new PostgreSQL-backed task queue.
// Assumes the tasks table has been created via InitSchema.
func NewQueue(db *sql.DB) *Queue {
	return &Queue{db: db}
}

// Enqueue adds a task to the queue
func (q *Queue) Enqueue(ctx context.Context, task *domain.Task) error {
	payload, err := json.Marshal(task.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO tasks (
			id, type, payload, status, priority,
			attempts, max_attempts, error, created_at, updated_at, scheduled_for
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = q.db.ExecContext(ctx, query,
		task.ID,
		task.Type,
		payload,
		task.Status,
		task.Priority,
		task.Attempts,
		task.MaxAttempts,
		task.Error,
		task.CreatedAt,
		task.UpdatedAt,
		task.ScheduledFor,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

// Dequeue retrieves the next available task using SELECT FOR UPDATE SKIP LOCKED.
// This ensures only one worker gets each task even with multiple workers.
func (q *Queue) Dequeue(ctx context.Context) (*domain.Task, error) {
	return q.dequeue(ctx, 0)
}

// DequeueWithTimeout retrieves the next task, waiting up to timeout seconds
func (q *Queue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	return q.dequeue(ctx, timeout)
}

func (q *Queue) dequeue(ctx context.Context, timeoutSeconds int) (*domain.Task, error) {
	// Use a transaction to atomically select and update
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Select next available task with SKIP LOCKED to avoid contention
	selectQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status = $1
		  AND scheduled_for <= NOW()
		ORDER BY priority DESC, created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	task, err := scanTask(tx.QueryRowContext(ctx, selectQuery, domain.TaskStatusPending))
	if err == sql.ErrNoRows {
		// No tasks available
		_ = tx.Rollback()

		// If timeout specified, wait and retry
		if timeoutSeconds > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(timeoutSeconds) * time.Second):
				// Retry after timeout
				return q.dequeue(ctx, 0)
			}
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}

	// Mark task as processing
	now := time.Now()
	updateQuery := `
		UPDATE tasks
		SET status = $1, started_at = $2, updated_at = $3, attempts = attempts + 1
		WHERE id = $4
	`
	_, err = tx.ExecContext(ctx, updateQuery,
		domain.TaskStatusProcessing,
		now,
		now,
		task.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	// Update in-memory task state
	task.Status = domain.TaskStatusProcessing
	task.StartedAt = &now
	task.UpdatedAt = now
	task.Attempts++

	return task, nil
}

// Ack marks a task as completed
func (q *Queue) Ack(ctx context.Context, taskID string) error {
	now := time.Now()
	query := `
		UPDATE tasks
		SET status = $1, completed_at = $2, updated_at = $3, error = ''
		WHERE id = $4
	`

	result, err := q.db.ExecContext(ctx, query,
		domain.TaskStatusCompleted,
		now,
		now,
		taskID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Nack marks a task as failed, potentially scheduling a retry
func (q *Queue) Nack(ctx context.Context, taskID string, reason string) error {
	// First get the task to check retry count
	task, err := q.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	now := time.Now()

	if task.CanRetry() {
		// Schedule retry with exponential backoff
		backoff := time.Duration(1<<task.Attempts) * time.Second
		if backoff > 5*time.Minute {
			backoff = 5 * time.Minute
		}

		query := `
			UPDATE tasks
			SET status = $1, error = $2, updated_at = $3, scheduled_for = $4
			WHERE id = $5
		`
		_, err = q.db.ExecContext(ctx, query,
			domain.TaskStatusPending,
			reason,
			now,
			now.Add(backoff),
			taskID,
		)
	} else {
		// Max retries exceeded, mark as failed
		query := `
			UPDATE tasks
			SET status = $1, error = $2, updated_at = $3
			WHERE id = $4
		`
		_, err = q.db.ExecContext(ctx, query,
			domain.TaskStatusFailed,
			reason,
			now,
			taskID,
		)
	}

	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

// Reject marks a task as permanently failed, skipping any remaining
// retries. Used for errors that retrying cannot fix, such as a course
// sync with no saved settings.
func (q *Queue) Reject(ctx context.Context, taskID string, reason string) error {
	query := `
		UPDATE tasks
		SET status = $1, error = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := q.db.ExecContext(ctx, query,
		domain.TaskStatusFailed,
		reason,
		time.Now(),
		taskID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// GetTask retrieves a task by ID
func (q *Queue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(q.db.QueryRowContext(ctx, query, taskID))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}

	return task, nil
}

// Stats returns queue statistics
func (q *Queue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	stats := &driven.QueueStats{}

	// Count by status
	query := `
		SELECT status, COUNT(*) FROM tasks GROUP BY status
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}

		switch domain.TaskStatus(status) {
		case domain.TaskStatusPending:
			stats.PendingCount = count
		case domain.TaskStatusProcessing:
			stats.ProcessingCount = count
		case domain.TaskStatusCompleted:
			stats.CompletedCount = count
		case domain.TaskStatusFailed:
			stats.FailedCount = count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats: %w", err)
	}

	return stats, nil
}

// Ping checks database connectivity
func (q *Queue) Ping(ctx context.Context) error {
	return q.db.PingContext(ctx)
}

// Close is a no-op for the Postgres queue (db connection managed externally)
func (q *Queue) Close() error {
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var payload []byte
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Type,
		&payload,
		&task.Status,
		&task.Priority,
		&task.Attempts,
		&task.MaxAttempts,
		&task.Error,
		&task.CreatedAt,
		&task.UpdatedAt,
		&startedAt,
		&completedAt,
		&task.ScheduledFor,
	)
	if err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &task.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}

	if startedAt.Valid {
		task.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return &task, nil
}
