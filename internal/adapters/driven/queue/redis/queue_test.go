package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

func setupTestQueue(t *testing.T) (*Queue, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	q, err := NewQueue(client, "test-worker")
	require.NoError(t, err)
	return q, mr
}

func TestQueue_EnqueueDequeue(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, domain.TaskStatusProcessing, got.Status)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, int64(42), got.CourseID())
}

func TestQueue_Ack(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, q.Ack(ctx, got.ID))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.TaskStatusCompleted, stored.Status)
	assert.Empty(t, stored.Error)
}

func TestQueue_NackSchedulesRetry(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, q.Nack(ctx, got.ID, "LMS unreachable"))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.TaskStatusPending, stored.Status)
	assert.Equal(t, "LMS unreachable", stored.Error)
	assert.True(t, stored.ScheduledFor.After(time.Now()), "retry should be delayed")

	// Retry waits in the scheduled set, not the stream
	scheduled, err := q.client.ZCard(ctx, scheduledTasks).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), scheduled)
}

func TestQueue_NackExhaustedAttemptsFails(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	task.MaxAttempts = 1
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, q.Nack(ctx, got.ID, "LMS unreachable"))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.TaskStatusFailed, stored.Status)
}

func TestQueue_RejectSkipsRetry(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, q.Reject(ctx, got.ID, "no sync settings for course"))

	stored, err := q.GetTask(ctx, got.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.TaskStatusFailed, stored.Status)
	assert.Equal(t, "no sync settings for course", stored.Error)

	// Nothing left to retry
	scheduled, err := q.client.ZCard(ctx, scheduledTasks).Result()
	require.NoError(t, err)
	assert.Zero(t, scheduled)
}

func TestQueue_DelayedTaskPromoted(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	task.ScheduledFor = time.Now().Add(100 * time.Millisecond)
	require.NoError(t, q.Enqueue(ctx, task))

	// Lands in the scheduled set until due
	scheduled, err := q.client.ZCard(ctx, scheduledTasks).Result()
	require.NoError(t, err)
	require.Equal(t, int64(1), scheduled)

	time.Sleep(200 * time.Millisecond)

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, task.ID, got.ID)
}

func TestQueue_FutureTaskNotDelivered(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	task := domain.NewCourseSyncTask(42, false)
	task.ScheduledFor = time.Now().Add(time.Hour)
	require.NoError(t, q.Enqueue(ctx, task))

	got, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_GetTask_Missing(t *testing.T) {
	q, _ := setupTestQueue(t)

	got, err := q.GetTask(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQueue_Stats(t *testing.T) {
	q, _ := setupTestQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, domain.NewCourseSyncTask(1, false)))
	require.NoError(t, q.Enqueue(ctx, domain.NewCourseSyncTask(2, false)))

	done, err := q.DequeueWithTimeout(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, done)
	require.NoError(t, q.Ack(ctx, done.ID))

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CompletedCount)
}

func TestQueue_Ping(t *testing.T) {
	q, mr := setupTestQueue(t)

	require.NoError(t, q.Ping(context.Background()))

	mr.Close()
	assert.Error(t, q.Ping(context.Background()))
}
