package domain

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"
)

// GenerateID creates a unique random ID.
func GenerateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeSyncCourse syncs a specific course's selected content
	TaskTypeSyncCourse TaskType = "sync_course"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Task represents a background job to be processed by workers
type Task struct {
	// ID is the unique identifier for this task
	ID string `json:"id"`

	// Type identifies what kind of task this is
	Type TaskType `json:"type"`

	// Payload contains task-specific data
	// For sync_course: {"course_id": "123", "wifi_only": "true"}
	Payload map[string]string `json:"payload"`

	// Status is the current state of the task
	Status TaskStatus `json:"status"`

	// Priority determines processing order (higher = more urgent)
	Priority int `json:"priority"`

	// Attempts is how many times this task has been attempted
	Attempts int `json:"attempts"`

	// MaxAttempts is the maximum retry count before giving up
	MaxAttempts int `json:"max_attempts"`

	// Error contains the last error message if failed
	Error string `json:"error,omitempty"`

	// CreatedAt is when the task was enqueued
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified
	UpdatedAt time.Time `json:"updated_at"`

	// StartedAt is when processing began (nil if not started)
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when processing finished (nil if not complete)
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ScheduledFor is when the task should be processed (for delayed tasks)
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewTask creates a new task with default values
func NewTask(taskType TaskType, payload map[string]string) *Task {
	now := time.Now()
	return &Task{
		ID:           GenerateID(),
		Type:         taskType,
		Payload:      payload,
		Status:       TaskStatusPending,
		Priority:     0,
		Attempts:     0,
		MaxAttempts:  3,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewCourseSyncTask creates a task to sync a specific course.
func NewCourseSyncTask(courseID int64, wifiOnly bool) *Task {
	return NewTask(TaskTypeSyncCourse, map[string]string{
		"course_id": strconv.FormatInt(courseID, 10),
		"wifi_only": strconv.FormatBool(wifiOnly),
	})
}

// CourseID extracts the course_id from the payload (for sync_course tasks).
// Returns 0 if absent or malformed.
func (t *Task) CourseID() int64 {
	if t.Payload == nil {
		return 0
	}
	id, err := strconv.ParseInt(t.Payload["course_id"], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// WifiOnly extracts the wifi_only flag from the payload.
func (t *Task) WifiOnly() bool {
	if t.Payload == nil {
		return false
	}
	v, _ := strconv.ParseBool(t.Payload["wifi_only"])
	return v
}

// CanRetry returns true if the task can be retried
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// IsReady returns true if the task is ready to be processed
func (t *Task) IsReady() bool {
	return t.Status == TaskStatusPending && time.Now().After(t.ScheduledFor)
}

// MarkProcessing updates the task to processing state
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted updates the task to completed state
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed updates the task to failed state
func (t *Task) MarkFailed(err string) {
	now := time.Now()
	t.Status = TaskStatusFailed
	t.UpdatedAt = now
	t.Error = err
}

// Retry resets the task for retry with exponential backoff
func (t *Task) Retry(err string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.UpdatedAt = now
	t.Error = err

	// Exponential backoff: 1s, 2s, 4s, 8s, etc.
	backoff := time.Duration(1<<t.Attempts) * time.Second
	if backoff > 5*time.Minute {
		backoff = 5 * time.Minute // Cap at 5 minutes
	}
	t.ScheduledFor = now.Add(backoff)
}
