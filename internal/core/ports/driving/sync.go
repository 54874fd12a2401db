package driving

import (
	"context"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// SyncService is the driving port exposed to the HTTP layer for managing
// offline sync: settings CRUD, sync requests and progress polling.
type SyncService interface {
	// RequestSync enqueues a sync task for a course. Fails with
	// ErrSettingsNotFound when the course has no sync settings.
	RequestSync(ctx context.Context, courseID int64, wifiOnly bool) (*domain.Task, error)

	// Progress retrieves the pollable progress record for a course.
	Progress(ctx context.Context, courseID int64) (*domain.SyncProgress, error)

	// Settings retrieves sync settings for a course.
	Settings(ctx context.Context, courseID int64) (*domain.SyncSettings, error)

	// SaveSettings creates or updates sync settings.
	SaveSettings(ctx context.Context, settings *domain.SyncSettings) error

	// DeleteSettings removes a course's sync settings.
	DeleteSettings(ctx context.Context, courseID int64) error

	// TaskStatus retrieves a queued or finished task by ID.
	TaskStatus(ctx context.Context, taskID string) (*domain.Task, error)
}
