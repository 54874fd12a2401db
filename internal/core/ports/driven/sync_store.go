package driven

import (
	"context"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// SyncSettingsStore persists per-course sync selections (PostgreSQL).
type SyncSettingsStore interface {
	// Save creates or updates settings for a course
	Save(ctx context.Context, settings *domain.SyncSettings) error

	// ByCourse retrieves settings for a course. Returns ErrNotFound
	// when the course has no settings.
	ByCourse(ctx context.Context, courseID int64) (*domain.SyncSettings, error)

	// List retrieves all stored settings
	List(ctx context.Context) ([]domain.SyncSettings, error)

	// Delete removes settings for a course
	Delete(ctx context.Context, courseID int64) error

	// DueForRefresh retrieves settings whose refresh interval has elapsed
	DueForRefresh(ctx context.Context, now time.Time) ([]domain.SyncSettings, error)

	// TouchSynced records when the last sync run finished
	TouchSynced(ctx context.Context, courseID int64, at time.Time) error
}

// SyncProgressStore persists the UI-pollable progress record. Progress
// mutation is read-modify-write: callers read the current record, apply
// the tab update and write it back, serialized by the per-course lock.
type SyncProgressStore interface {
	// Save creates or overwrites the progress record for a course
	Save(ctx context.Context, progress *domain.SyncProgress) error

	// ByCourse retrieves the progress record for a course. Returns
	// ErrNotFound when no run has ever been recorded.
	ByCourse(ctx context.Context, courseID int64) (*domain.SyncProgress, error)

	// Delete removes the progress record for a course
	Delete(ctx context.Context, courseID int64) error
}
