package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// SyncAdmin implements the driving SyncService: settings CRUD, manual
// sync requests and progress polling for the HTTP layer.
type SyncAdmin struct {
	settings driven.SyncSettingsStore
	progress driven.SyncProgressStore
	queue    driven.TaskQueue
	logger   *slog.Logger
}

// SyncAdminConfig holds dependencies for SyncAdmin.
type SyncAdminConfig struct {
	Settings driven.SyncSettingsStore
	Progress driven.SyncProgressStore
	Queue    driven.TaskQueue
	Logger   *slog.Logger
}

// NewSyncAdmin creates a new sync admin service.
func NewSyncAdmin(cfg SyncAdminConfig) *SyncAdmin {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncAdmin{
		settings: cfg.Settings,
		progress: cfg.Progress,
		queue:    cfg.Queue,
		logger:   logger,
	}
}

// RequestSync enqueues a sync task for a course. Settings must exist
// before a sync can be requested; the worker re-reads them at run time.
func (s *SyncAdmin) RequestSync(ctx context.Context, courseID int64, wifiOnly bool) (*domain.Task, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: course ID must be positive", domain.ErrInvalidInput)
	}

	if _, err := s.settings.ByCourse(ctx, courseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("load sync settings: %w", err)
	}

	task := domain.NewCourseSyncTask(courseID, wifiOnly)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, fmt.Errorf("enqueue sync task: %w", err)
	}

	s.logger.Info("sync task enqueued", "course_id", courseID, "task_id", task.ID)
	return task, nil
}

// Progress retrieves the pollable progress record for a course.
func (s *SyncAdmin) Progress(ctx context.Context, courseID int64) (*domain.SyncProgress, error) {
	return s.progress.ByCourse(ctx, courseID)
}

// Settings retrieves sync settings for a course.
func (s *SyncAdmin) Settings(ctx context.Context, courseID int64) (*domain.SyncSettings, error) {
	return s.settings.ByCourse(ctx, courseID)
}

// SaveSettings validates and persists sync settings.
func (s *SyncAdmin) SaveSettings(ctx context.Context, settings *domain.SyncSettings) error {
	if settings == nil || settings.CourseID <= 0 {
		return fmt.Errorf("%w: course ID must be positive", domain.ErrInvalidInput)
	}
	for tab := range settings.Tabs {
		if _, ok := domain.TabLabels[tab]; !ok {
			return fmt.Errorf("%w: unknown tab %q", domain.ErrInvalidInput, tab)
		}
	}
	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save sync settings: %w", err)
	}
	s.logger.Info("sync settings saved", "course_id", settings.CourseID)
	return nil
}

// DeleteSettings removes a course's sync settings and its progress record.
func (s *SyncAdmin) DeleteSettings(ctx context.Context, courseID int64) error {
	if err := s.settings.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("delete sync settings: %w", err)
	}
	if err := s.progress.Delete(ctx, courseID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("failed to delete sync progress", "course_id", courseID, "error", err)
	}
	return nil
}

// TaskStatus retrieves a queued or finished task by ID.
func (s *SyncAdmin) TaskStatus(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.queue.GetTask(ctx, taskID)
}
