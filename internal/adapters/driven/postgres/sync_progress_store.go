package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SyncProgressStore = (*SyncProgressStore)(nil)

// SyncProgressStore implements driven.SyncProgressStore using PostgreSQL
type SyncProgressStore struct {
	db *DB
}

// NewSyncProgressStore creates a new SyncProgressStore
func NewSyncProgressStore(db *DB) *SyncProgressStore {
	return &SyncProgressStore{db: db}
}

// Save creates or overwrites the progress record for a course
func (s *SyncProgressStore) Save(ctx context.Context, progress *domain.SyncProgress) error {
	tabsJSON, err := json.Marshal(progress.Tabs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sync_progress (course_id, job_id, state, tabs, started_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (course_id) DO UPDATE SET
			job_id = EXCLUDED.job_id,
			state = EXCLUDED.state,
			tabs = EXCLUDED.tabs,
			started_at = EXCLUDED.started_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		progress.CourseID,
		progress.JobID,
		string(progress.State),
		tabsJSON,
		progress.StartedAt,
		progress.UpdatedAt,
	)
	return err
}

// ByCourse retrieves the progress record for a course
func (s *SyncProgressStore) ByCourse(ctx context.Context, courseID int64) (*domain.SyncProgress, error) {
	query := `
		SELECT course_id, job_id, state, tabs, started_at, updated_at
		FROM sync_progress
		WHERE course_id = $1
	`

	var progress domain.SyncProgress
	var tabsJSON []byte

	err := s.db.QueryRowContext(ctx, query, courseID).Scan(
		&progress.CourseID,
		&progress.JobID,
		&progress.State,
		&tabsJSON,
		&progress.StartedAt,
		&progress.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tabsJSON, &progress.Tabs); err != nil {
		return nil, err
	}
	return &progress, nil
}

// Delete removes the progress record for a course
func (s *SyncProgressStore) Delete(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_progress WHERE course_id = $1`, courseID)
	return err
}
