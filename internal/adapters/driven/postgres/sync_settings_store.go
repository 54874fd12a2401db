package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SyncSettingsStore = (*SyncSettingsStore)(nil)

// SyncSettingsStore implements driven.SyncSettingsStore using PostgreSQL
type SyncSettingsStore struct {
	db *DB
}

// NewSyncSettingsStore creates a new SyncSettingsStore
func NewSyncSettingsStore(db *DB) *SyncSettingsStore {
	return &SyncSettingsStore{db: db}
}

// Save creates or updates settings for a course
func (s *SyncSettingsStore) Save(ctx context.Context, settings *domain.SyncSettings) error {
	tabsJSON, err := json.Marshal(settings.Tabs)
	if err != nil {
		return err
	}
	fileIDsJSON, err := json.Marshal(settings.FileIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sync_settings (course_id, course_name, tabs, full_file_sync, file_ids, wifi_only, refresh_interval, last_synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (course_id) DO UPDATE SET
			course_name = EXCLUDED.course_name,
			tabs = EXCLUDED.tabs,
			full_file_sync = EXCLUDED.full_file_sync,
			file_ids = EXCLUDED.file_ids,
			wifi_only = EXCLUDED.wifi_only,
			refresh_interval = EXCLUDED.refresh_interval,
			last_synced_at = EXCLUDED.last_synced_at
	`

	_, err = s.db.ExecContext(ctx, query,
		settings.CourseID,
		settings.CourseName,
		tabsJSON,
		settings.FullFileSync,
		fileIDsJSON,
		settings.WifiOnly,
		int64(settings.RefreshInterval),
		NullTime(settings.LastSyncedAt),
	)
	return err
}

const selectSettingsColumns = `
	course_id, course_name, tabs, full_file_sync, file_ids, wifi_only, refresh_interval, last_synced_at
`

func scanSettings(scan func(dest ...any) error) (*domain.SyncSettings, error) {
	var settings domain.SyncSettings
	var tabsJSON, fileIDsJSON []byte
	var refreshInterval int64
	var lastSyncedAt sql.NullTime

	err := scan(
		&settings.CourseID,
		&settings.CourseName,
		&tabsJSON,
		&settings.FullFileSync,
		&fileIDsJSON,
		&settings.WifiOnly,
		&refreshInterval,
		&lastSyncedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tabsJSON, &settings.Tabs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fileIDsJSON, &settings.FileIDs); err != nil {
		return nil, err
	}
	settings.RefreshInterval = time.Duration(refreshInterval)
	settings.LastSyncedAt = TimePtr(lastSyncedAt)
	return &settings, nil
}

// ByCourse retrieves settings for a course
func (s *SyncSettingsStore) ByCourse(ctx context.Context, courseID int64) (*domain.SyncSettings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectSettingsColumns+` FROM sync_settings WHERE course_id = $1`, courseID)

	settings, err := scanSettings(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// List retrieves all stored settings
func (s *SyncSettingsStore) List(ctx context.Context) ([]domain.SyncSettings, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectSettingsColumns+` FROM sync_settings ORDER BY course_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var all []domain.SyncSettings
	for rows.Next() {
		settings, err := scanSettings(rows.Scan)
		if err != nil {
			return nil, err
		}
		all = append(all, *settings)
	}
	return all, rows.Err()
}

// Delete removes settings for a course
func (s *SyncSettingsStore) Delete(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_settings WHERE course_id = $1`, courseID)
	return err
}

// DueForRefresh retrieves settings whose refresh interval has elapsed
func (s *SyncSettingsStore) DueForRefresh(ctx context.Context, now time.Time) ([]domain.SyncSettings, error) {
	query := `
		SELECT ` + selectSettingsColumns + `
		FROM sync_settings
		WHERE refresh_interval > 0
		  AND (last_synced_at IS NULL OR last_synced_at + (refresh_interval / 1000) * INTERVAL '1 microsecond' <= $1)
	`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []domain.SyncSettings
	for rows.Next() {
		settings, err := scanSettings(rows.Scan)
		if err != nil {
			return nil, err
		}
		due = append(due, *settings)
	}
	return due, rows.Err()
}

// TouchSynced records when the last sync run finished
func (s *SyncSettingsStore) TouchSynced(ctx context.Context, courseID int64, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sync_settings SET last_synced_at = $2 WHERE course_id = $1`, courseID, at)
	return err
}
