package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConferenceStore = (*ConferenceStore)(nil)

// ConferenceStore implements driven.ConferenceStore using PostgreSQL
type ConferenceStore struct {
	db *DB
}

// NewConferenceStore creates a new ConferenceStore
func NewConferenceStore(db *DB) *ConferenceStore {
	return &ConferenceStore{db: db}
}

// InsertAll writes a batch of conferences in a single transaction
func (s *ConferenceStore) InsertAll(ctx context.Context, conferences []domain.Conference) error {
	if len(conferences) == 0 {
		return nil
	}

	query := `
		INSERT INTO conferences (id, course_id, title, description, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			started_at = EXCLUDED.started_at
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, c := range conferences {
			_, err := stmt.ExecContext(ctx, c.ID, c.CourseID, c.Title, c.Description, NullTime(c.StartedAt))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ByCourse retrieves all cached conferences for a course
func (s *ConferenceStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Conference, error) {
	query := `
		SELECT id, course_id, title, description, started_at
		FROM conferences
		WHERE course_id = $1
		ORDER BY started_at DESC NULLS LAST
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conferences []domain.Conference
	for rows.Next() {
		var c domain.Conference
		var startedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.CourseID, &c.Title, &c.Description, &startedAt); err != nil {
			return nil, err
		}
		c.StartedAt = TimePtr(startedAt)
		conferences = append(conferences, c)
	}
	return conferences, rows.Err()
}

// DeleteByCourse removes all cached conferences for a course
func (s *ConferenceStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conferences WHERE course_id = $1`, courseID)
	return err
}
