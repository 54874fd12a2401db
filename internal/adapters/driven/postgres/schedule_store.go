package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ScheduleStore = (*ScheduleStore)(nil)

// ScheduleStore implements driven.ScheduleStore using PostgreSQL
type ScheduleStore struct {
	db *DB
}

// NewScheduleStore creates a new ScheduleStore
func NewScheduleStore(db *DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// InsertAll writes a batch of schedule items in a single transaction
func (s *ScheduleStore) InsertAll(ctx context.Context, items []domain.ScheduleItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO schedule_items (id, course_id, title, description, item_type, start_at, assignment_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			item_type = EXCLUDED.item_type,
			start_at = EXCLUDED.start_at,
			assignment_id = EXCLUDED.assignment_id
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, item := range items {
			_, err := stmt.ExecContext(ctx,
				item.ID, item.CourseID, item.Title, item.Description,
				string(item.Type), NullTime(item.StartAt), item.AssignmentID)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ByCourse retrieves all cached schedule items for a course
func (s *ScheduleStore) ByCourse(ctx context.Context, courseID int64) ([]domain.ScheduleItem, error) {
	query := `
		SELECT id, course_id, title, description, item_type, start_at, assignment_id
		FROM schedule_items
		WHERE course_id = $1
		ORDER BY start_at NULLS LAST
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ScheduleItem
	for rows.Next() {
		var item domain.ScheduleItem
		var startAt sql.NullTime
		err := rows.Scan(&item.ID, &item.CourseID, &item.Title, &item.Description,
			&item.Type, &startAt, &item.AssignmentID)
		if err != nil {
			return nil, err
		}
		item.StartAt = TimePtr(startAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteByCourse removes all cached schedule items for a course
func (s *ScheduleStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM schedule_items WHERE course_id = $1`, courseID)
	return err
}
