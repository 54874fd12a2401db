package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AssignmentStore = (*AssignmentStore)(nil)

// AssignmentStore implements driven.AssignmentStore using PostgreSQL
type AssignmentStore struct {
	db *DB
}

// NewAssignmentStore creates a new AssignmentStore
func NewAssignmentStore(db *DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

// InsertAll writes a batch of assignments in a single transaction
func (s *AssignmentStore) InsertAll(ctx context.Context, assignments []domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	query := `
		INSERT INTO assignments (id, course_id, name, description, due_at, points_possible, quiz_id, html_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			due_at = EXCLUDED.due_at,
			points_possible = EXCLUDED.points_possible,
			quiz_id = EXCLUDED.quiz_id,
			html_url = EXCLUDED.html_url,
			updated_at = EXCLUDED.updated_at
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, a := range assignments {
			_, err := stmt.ExecContext(ctx,
				a.ID, a.CourseID, a.Name, a.Description, NullTime(a.DueAt),
				a.PointsTotal, a.QuizID, a.HTMLURL, a.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ByCourse retrieves all cached assignments for a course
func (s *AssignmentStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Assignment, error) {
	query := `
		SELECT id, course_id, name, description, due_at, points_possible, quiz_id, html_url, updated_at
		FROM assignments
		WHERE course_id = $1
		ORDER BY due_at NULLS LAST, name
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		var dueAt sql.NullTime
		err := rows.Scan(&a.ID, &a.CourseID, &a.Name, &a.Description, &dueAt,
			&a.PointsTotal, &a.QuizID, &a.HTMLURL, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		a.DueAt = TimePtr(dueAt)
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// DeleteByCourse removes all cached assignments for a course
func (s *AssignmentStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM assignments WHERE course_id = $1`, courseID)
	return err
}
