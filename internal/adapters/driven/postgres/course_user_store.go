package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CourseUserStore = (*CourseUserStore)(nil)

// CourseUserStore implements driven.CourseUserStore using PostgreSQL
type CourseUserStore struct {
	db *DB
}

// NewCourseUserStore creates a new CourseUserStore
func NewCourseUserStore(db *DB) *CourseUserStore {
	return &CourseUserStore{db: db}
}

// InsertAll writes a batch of course users in a single transaction
func (s *CourseUserStore) InsertAll(ctx context.Context, users []domain.CourseUser) error {
	if len(users) == 0 {
		return nil
	}

	query := `
		INSERT INTO course_users (id, course_id, name, sort_name, email, avatar_url, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (course_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			sort_name = EXCLUDED.sort_name,
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url,
			role = EXCLUDED.role
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, u := range users {
			_, err := stmt.ExecContext(ctx, u.ID, u.CourseID, u.Name, u.SortName, u.Email, u.AvatarURL, u.Role)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ByCourse retrieves the cached roster for a course
func (s *CourseUserStore) ByCourse(ctx context.Context, courseID int64) ([]domain.CourseUser, error) {
	query := `
		SELECT id, course_id, name, sort_name, email, avatar_url, role
		FROM course_users
		WHERE course_id = $1
		ORDER BY sort_name, name
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.CourseUser
	for rows.Next() {
		var u domain.CourseUser
		if err := rows.Scan(&u.ID, &u.CourseID, &u.Name, &u.SortName, &u.Email, &u.AvatarURL, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteByCourse removes the cached roster for a course
func (s *CourseUserStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM course_users WHERE course_id = $1`, courseID)
	return err
}
