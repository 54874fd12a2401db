package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CourseStore = (*CourseStore)(nil)

// CourseStore implements driven.CourseStore using PostgreSQL
type CourseStore struct {
	db *DB
}

// NewCourseStore creates a new CourseStore
func NewCourseStore(db *DB) *CourseStore {
	return &CourseStore{db: db}
}

// Upsert creates or updates a cached course record
func (s *CourseStore) Upsert(ctx context.Context, course *domain.Course) error {
	tabsJSON, err := json.Marshal(course.Tabs)
	if err != nil {
		return err
	}
	enrollmentsJSON, err := json.Marshal(course.Enrollments)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO courses (id, name, course_code, syllabus_body, tabs, enrollments, term_name, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			course_code = EXCLUDED.course_code,
			syllabus_body = EXCLUDED.syllabus_body,
			tabs = EXCLUDED.tabs,
			enrollments = EXCLUDED.enrollments,
			term_name = EXCLUDED.term_name,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		course.ID,
		course.Name,
		course.CourseCode,
		course.SyllabusBody,
		tabsJSON,
		enrollmentsJSON,
		course.TermName,
		course.UpdatedAt,
	)
	return err
}

// ByID retrieves a cached course by ID
func (s *CourseStore) ByID(ctx context.Context, courseID int64) (*domain.Course, error) {
	query := `
		SELECT id, name, course_code, syllabus_body, tabs, enrollments, term_name, updated_at
		FROM courses
		WHERE id = $1
	`

	var course domain.Course
	var tabsJSON, enrollmentsJSON []byte

	err := s.db.QueryRowContext(ctx, query, courseID).Scan(
		&course.ID,
		&course.Name,
		&course.CourseCode,
		&course.SyllabusBody,
		&tabsJSON,
		&enrollmentsJSON,
		&course.TermName,
		&course.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tabsJSON, &course.Tabs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(enrollmentsJSON, &course.Enrollments); err != nil {
		return nil, err
	}

	return &course, nil
}

// Delete removes a cached course
func (s *CourseStore) Delete(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, courseID)
	return err
}
