package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.QuizStore = (*QuizStore)(nil)

// QuizStore implements driven.QuizStore using PostgreSQL
type QuizStore struct {
	db *DB
}

// NewQuizStore creates a new QuizStore
func NewQuizStore(db *DB) *QuizStore {
	return &QuizStore{db: db}
}

const upsertQuizQuery = `
	INSERT INTO quizzes (id, course_id, title, description, due_at, question_count, html_url, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		course_id = EXCLUDED.course_id,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		due_at = EXCLUDED.due_at,
		question_count = EXCLUDED.question_count,
		html_url = EXCLUDED.html_url,
		updated_at = EXCLUDED.updated_at
`

// InsertAll writes a batch of quizzes in a single transaction
func (s *QuizStore) InsertAll(ctx context.Context, quizzes []domain.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertQuizQuery)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, q := range quizzes {
			_, err := stmt.ExecContext(ctx,
				q.ID, q.CourseID, q.Title, q.Description, NullTime(q.DueAt),
				q.QuestionCnt, q.HTMLURL, q.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert writes a single quiz
func (s *QuizStore) Upsert(ctx context.Context, quiz *domain.Quiz) error {
	_, err := s.db.ExecContext(ctx, upsertQuizQuery,
		quiz.ID, quiz.CourseID, quiz.Title, quiz.Description, NullTime(quiz.DueAt),
		quiz.QuestionCnt, quiz.HTMLURL, quiz.UpdatedAt)
	return err
}

// ByID retrieves a quiz by ID
func (s *QuizStore) ByID(ctx context.Context, quizID int64) (*domain.Quiz, error) {
	query := `
		SELECT id, course_id, title, description, due_at, question_count, html_url, updated_at
		FROM quizzes
		WHERE id = $1
	`

	var q domain.Quiz
	var dueAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, quizID).Scan(
		&q.ID, &q.CourseID, &q.Title, &q.Description, &dueAt, &q.QuestionCnt, &q.HTMLURL, &q.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	q.DueAt = TimePtr(dueAt)
	return &q, nil
}

// ByCourse retrieves all cached quizzes for a course
func (s *QuizStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Quiz, error) {
	query := `
		SELECT id, course_id, title, description, due_at, question_count, html_url, updated_at
		FROM quizzes
		WHERE course_id = $1
		ORDER BY due_at NULLS LAST, title
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var q domain.Quiz
		var dueAt sql.NullTime
		err := rows.Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &dueAt,
			&q.QuestionCnt, &q.HTMLURL, &q.UpdatedAt)
		if err != nil {
			return nil, err
		}
		q.DueAt = TimePtr(dueAt)
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// DeleteByCourse removes all cached quizzes for a course
func (s *QuizStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE course_id = $1`, courseID)
	return err
}

// DeleteByCourseExcept removes a course's quizzes except the given IDs
func (s *QuizStore) DeleteByCourseExcept(ctx context.Context, courseID int64, keep []int64) error {
	if len(keep) == 0 {
		return s.DeleteByCourse(ctx, courseID)
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM quizzes WHERE course_id = $1 AND id <> ALL($2)`,
		courseID, pq.Array(keep))
	return err
}
