package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PageStore = (*PageStore)(nil)

// PageStore implements driven.PageStore using PostgreSQL
type PageStore struct {
	db *DB
}

// NewPageStore creates a new PageStore
func NewPageStore(db *DB) *PageStore {
	return &PageStore{db: db}
}

const upsertPageQuery = `
	INSERT INTO pages (id, course_id, url, title, body, front_page, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (course_id, url) DO UPDATE SET
		id = EXCLUDED.id,
		title = EXCLUDED.title,
		body = EXCLUDED.body,
		front_page = EXCLUDED.front_page,
		updated_at = EXCLUDED.updated_at
`

// InsertAll writes a batch of pages in a single transaction
func (s *PageStore) InsertAll(ctx context.Context, pages []domain.Page) error {
	if len(pages) == 0 {
		return nil
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertPageQuery)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range pages {
			_, err := stmt.ExecContext(ctx,
				p.ID, p.CourseID, p.URL, p.Title, p.Body, p.FrontPage, p.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Upsert writes a single page keyed by (course_id, url)
func (s *PageStore) Upsert(ctx context.Context, page *domain.Page) error {
	_, err := s.db.ExecContext(ctx, upsertPageQuery,
		page.ID, page.CourseID, page.URL, page.Title, page.Body, page.FrontPage, page.UpdatedAt)
	return err
}

// BySlug retrieves a page by its slug within a course
func (s *PageStore) BySlug(ctx context.Context, courseID int64, slug string) (*domain.Page, error) {
	query := `
		SELECT id, course_id, url, title, body, front_page, updated_at
		FROM pages
		WHERE course_id = $1 AND url = $2
	`

	var page domain.Page
	err := s.db.QueryRowContext(ctx, query, courseID, slug).Scan(
		&page.ID, &page.CourseID, &page.URL, &page.Title, &page.Body, &page.FrontPage, &page.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// ByCourse retrieves all cached pages for a course
func (s *PageStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Page, error) {
	query := `
		SELECT id, course_id, url, title, body, front_page, updated_at
		FROM pages
		WHERE course_id = $1
		ORDER BY title
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.CourseID, &p.URL, &p.Title, &p.Body, &p.FrontPage, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// DeleteByCourse removes all cached pages for a course
func (s *PageStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE course_id = $1`, courseID)
	return err
}
