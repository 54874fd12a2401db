package postgres

import (
	"context"
	"database/sql"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.FileStore = (*FileStore)(nil)

// FileStore implements driven.FileStore using PostgreSQL
type FileStore struct {
	db *DB
}

// NewFileStore creates a new FileStore
func NewFileStore(db *DB) *FileStore {
	return &FileStore{db: db}
}

// ReplaceTree atomically swaps the cached folder/file tree for a course
func (s *FileStore) ReplaceTree(ctx context.Context, courseID int64, folders []domain.Folder, files []domain.File) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE course_id = $1`, courseID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE course_id = $1`, courseID); err != nil {
			return err
		}

		folderStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO folders (id, course_id, parent_id, name, full_name)
			VALUES ($1, $2, $3, $4, $5)
		`)
		if err != nil {
			return err
		}
		defer folderStmt.Close()

		for _, f := range folders {
			if _, err := folderStmt.ExecContext(ctx, f.ID, courseID, f.ParentID, f.Name, f.FullName); err != nil {
				return err
			}
		}

		fileStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO files (id, course_id, folder_id, display_name, content_type, url, size, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`)
		if err != nil {
			return err
		}
		defer fileStmt.Close()

		for _, f := range files {
			_, err := fileStmt.ExecContext(ctx,
				f.ID, courseID, f.FolderID, f.DisplayName, f.ContentType, f.URL, f.Size, f.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FileByID retrieves cached file metadata by ID
func (s *FileStore) FileByID(ctx context.Context, fileID int64) (*domain.File, error) {
	query := `
		SELECT id, course_id, folder_id, display_name, content_type, url, size, updated_at
		FROM files
		WHERE id = $1
	`

	var f domain.File
	err := s.db.QueryRowContext(ctx, query, fileID).Scan(
		&f.ID, &f.CourseID, &f.FolderID, &f.DisplayName, &f.ContentType, &f.URL, &f.Size, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FilesByCourse retrieves all cached file metadata for a course
func (s *FileStore) FilesByCourse(ctx context.Context, courseID int64) ([]domain.File, error) {
	query := `
		SELECT id, course_id, folder_id, display_name, content_type, url, size, updated_at
		FROM files
		WHERE course_id = $1
		ORDER BY display_name
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []domain.File
	for rows.Next() {
		var f domain.File
		err := rows.Scan(&f.ID, &f.CourseID, &f.FolderID, &f.DisplayName, &f.ContentType, &f.URL, &f.Size, &f.UpdatedAt)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// FoldersByCourse retrieves the cached folder tree for a course
func (s *FileStore) FoldersByCourse(ctx context.Context, courseID int64) ([]domain.Folder, error) {
	query := `
		SELECT id, course_id, parent_id, name, full_name
		FROM folders
		WHERE course_id = $1
		ORDER BY full_name
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []domain.Folder
	for rows.Next() {
		var f domain.Folder
		if err := rows.Scan(&f.ID, &f.CourseID, &f.ParentID, &f.Name, &f.FullName); err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

// DeleteByCourse removes the cached file tree for a course
func (s *FileStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE course_id = $1`, courseID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM files WHERE course_id = $1`, courseID)
		return err
	})
}
