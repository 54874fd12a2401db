package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ModuleStore = (*ModuleStore)(nil)

// ModuleStore implements driven.ModuleStore using PostgreSQL.
// Module items are stored as JSONB alongside the module row.
type ModuleStore struct {
	db *DB
}

// NewModuleStore creates a new ModuleStore
func NewModuleStore(db *DB) *ModuleStore {
	return &ModuleStore{db: db}
}

// InsertAll writes a batch of modules in a single transaction
func (s *ModuleStore) InsertAll(ctx context.Context, modules []domain.Module) error {
	if len(modules) == 0 {
		return nil
	}

	query := `
		INSERT INTO modules (id, course_id, name, position, items)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			name = EXCLUDED.name,
			position = EXCLUDED.position,
			items = EXCLUDED.items
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, m := range modules {
			itemsJSON, err := json.Marshal(m.Items)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, m.ID, m.CourseID, m.Name, m.Position, itemsJSON); err != nil {
				return err
			}
		}
		return nil
	})
}

// ByCourse retrieves all cached modules for a course in position order
func (s *ModuleStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Module, error) {
	query := `
		SELECT id, course_id, name, position, items
		FROM modules
		WHERE course_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var m domain.Module
		var itemsJSON []byte
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Name, &m.Position, &itemsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(itemsJSON, &m.Items); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// DeleteByCourse removes all cached modules for a course
func (s *ModuleStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE course_id = $1`, courseID)
	return err
}
