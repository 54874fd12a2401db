package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DiscussionStore = (*DiscussionStore)(nil)

// DiscussionStore implements driven.DiscussionStore using PostgreSQL.
// Entry trees are stored as JSONB: they are read back whole and never
// queried per-entry.
type DiscussionStore struct {
	db *DB
}

// NewDiscussionStore creates a new DiscussionStore
func NewDiscussionStore(db *DB) *DiscussionStore {
	return &DiscussionStore{db: db}
}

// InsertAll writes a batch of topics in a single transaction
func (s *DiscussionStore) InsertAll(ctx context.Context, topics []domain.DiscussionTopic) error {
	if len(topics) == 0 {
		return nil
	}

	query := `
		INSERT INTO discussion_topics (id, course_id, title, message, announcement, posted_at, entries)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			course_id = EXCLUDED.course_id,
			title = EXCLUDED.title,
			message = EXCLUDED.message,
			announcement = EXCLUDED.announcement,
			posted_at = EXCLUDED.posted_at,
			entries = EXCLUDED.entries
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range topics {
			entriesJSON, err := json.Marshal(t.Entries)
			if err != nil {
				return err
			}
			_, err = stmt.ExecContext(ctx,
				t.ID, t.CourseID, t.Title, t.Message, t.Announcement,
				NullTime(t.PostedAt), entriesJSON)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ByCourse retrieves topics for a course, partitioned by announcement flag
func (s *DiscussionStore) ByCourse(ctx context.Context, courseID int64, announcements bool) ([]domain.DiscussionTopic, error) {
	query := `
		SELECT id, course_id, title, message, announcement, posted_at, entries
		FROM discussion_topics
		WHERE course_id = $1 AND announcement = $2
		ORDER BY posted_at DESC NULLS LAST
	`

	rows, err := s.db.QueryContext(ctx, query, courseID, announcements)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []domain.DiscussionTopic
	for rows.Next() {
		var t domain.DiscussionTopic
		var postedAt sql.NullTime
		var entriesJSON []byte
		err := rows.Scan(&t.ID, &t.CourseID, &t.Title, &t.Message, &t.Announcement, &postedAt, &entriesJSON)
		if err != nil {
			return nil, err
		}
		t.PostedAt = TimePtr(postedAt)
		if err := json.Unmarshal(entriesJSON, &t.Entries); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// DeleteByCourse removes one partition of a course's topics
func (s *DiscussionStore) DeleteByCourse(ctx context.Context, courseID int64, announcements bool) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM discussion_topics WHERE course_id = $1 AND announcement = $2`,
		courseID, announcements)
	return err
}
