package driven

import (
	"context"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// FileSync downloads and caches binary course files. It runs as the
// second top-level branch of a sync run, concurrently with content sync.
type FileSync interface {
	// SyncCourseFiles downloads the files covered by the settings
	// (everything under full-file sync, or the explicit selection).
	SyncCourseFiles(ctx context.Context, settings *domain.SyncSettings) error

	// SyncAdditional performs the supplementary pass over file IDs and
	// external URLs discovered while rewriting HTML.
	SyncAdditional(ctx context.Context, courseID int64, fileIDs []int64, urls []string) error
}
