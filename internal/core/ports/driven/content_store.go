package driven

import (
	"context"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// Content stores follow a common facade shape per entity family:
// insert/insert-all, delete-by-course, point lookup, lookup-by-course.
// The sync job pairs DeleteByCourse with InsertAll so re-running a sync
// is convergent and never duplicates rows.

// CourseStore persists cached course records (PostgreSQL).
type CourseStore interface {
	Upsert(ctx context.Context, course *domain.Course) error
	ByID(ctx context.Context, courseID int64) (*domain.Course, error)
	Delete(ctx context.Context, courseID int64) error
}

// PageStore persists wiki pages.
type PageStore interface {
	InsertAll(ctx context.Context, pages []domain.Page) error

	// Upsert writes a single page keyed by (course_id, url). The front
	// page lands here after the page set has been rewritten.
	Upsert(ctx context.Context, page *domain.Page) error

	BySlug(ctx context.Context, courseID int64, slug string) (*domain.Page, error)
	ByCourse(ctx context.Context, courseID int64) ([]domain.Page, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// AssignmentStore persists assignments.
type AssignmentStore interface {
	InsertAll(ctx context.Context, assignments []domain.Assignment) error
	ByCourse(ctx context.Context, courseID int64) ([]domain.Assignment, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// QuizStore persists quizzes.
type QuizStore interface {
	InsertAll(ctx context.Context, quizzes []domain.Quiz) error

	// Upsert writes a single quiz. Used for quizzes discovered through
	// assignments and module items.
	Upsert(ctx context.Context, quiz *domain.Quiz) error

	ByID(ctx context.Context, quizID int64) (*domain.Quiz, error)
	ByCourse(ctx context.Context, courseID int64) ([]domain.Quiz, error)
	DeleteByCourse(ctx context.Context, courseID int64) error

	// DeleteByCourseExcept removes a course's quizzes except the given
	// IDs. Used to drop standalone quizzes while keeping the
	// assignment-embedded set.
	DeleteByCourseExcept(ctx context.Context, courseID int64, keep []int64) error
}

// DiscussionStore persists discussion topics and announcements, including
// their entry trees. The announcement flag partitions the two tabs.
type DiscussionStore interface {
	InsertAll(ctx context.Context, topics []domain.DiscussionTopic) error
	ByCourse(ctx context.Context, courseID int64, announcements bool) ([]domain.DiscussionTopic, error)
	DeleteByCourse(ctx context.Context, courseID int64, announcements bool) error
}

// ConferenceStore persists conferences.
type ConferenceStore interface {
	InsertAll(ctx context.Context, conferences []domain.Conference) error
	ByCourse(ctx context.Context, courseID int64) ([]domain.Conference, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// ModuleStore persists modules with their items.
type ModuleStore interface {
	InsertAll(ctx context.Context, modules []domain.Module) error
	ByCourse(ctx context.Context, courseID int64) ([]domain.Module, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// ScheduleStore persists syllabus calendar entries.
type ScheduleStore interface {
	InsertAll(ctx context.Context, items []domain.ScheduleItem) error
	ByCourse(ctx context.Context, courseID int64) ([]domain.ScheduleItem, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// CourseUserStore persists the course roster for the People tab.
type CourseUserStore interface {
	InsertAll(ctx context.Context, users []domain.CourseUser) error
	ByCourse(ctx context.Context, courseID int64) ([]domain.CourseUser, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}

// FileStore persists the course file/folder tree snapshot.
type FileStore interface {
	// ReplaceTree atomically swaps the cached folder/file tree for a course.
	ReplaceTree(ctx context.Context, courseID int64, folders []domain.Folder, files []domain.File) error

	FileByID(ctx context.Context, fileID int64) (*domain.File, error)
	FilesByCourse(ctx context.Context, courseID int64) ([]domain.File, error)
	FoldersByCourse(ctx context.Context, courseID int64) ([]domain.Folder, error)
	DeleteByCourse(ctx context.Context, courseID int64) error
}
