package driven

import (
	"context"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// PageToken is an opaque "next page" marker returned by list calls.
// An empty token signals that no further pages remain.
type PageToken string

// CoursesAPI fetches course-level records from the remote LMS.
type CoursesAPI interface {
	// GetCourse fetches the course record including syllabus body,
	// navigation tabs and the caller's enrollments.
	GetCourse(ctx context.Context, courseID int64) (*domain.Course, error)
}

// PagesAPI fetches wiki pages.
type PagesAPI interface {
	ListPages(ctx context.Context, courseID int64, token PageToken) ([]domain.Page, PageToken, error)

	// GetPage fetches a single page by its slug, body included.
	GetPage(ctx context.Context, courseID int64, slug string) (*domain.Page, error)

	// GetFrontPage fetches the course home page. Returns ErrNotFound
	// when the course has no front page configured.
	GetFrontPage(ctx context.Context, courseID int64) (*domain.Page, error)
}

// AssignmentsAPI fetches assignments.
type AssignmentsAPI interface {
	ListAssignments(ctx context.Context, courseID int64, token PageToken) ([]domain.Assignment, PageToken, error)
}

// QuizzesAPI fetches quizzes.
type QuizzesAPI interface {
	ListQuizzes(ctx context.Context, courseID int64, token PageToken) ([]domain.Quiz, PageToken, error)
	GetQuiz(ctx context.Context, courseID, quizID int64) (*domain.Quiz, error)
}

// DiscussionsAPI fetches discussion topics and announcements.
type DiscussionsAPI interface {
	// ListTopics lists topics without their entry trees. Announcements
	// and discussions are the same shape behind different endpoints.
	ListTopics(ctx context.Context, courseID int64, announcements bool, token PageToken) ([]domain.DiscussionTopic, PageToken, error)

	// GetFullTopic fetches one topic with its complete, arbitrarily
	// nested entry tree.
	GetFullTopic(ctx context.Context, courseID, topicID int64) (*domain.DiscussionTopic, error)
}

// ConferencesAPI fetches web conferences.
type ConferencesAPI interface {
	ListConferences(ctx context.Context, courseID int64, token PageToken) ([]domain.Conference, PageToken, error)
}

// ModulesAPI fetches modules with their items.
type ModulesAPI interface {
	ListModules(ctx context.Context, courseID int64, token PageToken) ([]domain.Module, PageToken, error)
}

// ScheduleAPI fetches syllabus calendar entries.
type ScheduleAPI interface {
	ListScheduleItems(ctx context.Context, courseID int64, itemType domain.ScheduleItemType, token PageToken) ([]domain.ScheduleItem, PageToken, error)
}

// UsersAPI fetches the course roster.
type UsersAPI interface {
	ListCourseUsers(ctx context.Context, courseID int64, token PageToken) ([]domain.CourseUser, PageToken, error)
}

// FilesAPI fetches the course file/folder tree (metadata only; binary
// content is the FileSync adapter's concern).
type FilesAPI interface {
	ListFolders(ctx context.Context, courseID int64, token PageToken) ([]domain.Folder, PageToken, error)
	ListFiles(ctx context.Context, courseID int64, token PageToken) ([]domain.File, PageToken, error)
}

// CourseAPI bundles the per-resource API clients for constructor injection.
type CourseAPI struct {
	Courses     CoursesAPI
	Pages       PagesAPI
	Assignments AssignmentsAPI
	Quizzes     QuizzesAPI
	Discussions DiscussionsAPI
	Conferences ConferencesAPI
	Modules     ModulesAPI
	Schedule    ScheduleAPI
	Users       UsersAPI
	Files       FilesAPI
}
