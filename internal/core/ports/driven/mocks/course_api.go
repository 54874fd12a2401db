package mocks

import (
	"context"
	"strconv"
	"sync"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// MockCourseAPI is a configurable fake of every remote LMS resource API.
// Slices hold the remote data; PageSize > 0 forces list calls to paginate
// so depagination logic gets exercised. Per-call error fields inject
// failures for a single category.
type MockCourseAPI struct {
	mu sync.Mutex

	Course      *domain.Course
	Pages       []domain.Page
	FrontPage   *domain.Page
	Assignments []domain.Assignment
	Quizzes     []domain.Quiz
	Topics      []domain.DiscussionTopic
	Conferences []domain.Conference
	Modules     []domain.Module
	Schedule    []domain.ScheduleItem
	Users       []domain.CourseUser
	Folders     []domain.Folder
	Files       []domain.File

	// PageSize forces pagination when > 0
	PageSize int

	GetCourseErr    error
	ListPagesErr    error
	GetFrontPageErr error
	GetPageErr      error
	AssignmentsErr  error
	QuizzesErr      error
	GetQuizErr      error
	TopicsErr       error
	FullTopicErr    error
	ConferencesErr  error
	ModulesErr      error
	ScheduleErr     error
	UsersErr        error
	FoldersErr      error
	FilesErr        error

	// Call counters for asserting fetch paths
	GetCourseCalls    int
	ListPagesCalls    int
	GetPageCalls      int
	GetFrontPageCalls int
	ListQuizzesCalls  int
	GetQuizCalls      int
}

func NewMockCourseAPI() *MockCourseAPI {
	return &MockCourseAPI{}
}

// Bundle returns the mock wrapped as a driven.CourseAPI.
func (m *MockCourseAPI) Bundle() driven.CourseAPI {
	return driven.CourseAPI{
		Courses:     m,
		Pages:       m,
		Assignments: m,
		Quizzes:     m,
		Discussions: m,
		Conferences: m,
		Modules:     m,
		Schedule:    m,
		Users:       m,
		Files:       m,
	}
}

// paginate slices items according to PageSize and the offset token.
func paginate[T any](items []T, pageSize int, token driven.PageToken) ([]T, driven.PageToken) {
	if pageSize <= 0 {
		return items, ""
	}
	offset := 0
	if token != "" {
		offset, _ = strconv.Atoi(string(token))
	}
	if offset >= len(items) {
		return nil, ""
	}
	end := offset + pageSize
	if end >= len(items) {
		return items[offset:], ""
	}
	return items[offset:end], driven.PageToken(strconv.Itoa(end))
}

func (m *MockCourseAPI) GetCourse(ctx context.Context, courseID int64) (*domain.Course, error) {
	m.mu.Lock()
	m.GetCourseCalls++
	m.mu.Unlock()
	if m.GetCourseErr != nil {
		return nil, m.GetCourseErr
	}
	if m.Course == nil {
		return nil, domain.ErrNotFound
	}
	c := *m.Course
	return &c, nil
}

func (m *MockCourseAPI) ListPages(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Page, driven.PageToken, error) {
	m.mu.Lock()
	m.ListPagesCalls++
	m.mu.Unlock()
	if m.ListPagesErr != nil {
		return nil, "", m.ListPagesErr
	}
	items, next := paginate(m.Pages, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) GetPage(ctx context.Context, courseID int64, slug string) (*domain.Page, error) {
	m.mu.Lock()
	m.GetPageCalls++
	m.mu.Unlock()
	if m.GetPageErr != nil {
		return nil, m.GetPageErr
	}
	for _, p := range m.Pages {
		if p.URL == slug {
			page := p
			return &page, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCourseAPI) GetFrontPage(ctx context.Context, courseID int64) (*domain.Page, error) {
	m.mu.Lock()
	m.GetFrontPageCalls++
	m.mu.Unlock()
	if m.GetFrontPageErr != nil {
		return nil, m.GetFrontPageErr
	}
	if m.FrontPage == nil {
		return nil, domain.ErrNotFound
	}
	p := *m.FrontPage
	return &p, nil
}

func (m *MockCourseAPI) ListAssignments(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Assignment, driven.PageToken, error) {
	if m.AssignmentsErr != nil {
		return nil, "", m.AssignmentsErr
	}
	items, next := paginate(m.Assignments, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) ListQuizzes(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Quiz, driven.PageToken, error) {
	m.mu.Lock()
	m.ListQuizzesCalls++
	m.mu.Unlock()
	if m.QuizzesErr != nil {
		return nil, "", m.QuizzesErr
	}
	items, next := paginate(m.Quizzes, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) GetQuiz(ctx context.Context, courseID, quizID int64) (*domain.Quiz, error) {
	m.mu.Lock()
	m.GetQuizCalls++
	m.mu.Unlock()
	if m.GetQuizErr != nil {
		return nil, m.GetQuizErr
	}
	for _, q := range m.Quizzes {
		if q.ID == quizID {
			quiz := q
			return &quiz, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCourseAPI) ListTopics(ctx context.Context, courseID int64, announcements bool, token driven.PageToken) ([]domain.DiscussionTopic, driven.PageToken, error) {
	if m.TopicsErr != nil {
		return nil, "", m.TopicsErr
	}
	var filtered []domain.DiscussionTopic
	for _, t := range m.Topics {
		if t.Announcement == announcements {
			// Lists carry no entry trees; GetFullTopic does
			stripped := t
			stripped.Entries = nil
			filtered = append(filtered, stripped)
		}
	}
	items, next := paginate(filtered, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) GetFullTopic(ctx context.Context, courseID, topicID int64) (*domain.DiscussionTopic, error) {
	if m.FullTopicErr != nil {
		return nil, m.FullTopicErr
	}
	for _, t := range m.Topics {
		if t.ID == topicID {
			topic := t
			return &topic, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockCourseAPI) ListConferences(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Conference, driven.PageToken, error) {
	if m.ConferencesErr != nil {
		return nil, "", m.ConferencesErr
	}
	items, next := paginate(m.Conferences, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) ListModules(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Module, driven.PageToken, error) {
	if m.ModulesErr != nil {
		return nil, "", m.ModulesErr
	}
	items, next := paginate(m.Modules, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) ListScheduleItems(ctx context.Context, courseID int64, itemType domain.ScheduleItemType, token driven.PageToken) ([]domain.ScheduleItem, driven.PageToken, error) {
	if m.ScheduleErr != nil {
		return nil, "", m.ScheduleErr
	}
	var filtered []domain.ScheduleItem
	for _, item := range m.Schedule {
		if item.Type == itemType {
			filtered = append(filtered, item)
		}
	}
	items, next := paginate(filtered, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) ListCourseUsers(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.CourseUser, driven.PageToken, error) {
	if m.UsersErr != nil {
		return nil, "", m.UsersErr
	}
	items, next := paginate(m.Users, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) ListFolders(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Folder, driven.PageToken, error) {
	if m.FoldersErr != nil {
		return nil, "", m.FoldersErr
	}
	items, next := paginate(m.Folders, m.PageSize, token)
	return items, next, nil
}

func (m *MockCourseAPI) ListFiles(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.File, driven.PageToken, error) {
	if m.FilesErr != nil {
		return nil, "", m.FilesErr
	}
	items, next := paginate(m.Files, m.PageSize, token)
	return items, next, nil
}
