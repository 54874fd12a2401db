package mocks

import (
	"context"
	"sync"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// MockCourseStore is a mock implementation of CourseStore for testing
type MockCourseStore struct {
	mu      sync.RWMutex
	courses map[int64]*domain.Course

	UpsertErr error
}

func NewMockCourseStore() *MockCourseStore {
	return &MockCourseStore{courses: make(map[int64]*domain.Course)}
}

func (m *MockCourseStore) Upsert(ctx context.Context, course *domain.Course) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *course
	m.courses[course.ID] = &c
	return nil
}

func (m *MockCourseStore) ByID(ctx context.Context, courseID int64) (*domain.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	course, ok := m.courses[courseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return course, nil
}

func (m *MockCourseStore) Delete(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.courses, courseID)
	return nil
}

// MockPageStore is a mock implementation of PageStore for testing
type MockPageStore struct {
	mu    sync.RWMutex
	pages map[int64][]domain.Page // keyed by course ID

	InsertAllErr error
	DeleteCalls  int
}

func NewMockPageStore() *MockPageStore {
	return &MockPageStore{pages: make(map[int64][]domain.Page)}
}

func (m *MockPageStore) InsertAll(ctx context.Context, pages []domain.Page) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range pages {
		m.pages[p.CourseID] = append(m.pages[p.CourseID], p)
	}
	return nil
}

func (m *MockPageStore) Upsert(ctx context.Context, page *domain.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing := m.pages[page.CourseID]
	for i, p := range existing {
		if p.URL == page.URL {
			existing[i] = *page
			return nil
		}
	}
	m.pages[page.CourseID] = append(existing, *page)
	return nil
}

func (m *MockPageStore) BySlug(ctx context.Context, courseID int64, slug string) (*domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.pages[courseID] {
		if p.URL == slug {
			page := p
			return &page, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPageStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Page(nil), m.pages[courseID]...), nil
}

func (m *MockPageStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, courseID)
	m.DeleteCalls++
	return nil
}

// MockAssignmentStore is a mock implementation of AssignmentStore for testing
type MockAssignmentStore struct {
	mu          sync.RWMutex
	assignments map[int64][]domain.Assignment

	InsertAllErr error
}

func NewMockAssignmentStore() *MockAssignmentStore {
	return &MockAssignmentStore{assignments: make(map[int64][]domain.Assignment)}
}

func (m *MockAssignmentStore) InsertAll(ctx context.Context, assignments []domain.Assignment) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range assignments {
		m.assignments[a.CourseID] = append(m.assignments[a.CourseID], a)
	}
	return nil
}

func (m *MockAssignmentStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Assignment(nil), m.assignments[courseID]...), nil
}

func (m *MockAssignmentStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, courseID)
	return nil
}

// MockQuizStore is a mock implementation of QuizStore for testing
type MockQuizStore struct {
	mu      sync.RWMutex
	quizzes map[int64][]domain.Quiz

	InsertAllErr error
	UpsertCalls  int
}

func NewMockQuizStore() *MockQuizStore {
	return &MockQuizStore{quizzes: make(map[int64][]domain.Quiz)}
}

func (m *MockQuizStore) InsertAll(ctx context.Context, quizzes []domain.Quiz) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range quizzes {
		m.quizzes[q.CourseID] = append(m.quizzes[q.CourseID], q)
	}
	return nil
}

func (m *MockQuizStore) Upsert(ctx context.Context, quiz *domain.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls++
	existing := m.quizzes[quiz.CourseID]
	for i, q := range existing {
		if q.ID == quiz.ID {
			existing[i] = *quiz
			return nil
		}
	}
	m.quizzes[quiz.CourseID] = append(existing, *quiz)
	return nil
}

func (m *MockQuizStore) ByID(ctx context.Context, quizID int64) (*domain.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, quizzes := range m.quizzes {
		for _, q := range quizzes {
			if q.ID == quizID {
				quiz := q
				return &quiz, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockQuizStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Quiz(nil), m.quizzes[courseID]...), nil
}

func (m *MockQuizStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.quizzes, courseID)
	return nil
}

func (m *MockQuizStore) DeleteByCourseExcept(ctx context.Context, courseID int64, keep []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]domain.Quiz, 0, len(keep))
	for _, q := range m.quizzes[courseID] {
		for _, id := range keep {
			if q.ID == id {
				kept = append(kept, q)
				break
			}
		}
	}
	if len(kept) == 0 {
		delete(m.quizzes, courseID)
		return nil
	}
	m.quizzes[courseID] = kept
	return nil
}

// MockDiscussionStore is a mock implementation of DiscussionStore for testing
type MockDiscussionStore struct {
	mu     sync.RWMutex
	topics map[int64][]domain.DiscussionTopic

	InsertAllErr error
}

func NewMockDiscussionStore() *MockDiscussionStore {
	return &MockDiscussionStore{topics: make(map[int64][]domain.DiscussionTopic)}
}

func (m *MockDiscussionStore) InsertAll(ctx context.Context, topics []domain.DiscussionTopic) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, topic := range topics {
		m.topics[topic.CourseID] = append(m.topics[topic.CourseID], topic)
	}
	return nil
}

func (m *MockDiscussionStore) ByCourse(ctx context.Context, courseID int64, announcements bool) ([]domain.DiscussionTopic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.DiscussionTopic
	for _, topic := range m.topics[courseID] {
		if topic.Announcement == announcements {
			result = append(result, topic)
		}
	}
	return result, nil
}

func (m *MockDiscussionStore) DeleteByCourse(ctx context.Context, courseID int64, announcements bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []domain.DiscussionTopic
	for _, topic := range m.topics[courseID] {
		if topic.Announcement != announcements {
			kept = append(kept, topic)
		}
	}
	m.topics[courseID] = kept
	return nil
}

// MockConferenceStore is a mock implementation of ConferenceStore for testing
type MockConferenceStore struct {
	mu          sync.RWMutex
	conferences map[int64][]domain.Conference

	InsertAllErr error
}

func NewMockConferenceStore() *MockConferenceStore {
	return &MockConferenceStore{conferences: make(map[int64][]domain.Conference)}
}

func (m *MockConferenceStore) InsertAll(ctx context.Context, conferences []domain.Conference) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range conferences {
		m.conferences[c.CourseID] = append(m.conferences[c.CourseID], c)
	}
	return nil
}

func (m *MockConferenceStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Conference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Conference(nil), m.conferences[courseID]...), nil
}

func (m *MockConferenceStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conferences, courseID)
	return nil
}

// MockModuleStore is a mock implementation of ModuleStore for testing
type MockModuleStore struct {
	mu      sync.RWMutex
	modules map[int64][]domain.Module

	InsertAllErr error
}

func NewMockModuleStore() *MockModuleStore {
	return &MockModuleStore{modules: make(map[int64][]domain.Module)}
}

func (m *MockModuleStore) InsertAll(ctx context.Context, modules []domain.Module) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mod := range modules {
		m.modules[mod.CourseID] = append(m.modules[mod.CourseID], mod)
	}
	return nil
}

func (m *MockModuleStore) ByCourse(ctx context.Context, courseID int64) ([]domain.Module, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Module(nil), m.modules[courseID]...), nil
}

func (m *MockModuleStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.modules, courseID)
	return nil
}

// MockScheduleStore is a mock implementation of ScheduleStore for testing
type MockScheduleStore struct {
	mu    sync.RWMutex
	items map[int64][]domain.ScheduleItem

	InsertAllErr error
}

func NewMockScheduleStore() *MockScheduleStore {
	return &MockScheduleStore{items: make(map[int64][]domain.ScheduleItem)}
}

func (m *MockScheduleStore) InsertAll(ctx context.Context, items []domain.ScheduleItem) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range items {
		m.items[item.CourseID] = append(m.items[item.CourseID], item)
	}
	return nil
}

func (m *MockScheduleStore) ByCourse(ctx context.Context, courseID int64) ([]domain.ScheduleItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.ScheduleItem(nil), m.items[courseID]...), nil
}

func (m *MockScheduleStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, courseID)
	return nil
}

// MockCourseUserStore is a mock implementation of CourseUserStore for testing
type MockCourseUserStore struct {
	mu    sync.RWMutex
	users map[int64][]domain.CourseUser

	InsertAllErr error
}

func NewMockCourseUserStore() *MockCourseUserStore {
	return &MockCourseUserStore{users: make(map[int64][]domain.CourseUser)}
}

func (m *MockCourseUserStore) InsertAll(ctx context.Context, users []domain.CourseUser) error {
	if m.InsertAllErr != nil {
		return m.InsertAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range users {
		m.users[u.CourseID] = append(m.users[u.CourseID], u)
	}
	return nil
}

func (m *MockCourseUserStore) ByCourse(ctx context.Context, courseID int64) ([]domain.CourseUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CourseUser(nil), m.users[courseID]...), nil
}

func (m *MockCourseUserStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, courseID)
	return nil
}

// MockFileStore is a mock implementation of FileStore for testing
type MockFileStore struct {
	mu      sync.RWMutex
	folders map[int64][]domain.Folder
	files   map[int64][]domain.File

	ReplaceTreeErr   error
	ReplaceTreeCalls int
}

func NewMockFileStore() *MockFileStore {
	return &MockFileStore{
		folders: make(map[int64][]domain.Folder),
		files:   make(map[int64][]domain.File),
	}
}

func (m *MockFileStore) ReplaceTree(ctx context.Context, courseID int64, folders []domain.Folder, files []domain.File) error {
	if m.ReplaceTreeErr != nil {
		return m.ReplaceTreeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceTreeCalls++
	m.folders[courseID] = append([]domain.Folder(nil), folders...)
	m.files[courseID] = append([]domain.File(nil), files...)
	return nil
}

func (m *MockFileStore) FileByID(ctx context.Context, fileID int64) (*domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, files := range m.files {
		for _, f := range files {
			if f.ID == fileID {
				file := f
				return &file, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockFileStore) FilesByCourse(ctx context.Context, courseID int64) ([]domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.File(nil), m.files[courseID]...), nil
}

func (m *MockFileStore) FoldersByCourse(ctx context.Context, courseID int64) ([]domain.Folder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Folder(nil), m.folders[courseID]...), nil
}

func (m *MockFileStore) DeleteByCourse(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.folders, courseID)
	delete(m.files, courseID)
	return nil
}
