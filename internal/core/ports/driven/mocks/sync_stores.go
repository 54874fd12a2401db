package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
)

// MockSyncSettingsStore is a mock implementation of SyncSettingsStore for testing
type MockSyncSettingsStore struct {
	mu       sync.RWMutex
	settings map[int64]*domain.SyncSettings
}

func NewMockSyncSettingsStore() *MockSyncSettingsStore {
	return &MockSyncSettingsStore{settings: make(map[int64]*domain.SyncSettings)}
}

func (m *MockSyncSettingsStore) Save(ctx context.Context, settings *domain.SyncSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *settings
	m.settings[settings.CourseID] = &s
	return nil
}

func (m *MockSyncSettingsStore) ByCourse(ctx context.Context, courseID int64) (*domain.SyncSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	settings, ok := m.settings[courseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s := *settings
	return &s, nil
}

func (m *MockSyncSettingsStore) List(ctx context.Context) ([]domain.SyncSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []domain.SyncSettings
	for _, s := range m.settings {
		result = append(result, *s)
	}
	return result, nil
}

func (m *MockSyncSettingsStore) Delete(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, courseID)
	return nil
}

func (m *MockSyncSettingsStore) DueForRefresh(ctx context.Context, now time.Time) ([]domain.SyncSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []domain.SyncSettings
	for _, s := range m.settings {
		if s.RefreshDue(now) {
			due = append(due, *s)
		}
	}
	return due, nil
}

func (m *MockSyncSettingsStore) TouchSynced(ctx context.Context, courseID int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settings[courseID]; ok {
		t := at
		s.LastSyncedAt = &t
	}
	return nil
}

// MockSyncProgressStore is a mock implementation of SyncProgressStore for testing
type MockSyncProgressStore struct {
	mu       sync.RWMutex
	progress map[int64]*domain.SyncProgress

	SaveErr   error
	SaveCalls int
}

func NewMockSyncProgressStore() *MockSyncProgressStore {
	return &MockSyncProgressStore{progress: make(map[int64]*domain.SyncProgress)}
}

func (m *MockSyncProgressStore) Save(ctx context.Context, progress *domain.SyncProgress) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	p := *progress
	p.Tabs = make(map[domain.TabID]domain.TabProgress, len(progress.Tabs))
	for k, v := range progress.Tabs {
		p.Tabs[k] = v
	}
	m.progress[progress.CourseID] = &p
	return nil
}

func (m *MockSyncProgressStore) ByCourse(ctx context.Context, courseID int64) (*domain.SyncProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	progress, ok := m.progress[courseID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := *progress
	p.Tabs = make(map[domain.TabID]domain.TabProgress, len(progress.Tabs))
	for k, v := range progress.Tabs {
		p.Tabs[k] = v
	}
	return &p, nil
}

func (m *MockSyncProgressStore) Delete(ctx context.Context, courseID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.progress, courseID)
	return nil
}
