package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// MockHTMLRewriter is a mock implementation of HTMLRewriter for testing.
// Results maps input HTML to a canned rewrite result; unmapped input
// passes through unchanged with no references.
type MockHTMLRewriter struct {
	mu      sync.Mutex
	Results map[string]*driven.RewriteResult

	RewriteErr error
	Calls      []string
}

func NewMockHTMLRewriter() *MockHTMLRewriter {
	return &MockHTMLRewriter{Results: make(map[string]*driven.RewriteResult)}
}

func (m *MockHTMLRewriter) Rewrite(ctx context.Context, courseID int64, html string) (*driven.RewriteResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, html)
	m.mu.Unlock()
	if m.RewriteErr != nil {
		return nil, m.RewriteErr
	}
	if result, ok := m.Results[html]; ok {
		r := *result
		return &r, nil
	}
	return &driven.RewriteResult{HTML: html}, nil
}

// MockFileSync is a mock implementation of FileSync for testing
type MockFileSync struct {
	mu sync.Mutex

	SyncCourseFilesErr error
	SyncAdditionalErr  error

	CourseFilesCalls int
	AdditionalCalls  int

	// Captured arguments of the last SyncAdditional call
	LastFileIDs []int64
	LastURLs    []string
}

func NewMockFileSync() *MockFileSync {
	return &MockFileSync{}
}

func (m *MockFileSync) SyncCourseFiles(ctx context.Context, settings *domain.SyncSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CourseFilesCalls++
	return m.SyncCourseFilesErr
}

func (m *MockFileSync) SyncAdditional(ctx context.Context, courseID int64, fileIDs []int64, urls []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AdditionalCalls++
	m.LastFileIDs = append([]int64(nil), fileIDs...)
	m.LastURLs = append([]string(nil), urls...)
	return m.SyncAdditionalErr
}

// MockErrorReporter is a mock implementation of ErrorReporter for testing
type MockErrorReporter struct {
	mu       sync.Mutex
	Reported []error
}

func NewMockErrorReporter() *MockErrorReporter {
	return &MockErrorReporter{}
}

func (m *MockErrorReporter) Report(err error, extras map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reported = append(m.Reported, err)
}

func (m *MockErrorReporter) Wait() {}

func (m *MockErrorReporter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Reported)
}

// MockDistributedLock is a mock implementation of DistributedLock for testing
type MockDistributedLock struct {
	mu    sync.Mutex
	held  map[string]bool

	AcquireErr    error
	AcquireDenied bool
}

func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{held: make(map[string]bool)}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	if m.AcquireDenied {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	return nil
}

func (m *MockDistributedLock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return nil
}

// Held reports whether a named lock is currently held.
func (m *MockDistributedLock) Held(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[name]
}

// MockTaskQueue is a slice-backed mock implementation of TaskQueue for testing
type MockTaskQueue struct {
	mu      sync.Mutex
	pending []*domain.Task
	tasks   map[string]*domain.Task

	EnqueueErr error
}

func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{tasks: make(map[string]*domain.Task)}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task *domain.Task) error {
	if m.EnqueueErr != nil {
		return m.EnqueueErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, task)
	m.tasks[task.ID] = task
	return nil
}

func (m *MockTaskQueue) Dequeue(ctx context.Context) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.pending) == 0 {
		return nil, nil
	}
	task := m.pending[0]
	m.pending = m.pending[1:]
	task.MarkProcessing()
	return task, nil
}

func (m *MockTaskQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	return m.Dequeue(ctx)
}

func (m *MockTaskQueue) Ack(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[taskID]; ok {
		task.MarkCompleted()
	}
	return nil
}

func (m *MockTaskQueue) Nack(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return domain.ErrNotFound
	}
	if task.CanRetry() {
		task.Status = domain.TaskStatusPending
		task.Error = reason
		m.pending = append(m.pending, task)
	} else {
		task.MarkFailed(reason)
	}
	return nil
}

func (m *MockTaskQueue) Reject(ctx context.Context, taskID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[taskID]; ok {
		task.MarkFailed(reason)
	}
	return nil
}

func (m *MockTaskQueue) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

func (m *MockTaskQueue) Stats(ctx context.Context) (*driven.QueueStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &driven.QueueStats{PendingCount: int64(len(m.pending))}
	for _, t := range m.tasks {
		switch t.Status {
		case domain.TaskStatusProcessing:
			stats.ProcessingCount++
		case domain.TaskStatusCompleted:
			stats.CompletedCount++
		case domain.TaskStatusFailed:
			stats.FailedCount++
		}
	}
	return stats, nil
}

func (m *MockTaskQueue) Ping(ctx context.Context) error { return nil }

func (m *MockTaskQueue) Close() error { return nil }

// PendingCount returns the number of pending tasks.
func (m *MockTaskQueue) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
