package worker

import (
	"context"
	"testing"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven/mocks"
	"github.com/campus-labs/studysync-core/internal/core/services"
)

type workerFixture struct {
	worker   *Worker
	queue    *mocks.MockTaskQueue
	api      *mocks.MockCourseAPI
	settings *mocks.MockSyncSettingsStore
	progress *mocks.MockSyncProgressStore
	pages    *mocks.MockPageStore
}

func newWorkerFixture(t *testing.T) *workerFixture {
	t.Helper()

	queue := mocks.NewMockTaskQueue()
	api := mocks.NewMockCourseAPI()
	settings := mocks.NewMockSyncSettingsStore()
	progress := mocks.NewMockSyncProgressStore()
	pages := mocks.NewMockPageStore()

	api.Course = &domain.Course{ID: 42, Name: "Intro to Go"}

	orchestrator := services.NewSyncOrchestrator(services.SyncOrchestratorConfig{
		API:         api.Bundle(),
		Settings:    settings,
		Progress:    progress,
		Courses:     mocks.NewMockCourseStore(),
		Pages:       pages,
		Assignments: mocks.NewMockAssignmentStore(),
		Quizzes:     mocks.NewMockQuizStore(),
		Discussions: mocks.NewMockDiscussionStore(),
		Conferences: mocks.NewMockConferenceStore(),
		Modules:     mocks.NewMockModuleStore(),
		Schedule:    mocks.NewMockScheduleStore(),
		Users:       mocks.NewMockCourseUserStore(),
		Files:       mocks.NewMockFileStore(),
		Rewriter:    mocks.NewMockHTMLRewriter(),
		FileSync:    mocks.NewMockFileSync(),
		Lock:        mocks.NewMockDistributedLock(),
		Reporter:    mocks.NewMockErrorReporter(),
	})

	worker := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Orchestrator:   orchestrator,
		Concurrency:    1,
		DequeueTimeout: 1,
	})

	return &workerFixture{
		worker:   worker,
		queue:    queue,
		api:      api,
		settings: settings,
		progress: progress,
		pages:    pages,
	}
}

func (f *workerFixture) saveSettings(t *testing.T) {
	t.Helper()
	err := f.settings.Save(context.Background(), &domain.SyncSettings{
		CourseID: 42,
		Tabs:     map[domain.TabID]bool{domain.TabPages: true},
	})
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}
}

// runTask enqueues, dequeues and processes a single task synchronously.
func (f *workerFixture) runTask(t *testing.T, task *domain.Task) {
	t.Helper()
	ctx := context.Background()
	if err := f.queue.Enqueue(ctx, task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	dequeued, err := f.queue.Dequeue(ctx)
	if err != nil || dequeued == nil {
		t.Fatalf("dequeue: task=%v err=%v", dequeued, err)
	}
	f.worker.processTask(ctx, dequeued, f.worker.logger)
}

func (f *workerFixture) taskStatus(t *testing.T, taskID string) domain.TaskStatus {
	t.Helper()
	task, err := f.queue.GetTask(context.Background(), taskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	return task.Status
}

func TestProcessTask_Success(t *testing.T) {
	f := newWorkerFixture(t)
	f.saveSettings(t)
	f.api.Pages = []domain.Page{{ID: 1, URL: "welcome"}}

	task := domain.NewCourseSyncTask(42, false)
	f.runTask(t, task)

	if got := f.taskStatus(t, task.ID); got != domain.TaskStatusCompleted {
		t.Errorf("expected completed task, got %q", got)
	}
	pages, _ := f.pages.ByCourse(context.Background(), 42)
	if len(pages) != 1 {
		t.Errorf("expected synced page, got %d", len(pages))
	}
}

func TestProcessTask_PartialFailureStillAcks(t *testing.T) {
	f := newWorkerFixture(t)
	f.saveSettings(t)
	f.api.ListPagesErr = context.DeadlineExceeded

	task := domain.NewCourseSyncTask(42, false)
	f.runTask(t, task)

	// The category failed but the run finished; no retry would help
	if got := f.taskStatus(t, task.ID); got != domain.TaskStatusCompleted {
		t.Errorf("expected ack despite category failure, got %q", got)
	}
}

func TestProcessTask_MissingSettingsRejected(t *testing.T) {
	f := newWorkerFixture(t)
	// No settings saved

	task := domain.NewCourseSyncTask(42, false)
	f.runTask(t, task)

	if got := f.taskStatus(t, task.ID); got != domain.TaskStatusFailed {
		t.Errorf("expected rejected task, got %q", got)
	}
	if f.queue.PendingCount() != 0 {
		t.Errorf("expected no requeue for terminal failure, got %d pending", f.queue.PendingCount())
	}
}

func TestProcessTask_TransientFailureRetried(t *testing.T) {
	f := newWorkerFixture(t)
	f.saveSettings(t)
	f.api.GetCourseErr = context.DeadlineExceeded

	task := domain.NewCourseSyncTask(42, false)
	f.runTask(t, task)

	// Course fetch failures are transient: the task goes back to pending
	if got := f.taskStatus(t, task.ID); got != domain.TaskStatusPending {
		t.Errorf("expected requeued task, got %q", got)
	}
	if f.queue.PendingCount() != 1 {
		t.Errorf("expected 1 pending retry, got %d", f.queue.PendingCount())
	}
}

func TestProcessTask_UnknownType(t *testing.T) {
	f := newWorkerFixture(t)

	task := domain.NewTask("reindex", nil)
	f.runTask(t, task)

	if got := f.taskStatus(t, task.ID); got != domain.TaskStatusPending {
		t.Errorf("expected nack for unknown type, got %q", got)
	}
}

func TestProcessTask_MissingCourseID(t *testing.T) {
	f := newWorkerFixture(t)

	task := domain.NewTask(domain.TaskTypeSyncCourse, map[string]string{})
	f.runTask(t, task)

	if got := f.taskStatus(t, task.ID); got != domain.TaskStatusPending {
		t.Errorf("expected nack for malformed payload, got %q", got)
	}
}

func TestWorker_StartStop(t *testing.T) {
	f := newWorkerFixture(t)
	f.saveSettings(t)
	f.api.Pages = []domain.Page{{ID: 1, URL: "welcome"}}

	task := domain.NewCourseSyncTask(42, false)
	if err := f.queue.Enqueue(context.Background(), task); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if err := f.worker.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Wait for the enqueued task to be picked up
	deadline := time.After(3 * time.Second)
	for f.taskStatus(t, task.ID) != domain.TaskStatusCompleted {
		select {
		case <-deadline:
			t.Fatalf("task not processed before deadline, status %q", f.taskStatus(t, task.ID))
		case <-time.After(20 * time.Millisecond):
		}
	}

	f.worker.Stop()

	health := f.worker.Health(context.Background())
	if health.Running {
		t.Error("expected worker reported as stopped")
	}
	if !health.QueueHealth {
		t.Error("expected healthy queue")
	}
}
