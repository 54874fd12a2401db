package services

import (
	"context"
	"errors"
	"testing"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven/mocks"
)

func createTestSyncAdmin(t *testing.T) (*SyncAdmin, *mocks.MockSyncSettingsStore, *mocks.MockSyncProgressStore, *mocks.MockTaskQueue) {
	t.Helper()
	settings := mocks.NewMockSyncSettingsStore()
	progress := mocks.NewMockSyncProgressStore()
	queue := mocks.NewMockTaskQueue()
	admin := NewSyncAdmin(SyncAdminConfig{
		Settings: settings,
		Progress: progress,
		Queue:    queue,
	})
	return admin, settings, progress, queue
}

func TestRequestSync(t *testing.T) {
	admin, settings, _, queue := createTestSyncAdmin(t)

	err := settings.Save(context.Background(), &domain.SyncSettings{
		CourseID: 42,
		Tabs:     map[domain.TabID]bool{domain.TabPages: true},
	})
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}

	task, err := admin.RequestSync(context.Background(), 42, true)
	if err != nil {
		t.Fatalf("request sync: %v", err)
	}
	if task.Type != domain.TaskTypeSyncCourse {
		t.Errorf("expected sync_course task, got %q", task.Type)
	}
	if task.CourseID() != 42 || !task.WifiOnly() {
		t.Errorf("unexpected payload: %+v", task.Payload)
	}
	if queue.PendingCount() != 1 {
		t.Errorf("expected 1 pending task, got %d", queue.PendingCount())
	}
}

func TestRequestSync_NoSettings(t *testing.T) {
	admin, _, _, queue := createTestSyncAdmin(t)

	_, err := admin.RequestSync(context.Background(), 42, false)
	if !errors.Is(err, domain.ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}
	if queue.PendingCount() != 0 {
		t.Errorf("expected nothing enqueued, got %d", queue.PendingCount())
	}
}

func TestRequestSync_InvalidCourseID(t *testing.T) {
	admin, _, _, _ := createTestSyncAdmin(t)

	_, err := admin.RequestSync(context.Background(), 0, false)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSaveSettings(t *testing.T) {
	admin, settings, _, _ := createTestSyncAdmin(t)

	err := admin.SaveSettings(context.Background(), &domain.SyncSettings{
		CourseID: 42,
		Tabs:     map[domain.TabID]bool{domain.TabPages: true, domain.TabFiles: true},
	})
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}

	saved, err := settings.ByCourse(context.Background(), 42)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if !saved.TabSelected(domain.TabPages) {
		t.Error("expected pages tab selected")
	}
}

func TestSaveSettings_UnknownTab(t *testing.T) {
	admin, _, _, _ := createTestSyncAdmin(t)

	err := admin.SaveSettings(context.Background(), &domain.SyncSettings{
		CourseID: 42,
		Tabs:     map[domain.TabID]bool{"grades": true},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown tab, got %v", err)
	}
}

func TestDeleteSettings(t *testing.T) {
	admin, settings, progress, _ := createTestSyncAdmin(t)

	_ = settings.Save(context.Background(), &domain.SyncSettings{CourseID: 42})
	_ = progress.Save(context.Background(), domain.NewSyncProgress(42, "job-1"))

	if err := admin.DeleteSettings(context.Background(), 42); err != nil {
		t.Fatalf("delete settings: %v", err)
	}

	if _, err := settings.ByCourse(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Error("expected settings removed")
	}
	if _, err := progress.ByCourse(context.Background(), 42); !errors.Is(err, domain.ErrNotFound) {
		t.Error("expected progress removed alongside settings")
	}
}

func TestTaskStatus(t *testing.T) {
	admin, settings, _, _ := createTestSyncAdmin(t)

	_ = settings.Save(context.Background(), &domain.SyncSettings{
		CourseID: 42,
		Tabs:     map[domain.TabID]bool{domain.TabPages: true},
	})
	task, err := admin.RequestSync(context.Background(), 42, false)
	if err != nil {
		t.Fatalf("request sync: %v", err)
	}

	got, err := admin.TaskStatus(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("task status: %v", err)
	}
	if got.Status != domain.TaskStatusPending {
		t.Errorf("expected pending task, got %q", got.Status)
	}

	if _, err := admin.TaskStatus(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown task, got %v", err)
	}
}
