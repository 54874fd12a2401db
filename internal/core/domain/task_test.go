package domain

import (
	"testing"
	"time"
)

func TestNewCourseSyncTask(t *testing.T) {
	task := NewCourseSyncTask(42, true)

	if task.Type != TaskTypeSyncCourse {
		t.Errorf("type = %s, want sync_course", task.Type)
	}
	if task.CourseID() != 42 {
		t.Errorf("CourseID() = %d, want 42", task.CourseID())
	}
	if !task.WifiOnly() {
		t.Error("expected wifi_only flag to round-trip")
	}
	if task.Status != TaskStatusPending {
		t.Errorf("status = %s, want pending", task.Status)
	}
	if task.ID == "" {
		t.Error("expected a generated ID")
	}
}

func TestTask_CourseID_Malformed(t *testing.T) {
	task := NewTask(TaskTypeSyncCourse, map[string]string{"course_id": "abc"})
	if task.CourseID() != 0 {
		t.Errorf("CourseID() = %d, want 0 for malformed payload", task.CourseID())
	}

	task = NewTask(TaskTypeSyncCourse, nil)
	if task.CourseID() != 0 {
		t.Error("expected 0 for nil payload")
	}
}

func TestTask_Lifecycle(t *testing.T) {
	task := NewCourseSyncTask(1, false)

	if !task.IsReady() {
		t.Error("new task should be ready")
	}
	if !task.CanRetry() {
		t.Error("new task should be retryable")
	}

	task.MarkProcessing()
	if task.Status != TaskStatusProcessing {
		t.Errorf("status = %s, want processing", task.Status)
	}
	if task.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", task.Attempts)
	}
	if task.StartedAt == nil {
		t.Error("expected StartedAt to be set")
	}

	task.MarkCompleted()
	if task.Status != TaskStatusCompleted {
		t.Errorf("status = %s, want completed", task.Status)
	}
	if task.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}

	task.MarkFailed("boom")
	if task.Status != TaskStatusFailed || task.Error != "boom" {
		t.Errorf("status = %s error = %q, want failed/boom", task.Status, task.Error)
	}
}

func TestTask_IsReady_Delayed(t *testing.T) {
	task := NewCourseSyncTask(1, false)
	task.ScheduledFor = time.Now().Add(time.Hour)
	if task.IsReady() {
		t.Error("delayed task should not be ready")
	}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID()
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
