package domain

import (
	"testing"
	"time"
)

func TestSyncSettings_TabSelected(t *testing.T) {
	s := &SyncSettings{
		CourseID: 1,
		Tabs: map[TabID]bool{
			TabPages:   true,
			TabQuizzes: false,
		},
	}

	if !s.TabSelected(TabPages) {
		t.Error("expected pages to be selected")
	}
	if s.TabSelected(TabQuizzes) {
		t.Error("expected quizzes to be deselected")
	}
	if s.TabSelected(TabModules) {
		t.Error("expected unknown tab to be deselected")
	}
}

func TestSyncSettings_FileSelected(t *testing.T) {
	tests := []struct {
		name     string
		settings SyncSettings
		fileID   int64
		want     bool
	}{
		{
			name:     "full file sync covers everything",
			settings: SyncSettings{FullFileSync: true},
			fileID:   42,
			want:     true,
		},
		{
			name:     "explicit selection",
			settings: SyncSettings{FileIDs: []int64{7, 42}},
			fileID:   42,
			want:     true,
		},
		{
			name:     "not selected",
			settings: SyncSettings{FileIDs: []int64{7}},
			fileID:   42,
			want:     false,
		},
		{
			name:     "no file sync at all",
			settings: SyncSettings{},
			fileID:   42,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.FileSelected(tt.fileID); got != tt.want {
				t.Errorf("FileSelected(%d) = %v, want %v", tt.fileID, got, tt.want)
			}
		})
	}
}

func TestSyncSettings_FileSyncRequested(t *testing.T) {
	if (&SyncSettings{}).FileSyncRequested() {
		t.Error("expected no file sync requested")
	}
	if !(&SyncSettings{FullFileSync: true}).FileSyncRequested() {
		t.Error("expected file sync requested for full sync")
	}
	if !(&SyncSettings{FileIDs: []int64{1}}).FileSyncRequested() {
		t.Error("expected file sync requested for explicit selection")
	}
}

func TestSyncSettings_RefreshDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-2 * time.Hour)

	s := &SyncSettings{}
	if s.RefreshDue(now) {
		t.Error("zero interval should never be due")
	}

	s = &SyncSettings{RefreshInterval: time.Hour}
	if !s.RefreshDue(now) {
		t.Error("never-synced course with interval should be due")
	}

	s = &SyncSettings{RefreshInterval: time.Hour, LastSyncedAt: &past}
	if !s.RefreshDue(now) {
		t.Error("course synced 2h ago with 1h interval should be due")
	}

	s = &SyncSettings{RefreshInterval: 3 * time.Hour, LastSyncedAt: &past}
	if s.RefreshDue(now) {
		t.Error("course synced 2h ago with 3h interval should not be due")
	}
}

func TestSyncProgress_SetTabState(t *testing.T) {
	p := NewSyncProgress(1, "job-1")

	p.SetTabState(SyncStateInProgress, TabPages, TabModules)

	if p.Tabs[TabPages].State != SyncStateInProgress {
		t.Errorf("pages state = %s, want in_progress", p.Tabs[TabPages].State)
	}
	if p.Tabs[TabPages].Label != "Pages" {
		t.Errorf("pages label = %q, want Pages", p.Tabs[TabPages].Label)
	}

	// Label survives a state transition
	p.SetTabState(SyncStateCompleted, TabPages)
	if p.Tabs[TabPages].Label != "Pages" {
		t.Error("label should be preserved across state updates")
	}
	if p.Tabs[TabPages].State != SyncStateCompleted {
		t.Error("expected pages to be completed")
	}
	if p.Tabs[TabModules].State != SyncStateInProgress {
		t.Error("modules state should be untouched")
	}
}

func TestSyncProgress_Rollup(t *testing.T) {
	p := NewSyncProgress(1, "job-1")
	p.SetTabState(SyncStateCompleted, TabPages, TabModules)

	if got := p.Rollup(); got != SyncStateCompleted {
		t.Errorf("Rollup() = %s, want completed", got)
	}

	p.SetTabState(SyncStateError, TabModules)
	if got := p.Rollup(); got != SyncStateError {
		t.Errorf("Rollup() = %s, want error", got)
	}
}

func TestLabelFor_UnknownTab(t *testing.T) {
	if got := LabelFor(TabID("custom")); got != "custom" {
		t.Errorf("LabelFor(custom) = %q, want raw ID", got)
	}
}
