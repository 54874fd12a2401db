package domain

import "time"

// TabID identifies a selectable content category for offline sync.
type TabID string

const (
	TabPages         TabID = "pages"
	TabAssignments   TabID = "assignments"
	TabQuizzes       TabID = "quizzes"
	TabDiscussions   TabID = "discussions"
	TabAnnouncements TabID = "announcements"
	TabModules       TabID = "modules"
	TabConferences   TabID = "conferences"
	TabSyllabus      TabID = "syllabus"
	TabPeople        TabID = "people"
	TabFiles         TabID = "files"
)

// TabLabels maps tab identifiers to their human-readable labels.
var TabLabels = map[TabID]string{
	TabPages:         "Pages",
	TabAssignments:   "Assignments",
	TabQuizzes:       "Quizzes",
	TabDiscussions:   "Discussions",
	TabAnnouncements: "Announcements",
	TabModules:       "Modules",
	TabConferences:   "Conferences",
	TabSyllabus:      "Syllabus",
	TabPeople:        "People",
	TabFiles:         "Files",
}

// LabelFor returns the display label for a tab, falling back to the raw ID.
func LabelFor(tab TabID) string {
	if label, ok := TabLabels[tab]; ok {
		return label
	}
	return string(tab)
}

// SyncSettings describes what the course owner selected for offline
// availability. It is supplied by the caller and read-only to the sync job.
type SyncSettings struct {
	CourseID   int64          `json:"course_id"`
	CourseName string         `json:"course_name"`

	// Tabs maps tab IDs to whether they are selected for sync
	Tabs map[TabID]bool `json:"tabs"`

	// FullFileSync requests download of every course file
	FullFileSync bool `json:"full_file_sync"`

	// FileIDs lists explicitly selected files (ignored when FullFileSync)
	FileIDs []int64 `json:"file_ids,omitempty"`

	// WifiOnly restricts binary downloads to unmetered connections
	WifiOnly bool `json:"wifi_only"`

	// RefreshInterval is how often the scheduler re-enqueues a sync.
	// Zero means manual sync only.
	RefreshInterval time.Duration `json:"refresh_interval,omitempty"`

	// LastSyncedAt is when the last sync run finished (any outcome)
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// TabSelected reports whether a tab is selected for sync.
func (s *SyncSettings) TabSelected(tab TabID) bool {
	return s.Tabs[tab]
}

// FileSelected reports whether a specific file is covered by the settings,
// either through full-file sync or an explicit selection.
func (s *SyncSettings) FileSelected(fileID int64) bool {
	if s.FullFileSync {
		return true
	}
	for _, id := range s.FileIDs {
		if id == fileID {
			return true
		}
	}
	return false
}

// FileSyncRequested reports whether any binary file work is requested.
func (s *SyncSettings) FileSyncRequested() bool {
	return s.FullFileSync || len(s.FileIDs) > 0
}

// RefreshDue reports whether a scheduled re-sync is due at the given time.
func (s *SyncSettings) RefreshDue(now time.Time) bool {
	if s.RefreshInterval <= 0 {
		return false
	}
	if s.LastSyncedAt == nil {
		return true
	}
	return now.Sub(*s.LastSyncedAt) >= s.RefreshInterval
}

// SyncState represents the state of a sync run or a single tab within it.
type SyncState string

const (
	SyncStateStarting   SyncState = "starting"
	SyncStateInProgress SyncState = "in_progress"
	SyncStateCompleted  SyncState = "completed"
	SyncStateError      SyncState = "error"
)

// TabProgress is the per-tab slice of a sync run's progress record.
type TabProgress struct {
	Label string    `json:"label"`
	State SyncState `json:"state"`
}

// SyncProgress is the persisted, UI-pollable progress record for one course.
// It is created once per run if absent and overwritten on the next run;
// the sync job never deletes it.
type SyncProgress struct {
	CourseID  int64                   `json:"course_id"`
	JobID     string                  `json:"job_id"`
	State     SyncState               `json:"state"`
	Tabs      map[TabID]TabProgress   `json:"tabs"`
	StartedAt time.Time               `json:"started_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// NewSyncProgress creates a fresh progress record for a run.
func NewSyncProgress(courseID int64, jobID string) *SyncProgress {
	now := time.Now()
	return &SyncProgress{
		CourseID:  courseID,
		JobID:     jobID,
		State:     SyncStateStarting,
		Tabs:      make(map[TabID]TabProgress),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// SetTabState updates the state of the given tabs, preserving labels.
func (p *SyncProgress) SetTabState(state SyncState, tabs ...TabID) {
	if p.Tabs == nil {
		p.Tabs = make(map[TabID]TabProgress)
	}
	for _, tab := range tabs {
		tp, ok := p.Tabs[tab]
		if !ok {
			tp = TabProgress{Label: LabelFor(tab)}
		}
		tp.State = state
		p.Tabs[tab] = tp
	}
	p.UpdatedAt = time.Now()
}

// Rollup derives the overall state from the per-tab states: Error if any
// tab ended in Error, Completed otherwise.
func (p *SyncProgress) Rollup() SyncState {
	for _, tp := range p.Tabs {
		if tp.State == SyncStateError {
			return SyncStateError
		}
	}
	return SyncStateCompleted
}

// SyncResult summarizes the outcome of one sync run.
type SyncResult struct {
	CourseID int64     `json:"course_id"`
	JobID    string    `json:"job_id"`
	State    SyncState `json:"state"`
	Error    string    `json:"error,omitempty"`
	Duration float64   `json:"duration_seconds"`
}
