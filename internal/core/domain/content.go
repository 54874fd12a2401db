package domain

import "time"

// Page is a wiki page within a course.
type Page struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	URL       string    `json:"url"` // slug, unique within the course
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	FrontPage bool      `json:"front_page"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assignment is a gradeable course task.
type Assignment struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"course_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	PointsTotal float64    `json:"points_possible"`
	// QuizID links quiz-backed assignments to their quiz record
	QuizID    int64     `json:"quiz_id,omitempty"`
	HTMLURL   string    `json:"html_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quiz is a course quiz. Quizzes reach the cache through two paths:
// embedded in quiz-backed assignments, and the standalone Quizzes tab.
type Quiz struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	QuestionCnt int        `json:"question_count"`
	HTMLURL     string     `json:"html_url,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DiscussionTopic is a discussion or announcement. Announcements share the
// shape but live under their own tab.
type DiscussionTopic struct {
	ID           int64             `json:"id"`
	CourseID     int64             `json:"course_id"`
	Title        string            `json:"title"`
	Message      string            `json:"message,omitempty"`
	Announcement bool              `json:"announcement"`
	PostedAt     *time.Time        `json:"posted_at,omitempty"`
	Entries      []DiscussionEntry `json:"entries,omitempty"`
}

// DiscussionEntry is one reply in a topic. Replies nest to arbitrary depth.
type DiscussionEntry struct {
	ID      int64             `json:"id"`
	UserID  int64             `json:"user_id"`
	Message string            `json:"message,omitempty"`
	Replies []DiscussionEntry `json:"replies,omitempty"`
}

// Conference is a scheduled web conference attached to a course.
type Conference struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"course_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

// ModuleItemType identifies what a module item points at.
type ModuleItemType string

const (
	ModuleItemPage        ModuleItemType = "page"
	ModuleItemFile        ModuleItemType = "file"
	ModuleItemQuiz        ModuleItemType = "quiz"
	ModuleItemAssignment  ModuleItemType = "assignment"
	ModuleItemDiscussion  ModuleItemType = "discussion"
	ModuleItemExternalURL ModuleItemType = "external_url"
)

// Module is an ordered grouping of course content.
type Module struct {
	ID       int64        `json:"id"`
	CourseID int64        `json:"course_id"`
	Name     string       `json:"name"`
	Position int          `json:"position"`
	Items    []ModuleItem `json:"items,omitempty"`
}

// ModuleItem is a single entry inside a module. Depending on Type it
// references a page (by slug), a file, a quiz, or an external URL.
type ModuleItem struct {
	ID          int64          `json:"id"`
	ModuleID    int64          `json:"module_id"`
	Title       string         `json:"title"`
	Type        ModuleItemType `json:"type"`
	ContentID   int64          `json:"content_id,omitempty"` // file/quiz/assignment ID
	PageURL     string         `json:"page_url,omitempty"`   // page slug
	ExternalURL string         `json:"external_url,omitempty"`
	Position    int            `json:"position"`
}

// ScheduleItemType distinguishes plain calendar events from
// assignment-backed ones on the syllabus.
type ScheduleItemType string

const (
	ScheduleItemEvent      ScheduleItemType = "event"
	ScheduleItemAssignment ScheduleItemType = "assignment"
)

// ScheduleItem is a syllabus calendar entry.
type ScheduleItem struct {
	ID           int64            `json:"id"`
	CourseID     int64            `json:"course_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description,omitempty"`
	Type         ScheduleItemType `json:"type"`
	StartAt      *time.Time       `json:"start_at,omitempty"`
	AssignmentID int64            `json:"assignment_id,omitempty"`
}
