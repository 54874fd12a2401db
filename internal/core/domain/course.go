package domain

import "time"

// Course is the remote course record cached locally for offline use.
type Course struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	CourseCode   string       `json:"course_code"`
	SyllabusBody string       `json:"syllabus_body,omitempty"`
	Tabs         []Tab        `json:"tabs,omitempty"`
	Enrollments  []Enrollment `json:"enrollments,omitempty"`
	TermName     string       `json:"term_name,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// HasTab reports whether the course exposes the given tab.
func (c *Course) HasTab(tab TabID) bool {
	for _, t := range c.Tabs {
		if t.ID == tab && !t.Hidden {
			return true
		}
	}
	return false
}

// Tab is a navigation tab exposed by the remote course.
type Tab struct {
	ID     TabID  `json:"id"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden"`
}

// Enrollment is the calling user's enrollment in the course.
type Enrollment struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	State  string `json:"state"`
}

// CourseUser is a person enrolled in the course, cached for the People tab.
type CourseUser struct {
	ID        int64  `json:"id"`
	CourseID  int64  `json:"course_id"`
	Name      string `json:"name"`
	SortName  string `json:"sort_name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Role      string `json:"role,omitempty"`
}
