package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CoursesAPI = (*Client)(nil)

type courseDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	CourseCode   string          `json:"course_code"`
	SyllabusBody string          `json:"syllabus_body"`
	Tabs         []tabDTO        `json:"tabs"`
	Enrollments  []enrollmentDTO `json:"enrollments"`
	Term         *termDTO        `json:"term"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type tabDTO struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden"`
}

type enrollmentDTO struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	State  string `json:"enrollment_state"`
}

type termDTO struct {
	Name string `json:"name"`
}

// GetCourse fetches the course record with syllabus body, navigation
// tabs and the caller's enrollments in a single call.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*domain.Course, error) {
	u := fmt.Sprintf("%s/api/v1/courses/%d?include[]=syllabus_body&include[]=tabs&include[]=term",
		c.baseURL, courseID)
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dto courseDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}

	course := &domain.Course{
		ID:           dto.ID,
		Name:         dto.Name,
		CourseCode:   dto.CourseCode,
		SyllabusBody: dto.SyllabusBody,
		UpdatedAt:    dto.UpdatedAt,
	}
	if dto.Term != nil {
		course.TermName = dto.Term.Name
	}
	for _, t := range dto.Tabs {
		course.Tabs = append(course.Tabs, domain.Tab{
			ID:     domain.TabID(t.ID),
			Label:  t.Label,
			Hidden: t.Hidden,
		})
	}
	for _, e := range dto.Enrollments {
		course.Enrollments = append(course.Enrollments, domain.Enrollment{
			ID:     e.ID,
			UserID: e.UserID,
			Role:   e.Role,
			State:  e.State,
		})
	}

	return course, nil
}
