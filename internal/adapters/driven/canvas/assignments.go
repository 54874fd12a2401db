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
var _ driven.AssignmentsAPI = (*Client)(nil)

type assignmentDTO struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	DueAt          *time.Time `json:"due_at"`
	PointsPossible float64    `json:"points_possible"`
	QuizID         int64      `json:"quiz_id"`
	HTMLURL        string     `json:"html_url"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ListAssignments lists course assignments. Quiz-backed assignments
// carry a non-zero QuizID linking to their quiz record.
func (c *Client) ListAssignments(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Assignment, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/assignments", courseID), token, "")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []assignmentDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode assignments: %w", err)
	}

	assignments := make([]domain.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		assignments = append(assignments, domain.Assignment{
			ID:          dto.ID,
			CourseID:    courseID,
			Name:        dto.Name,
			Description: dto.Description,
			DueAt:       dto.DueAt,
			PointsTotal: dto.PointsPossible,
			QuizID:      dto.QuizID,
			HTMLURL:     dto.HTMLURL,
			UpdatedAt:   dto.UpdatedAt,
		})
	}

	return assignments, nextPageToken(resp), nil
}
