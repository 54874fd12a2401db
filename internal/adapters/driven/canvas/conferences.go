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
var _ driven.ConferencesAPI = (*Client)(nil)

type conferenceDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartedAt   *time.Time `json:"started_at"`
}

// ListConferences lists web conferences. Unlike the other list
// endpoints the response nests the records under a "conferences" key.
func (c *Client) ListConferences(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Conference, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/conferences", courseID), token, "")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var wrapper struct {
		Conferences []conferenceDTO `json:"conferences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return nil, "", fmt.Errorf("decode conferences: %w", err)
	}

	conferences := make([]domain.Conference, 0, len(wrapper.Conferences))
	for _, dto := range wrapper.Conferences {
		conferences = append(conferences, domain.Conference{
			ID:          dto.ID,
			CourseID:    courseID,
			Title:       dto.Title,
			Description: dto.Description,
			StartedAt:   dto.StartedAt,
		})
	}

	return conferences, nextPageToken(resp), nil
}
