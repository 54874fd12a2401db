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
var _ driven.ScheduleAPI = (*Client)(nil)

type scheduleItemDTO struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartAt     *time.Time `json:"start_at"`
	Assignment  *struct {
		ID int64 `json:"id"`
	} `json:"assignment"`
}

// ListScheduleItems lists syllabus calendar entries of one type.
// Plain events and assignment-backed entries come from the same
// endpoint behind a type filter.
func (c *Client) ListScheduleItems(ctx context.Context, courseID int64, itemType domain.ScheduleItemType, token driven.PageToken) ([]domain.ScheduleItem, driven.PageToken, error) {
	extra := fmt.Sprintf("type=%s&context_codes[]=course_%d&all_events=true", itemType, courseID)
	u := c.listURL("/api/v1/calendar_events", token, extra)
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []scheduleItemDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode schedule items: %w", err)
	}

	items := make([]domain.ScheduleItem, 0, len(dtos))
	for _, dto := range dtos {
		item := domain.ScheduleItem{
			ID:          dto.ID,
			CourseID:    courseID,
			Title:       dto.Title,
			Description: dto.Description,
			Type:        itemType,
			StartAt:     dto.StartAt,
		}
		if dto.Assignment != nil {
			item.AssignmentID = dto.Assignment.ID
		}
		items = append(items, item)
	}

	return items, nextPageToken(resp), nil
}
