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
var _ driven.DiscussionsAPI = (*Client)(nil)

type topicDTO struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	PostedAt *time.Time `json:"posted_at"`
}

type entryDTO struct {
	ID      int64      `json:"id"`
	UserID  int64      `json:"user_id"`
	Message string     `json:"message"`
	Replies []entryDTO `json:"replies"`
}

func entriesToDomain(dtos []entryDTO) []domain.DiscussionEntry {
	if len(dtos) == 0 {
		return nil
	}
	entries := make([]domain.DiscussionEntry, 0, len(dtos))
	for _, dto := range dtos {
		entries = append(entries, domain.DiscussionEntry{
			ID:      dto.ID,
			UserID:  dto.UserID,
			Message: dto.Message,
			Replies: entriesToDomain(dto.Replies),
		})
	}
	return entries
}

// ListTopics lists discussion topics without their entry trees.
// Announcements live behind the same endpoint filtered by flag.
func (c *Client) ListTopics(ctx context.Context, courseID int64, announcements bool, token driven.PageToken) ([]domain.DiscussionTopic, driven.PageToken, error) {
	extra := ""
	if announcements {
		extra = "only_announcements=true"
	}
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/discussion_topics", courseID), token, extra)
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []topicDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode topics: %w", err)
	}

	topics := make([]domain.DiscussionTopic, 0, len(dtos))
	for _, dto := range dtos {
		topics = append(topics, domain.DiscussionTopic{
			ID:           dto.ID,
			CourseID:     courseID,
			Title:        dto.Title,
			Message:      dto.Message,
			Announcement: announcements,
			PostedAt:     dto.PostedAt,
		})
	}

	return topics, nextPageToken(resp), nil
}

// GetFullTopic fetches one topic with its complete entry tree. The
// tree comes from the materialized view endpoint, which returns all
// replies at arbitrary depth in one call.
func (c *Client) GetFullTopic(ctx context.Context, courseID, topicID int64) (*domain.DiscussionTopic, error) {
	u := fmt.Sprintf("%s/api/v1/courses/%d/discussion_topics/%d", c.baseURL, courseID, topicID)
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, err
	}

	var dto topicDTO
	err = json.NewDecoder(resp.Body).Decode(&dto)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("decode topic: %w", err)
	}

	viewURL := fmt.Sprintf("%s/api/v1/courses/%d/discussion_topics/%d/view", c.baseURL, courseID, topicID)
	viewResp, err := c.doRequest(ctx, viewURL)
	if err != nil {
		return nil, err
	}
	defer viewResp.Body.Close()

	var view struct {
		View []entryDTO `json:"view"`
	}
	if err := json.NewDecoder(viewResp.Body).Decode(&view); err != nil {
		return nil, fmt.Errorf("decode topic view: %w", err)
	}

	return &domain.DiscussionTopic{
		ID:       dto.ID,
		CourseID: courseID,
		Title:    dto.Title,
		Message:  dto.Message,
		PostedAt: dto.PostedAt,
		Entries:  entriesToDomain(view.View),
	}, nil
}
