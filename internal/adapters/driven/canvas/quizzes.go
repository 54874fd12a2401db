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
var _ driven.QuizzesAPI = (*Client)(nil)

type quizDTO struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	DueAt         *time.Time `json:"due_at"`
	QuestionCount int        `json:"question_count"`
	HTMLURL       string     `json:"html_url"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (q quizDTO) toDomain(courseID int64) domain.Quiz {
	return domain.Quiz{
		ID:          q.ID,
		CourseID:    courseID,
		Title:       q.Title,
		Description: q.Description,
		DueAt:       q.DueAt,
		QuestionCnt: q.QuestionCount,
		HTMLURL:     q.HTMLURL,
		UpdatedAt:   q.UpdatedAt,
	}
}

// ListQuizzes lists course quizzes.
func (c *Client) ListQuizzes(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Quiz, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/quizzes", courseID), token, "")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []quizDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode quizzes: %w", err)
	}

	quizzes := make([]domain.Quiz, 0, len(dtos))
	for _, dto := range dtos {
		quizzes = append(quizzes, dto.toDomain(courseID))
	}

	return quizzes, nextPageToken(resp), nil
}

// GetQuiz fetches a single quiz, used when caching quizzes embedded in
// assignments or referenced by module items.
func (c *Client) GetQuiz(ctx context.Context, courseID, quizID int64) (*domain.Quiz, error) {
	u := fmt.Sprintf("%s/api/v1/courses/%d/quizzes/%d", c.baseURL, courseID, quizID)
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dto quizDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode quiz: %w", err)
	}

	quiz := dto.toDomain(courseID)
	return &quiz, nil
}
