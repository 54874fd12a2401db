package canvas

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UsersAPI = (*Client)(nil)

type courseUserDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	SortName    string `json:"sortable_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
	Enrollments []struct {
		Role string `json:"role"`
	} `json:"enrollments"`
}

// ListCourseUsers lists the course roster for the People tab.
func (c *Client) ListCourseUsers(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.CourseUser, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/users", courseID), token,
		"include[]=email&include[]=avatar_url&include[]=enrollments")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []courseUserDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode course users: %w", err)
	}

	users := make([]domain.CourseUser, 0, len(dtos))
	for _, dto := range dtos {
		user := domain.CourseUser{
			ID:        dto.ID,
			CourseID:  courseID,
			Name:      dto.Name,
			SortName:  dto.SortName,
			Email:     dto.Email,
			AvatarURL: dto.AvatarURL,
		}
		if len(dto.Enrollments) > 0 {
			user.Role = dto.Enrollments[0].Role
		}
		users = append(users, user)
	}

	return users, nextPageToken(resp), nil
}
