package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PagesAPI = (*Client)(nil)

type pageDTO struct {
	PageID    int64     `json:"page_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	FrontPage bool      `json:"front_page"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p pageDTO) toDomain(courseID int64) domain.Page {
	return domain.Page{
		ID:        p.PageID,
		CourseID:  courseID,
		URL:       p.URL,
		Title:     p.Title,
		Body:      p.Body,
		FrontPage: p.FrontPage,
		UpdatedAt: p.UpdatedAt,
	}
}

// ListPages lists course wiki pages. The list endpoint includes page
// bodies so synced pages render offline without point fetches.
func (c *Client) ListPages(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Page, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/pages", courseID), token, "include[]=body")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []pageDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode pages: %w", err)
	}

	pages := make([]domain.Page, 0, len(dtos))
	for _, dto := range dtos {
		pages = append(pages, dto.toDomain(courseID))
	}

	return pages, nextPageToken(resp), nil
}

// GetPage fetches a single page by its slug, body included.
func (c *Client) GetPage(ctx context.Context, courseID int64, slug string) (*domain.Page, error) {
	u := fmt.Sprintf("%s/api/v1/courses/%d/pages/%s", c.baseURL, courseID, url.PathEscape(slug))
	return c.fetchPage(ctx, u, courseID)
}

// GetFrontPage fetches the course home page. Returns ErrNotFound when
// the course has no front page configured.
func (c *Client) GetFrontPage(ctx context.Context, courseID int64) (*domain.Page, error) {
	u := fmt.Sprintf("%s/api/v1/courses/%d/front_page", c.baseURL, courseID)
	return c.fetchPage(ctx, u, courseID)
}

func (c *Client) fetchPage(ctx context.Context, rawURL string, courseID int64) (*domain.Page, error) {
	resp, err := c.doRequest(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dto pageDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}

	page := dto.toDomain(courseID)
	return &page, nil
}
