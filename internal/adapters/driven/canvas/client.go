// Package canvas implements the course API ports against a Canvas-style
// LMS REST API. Each list endpoint paginates via the Link response
// header; the opaque PageToken handed back to callers is the rel="next"
// URL itself.
package canvas

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Client provides LMS REST API operations. A single client backs all
// of the per-resource API interfaces.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	maxRetries  int
	pageSize    int
}

// Config holds Client settings.
type Config struct {
	// BaseURL is the LMS root, e.g. "https://canvas.example.edu".
	BaseURL string

	// AccessToken is the API bearer token used for all requests.
	AccessToken string

	// PageSize is the per_page value for list endpoints (default 50).
	PageSize int

	// MaxRetries bounds retry attempts on server errors (default 3).
	MaxRetries int

	// HTTPClient overrides the default client (mainly for tests).
	HTTPClient *http.Client
}

// NewClient creates a new LMS API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		httpClient:  cfg.HTTPClient,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		maxRetries:  cfg.MaxRetries,
		pageSize:    cfg.PageSize,
	}, nil
}

// NewCourseAPI bundles the client into the per-resource API set used
// by the sync orchestrator.
func NewCourseAPI(c *Client) driven.CourseAPI {
	return driven.CourseAPI{
		Courses:     c,
		Pages:       c,
		Assignments: c,
		Quizzes:     c,
		Discussions: c,
		Conferences: c,
		Modules:     c,
		Schedule:    c,
		Users:       c,
		Files:       c,
	}
}

// listURL resolves the request URL for a list call. An empty token
// starts at the first page; otherwise the token is the next-page URL
// returned by the previous call.
func (c *Client) listURL(path string, token driven.PageToken, extraQuery string) string {
	if token != "" {
		return string(token)
	}
	u := fmt.Sprintf("%s%s?per_page=%d", c.baseURL, path, c.pageSize)
	if extraQuery != "" {
		u += "&" + extraQuery
	}
	return u
}

// doRequest performs an authenticated GET with retry logic.
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	var resp *http.Response
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.accessToken)
		req.Header.Set("Accept", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("do request: %w", err)
		}

		// Throttled - honor the reset hint if it is reasonable
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			if wait := throttleWait(resp); wait > 0 && wait < 5*time.Minute {
				resp.Body.Close()
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(wait):
					continue
				}
			}
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			break
		}

		// Server error - retry with backoff
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("LMS API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

// throttleWait extracts the wait hint from a throttled response.
func throttleWait(resp *http.Response) time.Duration {
	if after := resp.Header.Get("Retry-After"); after != "" {
		if secs, err := strconv.Atoi(after); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	if reset := resp.Header.Get("X-Rate-Limit-Reset"); reset != "" {
		if secs, err := strconv.ParseFloat(reset, 64); err == nil {
			return time.Duration(secs * float64(time.Second))
		}
	}
	return 0
}

// nextPageToken extracts the rel="next" URL from the Link header.
// Returns the empty token on the last page.
func nextPageToken(resp *http.Response) driven.PageToken {
	link := resp.Header.Get("Link")
	if link == "" {
		return ""
	}
	for _, part := range strings.Split(link, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if strings.TrimSpace(section[1]) != `rel="next"` {
			continue
		}
		u := strings.TrimSpace(section[0])
		u = strings.TrimPrefix(u, "<")
		u = strings.TrimSuffix(u, ">")
		return driven.PageToken(u)
	}
	return ""
}
