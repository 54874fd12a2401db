package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ModulesAPI = (*Client)(nil)

type moduleDTO struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Position int             `json:"position"`
	Items    []moduleItemDTO `json:"items"`
}

type moduleItemDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	ContentID   int64  `json:"content_id"`
	PageURL     string `json:"page_url"`
	ExternalURL string `json:"external_url"`
	Position    int    `json:"position"`
}

// moduleItemTypes maps the API's item type names to domain types.
// Unknown types (sub-headers, external tools) pass through lowercased
// and are ignored by the sync item resolver.
var moduleItemTypes = map[string]domain.ModuleItemType{
	"Page":        domain.ModuleItemPage,
	"File":        domain.ModuleItemFile,
	"Quiz":        domain.ModuleItemQuiz,
	"Assignment":  domain.ModuleItemAssignment,
	"Discussion":  domain.ModuleItemDiscussion,
	"ExternalUrl": domain.ModuleItemExternalURL,
}

// ListModules lists modules with their items included.
func (c *Client) ListModules(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Module, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/modules", courseID), token, "include[]=items")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []moduleDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode modules: %w", err)
	}

	modules := make([]domain.Module, 0, len(dtos))
	for _, dto := range dtos {
		module := domain.Module{
			ID:       dto.ID,
			CourseID: courseID,
			Name:     dto.Name,
			Position: dto.Position,
		}
		for _, item := range dto.Items {
			itemType, ok := moduleItemTypes[item.Type]
			if !ok {
				itemType = domain.ModuleItemType(strings.ToLower(item.Type))
			}
			module.Items = append(module.Items, domain.ModuleItem{
				ID:          item.ID,
				ModuleID:    dto.ID,
				Title:       item.Title,
				Type:        itemType,
				ContentID:   item.ContentID,
				PageURL:     item.PageURL,
				ExternalURL: item.ExternalURL,
				Position:    item.Position,
			})
		}
		modules = append(modules, module)
	}

	return modules, nextPageToken(resp), nil
}
