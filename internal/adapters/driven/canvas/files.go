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
var _ driven.FilesAPI = (*Client)(nil)

type folderDTO struct {
	ID             int64  `json:"id"`
	ParentFolderID int64  `json:"parent_folder_id"`
	Name           string `json:"name"`
	FullName       string `json:"full_name"`
}

type fileDTO struct {
	ID          int64     `json:"id"`
	FolderID    int64     `json:"folder_id"`
	DisplayName string    `json:"display_name"`
	ContentType string    `json:"content-type"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFolders lists the course folder tree (metadata only).
func (c *Client) ListFolders(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.Folder, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/folders", courseID), token, "")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []folderDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode folders: %w", err)
	}

	folders := make([]domain.Folder, 0, len(dtos))
	for _, dto := range dtos {
		folders = append(folders, domain.Folder{
			ID:       dto.ID,
			CourseID: courseID,
			ParentID: dto.ParentFolderID,
			Name:     dto.Name,
			FullName: dto.FullName,
		})
	}

	return folders, nextPageToken(resp), nil
}

// ListFiles lists course file metadata. Binary download is the
// file-sync adapter's concern.
func (c *Client) ListFiles(ctx context.Context, courseID int64, token driven.PageToken) ([]domain.File, driven.PageToken, error) {
	u := c.listURL(fmt.Sprintf("/api/v1/courses/%d/files", courseID), token, "")
	resp, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var dtos []fileDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, "", fmt.Errorf("decode files: %w", err)
	}

	files := make([]domain.File, 0, len(dtos))
	for _, dto := range dtos {
		files = append(files, domain.File{
			ID:          dto.ID,
			CourseID:    courseID,
			FolderID:    dto.FolderID,
			DisplayName: dto.DisplayName,
			ContentType: dto.ContentType,
			URL:         dto.URL,
			Size:        dto.Size,
			UpdatedAt:   dto.UpdatedAt,
		})
	}

	return files, nextPageToken(resp), nil
}
