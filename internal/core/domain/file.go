package domain

import "time"

// Folder is a node in the remote course file tree.
type Folder struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"course_id"`
	ParentID int64  `json:"parent_id,omitempty"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

// File is a course file's metadata. Binary content is handled by the
// file-sync adapter; stores only track metadata and cache location.
type File struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"course_id"`
	FolderID    int64     `json:"folder_id,omitempty"`
	DisplayName string    `json:"display_name"`
	ContentType string    `json:"content_type,omitempty"`
	URL         string    `json:"url"` // remote download URL
	Size        int64     `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}
