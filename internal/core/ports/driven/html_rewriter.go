package driven

import "context"

// RewriteResult carries rewritten HTML plus the references found in it.
type RewriteResult struct {
	// HTML is the input with course-file links rewritten to resolve
	// against the local cache.
	HTML string

	// FileIDs are internal course file IDs referenced by the input.
	FileIDs []int64

	// ExternalURLs are non-course URLs referenced by the input.
	ExternalURLs []string
}

// HTMLRewriter rewrites rich-text content before persistence. Every
// description, message and body passes through here; the returned
// reference sets feed the run-wide accumulators that drive the
// supplementary file-sync pass.
type HTMLRewriter interface {
	Rewrite(ctx context.Context, courseID int64, html string) (*RewriteResult, error)
}
