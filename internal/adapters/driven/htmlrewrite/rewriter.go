// Package htmlrewrite rewrites rich-text course content for offline
// use. Links into the course file store are rewritten to resolve
// against the local cache, and every reference found along the way is
// reported back so the sync run can fetch what the content depends on.
package htmlrewrite

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.HTMLRewriter = (*Rewriter)(nil)

// filePathPattern matches LMS file URLs in both the course-scoped and
// bare forms: /courses/42/files/99 and /files/99/download.
var filePathPattern = regexp.MustCompile(`/(?:courses/\d+/)?files/(\d+)`)

// Rewriter rewrites HTML bodies using a streaming DOM walk.
type Rewriter struct {
	lmsHost     string
	localPrefix string
}

// Config holds Rewriter settings.
type Config struct {
	// BaseURL is the LMS root; links to this host are treated as
	// internal. Required.
	BaseURL string

	// LocalPrefix is prepended to rewritten file links
	// (default "/offline/files/").
	LocalPrefix string
}

// NewRewriter creates a Rewriter for the given LMS.
func NewRewriter(cfg Config) (*Rewriter, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if cfg.LocalPrefix == "" {
		cfg.LocalPrefix = "/offline/files/"
	}
	return &Rewriter{
		lmsHost:     u.Host,
		localPrefix: cfg.LocalPrefix,
	}, nil
}

// refAttrs lists the attributes that can carry content references.
var refAttrs = map[string]bool{
	"href": true,
	"src":  true,
}

// Rewrite parses the fragment, rewrites file links in place and
// collects the file and external URL references it saw. Empty input
// short-circuits without touching the parser.
func (r *Rewriter) Rewrite(ctx context.Context, courseID int64, input string) (*driven.RewriteResult, error) {
	if input == "" {
		return &driven.RewriteResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(input), body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	result := &driven.RewriteResult{}
	seenFiles := make(map[int64]bool)
	seenURLs := make(map[string]bool)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for i, attr := range n.Attr {
				if !refAttrs[attr.Key] || attr.Val == "" {
					continue
				}
				rewritten := r.rewriteRef(courseID, attr.Val, result, seenFiles, seenURLs)
				if rewritten != attr.Val {
					n.Attr[i].Val = rewritten
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	var out strings.Builder
	for _, n := range nodes {
		walk(n)
		if err := html.Render(&out, n); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
	}

	result.HTML = out.String()
	return result, nil
}

// rewriteRef classifies a single reference. Course file links come back
// rewritten to the local prefix; everything else is returned unchanged.
func (r *Rewriter) rewriteRef(courseID int64, ref string, result *driven.RewriteResult, seenFiles map[int64]bool, seenURLs map[string]bool) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	// Absolute link to a foreign host: external reference
	if parsed.Host != "" && parsed.Host != r.lmsHost {
		if parsed.Scheme == "http" || parsed.Scheme == "https" {
			if !seenURLs[ref] {
				seenURLs[ref] = true
				result.ExternalURLs = append(result.ExternalURLs, ref)
			}
		}
		return ref
	}

	// LMS-internal: file links get rewritten, the rest pass through
	m := filePathPattern.FindStringSubmatch(parsed.Path)
	if m == nil {
		return ref
	}
	fileID, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ref
	}

	if !seenFiles[fileID] {
		seenFiles[fileID] = true
		result.FileIDs = append(result.FileIDs, fileID)
	}

	return fmt.Sprintf("%s%d/%d", r.localPrefix, courseID, fileID)
}
