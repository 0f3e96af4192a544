package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *ContentServer) registerResources(srv *server.MCPServer) {
	srv.AddResource(
		mcp.NewResource(
			"site://posts",
			"Published Blog Posts",
			mcp.WithResourceDescription(
				"Index of all published blog posts: id, title, excerpt, and tags.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handlePostsResource,
	)
}

// handlePostsResource returns the full published-post index as one JSON blob.
func (s *ContentServer) handlePostsResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {

	posts, _, err := s.store.ListBlogs(ctx, 1, 100, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	type entry struct {
		ID      int64    `json:"id"`
		Title   string   `json:"title"`
		Excerpt *string  `json:"excerpt,omitempty"`
		Tags    []string `json:"tags"`
	}
	items := make([]entry, len(posts))
	for i, p := range posts {
		items[i] = entry{ID: p.ID, Title: p.Title, Excerpt: p.Excerpt, Tags: p.Tags}
	}

	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal posts: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "site://posts",
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
