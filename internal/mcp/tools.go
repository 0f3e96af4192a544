package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func (s *ContentServer) registerTools(srv *server.MCPServer) {

	srv.AddTool(
		mcp.NewTool("site_list_posts",
			mcp.WithDescription(
				"List published blog posts, newest first. Returns one page of posts "+
					"with their id, title, excerpt, tags, and timestamps, plus the total "+
					"count. Use site_get_post to read a post's full content.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("page",
				mcp.Description("1-based page number (default 1)"),
			),
			mcp.WithNumber("size",
				mcp.Description("Posts per page (default 12, max 100)"),
			),
		),
		s.handleListPosts,
	)

	srv.AddTool(
		mcp.NewTool("site_get_post",
			mcp.WithDescription(
				"Read a single published blog post by ID, including its full "+
					"Markdown content.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("ID of the post to read"),
			),
		),
		s.handleGetPost,
	)

	srv.AddTool(
		mcp.NewTool("site_list_projects",
			mcp.WithDescription(
				"List portfolio projects in their display order, including title, "+
					"description, category, tags, and links.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleListProjects,
	)
}

func (s *ContentServer) handleListPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page := request.GetInt("page", 1)
	if page < 1 {
		page = 1
	}
	size := clamp(request.GetInt("size", 12), 1, 100)

	posts, total, err := s.store.ListBlogs(ctx, page, size, false)
	if err != nil {
		return toolError("failed to list posts: %v", err)
	}

	// Strip content from the listing; it can be large and site_get_post
	// exists for that.
	type postSummary struct {
		ID        int64    `json:"id"`
		Title     string   `json:"title"`
		Excerpt   *string  `json:"excerpt,omitempty"`
		Tags      []string `json:"tags"`
		CreatedAt string   `json:"created_at"`
		UpdatedAt string   `json:"updated_at"`
	}
	items := make([]postSummary, len(posts))
	for i, p := range posts {
		items[i] = postSummary{
			ID:        p.ID,
			Title:     p.Title,
			Excerpt:   p.Excerpt,
			Tags:      p.Tags,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		}
	}

	return successJSON(map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

func (s *ContentServer) handleGetPost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetInt("id", 0)
	if id < 1 {
		return toolError("invalid post id %d", id)
	}

	post, err := s.store.GetBlog(ctx, int64(id), false)
	if err != nil {
		return toolError("post %d not found", id)
	}
	return successJSON(post)
}

func (s *ContentServer) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, _, err := s.store.ListProjects(ctx, 1, 100)
	if err != nil {
		return toolError("failed to list projects: %v", err)
	}
	return successJSON(projects)
}

// successJSON marshals data to JSON and returns it as a tool result.
func successJSON(data interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError returns a tool-level error result. Errors returned this way are
// visible to the LLM so it can self-correct; they do NOT terminate the MCP
// session.
func toolError(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
