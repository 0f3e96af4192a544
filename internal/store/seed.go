package store

import (
	"context"
	"fmt"

	"github.com/quillhq/quill/internal/model"
)

const welcomeContent = `## Hello World

Your site is up and running. This post was generated automatically on first
boot so the blog page has something to show.

### Next steps

1. Log in and edit this post (or unpublish it)
2. Add your own projects and blog posts
3. Point the frontend at this API and make it yours

*Happy writing!*`

// Reset deletes all content. Used by `quill db reset`; the HTTP API has no
// bulk-delete surface.
func (s *Store) Reset(ctx context.Context) error {
	for _, table := range []string{"blogs", "projects"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset: clear %s: %w", table, err)
		}
	}
	return nil
}

// Seed inserts starter content the first time the store comes up empty: one
// published welcome post and three sample projects. Existing data is never
// touched.
func (s *Store) Seed(ctx context.Context) error {
	var nBlogs int64
	if err := s.db.GetContext(ctx, &nBlogs, "SELECT COUNT(*) FROM blogs"); err != nil {
		return fmt.Errorf("seed: count blogs: %w", err)
	}
	if nBlogs == 0 {
		excerpt := "This is your first blog post, generated automatically."
		welcome := &model.Blog{
			Title:       "Welcome to Your Personal Website!",
			Excerpt:     &excerpt,
			Content:     welcomeContent,
			Tags:        model.Tags{"General", "Tech"},
			IsPublished: true,
		}
		if err := s.CreateBlog(ctx, welcome); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	var nProjects int64
	if err := s.db.GetContext(ctx, &nProjects, "SELECT COUNT(*) FROM projects"); err != nil {
		return fmt.Errorf("seed: count projects: %w", err)
	}
	if nProjects == 0 {
		github := "https://github.com"
		live := "https://example.com"
		samples := []model.Project{
			{
				Title:       "Personal Website",
				Description: "Portfolio and blog, served by this very API.",
				Category:    "Web",
				Tags:        model.Tags{"Go", "REST API", "SQLite"},
				GitHubURL:   &github,
				LiveURL:     &live,
				Order:       "1",
			},
			{
				Title:       "AI Chatbot Platform",
				Description: "A simple AI chatbot platform with an LLM API.",
				Category:    "Web",
				Tags:        model.Tags{"Python", "REST API"},
				Order:       "2",
			},
			{
				Title:       "Side Project",
				Description: "A simple side project to showcase your skills.",
				Category:    "Other",
				Tags:        model.Tags{"Demo", "Full-stack"},
				Order:       "3",
			},
		}
		for i := range samples {
			if err := s.CreateProject(ctx, &samples[i]); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}
	return nil
}
