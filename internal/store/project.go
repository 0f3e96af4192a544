package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quillhq/quill/internal/model"
)

// CreateProject inserts a new project. The ID, CreatedAt, and UpdatedAt
// fields on p are populated after a successful insert.
func (s *Store) CreateProject(ctx context.Context, p *model.Project) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Tags == nil {
		p.Tags = model.Tags{}
	}
	if p.Category == "" {
		p.Category = "Web"
	}
	if p.Order == "" {
		p.Order = "0"
	}

	const q = `INSERT INTO projects
		(title, description, category, image, tags, github_url, live_url, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insert(ctx, q,
		p.Title, p.Description, p.Category, p.Image, p.Tags,
		p.GitHubURL, p.LiveURL, p.Order, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID = id
	return nil
}

// ListProjects returns one page of projects ordered by the string sort key
// ascending, most recently updated first as the tiebreak.
func (s *Store) ListProjects(ctx context.Context, page, size int) ([]model.Project, int64, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM projects"); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	limit, offset := pageBounds(page, size)
	const q = `SELECT * FROM projects
		ORDER BY sort_order ASC, updated_at DESC, id DESC LIMIT ? OFFSET ?`

	projects := []model.Project{}
	if err := s.db.SelectContext(ctx, &projects, s.rebind(q), limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return projects, total, nil
}

// GetProject returns a project by ID.
func (s *Store) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	var p model.Project
	if err := s.db.GetContext(ctx, &p, s.rebind("SELECT * FROM projects WHERE id = ?"), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// UpdateProject applies a partial update and returns the updated project.
// UpdatedAt is refreshed on every successful call.
func (s *Store) UpdateProject(ctx context.Context, id int64, patch model.ProjectPatch) (*model.Project, error) {
	p, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Image != nil {
		p.Image = patch.Image
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.GitHubURL != nil {
		p.GitHubURL = patch.GitHubURL
	}
	if patch.LiveURL != nil {
		p.LiveURL = patch.LiveURL
	}
	if patch.Order != nil {
		p.Order = *patch.Order
	}
	p.UpdatedAt = time.Now().UTC()

	const q = `UPDATE projects SET
		title = ?, description = ?, category = ?, image = ?, tags = ?,
		github_url = ?, live_url = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, s.rebind(q),
		p.Title, p.Description, p.Category, p.Image, p.Tags,
		p.GitHubURL, p.LiveURL, p.Order, p.UpdatedAt, p.ID); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return p, nil
}

// DeleteProject removes a project by ID, returning ErrNotFound if absent.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM projects WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
