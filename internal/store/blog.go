package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quillhq/quill/internal/model"
)

// CreateBlog inserts a new blog post. The ID, CreatedAt, and UpdatedAt fields
// on b are populated after a successful insert.
func (s *Store) CreateBlog(ctx context.Context, b *model.Blog) error {
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Tags == nil {
		b.Tags = model.Tags{}
	}

	const q = `INSERT INTO blogs
		(title, excerpt, content, tags, is_published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := s.insert(ctx, q,
		b.Title, b.Excerpt, b.Content, b.Tags, b.IsPublished, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}
	b.ID = id
	return nil
}

// ListBlogs returns one page of posts, newest first, plus the total count.
// With includeUnpublished false only published posts are visible, and the
// total counts only those.
func (s *Store) ListBlogs(ctx context.Context, page, size int, includeUnpublished bool) ([]model.Blog, int64, error) {
	where := ""
	var args []interface{}
	if !includeUnpublished {
		where = " WHERE is_published = ?"
		args = append(args, true)
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, s.rebind("SELECT COUNT(*) FROM blogs"+where), args...); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	limit, offset := pageBounds(page, size)
	q := "SELECT * FROM blogs" + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	blogs := []model.Blog{}
	if err := s.db.SelectContext(ctx, &blogs, s.rebind(q), args...); err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, total, nil
}

// GetBlog returns a post by ID. Anonymous callers (includeUnpublished false)
// get ErrNotFound for unpublished posts, indistinguishable from absence.
func (s *Store) GetBlog(ctx context.Context, id int64, includeUnpublished bool) (*model.Blog, error) {
	q := "SELECT * FROM blogs WHERE id = ?"
	args := []interface{}{id}
	if !includeUnpublished {
		q += " AND is_published = ?"
		args = append(args, true)
	}

	var b model.Blog
	if err := s.db.GetContext(ctx, &b, s.rebind(q), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return &b, nil
}

// UpdateBlog applies a partial update and returns the updated post. Only
// fields present in the patch change; the ID is immutable and UpdatedAt is
// refreshed on every successful call.
func (s *Store) UpdateBlog(ctx context.Context, id int64, patch model.BlogPatch) (*model.Blog, error) {
	b, err := s.GetBlog(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Excerpt != nil {
		b.Excerpt = patch.Excerpt
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if patch.Tags != nil {
		b.Tags = *patch.Tags
	}
	if patch.IsPublished != nil {
		b.IsPublished = *patch.IsPublished
	}
	b.UpdatedAt = time.Now().UTC()

	const q = `UPDATE blogs SET
		title = ?, excerpt = ?, content = ?, tags = ?, is_published = ?, updated_at = ?
		WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, s.rebind(q),
		b.Title, b.Excerpt, b.Content, b.Tags, b.IsPublished, b.UpdatedAt, b.ID); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return b, nil
}

// DeleteBlog removes a post by ID, returning ErrNotFound if it doesn't exist.
func (s *Store) DeleteBlog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM blogs WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
