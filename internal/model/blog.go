package model

import "time"

// Blog is a single blog post. Unpublished posts are only visible to the
// authenticated admin; anonymous callers never see them, not even by ID.
type Blog struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Excerpt     *string   `json:"excerpt,omitempty" db:"excerpt"`
	Content     string    `json:"content" db:"content"`
	Tags        Tags      `json:"tags" db:"tags"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// BlogPatch carries a partial update for a blog post. Only non-nil fields are
// applied; the ID is never patchable.
type BlogPatch struct {
	Title       *string `json:"title"`
	Excerpt     *string `json:"excerpt"`
	Content     *string `json:"content"`
	Tags        *Tags   `json:"tags"`
	IsPublished *bool   `json:"is_published"`
}
