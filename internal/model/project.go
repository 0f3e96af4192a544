package model

import "time"

// Project is a portfolio entry. Order is a string-typed sort key compared
// lexically; the column is named sort_order because ORDER is reserved in SQL.
type Project struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Tags        Tags      `json:"tags" db:"tags"`
	GitHubURL   *string   `json:"github_url,omitempty" db:"github_url"`
	LiveURL     *string   `json:"live_url,omitempty" db:"live_url"`
	Order       string    `json:"order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectPatch carries a partial update for a project.
type ProjectPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
	Tags        *Tags   `json:"tags"`
	GitHubURL   *string `json:"github_url"`
	LiveURL     *string `json:"live_url"`
	Order       *string `json:"order"`
}
