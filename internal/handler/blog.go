package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/server/middleware"
	"github.com/quillhq/quill/internal/store"
)

const defaultBlogPageSize = 12

// BlogHandler serves blog post CRUD. List and Get run behind the optional
// identity check: anonymous callers see only published posts, the admin sees
// everything. Create, Patch, and Delete sit behind the strict bearer gate.
type BlogHandler struct {
	store *store.Store
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(st *store.Store) *BlogHandler {
	return &BlogHandler{store: st}
}

// List returns one page of posts.
// GET /api/v1/blog/?page=1&size=12
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r, defaultBlogPageSize)
	includeUnpublished := middleware.GetPrincipal(r.Context()) != nil

	blogs, total, err := h.store.ListBlogs(r.Context(), page, size, includeUnpublished)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, model.Page[model.Blog]{
		Items: blogs,
		Total: total,
		Page:  page,
		Size:  size,
	})
}

// Get returns a single post. Anonymous callers get a 404 for unpublished
// posts, indistinguishable from a missing one.
// GET /api/v1/blog/{blogID}
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "blogID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	includeUnpublished := middleware.GetPrincipal(r.Context()) != nil

	blog, err := h.store.GetBlog(r.Context(), id, includeUnpublished)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load post")
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// createBlogRequest is the payload for Create. IDs and timestamps are
// assigned by the store and silently ignored if supplied.
type createBlogRequest struct {
	Title       string     `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `json:"content"`
	Tags        model.Tags `json:"tags"`
	IsPublished bool       `json:"is_published"`
}

// Create stores a new post.
// POST /api/v1/blog/
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBlogRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusUnprocessableEntity, "Title and content are required")
		return
	}

	blog := &model.Blog{
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		Tags:        req.Tags,
		IsPublished: req.IsPublished,
	}
	if err := h.store.CreateBlog(r.Context(), blog); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// Patch merges the supplied fields into an existing post. Omitted fields are
// untouched; the ID cannot change; updated_at always refreshes.
// PATCH /api/v1/blog/{blogID}
func (h *BlogHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "blogID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	var patch model.BlogPatch
	if err := readJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Title != nil && *patch.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "Title cannot be empty")
		return
	}
	if patch.Content != nil && *patch.Content == "" {
		writeError(w, http.StatusUnprocessableEntity, "Content cannot be empty")
		return
	}

	blog, err := h.store.UpdateBlog(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// Delete removes a post.
// DELETE /api/v1/blog/{blogID}
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(chi.URLParam(r, "blogID"))
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err := h.store.DeleteBlog(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
