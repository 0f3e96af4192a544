package handler

import (
	"net/http"

	"github.com/quillhq/quill/internal/openapi"
)

// DocsHandler serves the OpenAPI document at the operator-configured path.
// The path doubles as a light access control, so it is never advertised
// elsewhere in the API.
type DocsHandler struct {
	baseURL string
}

// NewDocsHandler creates a new DocsHandler. baseURL populates the spec's
// servers list and may be empty.
func NewDocsHandler(baseURL string) *DocsHandler {
	return &DocsHandler{baseURL: baseURL}
}

// ServeSpec returns the OpenAPI 3.1 document as JSON.
func (h *DocsHandler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, openapi.Generate(h.baseURL))
}
