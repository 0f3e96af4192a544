package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/model"
	"github.com/quillhq/quill/internal/service"
	"github.com/quillhq/quill/internal/store"
)

const (
	testAdminUser = "admin"
	testAdminPass = "correct horse battery staple"
)

type testEnv struct {
	t   *testing.T
	srv *Server
	st  *store.Store
}

// newTestEnv wires a full server against an in-memory store. Pass opts to
// adjust the config before the server is built.
func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8000,
			CORSOrigins:     []string{"http://localhost:5173"},
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{DSN: ":memory:"},
		Auth: config.AuthConfig{
			AdminUsername: testAdminUser,
			AdminPassword: testAdminPass,
			JWTSecret:     "test-signing-secret",
			TokenTTL:      time.Hour,
		},
		Logging: config.LoggingConfig{Level: "error"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	auth := service.NewAuthService(
		cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	challenge := service.NewTurnstileVerifier(cfg.Auth.TurnstileSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		t:   t,
		srv: New(cfg, st, auth, challenge, logger),
		st:  st,
	}
}

// do runs a request through the router and returns the recorder.
func (e *testEnv) do(method, path, token string, body io.Reader) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

// login exchanges the test admin credential for a bearer token.
func (e *testEnv) login() string {
	e.t.Helper()
	form := url.Values{"username": {testAdminUser}, "password": {testAdminPass}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		e.t.Fatalf("login: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		e.t.Fatalf("login: decode response: %v", err)
	}
	if resp.TokenType != "bearer" {
		e.t.Fatalf("login: token_type = %q, want %q", resp.TokenType, "bearer")
	}
	return resp.AccessToken
}

// createPost creates a blog post through the API and returns it.
func (e *testEnv) createPost(token, title string, published bool) model.Blog {
	e.t.Helper()
	payload := fmt.Sprintf(`{"title": %q, "content": "Body of %s.", "tags": ["t"], "is_published": %v}`,
		title, title, published)
	w := e.do(http.MethodPost, "/api/v1/blog/", token, strings.NewReader(payload))
	if w.Code != http.StatusOK {
		e.t.Fatalf("create post: status %d, body %s", w.Code, w.Body.String())
	}
	var b model.Blog
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		e.t.Fatalf("create post: decode: %v", err)
	}
	return b
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorDetail {
	t.Helper()
	var resp model.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, w.Body.String())
	}
	return resp.Error
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET / = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "root of the API") {
		t.Errorf("GET / body = %s", w.Body.String())
	}

	w = env.do(http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", w.Code)
	}

	w = env.do(http.MethodGet, "/readyz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /readyz = %d, want 200", w.Code)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	token := env.login()
	if token == "" {
		t.Fatal("login returned empty token")
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", testAdminUser, "nope"},
		{"wrong username", "root", testAdminPass},
		{"empty form", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{"username": {tc.username}, "password": {tc.password}}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/login/token", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			env.srv.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			// The message never reveals which field was wrong.
			if got := decodeError(t, w).Message; got != "Incorrect username or password" {
				t.Errorf("message = %q", got)
			}
		})
	}
}

func TestLoginChallengeRequired(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Auth.TurnstileSecret = "site-secret"
	})

	// Valid credentials, but no challenge token: rejected before credentials
	// are ever considered.
	form := url.Values{"username": {testAdminUser}, "password": {testAdminPass}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	env.srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if got := decodeError(t, w).Message; !strings.Contains(got, "challenge") {
		t.Errorf("message = %q, want challenge failure", got)
	}
}

func TestBlogVisibility(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()

	env.createPost(token, "Public One", true)
	env.createPost(token, "Public Two", true)
	draft := env.createPost(token, "Draft", false)

	// Anonymous list: drafts invisible, total counts only published.
	w := env.do(http.MethodGet, "/api/v1/blog/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous list = %d", w.Code)
	}
	var page model.Page[model.Blog]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Errorf("anonymous list = %d items, total %d; want 2/2", len(page.Items), page.Total)
	}

	// Admin list sees the draft too.
	w = env.do(http.MethodGet, "/api/v1/blog/", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Errorf("admin list = %d items, total %d; want 3/3", len(page.Items), page.Total)
	}

	// Direct fetch of the draft: 404 for anonymous, 200 for admin.
	draftPath := fmt.Sprintf("/api/v1/blog/%d", draft.ID)
	if w := env.do(http.MethodGet, draftPath, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("anonymous GET draft = %d, want 404", w.Code)
	}
	if w := env.do(http.MethodGet, draftPath, token, nil); w.Code != http.StatusOK {
		t.Errorf("admin GET draft = %d, want 200", w.Code)
	}

	// An invalid bearer token on a read degrades to anonymous, not 401.
	w = env.do(http.MethodGet, "/api/v1/blog/", "garbage-token", nil)
	if w.Code != http.StatusOK {
		t.Errorf("list with invalid token = %d, want 200", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("list with invalid token total = %d, want anonymous view (2)", page.Total)
	}
}

func TestBlogCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()

	created := env.createPost(token, "Lifecycle", true)
	if created.ID == 0 {
		t.Fatal("created post has no ID")
	}

	// Patch only the title; everything else must survive.
	path := fmt.Sprintf("/api/v1/blog/%d", created.ID)
	w := env.do(http.MethodPatch, path, token, strings.NewReader(`{"title": "Renamed"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("patch = %d, body %s", w.Code, w.Body.String())
	}
	var patched model.Blog
	if err := json.Unmarshal(w.Body.Bytes(), &patched); err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	if patched.Title != "Renamed" {
		t.Errorf("title = %q, want Renamed", patched.Title)
	}
	if patched.Content != created.Content {
		t.Errorf("content changed by title-only patch: %q", patched.Content)
	}
	if patched.ID != created.ID {
		t.Errorf("ID changed: %d -> %d", created.ID, patched.ID)
	}

	// Delete returns the ok envelope; the post is gone afterwards.
	w = env.do(http.MethodDelete, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Errorf("delete body = %s", w.Body.String())
	}
	if w := env.do(http.MethodGet, path, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", w.Code)
	}
	if w := env.do(http.MethodDelete, path, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", w.Code)
	}
}

func TestBlogValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()

	// Missing required fields: 422.
	w := env.do(http.MethodPost, "/api/v1/blog/", token, strings.NewReader(`{"title": "No content"}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("create without content = %d, want 422", w.Code)
	}

	// Body that isn't JSON at all: 400.
	w = env.do(http.MethodPost, "/api/v1/blog/", token, strings.NewReader(`{not json`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("create with bad JSON = %d, want 400", w.Code)
	}

	// Patching a required field to empty: 422.
	created := env.createPost(token, "Valid", true)
	path := fmt.Sprintf("/api/v1/blog/%d", created.ID)
	w = env.do(http.MethodPatch, path, token, strings.NewReader(`{"title": ""}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("patch title to empty = %d, want 422", w.Code)
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	created := env.createPost(token, "Guarded", true)
	path := fmt.Sprintf("/api/v1/blog/%d", created.ID)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"create post", http.MethodPost, "/api/v1/blog/", `{"title": "x", "content": "y"}`},
		{"patch post", http.MethodPatch, path, `{"title": "x"}`},
		{"delete post", http.MethodDelete, path, ""},
		{"create project", http.MethodPost, "/api/v1/projects/", `{"title": "x", "description": "y"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name+" no token", func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			w := env.do(tc.method, tc.path, "", body)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q, want Bearer", got)
			}
		})
		t.Run(tc.name+" bad token", func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			w := env.do(tc.method, tc.path, "not.a.token", body)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}
		})
	}
}

func TestProjectCRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()

	// Create two projects out of order.
	for _, p := range []string{`{"title": "Second", "description": "d", "order": "2"}`,
		`{"title": "First", "description": "d", "order": "1"}`} {
		w := env.do(http.MethodPost, "/api/v1/projects/", token, strings.NewReader(p))
		if w.Code != http.StatusOK {
			t.Fatalf("create project = %d, body %s", w.Code, w.Body.String())
		}
	}

	// Public list, sorted by the order key.
	w := env.do(http.MethodGet, "/api/v1/projects/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list projects = %d", w.Code)
	}
	var page model.Page[model.Project]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 2 {
		t.Fatalf("list = %d items, total %d; want 2/2", len(page.Items), page.Total)
	}
	if page.Items[0].Title != "First" || page.Items[1].Title != "Second" {
		t.Errorf("order = [%s %s], want [First Second]", page.Items[0].Title, page.Items[1].Title)
	}

	// Patch the description of the first one.
	path := fmt.Sprintf("/api/v1/projects/%d", page.Items[0].ID)
	w = env.do(http.MethodPatch, path, token, strings.NewReader(`{"description": "updated"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("patch project = %d", w.Code)
	}
	var patched model.Project
	if err := json.Unmarshal(w.Body.Bytes(), &patched); err != nil {
		t.Fatalf("decode patched: %v", err)
	}
	if patched.Description != "updated" {
		t.Errorf("description = %q, want updated", patched.Description)
	}
	if patched.Title != "First" {
		t.Errorf("title changed: %q", patched.Title)
	}

	// Delete and verify.
	if w := env.do(http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
		t.Errorf("delete project = %d", w.Code)
	}
	if w := env.do(http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, want 404", w.Code)
	}
}

func TestPaginationParams(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	env.createPost(token, "Only", true)

	// Out-of-range values clamp rather than error.
	w := env.do(http.MethodGet, "/api/v1/blog/?page=0&size=500", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var page model.Page[model.Blog]
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("page = %d, want clamped to 1", page.Page)
	}
	if page.Size != 100 {
		t.Errorf("size = %d, want clamped to 100", page.Size)
	}

	// A page past the end is empty but reports the true total.
	w = env.do(http.MethodGet, "/api/v1/blog/?page=50&size=10", "", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 0 {
		t.Errorf("past-end page = %d items, total %d; want 0 items, total 1", len(page.Items), page.Total)
	}
}

func TestInvalidPathID(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/blog/abc", "/api/v1/blog/-1", "/api/v1/projects/abc"} {
		if w := env.do(http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d, want 404", path, w.Code)
		}
	}
}

func TestDocsEndpoint(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		env := newTestEnv(t)
		if w := env.do(http.MethodGet, "/openapi.json", "", nil); w.Code != http.StatusNotFound {
			t.Errorf("GET /openapi.json = %d, want 404 when docs are disabled", w.Code)
		}
	})

	t.Run("served at configured path", func(t *testing.T) {
		env := newTestEnv(t, func(cfg *config.Config) {
			cfg.Docs.Path = "/internal/openapi.json"
		})
		w := env.do(http.MethodGet, "/internal/openapi.json", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("GET docs = %d", w.Code)
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
			t.Fatalf("decode document: %v", err)
		}
		if doc["openapi"] == "" || doc["openapi"] == nil {
			t.Error("document has no openapi version field")
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/blog/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	env.srv.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	// An origin outside the allow list gets no CORS headers back.
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/blog/", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	env.srv.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin for disallowed origin = %q, want empty", got)
	}
}
