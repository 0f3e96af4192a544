package openapi

import (
	"encoding/json"
	"testing"
)

func TestGenerate(t *testing.T) {
	doc := Generate("")

	if doc.OpenAPI != "3.1.0" {
		t.Errorf("version = %q, want 3.1.0", doc.OpenAPI)
	}

	wantPaths := []string{
		"/api/v1/login/token",
		"/api/v1/blog/",
		"/api/v1/blog/{id}",
		"/api/v1/projects/",
		"/api/v1/projects/{id}",
	}
	for _, p := range wantPaths {
		if doc.Paths.Value(p) == nil {
			t.Errorf("missing path %s", p)
		}
	}

	wantSchemas := []string{"Error", "Blog", "Project", "BlogPage", "ProjectPage", "Token"}
	for _, s := range wantSchemas {
		if doc.Components.Schemas[s] == nil {
			t.Errorf("missing schema %s", s)
		}
	}

	if doc.Components.SecuritySchemes["bearerAuth"] == nil {
		t.Error("missing bearerAuth security scheme")
	}

	// Mutations carry the bearer requirement; public reads don't.
	blog := doc.Paths.Value("/api/v1/blog/")
	if blog.Post.Security == nil {
		t.Error("POST /api/v1/blog/ has no security requirement")
	}
	if blog.Get.Security != nil {
		t.Error("GET /api/v1/blog/ unexpectedly requires auth")
	}
}

func TestGenerateServers(t *testing.T) {
	doc := Generate("https://api.example.com")
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "https://api.example.com" {
		t.Errorf("servers = %+v", doc.Servers)
	}

	if srv := Generate("").Servers; len(srv) != 0 {
		t.Errorf("servers with empty base URL = %+v, want none", srv)
	}
}

func TestGenerateSerializes(t *testing.T) {
	out, err := json.Marshal(Generate(""))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty document")
	}

	var round map[string]interface{}
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("unmarshal round trip: %v", err)
	}
	if round["openapi"] != "3.1.0" {
		t.Errorf("serialized version = %v", round["openapi"])
	}
}
