package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the OpenAPI 3.1 document for the API. The surface is fixed
// (login, blog, projects), so the spec is assembled statically rather than
// introspected.
func Generate(baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "Personal Website API",
			Description: "Content backend for a personal website: blog posts and portfolio projects behind a single-admin bearer login.",
			Version:     "1.0.0",
		},
	}
	if baseURL != "" {
		doc.Servers = openapi3.Servers{{URL: baseURL}}
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	addSchemas(doc)

	doc.Paths = openapi3.NewPaths()
	addLoginPath(doc)
	addBlogPaths(doc)
	addProjectPaths(doc)

	return doc
}

func addSchemas(doc *openapi3.T) {
	doc.Components.Schemas["Error"] = &openapi3.SchemaRef{
		Value: objectSchema(map[string]*openapi3.SchemaRef{
			"error": {
				Value: objectSchema(map[string]*openapi3.SchemaRef{
					"code":    typed("integer"),
					"message": typed("string"),
				}),
			},
		}),
	}

	doc.Components.Schemas["Blog"] = &openapi3.SchemaRef{
		Value: objectSchema(map[string]*openapi3.SchemaRef{
			"id":           typed("integer"),
			"title":        typed("string"),
			"excerpt":      typed("string"),
			"content":      typed("string"),
			"tags":         stringArray(),
			"is_published": typed("boolean"),
			"created_at":   dateTime(),
			"updated_at":   dateTime(),
		}),
	}

	doc.Components.Schemas["Project"] = &openapi3.SchemaRef{
		Value: objectSchema(map[string]*openapi3.SchemaRef{
			"id":          typed("integer"),
			"title":       typed("string"),
			"description": typed("string"),
			"category":    typed("string"),
			"image":       typed("string"),
			"tags":        stringArray(),
			"github_url":  typed("string"),
			"live_url":    typed("string"),
			"order":       typed("string"),
			"created_at":  dateTime(),
			"updated_at":  dateTime(),
		}),
	}

	for _, name := range []string{"Blog", "Project"} {
		doc.Components.Schemas[name+"Page"] = &openapi3.SchemaRef{
			Value: objectSchema(map[string]*openapi3.SchemaRef{
				"items": {
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: &openapi3.SchemaRef{Ref: "#/components/schemas/" + name},
					},
				},
				"total": typed("integer"),
				"page":  typed("integer"),
				"size":  typed("integer"),
			}),
		}
	}

	doc.Components.Schemas["Token"] = &openapi3.SchemaRef{
		Value: objectSchema(map[string]*openapi3.SchemaRef{
			"access_token": typed("string"),
			"token_type":   typed("string"),
		}),
	}
}

func addLoginPath(doc *openapi3.T) {
	op := &openapi3.Operation{
		OperationID: "login",
		Summary:     "Exchange the admin credential for a bearer token",
		Tags:        []string{"auth"},
		RequestBody: &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content: openapi3.Content{
					"application/x-www-form-urlencoded": &openapi3.MediaType{
						Schema: &openapi3.SchemaRef{
							Value: objectSchema(map[string]*openapi3.SchemaRef{
								"username": typed("string"),
								"password": typed("string"),
							}),
						},
					},
				},
			},
		},
		Responses: responses(map[string]string{
			"200": "Token",
			"400": "Error",
		}),
	}
	doc.Paths.Set("/api/v1/login/token", &openapi3.PathItem{Post: op})
}

func addBlogPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/blog/", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listPosts",
			Summary:     "List blog posts (published only for anonymous callers)",
			Tags:        []string{"blog"},
			Parameters:  pageQueryParams(),
			Responses:   responses(map[string]string{"200": "BlogPage"}),
		},
		Post: &openapi3.Operation{
			OperationID: "createPost",
			Summary:     "Create a blog post",
			Tags:        []string{"blog"},
			Security:    bearerSecurity(),
			RequestBody: jsonBody("Blog"),
			Responses: responses(map[string]string{
				"200": "Blog", "401": "Error", "422": "Error",
			}),
		},
	})

	doc.Paths.Set("/api/v1/blog/{id}", &openapi3.PathItem{
		Parameters: idPathParam(),
		Get: &openapi3.Operation{
			OperationID: "getPost",
			Summary:     "Get a blog post",
			Tags:        []string{"blog"},
			Responses:   responses(map[string]string{"200": "Blog", "404": "Error"}),
		},
		Patch: &openapi3.Operation{
			OperationID: "updatePost",
			Summary:     "Partially update a blog post",
			Tags:        []string{"blog"},
			Security:    bearerSecurity(),
			RequestBody: jsonBody("Blog"),
			Responses: responses(map[string]string{
				"200": "Blog", "401": "Error", "404": "Error",
			}),
		},
		Delete: &openapi3.Operation{
			OperationID: "deletePost",
			Summary:     "Delete a blog post",
			Tags:        []string{"blog"},
			Security:    bearerSecurity(),
			Responses:   responses(map[string]string{"200": "", "401": "Error", "404": "Error"}),
		},
	})
}

func addProjectPaths(doc *openapi3.T) {
	doc.Paths.Set("/api/v1/projects/", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listProjects",
			Summary:     "List projects ordered by sort key",
			Tags:        []string{"projects"},
			Parameters:  pageQueryParams(),
			Responses:   responses(map[string]string{"200": "ProjectPage"}),
		},
		Post: &openapi3.Operation{
			OperationID: "createProject",
			Summary:     "Create a project",
			Tags:        []string{"projects"},
			Security:    bearerSecurity(),
			RequestBody: jsonBody("Project"),
			Responses: responses(map[string]string{
				"200": "Project", "401": "Error", "422": "Error",
			}),
		},
	})

	doc.Paths.Set("/api/v1/projects/{id}", &openapi3.PathItem{
		Parameters: idPathParam(),
		Get: &openapi3.Operation{
			OperationID: "getProject",
			Summary:     "Get a project",
			Tags:        []string{"projects"},
			Responses:   responses(map[string]string{"200": "Project", "404": "Error"}),
		},
		Patch: &openapi3.Operation{
			OperationID: "updateProject",
			Summary:     "Partially update a project",
			Tags:        []string{"projects"},
			Security:    bearerSecurity(),
			RequestBody: jsonBody("Project"),
			Responses: responses(map[string]string{
				"200": "Project", "401": "Error", "404": "Error",
			}),
		},
		Delete: &openapi3.Operation{
			OperationID: "deleteProject",
			Summary:     "Delete a project",
			Tags:        []string{"projects"},
			Security:    bearerSecurity(),
			Responses:   responses(map[string]string{"200": "", "401": "Error", "404": "Error"}),
		},
	})
}

// --- small builders ---

func typed(t string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{t}}}
}

func dateTime() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
}

func stringArray() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:  &openapi3.Types{"array"},
		Items: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
	}}
}

func objectSchema(props map[string]*openapi3.SchemaRef) *openapi3.Schema {
	schemas := openapi3.Schemas{}
	for k, v := range props {
		schemas[k] = v
	}
	return &openapi3.Schema{Type: &openapi3.Types{"object"}, Properties: schemas}
}

func bearerSecurity() *openapi3.SecurityRequirements {
	reqs := openapi3.NewSecurityRequirements()
	reqs.With(openapi3.SecurityRequirement{"bearerAuth": {}})
	return reqs
}

func jsonBody(schemaName string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{Ref: "#/components/schemas/" + schemaName},
				},
			},
		},
	}
}

func idPathParam() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name:     "id",
			In:       "path",
			Required: true,
			Schema:   typed("integer"),
		}},
	}
}

func pageQueryParams() openapi3.Parameters {
	return openapi3.Parameters{
		&openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name: "page", In: "query", Schema: typed("integer"),
		}},
		&openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name: "size", In: "query", Schema: typed("integer"),
		}},
	}
}

func responses(byCode map[string]string) *openapi3.Responses {
	resps := openapi3.NewResponses()
	for code, schemaName := range byCode {
		desc := descriptionFor(code)
		resp := &openapi3.Response{Description: &desc}
		if schemaName != "" {
			resp.Content = openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema: &openapi3.SchemaRef{Ref: "#/components/schemas/" + schemaName},
				},
			}
		}
		resps.Set(code, &openapi3.ResponseRef{Value: resp})
	}
	return resps
}

func descriptionFor(code string) string {
	switch code {
	case "200":
		return "Success"
	case "400":
		return "Bad request"
	case "401":
		return "Not authenticated"
	case "404":
		return "Not found"
	case "422":
		return "Validation error"
	default:
		return "Error"
	}
}
