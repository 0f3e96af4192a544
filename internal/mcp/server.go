package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quillhq/quill/internal/store"
)

// ContentServer exposes the site's published content over MCP so AI agents
// can read it. All tools are read-only: mutations stay behind the HTTP API's
// bearer gate.
type ContentServer struct {
	store  *store.Store
	logger *slog.Logger
	server *server.MCPServer
}

// NewContentServer creates a ContentServer pre-loaded with the content tools
// and resources. The returned server is ready to serve over stdio.
func NewContentServer(st *store.Store, logger *slog.Logger) *ContentServer {
	s := &ContentServer{
		store:  st,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"Personal Website Content",
		"1.0.0",
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.server = mcpServer
	return s
}

// Server returns the underlying mcp-go MCPServer instance, useful for testing.
func (s *ContentServer) Server() *server.MCPServer {
	return s.server
}

// ServeStdio starts the MCP server in stdio mode, the integration path for
// clients that launch the server as a subprocess.
func (s *ContentServer) ServeStdio() error {
	s.logger.Info("starting MCP server in stdio mode")
	return server.ServeStdio(s.server)
}

func readOnlyAnnotation() mcp.ToolAnnotation {
	return mcp.ToolAnnotation{
		ReadOnlyHint: boolPtr(true),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
