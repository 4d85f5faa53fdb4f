// ABOUTME: MCP server implementation for thoughts
// ABOUTME: Provides tools, resources, and prompts for AI agents to read and post to the feed

package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/models"
)

// Feed is the session surface the MCP server drives. *session.Session implements it.
type Feed interface {
	Load(ctx context.Context) ([]feed.Item, error)
	Post(ctx context.Context, content string) (models.Message, error)
}

// Server wraps the MCP server with thoughts-specific context
type Server struct {
	mcpServer *server.MCPServer
	feed      Feed
	now       func() time.Time
}

// NewServer creates a new MCP server instance
func NewServer(f Feed, version string) *Server {
	s := &Server{
		feed: f,
		now:  time.Now,
	}

	s.mcpServer = server.NewMCPServer(
		"thoughts",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
