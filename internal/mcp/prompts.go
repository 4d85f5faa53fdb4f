// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides a reflection workflow over recent thoughts

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/thoughts/internal/models"
)

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "reflect",
			Description: "Review recent thoughts in the feed and share a short reflection on them",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "since",
					Description: "Period to reflect on: today, yesterday, week, or month (default: today)",
					Required:    false,
				},
			},
		},
		s.handleReflect,
	)
}

func (s *Server) handleReflect(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	since := "today"
	if req.Params.Arguments != nil {
		if v, ok := req.Params.Arguments["since"]; ok && v != "" {
			since = v
		}
	}

	template := fmt.Sprintf(`# Reflect on Recent Thoughts

## Step 1: Read the feed
Call list_thoughts with since=%q. Entries marked pending are still being sent.

## Step 2: Find the thread
Look for themes, repeated ideas, and open questions across the entries.

## Step 3: Share one reflection
Call post_thought with a single reflection of at most %d characters.
Keep it to one line. If the tool reports a validation error, shorten the text and try again.
`, since, models.MaxContentLength)

	return &mcp.GetPromptResult{
		Description: "Reflection workflow over recent thoughts",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
