// ABOUTME: MCP tool definitions and handlers for reading and posting thoughts
// ABOUTME: Posts go through the optimistic mutation coordinator like every other client

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/timeutil"
)

type ListThoughtsInput struct {
	Since *string `json:"since,omitempty"`
	Limit *int    `json:"limit,omitempty"`
}

type ThoughtOutput struct {
	ID        int64     `json:"id,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Age       string    `json:"age"`
	Pending   bool      `json:"pending,omitempty"`
}

type ListThoughtsOutput struct {
	Thoughts []ThoughtOutput `json:"thoughts"`
	Count    int             `json:"count"`
	Filters  map[string]any  `json:"filters"`
}

type PostThoughtInput struct {
	Content string `json:"content"`
}

type PostThoughtOutput struct {
	Thought ThoughtOutput `json:"thought"`
	Message string        `json:"message"`
}

func (s *Server) registerTools() {
	s.registerListThoughtsTool()
	s.registerPostThoughtTool()
}

func (s *Server) registerListThoughtsTool() {
	tool := mcp.Tool{
		Name:        "list_thoughts",
		Description: "List thoughts from the shared feed, newest first. Use 'since' with 'today', 'yesterday', 'week', 'month' or an ISO date (YYYY-MM-DD) to only see recent thoughts, and 'limit' to cap the number returned.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"since": map[string]interface{}{
					"type":        "string",
					"description": "Only return thoughts created on or after this date. Example: 'today'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of thoughts to return. Example: 20",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListThoughts)
}

func (s *Server) registerPostThoughtTool() {
	tool := mcp.Tool{
		Name:        "post_thought",
		Description: fmt.Sprintf("Share a thought to the feed. Content must be non-blank and at most %d characters. Thoughts are append-only and cannot be edited or deleted afterwards.", models.MaxContentLength),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"content": map[string]interface{}{
					"type":        "string",
					"description": "The text of the thought. Example: 'Shipping the new feed cache today'",
				},
			},
			Required: []string{"content"},
		},
	}
	s.mcpServer.AddTool(tool, s.handlePostThought)
}

func (s *Server) handleListThoughts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListThoughtsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	items, err := s.feed.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load thoughts: %w", err)
	}

	now := s.now()
	filters := map[string]any{}

	if input.Since != nil {
		since, err := timeutil.ParseSince(*input.Since, now)
		if err != nil {
			return nil, err
		}
		items = filterSince(items, since)
		filters["since"] = since
	}
	if input.Limit != nil {
		if *input.Limit < 0 {
			return nil, errors.New("limit must not be negative")
		}
		if *input.Limit < len(items) {
			items = items[:*input.Limit]
		}
		filters["limit"] = *input.Limit
	}

	thoughts := make([]ThoughtOutput, 0, len(items))
	for _, item := range items {
		thoughts = append(thoughts, toOutput(item, now))
	}

	return jsonResult(ListThoughtsOutput{Thoughts: thoughts, Count: len(thoughts), Filters: filters})
}

func (s *Server) handlePostThought(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input PostThoughtInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	created, err := s.feed.Post(ctx, input.Content)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(verr.Message), nil
		}
		return nil, fmt.Errorf("failed to post thought: %w", err)
	}

	return jsonResult(PostThoughtOutput{
		Thought: toOutput(feed.Confirmed{Message: created}, s.now()),
		Message: "Your thought has been shared.",
	})
}

func filterSince(items []feed.Item, since time.Time) []feed.Item {
	out := make([]feed.Item, 0, len(items))
	for _, item := range items {
		if feed.IsSpeculative(item) || !item.Time().Before(since) {
			out = append(out, item)
		}
	}
	return out
}

func toOutput(item feed.Item, now time.Time) ThoughtOutput {
	out := ThoughtOutput{
		Content:   item.Content(),
		CreatedAt: item.Time(),
		Age:       timeutil.RelativeTime(item.Time(), now),
	}
	switch it := item.(type) {
	case feed.Confirmed:
		out.ID = it.Message.ID
	case feed.Speculative:
		out.Pending = true
		out.Age = "sending"
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
