// ABOUTME: MCP resource providers for thoughts
// ABOUTME: Exposes a read-only view of the feed

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// FeedResourceURI identifies the feed resource.
const FeedResourceURI = "thoughts://feed"

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata `json:"metadata"`
	Data     interface{}      `json:"data"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	Count       int       `json:"count"`
	ResourceURI string    `json:"resource_uri"`
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         FeedResourceURI,
			Name:        "Feed",
			Description: "All thoughts in the shared feed, newest first, with relative ages",
			MIMEType:    "application/json",
		},
		s.readFeedResource,
	)
}

func (s *Server) readFeedResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	items, err := s.feed.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load thoughts: %w", err)
	}

	now := s.now()
	thoughts := make([]ThoughtOutput, 0, len(items))
	for _, item := range items {
		thoughts = append(thoughts, toOutput(item, now))
	}

	resourceData := ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   now,
			Count:       len(thoughts),
			ResourceURI: FeedResourceURI,
		},
		Data: thoughts,
	}

	jsonBytes, err := json.MarshalIndent(resourceData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
