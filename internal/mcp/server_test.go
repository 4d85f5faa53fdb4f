// ABOUTME: Tests for MCP server handlers
// ABOUTME: Drives tools, resources and prompts against an in-memory fake feed

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/models"
)

var testNow = time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)

type fakeFeed struct {
	items   []feed.Item
	loadErr error
	postErr error
	posted  []string
}

func (f *fakeFeed) Load(context.Context) ([]feed.Item, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.items, nil
}

func (f *fakeFeed) Post(_ context.Context, content string) (models.Message, error) {
	f.posted = append(f.posted, content)
	if f.postErr != nil {
		return models.Message{}, f.postErr
	}
	if err := models.NewDraft(content).Validate(); err != nil {
		return models.Message{}, err
	}
	return models.Message{ID: 42, Content: content, CreatedAt: testNow}, nil
}

func testServer(t *testing.T, f *fakeFeed) *Server {
	t.Helper()
	s := NewServer(f, "test")
	s.now = func() time.Time { return testNow }
	return s
}

func sampleItems() []feed.Item {
	return []feed.Item{
		feed.Speculative{Token: uuid.New(), Text: "sending now", LocalTime: testNow},
		feed.Confirmed{Message: models.Message{ID: 3, Content: "this morning", CreatedAt: testNow.Add(-2 * time.Hour)}},
		feed.Confirmed{Message: models.Message{ID: 2, Content: "yesterday", CreatedAt: testNow.Add(-26 * time.Hour)}},
		feed.Confirmed{Message: models.Message{ID: 1, Content: "last month", CreatedAt: testNow.Add(-40 * 24 * time.Hour)}},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	return result.Content[0].(mcp.TextContent).Text
}

func TestHandleListThoughts(t *testing.T) {
	s := testServer(t, &fakeFeed{items: sampleItems()})

	result, err := s.handleListThoughts(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleListThoughts: %v", err)
	}

	var output ListThoughtsOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if output.Count != 4 {
		t.Fatalf("expected 4 thoughts, got %d", output.Count)
	}
	if !output.Thoughts[0].Pending || output.Thoughts[0].ID != 0 {
		t.Errorf("expected first thought to be pending without id, got %+v", output.Thoughts[0])
	}
	if output.Thoughts[1].ID != 3 || output.Thoughts[1].Age != "about 2 hours ago" {
		t.Errorf("unexpected second thought %+v", output.Thoughts[1])
	}
}

func TestHandleListThoughts_Filters(t *testing.T) {
	s := testServer(t, &fakeFeed{items: sampleItems()})

	tests := []struct {
		name string
		args map[string]interface{}
		want int
	}{
		{name: "since today", args: map[string]interface{}{"since": "today"}, want: 2},
		{name: "since yesterday", args: map[string]interface{}{"since": "yesterday"}, want: 3},
		{name: "limit", args: map[string]interface{}{"limit": 1}, want: 1},
		{name: "limit larger than feed", args: map[string]interface{}{"limit": 50}, want: 4},
		{name: "since and limit", args: map[string]interface{}{"since": "month", "limit": 2}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args
			result, err := s.handleListThoughts(context.Background(), req)
			if err != nil {
				t.Fatalf("handleListThoughts: %v", err)
			}
			var output ListThoughtsOutput
			if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
				t.Fatalf("unmarshal output: %v", err)
			}
			if output.Count != tt.want {
				t.Errorf("expected %d thoughts, got %d", tt.want, output.Count)
			}
		})
	}
}

func TestHandleListThoughts_Errors(t *testing.T) {
	s := testServer(t, &fakeFeed{items: sampleItems()})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"since": "someday"}
	if _, err := s.handleListThoughts(context.Background(), req); err == nil {
		t.Error("expected error for unparseable since")
	}

	req.Params.Arguments = map[string]interface{}{"limit": -1}
	if _, err := s.handleListThoughts(context.Background(), req); err == nil {
		t.Error("expected error for negative limit")
	}

	broken := testServer(t, &fakeFeed{loadErr: errors.New("offline")})
	if _, err := broken.handleListThoughts(context.Background(), mcp.CallToolRequest{}); err == nil {
		t.Error("expected error when the feed cannot load")
	}
}

func TestHandlePostThought(t *testing.T) {
	f := &fakeFeed{}
	s := testServer(t, f)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"content": "hello from an agent"}
	result, err := s.handlePostThought(context.Background(), req)
	if err != nil {
		t.Fatalf("handlePostThought: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var output PostThoughtOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if output.Thought.ID != 42 || output.Thought.Content != "hello from an agent" {
		t.Errorf("unexpected output %+v", output)
	}
	if len(f.posted) != 1 {
		t.Errorf("expected one post, got %d", len(f.posted))
	}
}

func TestHandlePostThought_ValidationIsToolError(t *testing.T) {
	s := testServer(t, &fakeFeed{})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"content": strings.Repeat("x", models.MaxContentLength+1)}
	result, err := s.handlePostThought(context.Background(), req)
	if err != nil {
		t.Fatalf("validation should be a tool result, got error %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError result")
	}
	if resultText(t, result) != models.MsgContentTooLong {
		t.Errorf("unexpected message %q", resultText(t, result))
	}
}

func TestHandlePostThought_TransportError(t *testing.T) {
	s := testServer(t, &fakeFeed{postErr: errors.New("connection refused")})

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"content": "hi"}
	if _, err := s.handlePostThought(context.Background(), req); err == nil {
		t.Error("expected error for transport failure")
	}
}

func TestReadFeedResource(t *testing.T) {
	s := testServer(t, &fakeFeed{items: sampleItems()})

	req := mcp.ReadResourceRequest{}
	req.Params.URI = FeedResourceURI
	contents, err := s.readFeedResource(context.Background(), req)
	if err != nil {
		t.Fatalf("readFeedResource: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}

	text := contents[0].(*mcp.TextResourceContents)
	var data struct {
		Metadata ResourceMetadata `json:"metadata"`
		Data     []ThoughtOutput  `json:"data"`
	}
	if err := json.Unmarshal([]byte(text.Text), &data); err != nil {
		t.Fatalf("unmarshal resource: %v", err)
	}
	if data.Metadata.Count != 4 || len(data.Data) != 4 {
		t.Errorf("expected 4 thoughts, got %d", data.Metadata.Count)
	}
	if data.Metadata.ResourceURI != FeedResourceURI {
		t.Errorf("unexpected URI %q", data.Metadata.ResourceURI)
	}
}

func TestHandleReflect(t *testing.T) {
	s := testServer(t, &fakeFeed{})

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"since": "week"}
	result, err := s.handleReflect(context.Background(), req)
	if err != nil {
		t.Fatalf("handleReflect: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	text := result.Messages[0].Content.(mcp.TextContent).Text
	if !strings.Contains(text, `since="week"`) {
		t.Error("expected prompt to use the requested period")
	}
	if !strings.Contains(text, "post_thought") {
		t.Error("expected prompt to mention post_thought")
	}
}
