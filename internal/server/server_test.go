// ABOUTME: Tests for the HTTP API server
// ABOUTME: Exercises routes against a real SQLite store and a failing store via httptest

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, storage.Store) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ts := httptest.NewServer(New(store, WithLogger(quietLogger())).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	return resp
}

func TestHandleCreate_Created(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/messages", `{"content":"hello"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected Content-Type %q", ct)
	}

	var created models.Message
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := created.Validate(); err != nil {
		t.Errorf("response should be a fully populated message: %v", err)
	}
	if created.Content != "hello" {
		t.Errorf("unexpected content %q", created.Content)
	}
}

func TestHandleCreate_ValidationErrors(t *testing.T) {
	ts, store := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "empty", body: `{"content":""}`, wantMsg: models.MsgContentRequired},
		{name: "missing", body: `{}`, wantMsg: models.MsgContentRequired},
		{name: "too long", body: `{"content":"` + strings.Repeat("x", 300) + `"}`, wantMsg: models.MsgContentTooLong},
		{name: "malformed", body: `{"content":`, wantMsg: "Invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/messages", tt.body)
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var payload struct {
				Message string `json:"message"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if payload.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", payload.Message, tt.wantMsg)
			}
		})
	}

	messages, err := store.ListMessages(context.Background())
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("rejected drafts must not be stored, got %d", len(messages))
	}
}

func TestHandleList(t *testing.T) {
	ts, store := newTestServer(t)
	ctx := context.Background()

	for _, content := range []string{"A", "B"} {
		if _, err := store.CreateMessage(ctx, models.NewDraft(content)); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	resp, err := http.Get(ts.URL + "/api/messages")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var messages []models.Message
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(messages) != 2 || messages[0].Content != "A" || messages[1].Content != "B" {
		t.Errorf("unexpected messages %+v", messages)
	}
}

func TestHandleList_EmptyIsArray(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/messages")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("expected empty JSON array, got %q", body)
	}
}

func TestHandleGet(t *testing.T) {
	ts, store := newTestServer(t)

	created, err := store.CreateMessage(context.Background(), models.NewDraft("find me"))
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	tests := []struct {
		path   string
		status int
	}{
		{path: "/api/messages/1", status: http.StatusOK},
		{path: "/api/messages/999", status: http.StatusNotFound},
		{path: "/api/messages/abc", status: http.StatusBadRequest},
		{path: "/api/messages/0", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		resp, err := http.Get(ts.URL + tt.path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", tt.path, err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s: expected %d, got %d", tt.path, tt.status, resp.StatusCode)
		}
		if tt.status == http.StatusOK {
			var m models.Message
			json.NewDecoder(resp.Body).Decode(&m)
			if m.ID != created.ID || m.Content != "find me" {
				t.Errorf("unexpected message %+v", m)
			}
		}
		resp.Body.Close()
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

// brokenStore fails every operation.
type brokenStore struct{}

func (brokenStore) Close() error    { return nil }
func (brokenStore) Backend() string { return "broken" }

func (brokenStore) CreateMessage(context.Context, models.Draft) (models.Message, error) {
	return models.Message{}, errors.New("disk full")
}

func (brokenStore) GetMessage(context.Context, int64) (models.Message, error) {
	return models.Message{}, errors.New("disk full")
}

func (brokenStore) ListMessages(context.Context) ([]models.Message, error) {
	return nil, errors.New("disk full")
}

func TestServerErrors(t *testing.T) {
	ts := httptest.NewServer(New(brokenStore{}, WithLogger(quietLogger())).Handler())
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/messages", `{"content":"ok"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("create: expected 500, got %d", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/messages")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("list: expected 500, got %d", resp.StatusCode)
	}
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	srv := New(brokenStore{}, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
