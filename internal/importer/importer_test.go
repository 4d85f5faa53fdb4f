// ABOUTME: Tests for feed import
// ABOUTME: Uses a stub finder and recording poster to check ordering, limits and failures

package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/harper/thoughts/internal/discover"
	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/parse"
)

type stubFinder struct {
	found *discover.DiscoveredFeed
	err   error
}

func (s stubFinder) Discover(context.Context, string) (*discover.DiscoveredFeed, error) {
	return s.found, s.err
}

type recordingPoster struct {
	posted []string
	failOn string
}

func (p *recordingPoster) Post(_ context.Context, text string) (models.Message, error) {
	p.posted = append(p.posted, text)
	if text == p.failOn {
		return models.Message{}, errors.New("server unavailable")
	}
	return models.Message{ID: int64(len(p.posted)), Content: text, CreatedAt: time.Now()}, nil
}

func at(day int) *time.Time {
	t := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleFeed() *discover.DiscoveredFeed {
	return &discover.DiscoveredFeed{
		URL:   "https://example.com/feed.xml",
		Title: "Example",
		Feed: &parse.ParsedFeed{Entries: []parse.ParsedEntry{
			{GUID: "3", Title: "Third", PublishedAt: at(3)},
			{GUID: "1", Title: "First", PublishedAt: at(1)},
			{GUID: "blank", Title: "  ", Summary: ""},
			{GUID: "2", Title: "", Summary: "<p>Second\nfrom summary</p>", PublishedAt: at(2)},
		}},
	}
}

func TestImport_OldestFirst(t *testing.T) {
	poster := &recordingPoster{}
	im := New(stubFinder{found: sampleFeed()}, poster, nil)

	report, err := im.Import(context.Background(), "https://example.com", Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	want := []string{"First", "Second from summary", "Third"}
	if strings.Join(poster.posted, "|") != strings.Join(want, "|") {
		t.Errorf("posted %q, want %q", poster.posted, want)
	}
	if report.Posted() != 3 || report.Skipped != 1 || report.Failed() != 0 {
		t.Errorf("unexpected report: posted=%d skipped=%d failed=%d", report.Posted(), report.Skipped, report.Failed())
	}
	if report.FeedTitle != "Example" {
		t.Errorf("unexpected feed title %q", report.FeedTitle)
	}
}

func TestImport_LimitKeepsNewest(t *testing.T) {
	poster := &recordingPoster{}
	im := New(stubFinder{found: sampleFeed()}, poster, nil)

	if _, err := im.Import(context.Background(), "https://example.com", Options{Limit: 2}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	// The two newest are Third and the undated blank entry, which is skipped.
	if len(poster.posted) != 1 || poster.posted[0] != "Third" {
		t.Errorf("unexpected posts %q", poster.posted)
	}
}

func TestImport_DryRunDoesNotPost(t *testing.T) {
	poster := &recordingPoster{}
	im := New(stubFinder{found: sampleFeed()}, poster, nil)

	report, err := im.Import(context.Background(), "https://example.com", Options{DryRun: true})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(poster.posted) != 0 {
		t.Errorf("dry run posted %d thoughts", len(poster.posted))
	}
	if len(report.Results) != 3 || report.Posted() != 0 {
		t.Errorf("unexpected dry-run report %+v", report)
	}
}

func TestImport_FailureContinues(t *testing.T) {
	poster := &recordingPoster{failOn: "First"}
	im := New(stubFinder{found: sampleFeed()}, poster, nil)

	report, err := im.Import(context.Background(), "https://example.com", Options{})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.Failed() != 1 || report.Posted() != 2 {
		t.Errorf("expected 1 failure and 2 posts, got %d and %d", report.Failed(), report.Posted())
	}
}

func TestImport_DiscoverError(t *testing.T) {
	im := New(stubFinder{err: discover.ErrNoFeedFound}, &recordingPoster{}, nil)

	_, err := im.Import(context.Background(), "https://example.com", Options{})
	if !errors.Is(err, discover.ErrNoFeedFound) {
		t.Errorf("expected ErrNoFeedFound, got %v", err)
	}
}

func TestImport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	poster := &recordingPoster{}
	im := New(stubFinder{found: sampleFeed()}, poster, nil)
	if _, err := im.Import(ctx, "https://example.com", Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(poster.posted) != 0 {
		t.Error("nothing should be posted after cancellation")
	}
}

func TestThought_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := Thought(parse.ParsedEntry{Title: long})

	if n := utf8.RuneCountInString(got); n != models.MaxContentLength {
		t.Errorf("expected %d runes, got %d", models.MaxContentLength, n)
	}
	if err := models.NewDraft(got).Validate(); err != nil {
		t.Errorf("truncated thought should validate: %v", err)
	}
}
