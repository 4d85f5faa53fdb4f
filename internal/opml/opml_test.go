// ABOUTME: Test suite for OPML subscription list parsing
// ABOUTME: Covers nested folders, duplicate URLs, files, and malformed input

package opml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head>
    <title>My Feeds</title>
  </head>
  <body>
    <outline text="Tech News">
      <outline type="rss" text="Hacker News" xmlUrl="https://hnrss.org/frontpage" />
      <outline type="rss" text="TechCrunch" title="TC" xmlUrl="https://techcrunch.com/feed/" />
    </outline>
    <outline text="Blogs">
      <outline type="rss" text="Joel on Software" xmlUrl="https://www.joelonsoftware.com/feed/" />
      <outline type="rss" text="HN again" xmlUrl="https://hnrss.org/frontpage" />
    </outline>
    <outline type="rss" text="No Folder Feed" xmlUrl="https://example.com/feed" />
  </body>
</opml>`

func TestParse(t *testing.T) {
	feeds, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Feed{
		{URL: "https://hnrss.org/frontpage", Title: "Hacker News", Folder: "Tech News"},
		{URL: "https://techcrunch.com/feed/", Title: "TC", Folder: "Tech News"},
		{URL: "https://www.joelonsoftware.com/feed/", Title: "Joel on Software", Folder: "Blogs"},
		{URL: "https://example.com/feed", Title: "No Folder Feed", Folder: ""},
	}
	if len(feeds) != len(want) {
		t.Fatalf("Parse() returned %d feeds, want %d: %+v", len(feeds), len(want), feeds)
	}
	for i := range want {
		if feeds[i] != want[i] {
			t.Errorf("feed %d = %+v, want %+v", i, feeds[i], want[i])
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.opml")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	feeds, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(feeds) != 4 {
		t.Errorf("expected 4 feeds, got %d", len(feeds))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.opml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(strings.NewReader("<opml><body>")); err == nil {
		t.Error("expected error for malformed OPML")
	}
}

func TestParseEmpty(t *testing.T) {
	feeds, err := Parse(strings.NewReader(`<opml version="2.0"><head/><body/></opml>`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(feeds) != 0 {
		t.Errorf("expected no feeds, got %d", len(feeds))
	}
}
