// ABOUTME: RSS/Atom feed parsing using gofeed library
// ABOUTME: Normalizes feed items into entries that can become thoughts

package parse

import (
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ParsedFeed represents a normalized feed structure
type ParsedFeed struct {
	Title   string
	Entries []ParsedEntry
}

// ParsedEntry represents a normalized feed entry
type ParsedEntry struct {
	GUID        string
	Title       string
	Link        string
	PublishedAt *time.Time
	Summary     string // description, or content when there is no description
}

// Parse parses RSS or Atom feed data and returns a normalized ParsedFeed
func Parse(data []byte) (*ParsedFeed, error) {
	feed, err := gofeed.NewParser().ParseString(string(data))
	if err != nil {
		return nil, err
	}

	parsed := &ParsedFeed{
		Title:   strings.TrimSpace(feed.Title),
		Entries: make([]ParsedEntry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		entry := ParsedEntry{
			GUID:  item.GUID,
			Title: strings.TrimSpace(item.Title),
			Link:  item.Link,
		}
		if entry.GUID == "" {
			entry.GUID = item.Link
		}

		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = item.UpdatedParsed
		}

		// Short descriptions make better thoughts than full article bodies.
		entry.Summary = strings.TrimSpace(item.Description)
		if entry.Summary == "" {
			entry.Summary = strings.TrimSpace(item.Content)
		}

		parsed.Entries = append(parsed.Entries, entry)
	}

	return parsed, nil
}

// OldestFirst returns entries ordered by publication time, oldest first.
// Entries without a date keep their relative order and sort after dated ones.
func (f *ParsedFeed) OldestFirst() []ParsedEntry {
	out := make([]ParsedEntry, len(f.Entries))
	copy(out, f.Entries)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PublishedAt, out[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}
