// ABOUTME: Imports entries from an RSS/Atom feed as thoughts
// ABOUTME: Each entry becomes one post through the optimistic mutation path, oldest first

package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harper/thoughts/internal/content"
	"github.com/harper/thoughts/internal/discover"
	"github.com/harper/thoughts/internal/models"
	"github.com/harper/thoughts/internal/parse"
)

// Finder locates and parses the feed behind a URL. *discover.Discoverer implements it.
type Finder interface {
	Discover(ctx context.Context, url string) (*discover.DiscoveredFeed, error)
}

// Poster creates one thought. *session.Session implements it.
type Poster interface {
	Post(ctx context.Context, content string) (models.Message, error)
}

// Options controls an import run.
type Options struct {
	Limit  int  // newest N entries only; 0 means all
	DryRun bool // build thoughts without posting
}

// Result describes one entry's outcome.
type Result struct {
	Content string
	Message models.Message
	Err     error
}

// Report summarizes an import run.
type Report struct {
	FeedURL   string
	FeedTitle string
	Results   []Result
	Skipped   int
}

// Posted counts entries that were created.
func (r Report) Posted() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil && res.Message.ID > 0 {
			n++
		}
	}
	return n
}

// Failed counts entries whose post failed.
func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Importer turns feed entries into thoughts.
type Importer struct {
	finder Finder
	poster Poster
	logger *slog.Logger
}

// New creates an Importer.
func New(finder Finder, poster Poster, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{finder: finder, poster: poster, logger: logger}
}

// Import discovers the feed at url and posts its entries oldest first so the
// newest entry ends up at the top of the feed. A failed post does not stop the
// run; cancelling ctx does.
func (im *Importer) Import(ctx context.Context, url string, opts Options) (Report, error) {
	found, err := im.finder.Discover(ctx, url)
	if err != nil {
		return Report{}, fmt.Errorf("discover %s: %w", url, err)
	}

	report := Report{FeedURL: found.URL, FeedTitle: found.Title}
	entries := found.Feed.OldestFirst()
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		text := Thought(entry)
		if text == "" {
			report.Skipped++
			continue
		}

		if opts.DryRun {
			report.Results = append(report.Results, Result{Content: text})
			continue
		}

		created, err := im.poster.Post(ctx, text)
		if err != nil && errors.Is(err, context.Canceled) {
			return report, err
		}
		if err != nil {
			im.logger.Warn("import entry failed", "guid", entry.GUID, "error", err)
		}
		report.Results = append(report.Results, Result{Content: text, Message: created, Err: err})
	}

	im.logger.Info("import finished", "feed", report.FeedURL, "posted", report.Posted(), "failed", report.Failed(), "skipped", report.Skipped)
	return report, nil
}

// Thought derives the text of a thought from a feed entry: the title, or the
// summary flattened to one line when there is no title, truncated to fit.
func Thought(entry parse.ParsedEntry) string {
	text := content.OneLine(entry.Title)
	if text == "" {
		text = content.OneLine(entry.Summary)
	}
	return models.Truncate(strings.TrimSpace(text), models.MaxContentLength)
}
