// ABOUTME: Feed discovery for finding RSS/Atom feeds behind a URL
// ABOUTME: Tries the URL as a feed, then HTML alternate links, then common paths

package discover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/harper/thoughts/internal/parse"
)

// Common feed paths to probe when other discovery methods fail
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/atom.xml",
	"/index.xml",
}

// Errors returned by discovery functions
var (
	ErrNoFeedFound = errors.New("no RSS/Atom feed found at URL")
	ErrInvalidURL  = errors.New("invalid URL")
)

// Getter fetches a document body. *fetch.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// DiscoveredFeed is a feed found during discovery, already parsed.
type DiscoveredFeed struct {
	URL   string
	Title string
	Feed  *parse.ParsedFeed
}

// Discoverer locates feeds using a Getter.
type Discoverer struct {
	getter Getter
}

// New creates a Discoverer.
func New(getter Getter) *Discoverer {
	return &Discoverer{getter: getter}
}

// Discover finds the feed behind inputURL. A fetch failure of inputURL itself
// is returned as-is; failures while following links or probing are skipped.
func (d *Discoverer) Discover(ctx context.Context, inputURL string) (*DiscoveredFeed, error) {
	base, err := url.Parse(inputURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: missing scheme or host", ErrInvalidURL)
	}

	feed, body, err := d.tryFeed(ctx, inputURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	if feed != nil {
		return feed, nil
	}

	for _, candidate := range extractFeedLinks(body, base) {
		found, _, err := d.tryFeed(ctx, candidate.URL)
		if err != nil || found == nil {
			continue
		}
		if found.Title == "" {
			found.Title = candidate.Title
		}
		return found, nil
	}

	root := &url.URL{Scheme: base.Scheme, Host: base.Host}
	for _, path := range commonFeedPaths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		found, _, err := d.tryFeed(ctx, root.String()+path)
		if err == nil && found != nil {
			return found, nil
		}
	}

	return nil, ErrNoFeedFound
}

// tryFeed fetches feedURL and parses it. A body that is not a feed yields a nil
// feed and the raw body, not an error.
func (d *Discoverer) tryFeed(ctx context.Context, feedURL string) (*DiscoveredFeed, []byte, error) {
	body, err := d.getter.Get(ctx, feedURL)
	if err != nil {
		return nil, nil, err
	}

	parsed, parseErr := parse.Parse(body)
	if parseErr != nil {
		return nil, body, nil //nolint:nilerr // not a feed is an expected outcome
	}
	return &DiscoveredFeed{URL: feedURL, Title: parsed.Title, Feed: parsed}, body, nil
}

// extractFeedLinks returns feed URLs from <link rel="alternate"> elements.
func extractFeedLinks(body []byte, base *url.URL) []DiscoveredFeed {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var feeds []DiscoveredFeed
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href, title string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				case "title":
					title = attr.Val
				}
			}
			if strings.EqualFold(rel, "alternate") && isFeedContentType(linkType) && href != "" {
				if ref, err := url.Parse(href); err == nil {
					feeds = append(feeds, DiscoveredFeed{URL: base.ResolveReference(ref).String(), Title: title})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return feeds
}

// isFeedContentType checks if the content type indicates a feed
func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}
