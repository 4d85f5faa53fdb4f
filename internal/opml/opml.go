// ABOUTME: Read-only OPML subscription list reader
// ABOUTME: Flattens nested outlines into the feed URLs a bulk import walks

package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Feed is one subscription with the folder it was filed under.
type Feed struct {
	URL    string
	Title  string
	Folder string
}

type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Head    struct {
		Title string `xml:"title"`
	} `xml:"head"`
	Body struct {
		Outlines []outlineXML `xml:"outline"`
	} `xml:"body"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr"`
	XMLURL   string       `xml:"xmlUrl,attr"`
	Children []outlineXML `xml:"outline"`
}

// Parse reads an OPML document and returns its feeds in document order.
// Duplicate URLs are reported once.
func Parse(r io.Reader) ([]Feed, error) {
	var doc opmlXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode OPML: %w", err)
	}

	seen := make(map[string]bool)
	var feeds []Feed
	var walk func(outlines []outlineXML, folder string)
	walk = func(outlines []outlineXML, folder string) {
		for _, o := range outlines {
			url := strings.TrimSpace(o.XMLURL)
			if url == "" {
				walk(o.Children, outlineTitle(o))
				continue
			}
			if seen[url] {
				continue
			}
			seen[url] = true
			feeds = append(feeds, Feed{URL: url, Title: outlineTitle(o), Folder: folder})
		}
	}
	walk(doc.Body.Outlines, "")
	return feeds, nil
}

// ParseFile reads the OPML file at path.
func ParseFile(path string) ([]Feed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

func outlineTitle(o outlineXML) string {
	if o.Title != "" {
		return o.Title
	}
	return o.Text
}
