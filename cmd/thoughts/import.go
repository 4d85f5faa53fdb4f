// ABOUTME: Import command seeding the feed from RSS/Atom sources
// ABOUTME: Discovers each feed, then posts entries oldest first through the normal mutation path

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/discover"
	"github.com/harper/thoughts/internal/fetch"
	"github.com/harper/thoughts/internal/importer"
	"github.com/harper/thoughts/internal/opml"
)

var importCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Post thoughts from an RSS/Atom feed",
	Long: `Discover the feed at a URL and share each entry as a thought.

Entries are posted oldest first. Titles are used as the thought text,
falling back to the summary, truncated to 280 characters. With --opml,
every feed listed in the subscription file is imported in turn.

Examples:
  thoughts import https://example.com/blog
  thoughts import https://example.com/feed.xml --limit 5 --dry-run
  thoughts import --opml ~/feeds.opml --limit 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		opmlPath, _ := cmd.Flags().GetString("opml")
		out := cmd.OutOrStdout()

		var urls []string
		switch {
		case opmlPath != "" && len(args) > 0:
			return errors.New("pass either a URL or --opml, not both")
		case opmlPath != "":
			feeds, err := opml.ParseFile(opmlPath)
			if err != nil {
				return err
			}
			for _, f := range feeds {
				urls = append(urls, f.URL)
			}
		case len(args) == 1:
			urls = args
		default:
			return errors.New("a feed URL or --opml file is required")
		}

		sess, err := newSession(nil)
		if err != nil {
			return err
		}
		im := importer.New(discover.New(fetch.New()), sess, logger)
		opts := importer.Options{Limit: limit, DryRun: dryRun}

		var failed int
		for _, url := range urls {
			report, err := im.Import(cmd.Context(), url, opts)
			if err != nil {
				if len(urls) == 1 {
					return fmt.Errorf("import failed: %w", err)
				}
				red := color.New(color.FgRed).SprintFunc()
				fmt.Fprintf(out, "%s %s: %v\n", red("✗"), url, err)
				failed++
				continue
			}
			printReport(out, report, dryRun)
		}
		if failed > 0 {
			fmt.Fprintf(out, "%d of %d feeds could not be imported\n", failed, len(urls))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().Int("limit", 0, "only import the newest N entries per feed (0 for all)")
	importCmd.Flags().Bool("dry-run", false, "show what would be posted without posting")
	importCmd.Flags().String("opml", "", "import every feed in an OPML subscription file")
}

func printReport(out io.Writer, report importer.Report, dryRun bool) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	title := report.FeedTitle
	if title == "" {
		title = report.FeedURL
	}
	fmt.Fprintf(out, "Feed: %s\n", title)
	for _, r := range report.Results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(out, "  %s %s %s\n", red("✗"), r.Content, faint(r.Err.Error()))
		case dryRun:
			fmt.Fprintf(out, "  %s %s\n", faint("·"), r.Content)
		default:
			fmt.Fprintf(out, "  %s %s\n", green("✓"), r.Content)
		}
	}

	if dryRun {
		fmt.Fprintf(out, "Dry run: %d thoughts would be posted, %d skipped\n", len(report.Results), report.Skipped)
		return
	}
	fmt.Fprintf(out, "Posted %d, failed %d, skipped %d\n", report.Posted(), report.Failed(), report.Skipped)
}
