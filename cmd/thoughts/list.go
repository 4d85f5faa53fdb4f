// ABOUTME: List command for reading the thoughts feed
// ABOUTME: Prints newest-first thoughts as plain text or rendered markdown

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/config"
	"github.com/harper/thoughts/internal/feed"
	"github.com/harper/thoughts/internal/timeutil"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent thoughts",
	Long: `List thoughts newest first.

Examples:
  thoughts list
  thoughts list --since today
  thoughts list --since 2026-01-01 --limit 50
  thoughts list --pretty`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetString("since")
		pretty, _ := cmd.Flags().GetBool("pretty")
		out := cmd.OutOrStdout()
		now := time.Now()

		sess, err := newSession(nil)
		if err != nil {
			return err
		}
		items, err := sess.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load thoughts: %w", err)
		}

		if since != "" {
			cutoff, err := timeutil.ParseSince(since, now)
			if err != nil {
				return err
			}
			items = itemsSince(items, cutoff)
		}

		if len(items) == 0 {
			fmt.Fprintln(out, "No thoughts yet. Be the first to share.")
			return nil
		}

		if pretty {
			markdown := feedMarkdown(items, now, limit)
			rendered, err := glamour.Render(markdown, "dark")
			if err != nil {
				faint := color.New(color.Faint).SprintFunc()
				fmt.Fprintln(out, faint("(markdown rendering unavailable, showing plain text)"))
				fmt.Fprint(out, markdown)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		}

		printFeed(out, items, now, limit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntP("limit", "n", config.DefaultListLimit, "maximum thoughts to show (0 for all)")
	listCmd.Flags().String("since", "", "only thoughts since (today, yesterday, week, month, YYYY-MM-DD, or RFC3339)")
	listCmd.Flags().Bool("pretty", false, "render the feed as markdown")
}

func itemsSince(items []feed.Item, cutoff time.Time) []feed.Item {
	var kept []feed.Item
	for _, item := range items {
		if feed.IsSpeculative(item) || !item.Time().Before(cutoff) {
			kept = append(kept, item)
		}
	}
	return kept
}

func capItems(items []feed.Item, limit int) []feed.Item {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func itemAge(item feed.Item, now time.Time) string {
	if feed.IsSpeculative(item) {
		return "sending…"
	}
	return timeutil.RelativeTime(item.Time(), now)
}

// printFeed writes one thought per line followed by a faint relative age.
func printFeed(w io.Writer, items []feed.Item, now time.Time, limit int) {
	faint := color.New(color.Faint).SprintFunc()
	for _, item := range capItems(items, limit) {
		fmt.Fprintf(w, "%s\n  %s\n", item.Content(), faint(itemAge(item, now)))
	}
	if hidden := len(items) - len(capItems(items, limit)); hidden > 0 {
		fmt.Fprintln(w, faint(fmt.Sprintf("… %d more", hidden)))
	}
}

func feedMarkdown(items []feed.Item, now time.Time, limit int) string {
	var b strings.Builder
	b.WriteString("# Recent thoughts\n\n")
	for _, item := range capItems(items, limit) {
		fmt.Fprintf(&b, "> %s\n\n*%s*\n\n", item.Content(), itemAge(item, now))
	}
	return b.String()
}
