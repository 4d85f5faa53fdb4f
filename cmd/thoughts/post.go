// ABOUTME: Post command for sharing a thought from the command line
// ABOUTME: Runs one optimistic mutation, prints its notification and the reconciled feed

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/mutation"
)

var postCmd = &cobra.Command{
	Use:     "post <text>",
	Aliases: []string{"p", "say"},
	Short:   "Share a thought",
	Long:    "Share a thought of at most 280 characters. Multiple arguments are joined with spaces.",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		show, _ := cmd.Flags().GetInt("show")
		out := cmd.OutOrStdout()

		notifier := mutation.NotifierFunc(func(n mutation.Notification) {
			printNotification(out, n)
		})
		sess, err := newSession(notifier)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		// Seed the cache so rollback has a populated snapshot to return to.
		if _, err := sess.Load(ctx); err != nil {
			logger.Debug("initial load failed", "error", err)
		}

		if _, err := sess.Post(ctx, strings.Join(args, " ")); err != nil {
			return errPostFailed
		}

		if show <= 0 {
			return nil
		}
		items, err := sess.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to reload feed: %w", err)
		}
		fmt.Fprintln(out)
		printFeed(out, items, time.Now(), show)
		return nil
	},
}

// errPostFailed is returned after the failure notification has already been printed.
var errPostFailed = errors.New("post failed")

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().Int("show", 5, "number of recent thoughts to show after posting (0 to hide)")
}

func printNotification(w io.Writer, n mutation.Notification) {
	style := color.New(color.FgGreen, color.Bold)
	if n.Severity == mutation.SeverityError {
		style = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(w, "%s %s\n", style.Sprint(n.Title+":"), n.Message)
}
