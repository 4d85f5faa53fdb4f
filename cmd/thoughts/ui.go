// ABOUTME: UI command launching the interactive feed
// ABOUTME: Connects a Bubble Tea home screen to a session's cache and notifications

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"home"},
	Short:   "Open the interactive feed",
	Long:    "Open a full-screen view of the feed with a composer. Press Enter to share, Esc to quit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		updates := tui.NewUpdates()
		defer updates.Close()

		sess, err := newSession(updates)
		if err != nil {
			return err
		}
		unsubscribe := sess.Cache().Subscribe(updates.Changed)
		defer unsubscribe()

		p := tea.NewProgram(tui.NewHomeModel(sess, updates), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to run UI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
