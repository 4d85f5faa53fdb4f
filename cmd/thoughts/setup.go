// ABOUTME: Setup command running the interactive configuration wizard
// ABOUTME: Chooses a storage backend, data location and server URL

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/config"
	"github.com/harper/thoughts/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long:  "Configure the storage backend, data location and API server URL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		finalModel, err := tea.NewProgram(tui.NewSetupModel(cfg)).Run()
		if err != nil {
			return fmt.Errorf("setup wizard failed: %w", err)
		}

		m, ok := finalModel.(tui.SetupModel)
		if !ok || !m.ShouldSave() {
			fmt.Fprintln(cmd.OutOrStdout(), "Setup cancelled.")
			return nil
		}

		m.Result().Apply(cfg)
		path := configPath
		if path == "" {
			path = config.GetConfigPath()
		}
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
