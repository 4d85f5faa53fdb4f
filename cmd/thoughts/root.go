// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads configuration, sets up structured logging, and builds client sessions

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/config"
	"github.com/harper/thoughts/internal/mutation"
	"github.com/harper/thoughts/internal/session"
)

var (
	configPath string
	serverURL  string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "thoughts",
	Short: "Append-only feed of short thoughts",
	Long: `
████████╗██╗  ██╗ ██████╗ ██╗   ██╗ ██████╗ ██╗  ██╗████████╗███████╗
╚══██╔══╝██║  ██║██╔═══██╗██║   ██║██╔════╝ ██║  ██║╚══██╔══╝██╔════╝
   ██║   ███████║██║   ██║██║   ██║██║  ███╗███████║   ██║   ███████╗
   ██║   ██╔══██║██║   ██║██║   ██║██║   ██║██╔══██║   ██║   ╚════██║
   ██║   ██║  ██║╚██████╔╝╚██████╔╝╚██████╔╝██║  ██║   ██║   ███████║
   ╚═╝   ╚═╝  ╚═╝ ╚═════╝  ╚═════╝  ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝

A clean space to share what's on your mind, one line at a time.

Run a server with 'thoughts serve', then post from the CLI, the
terminal UI, or an AI agent over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(verbose)
		slog.SetDefault(logger)

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/thoughts/config.json)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API server URL (overrides server_url in config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newSession builds a client session against the configured server.
func newSession(notifier mutation.Notifier) (*session.Session, error) {
	sess, err := session.New(session.Options{
		ServerURL: cfg.GetServerURL(),
		Timeout:   config.DefaultHTTPTimeout,
		Logger:    logger,
		Notifier:  notifier,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}
