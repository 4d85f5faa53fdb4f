// ABOUTME: Serve command running the HTTP API
// ABOUTME: Opens the configured store and serves until interrupted

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the thoughts API server",
	Long: `Serve the thoughts HTTP API:

  GET  /api/messages        list all thoughts in arrival order
  POST /api/messages        create a thought {"content": "..."}
  GET  /api/messages/{id}   fetch one thought

Storage is chosen by the backend in config (sqlite or postgres).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.GetListenAddr()
		}

		store, err := cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(store,
			server.WithLogger(logger),
			server.WithRequestLogging(verbose),
		)

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintf(cmd.OutOrStdout(), "Serving thoughts on %s (%s backend)\n", cyan("http://"+addr), store.Backend())

		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (overrides listen_addr in config)")
}
