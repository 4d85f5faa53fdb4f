// ABOUTME: Migration command for moving thoughts between storage backends
// ABOUTME: Copies every message from the configured store into an empty sqlite or postgres target

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/config"
	"github.com/harper/thoughts/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate thoughts between storage backends",
	Long: `Copy all thoughts from the currently configured backend to another one.

Messages keep their order and original timestamps. The target must be empty.
Does NOT update the config file; verify the migration then run 'thoughts setup'.

Examples:
  thoughts migrate --to postgres --dsn postgres://localhost/thoughts?sslmode=disable
  thoughts migrate --to sqlite --data-dir ~/thoughts-sqlite`,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateDSN     string
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite or postgres)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory for sqlite")
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "target connection string for postgres")
	_ = migrateCmd.MarkFlagRequired("to")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	dst, where, err := openMigrateTarget(migrateTo, migrateDataDir, migrateDSN)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", migrateTo, err)
	}
	defer dst.Close()

	src, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("open source storage (%s): %w", cfg.GetBackend(), err)
	}
	defer src.Close()

	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(out, yellow("Migrating thoughts:"))
	fmt.Fprintf(out, "  Source:  %s\n", src.Backend())
	fmt.Fprintf(out, "  Target:  %s (%s)\n\n", dst.Backend(), where)

	summary, err := storage.MigrateData(cmd.Context(), src, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, green("Migration complete!"))
	fmt.Fprintf(out, "  Messages: %d\n", summary.Messages)
	return nil
}

// openMigrateTarget opens the store a migration writes into and describes its location.
func openMigrateTarget(backend, dataDir, dsn string) (storage.Appender, string, error) {
	switch backend {
	case config.BackendSQLite:
		if dataDir == "" {
			return nil, "", fmt.Errorf("--data-dir is required for sqlite")
		}
		path := filepath.Join(config.ExpandPath(dataDir), config.DBFilename)
		store, err := storage.NewSQLiteStore(path)
		return store, path, err
	case config.BackendPostgres:
		if dsn == "" {
			return nil, "", fmt.Errorf("--dsn is required for postgres")
		}
		store, err := storage.NewPostgresStore(dsn)
		return store, "postgres", err
	default:
		return nil, "", fmt.Errorf("invalid target backend %q: must be %q or %q", backend, config.BackendSQLite, config.BackendPostgres)
	}
}
