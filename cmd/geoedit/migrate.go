// ABOUTME: Migration command for converting geoedit data between storage backends
// ABOUTME: Copies layers and features into sqlite, badger, or postgres with safety checks

package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/geoedit/internal/config"
	"github.com/harper/geoedit/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Migrate all layers and features from the currently configured backend to a different backend.

Reads layers and features from the current backend and writes them to the
target backend. Does NOT update the config file; verify the migration was
successful then update config.json manually.

Examples:
  geoedit migrate --to badger
  geoedit migrate --to sqlite --data-dir ~/geoedit-sqlite
  geoedit migrate --to postgres --dsn postgres://localhost/geoedit`,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateDSN     string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite, badger, or postgres)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().StringVar(&migrateDSN, "dsn", "", "target postgres connection string (defaults to config postgres_dsn)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target directory")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	switch targetBackend {
	case config.BackendSQLite, config.BackendBadger, config.BackendPostgres:
	default:
		return fmt.Errorf("invalid target backend %q: must be \"sqlite\", \"badger\", or \"postgres\"", targetBackend)
	}
	if targetBackend == sourceBackend && migrateDataDir == "" && migrateDSN == "" {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	targetDataDir := cfg.GetDataDir()
	if migrateDataDir != "" {
		targetDataDir = config.ExpandPath(migrateDataDir)
	}
	targetDSN := cfg.PostgresDSN
	if migrateDSN != "" {
		targetDSN = migrateDSN
	}

	targetPath := targetDataDir
	if targetBackend != config.BackendPostgres {
		targetPath = migrateTargetPath(targetBackend, targetDataDir)
		nonEmpty, err := storage.IsDirNonEmpty(targetPath)
		if err != nil {
			return fmt.Errorf("check target directory: %w", err)
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("target %q is not empty; use --force to overwrite", targetPath)
		}
	}

	dst, err := openMigrateStorage(targetBackend, targetDataDir, targetDSN)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	color.Yellow("Migrating geoedit data:")
	fmt.Printf("  Source:  %s (%s)\n", sourceBackend, cfg.GetDataDir())
	if targetBackend == config.BackendPostgres {
		fmt.Printf("  Target:  %s\n", targetBackend)
	} else {
		fmt.Printf("  Target:  %s (%s)\n", targetBackend, targetPath)
	}
	fmt.Println()

	summary, err := storage.MigrateData(repo, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	color.Green("Migration complete!")
	fmt.Printf("  Layers:   %d\n", summary.Layers)
	fmt.Printf("  Features: %d\n", summary.Features)
	fmt.Println()
	color.Yellow("Note: config.json was NOT updated. To switch to the new backend, edit:")
	fmt.Printf("  %s\n", config.GetConfigPath())
	fmt.Printf("  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Printf(" and \"data_dir\": %q", migrateDataDir)
	}
	fmt.Println()

	return nil
}

// migrateTargetPath is the directory a file-backed backend writes into.
func migrateTargetPath(backend, dataDir string) string {
	if backend == config.BackendBadger {
		return filepath.Join(dataDir, "badger")
	}
	return dataDir
}

// openMigrateStorage creates a Repository implementation for the given backend.
func openMigrateStorage(backend, dataDir, dsn string) (storage.Repository, error) {
	target := &config.Config{Backend: backend, DataDir: dataDir, PostgresDSN: dsn}
	return target.OpenStorage()
}
