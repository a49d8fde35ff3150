// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, sets up logging, and opens the configured storage backend

package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/geoedit/internal/config"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/logging"
	"github.com/harper/geoedit/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	repo   storage.Repository
	style  = editing.DefaultStyle()
	logger *log.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "geoedit",
	Short: "Tap-driven geometry editing for map layers",
	Long: `
 ██████╗ ███████╗ ██████╗ ███████╗██████╗ ██╗████████╗
██╔════╝ ██╔════╝██╔═══██╗██╔════╝██╔══██╗██║╚══██╔══╝
██║  ███╗█████╗  ██║   ██║█████╗  ██║  ██║██║   ██║
██║   ██║██╔══╝  ██║   ██║██╔══╝  ██║  ██║██║   ██║
╚██████╔╝███████╗╚██████╔╝███████╗██████╔╝██║   ██║
 ╚═════╝ ╚══════╝ ╚═════╝ ╚══════╝╚═════╝ ╚═╝   ╚═╝

      Draw points, lines, and polygons into layers

Examples:
  geoedit layer add parcels --kind polygon
  geoedit edit parcels
  geoedit features list parcels
  geoedit export --format geojson`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(os.Stderr, level)
		if err != nil {
			return err
		}
		logging.SetDefault(logger)

		style, err = cfg.EditStyle()
		if err != nil {
			return fmt.Errorf("invalid style config: %w", err)
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage (%s): %w", cfg.GetBackend(), err)
		}
		logger.Debug("storage opened", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			err := repo.Close()
			repo = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
}
