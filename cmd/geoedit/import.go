// ABOUTME: Import command for restoring data from YAML backup
// ABOUTME: Supports importing backup files created by the backup command

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/geoedit/internal/storage"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a YAML backup",
	Long: `Import layers and features from a YAML backup file.

This restores data from a backup created with 'geoedit backup'.

WARNING: This adds to existing data. Layers whose names already exist
are rejected.

Examples:
  geoedit import layers.yaml
  geoedit import ~/backups/geoedit-20241214.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Printf("Import data from '%s'? [y/N] ", filename)
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := storage.ImportBackup(repo, data); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		layers, features, err := storedCounts(repo)
		if err != nil {
			return fmt.Errorf("import succeeded but counting failed: %w", err)
		}

		color.Green("Import complete")
		fmt.Printf("  %d layers, %d features in database\n", layers, features)

		return nil
	},
}

// storedCounts reports how many layers and features r holds.
func storedCounts(r storage.Repository) (layers, features int, err error) {
	ls, err := r.ListLayers()
	if err != nil {
		return 0, 0, fmt.Errorf("list layers: %w", err)
	}
	fs, err := r.ListAllFeatures()
	if err != nil {
		return 0, 0, fmt.Errorf("list features: %w", err)
	}
	return len(ls), len(fs), nil
}

func init() {
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(importCmd)
}
