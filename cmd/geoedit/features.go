// ABOUTME: Feature listing and removal commands
// ABOUTME: Shows saved geometries per layer, oldest first

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harper/geoedit/internal/ui"
	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:     "features",
	Aliases: []string{"f"},
	Short:   "Inspect saved features",
}

var featuresListCmd = &cobra.Command{
	Use:     "list [layer]",
	Aliases: []string{"ls"},
	Short:   "List saved features, optionally for one layer",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layers, err := repo.ListLayers()
		if err != nil {
			return fmt.Errorf("failed to list layers: %w", err)
		}

		shown := 0
		for _, layer := range layers {
			if len(args) == 1 && layer.Name != args[0] {
				continue
			}
			shown++
			features, err := repo.ListFeatures(layer.ID)
			if err != nil {
				return fmt.Errorf("failed to list features: %w", err)
			}
			fmt.Println(ui.FormatLayer(layer, len(features)))
			for _, f := range features {
				fmt.Println(ui.FormatFeature(f))
			}
		}

		if len(args) == 1 && shown == 0 {
			return fmt.Errorf("layer '%s' not found", args[0])
		}
		if shown == 0 {
			fmt.Println("No layers yet. Use 'geoedit layer add' to add one.")
		}
		return nil
	},
}

var featuresRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a saved feature",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid feature id: %w", err)
		}
		if _, err := repo.GetFeature(id); err != nil {
			return fmt.Errorf("feature '%s' not found", args[0])
		}
		if err := repo.DeleteFeature(id); err != nil {
			return fmt.Errorf("failed to remove feature: %w", err)
		}
		color.Green("✓ Removed feature %s", id.String()[:8])
		return nil
	},
}

func init() {
	featuresCmd.AddCommand(featuresListCmd, featuresRemoveCmd)
	rootCmd.AddCommand(featuresCmd)
}
