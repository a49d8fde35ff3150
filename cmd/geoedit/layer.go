// ABOUTME: Layer management commands
// ABOUTME: Adds, lists, and removes the layers that features are drawn into

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/storage"
	"github.com/harper/geoedit/internal/ui"
	"github.com/spf13/cobra"
)

var layerCmd = &cobra.Command{
	Use:     "layer",
	Aliases: []string{"layers"},
	Short:   "Manage layers",
}

var layerAddCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a"},
	Short:   "Add a layer",
	Long: `Add a layer that features can be drawn into.

Kinds: point, multipoint, line, polyline, envelope, polygon.

Examples:
  geoedit layer add wells --kind point
  geoedit layer add roads --kind polyline
  geoedit layer add basemap --kind polygon --readonly`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := models.ValidateName(name); err != nil {
			return err
		}

		kindStr, _ := cmd.Flags().GetString("kind")
		kind, err := models.ParseGeometryKind(kindStr)
		if err != nil {
			return err
		}

		layer := models.NewLayer(name, kind)
		if readonly, _ := cmd.Flags().GetBool("readonly"); readonly {
			layer.Editable = false
		}

		if err := repo.CreateLayer(layer); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return fmt.Errorf("layer '%s' already exists", name)
			}
			return fmt.Errorf("failed to create layer: %w", err)
		}

		color.Green("✓ Added layer %s", name)
		fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(layer.ID.String()[:8]), layer.Kind)
		return nil
	},
}

var layerListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all layers",
	RunE: func(cmd *cobra.Command, args []string) error {
		layers, err := repo.ListLayers()
		if err != nil {
			return fmt.Errorf("failed to list layers: %w", err)
		}

		if len(layers) == 0 {
			fmt.Println("No layers yet. Use 'geoedit layer add' to add one.")
			return nil
		}

		for _, layer := range layers {
			features, err := repo.ListFeatures(layer.ID)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to count features for %s: %v\n", layer.Name, err)
			}
			fmt.Println(ui.FormatLayer(layer, len(features)))
		}
		return nil
	},
}

var layerRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a layer and all its features",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		layer, err := repo.GetLayerByName(name)
		if err != nil {
			return fmt.Errorf("layer '%s' not found", name)
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Printf("Remove '%s' and all its features? [y/N] ", name)
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := repo.DeleteLayer(layer.ID); err != nil {
			return fmt.Errorf("failed to remove layer: %w", err)
		}

		color.Green("✓ Removed %s", name)
		return nil
	},
}

func init() {
	layerAddCmd.Flags().StringP("kind", "k", "polygon", "geometry kind")
	layerAddCmd.Flags().Bool("readonly", false, "create the layer read-only")
	layerRemoveCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	layerCmd.AddCommand(layerAddCmd, layerListCmd, layerRemoveCmd)
	rootCmd.AddCommand(layerCmd)
}
