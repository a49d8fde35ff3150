// ABOUTME: Export command for generating GeoJSON and YAML output
// ABOUTME: Supports per-layer export and a relative time filter

package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/harper/geoedit/internal/geojson"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/storage"
	"github.com/spf13/cobra"
)

// durationRegex matches relative duration strings like "24h", "7d", "1w", "1m".
var durationRegex = regexp.MustCompile(`^(\d+)([hdwm])$`)

var exportCmd = &cobra.Command{
	Use:   "export [layer]",
	Short: "Export features as GeoJSON or YAML",
	Long: `Export saved features as GeoJSON or YAML.

Examples:
  # Export every feature as GeoJSON
  geoedit export --format geojson

  # Export one layer drawn in the last week
  geoedit export parcels --since 7d

  # Export one layer as YAML
  geoedit export parcels --format yaml

  # Save to file
  geoedit export --output map.geojson`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "geojson" && format != "yaml" {
			return fmt.Errorf("unsupported format: %s (use 'geojson' or 'yaml')", format)
		}

		var sinceTime time.Time
		if since, _ := cmd.Flags().GetString("since"); since != "" {
			var err error
			sinceTime, err = parseDuration(since)
			if err != nil {
				return fmt.Errorf("invalid --since value: %w", err)
			}
		}

		var layer *models.Layer
		if len(args) == 1 {
			var err error
			layer, err = repo.GetLayerByName(args[0])
			if err != nil {
				return fmt.Errorf("layer '%s' not found", args[0])
			}
		}

		output, _ := cmd.Flags().GetString("output")
		if format == "yaml" {
			return exportYAML(layer, output)
		}
		return exportGeoJSON(layer, sinceTime, output)
	},
}

func exportGeoJSON(layer *models.Layer, since time.Time, output string) error {
	layers, err := repo.ListLayers()
	if err != nil {
		return fmt.Errorf("failed to list layers: %w", err)
	}
	layerNames := make(map[string]string)
	for _, l := range layers {
		layerNames[l.ID.String()] = l.Name
	}
	nameResolver := func(layerID string) string {
		return layerNames[layerID]
	}

	var features []*models.Feature
	if layer != nil {
		features, err = repo.ListFeatures(layer.ID)
	} else {
		features, err = repo.ListAllFeatures()
	}
	if err != nil {
		return fmt.Errorf("failed to list features: %w", err)
	}
	features = filterSince(features, since)
	if len(features) == 0 {
		return fmt.Errorf("no features found")
	}

	jsonBytes, err := geojson.FromFeatures(features, nameResolver).ToJSONIndent()
	if err != nil {
		return fmt.Errorf("failed to generate GeoJSON: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, jsonBytes, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d features to %s\n", len(features), output)
	} else {
		fmt.Println(string(jsonBytes))
	}

	return nil
}

func exportYAML(layer *models.Layer, output string) error {
	var data []byte
	var err error
	if layer != nil {
		data, err = storage.ExportLayerYAML(repo, layer)
	} else {
		data, err = storage.ExportBackup(repo)
	}
	if err != nil {
		return fmt.Errorf("failed to generate YAML: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote YAML to %s\n", output)
	} else {
		fmt.Print(string(data))
	}

	return nil
}

// filterSince keeps features created at or after since. A zero since keeps all.
func filterSince(features []*models.Feature, since time.Time) []*models.Feature {
	if since.IsZero() {
		return features
	}
	kept := features[:0:0]
	for _, f := range features {
		if !f.CreatedAt.Before(since) {
			kept = append(kept, f)
		}
	}
	return kept
}

// parseDuration parses relative duration strings like "24h", "7d", "1w".
func parseDuration(s string) (time.Time, error) {
	matches := durationRegex.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("invalid duration format (use e.g., 24h, 7d, 1w)")
	}

	num, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number in duration '%s': %w", s, err)
	}

	var duration time.Duration
	switch matches[2] {
	case "h":
		duration = time.Duration(num) * time.Hour
	case "d":
		duration = time.Duration(num) * 24 * time.Hour
	case "w":
		duration = time.Duration(num) * 7 * 24 * time.Hour
	case "m":
		duration = time.Duration(num) * 30 * 24 * time.Hour
	}

	return time.Now().Add(-duration), nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "geojson", "output format (geojson, yaml)")
	exportCmd.Flags().String("since", "", "relative time filter (e.g., 24h, 7d, 1w)")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
