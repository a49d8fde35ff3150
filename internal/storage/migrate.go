// ABOUTME: Data migration between geoedit storage backends
// ABOUTME: Copies layers and features from source to destination repository

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Layers   int
	Features int
}

// MigrateData copies all data from src to dst storage.
// Layers are created before their features, and features keep their IDs and
// timestamps. The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	layers, err := src.ListLayers()
	if err != nil {
		return nil, fmt.Errorf("list source layers: %w", err)
	}

	for _, layer := range layers {
		if err := dst.CreateLayer(layer); err != nil {
			return nil, fmt.Errorf("create layer %q: %w", layer.Name, err)
		}
		summary.Layers++

		features, err := src.ListFeatures(layer.ID)
		if err != nil {
			return nil, fmt.Errorf("list features for layer %q: %w", layer.Name, err)
		}
		for _, f := range features {
			if err := dst.CreateFeature(f); err != nil {
				return nil, fmt.Errorf("create feature %s: %w", f.ID, err)
			}
			summary.Features++
		}
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
