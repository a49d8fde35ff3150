// ABOUTME: Backup and restore of layers and features
// ABOUTME: Uses a versioned YAML document that any backend can import

package storage

import (
	"fmt"
	"time"

	"github.com/harper/geoedit/internal/models"
	"gopkg.in/yaml.v3"
)

// BackupVersion is the current backup format version.
const BackupVersion = "1.0"

// BackupTool identifies backups written by this program.
const BackupTool = "geoedit"

// Backup represents the YAML backup format.
type Backup struct {
	Version    string            `yaml:"version"`
	ExportedAt time.Time         `yaml:"exported_at"`
	Tool       string            `yaml:"tool"`
	Layers     []*models.Layer   `yaml:"layers"`
	Features   []*models.Feature `yaml:"features"`
}

// ExportBackup serializes every layer and feature to YAML.
func ExportBackup(repo Repository) ([]byte, error) {
	layers, err := repo.ListLayers()
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}

	features, err := repo.ListAllFeatures()
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}

	backup := Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Layers:     layers,
		Features:   features,
	}
	return yaml.Marshal(backup)
}

// ExportLayerYAML serializes one layer and its features in the backup format.
func ExportLayerYAML(repo Repository, layer *models.Layer) ([]byte, error) {
	features, err := repo.ListFeatures(layer.ID)
	if err != nil {
		return nil, fmt.Errorf("list features: %w", err)
	}
	return yaml.Marshal(Backup{
		Version:    BackupVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       BackupTool,
		Layers:     []*models.Layer{layer},
		Features:   features,
	})
}

// ParseBackup decodes and checks a YAML backup.
func ParseBackup(data []byte) (*Backup, error) {
	var backup Backup
	if err := yaml.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("unsupported backup version: %s (expected %s)", backup.Version, BackupVersion)
	}

	if backup.Tool != BackupTool {
		return nil, fmt.Errorf("wrong tool: %s (expected %s)", backup.Tool, BackupTool)
	}
	return &backup, nil
}

// ImportBackup restores layers and features from a YAML backup.
// Layers are created before features so referential checks pass.
func ImportBackup(repo Repository, data []byte) error {
	backup, err := ParseBackup(data)
	if err != nil {
		return err
	}

	for _, layer := range backup.Layers {
		if err := models.ValidateName(layer.Name); err != nil {
			return fmt.Errorf("layer %s: %w", layer.ID, err)
		}
		if err := repo.CreateLayer(layer); err != nil {
			return fmt.Errorf("create layer %s: %w", layer.Name, err)
		}
	}

	for _, f := range backup.Features {
		for _, p := range f.Points {
			if err := models.ValidatePoint(p); err != nil {
				return fmt.Errorf("feature %s: %w", f.ID, err)
			}
		}
		if err := repo.CreateFeature(f); err != nil {
			return fmt.Errorf("create feature %s: %w", f.ID, err)
		}
	}

	return nil
}
