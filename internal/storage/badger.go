// ABOUTME: Badger key-value storage implementation for layers and features
// ABOUTME: Stores JSON values under type-prefixed keys in an embedded database

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/geoedit/internal/models"
)

// Key prefixes for type-based organization.
const (
	LayerPrefix   = "layer:"
	FeaturePrefix = "feature:"
)

// BadgerStore implements Repository with an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// NewBadgerStore opens (or creates) a Badger database in dir.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir))
}

// NewMemoryBadgerStore opens a Badger database that lives only in memory.
func NewMemoryBadgerStore() (*BadgerStore, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(opts badger.Options) (*BadgerStore, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Reset clears all data.
func (s *BadgerStore) Reset() error {
	return s.db.DropAll()
}

func layerKey(id uuid.UUID) []byte {
	return []byte(LayerPrefix + id.String())
}

func featureKey(id uuid.UUID) []byte {
	return []byte(FeaturePrefix + id.String())
}

func putJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// scanPrefix decodes every value under prefix with decode.
func scanPrefix(txn *badger.Txn, prefix string, decode func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(decode); err != nil {
			return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
	}
	return nil
}

func listLayers(txn *badger.Txn) ([]*models.Layer, error) {
	layers := []*models.Layer{}
	err := scanPrefix(txn, LayerPrefix, func(val []byte) error {
		var layer models.Layer
		if err := json.Unmarshal(val, &layer); err != nil {
			return err
		}
		layers = append(layers, &layer)
		return nil
	})
	return layers, err
}

func listFeatures(txn *badger.Txn, keep func(*models.Feature) bool) ([]*models.Feature, error) {
	features := []*models.Feature{}
	err := scanPrefix(txn, FeaturePrefix, func(val []byte) error {
		var f models.Feature
		if err := json.Unmarshal(val, &f); err != nil {
			return err
		}
		if keep == nil || keep(&f) {
			features = append(features, &f)
		}
		return nil
	})
	sort.SliceStable(features, func(i, j int) bool {
		if features[i].CreatedAt.Equal(features[j].CreatedAt) {
			return features[i].ID.String() < features[j].ID.String()
		}
		return features[i].CreatedAt.Before(features[j].CreatedAt)
	})
	return features, err
}

// CreateLayer stores a new layer. Names are unique.
func (s *BadgerStore) CreateLayer(layer *models.Layer) error {
	return s.db.Update(func(txn *badger.Txn) error {
		layers, err := listLayers(txn)
		if err != nil {
			return err
		}
		for _, l := range layers {
			if l.Name == layer.Name {
				return fmt.Errorf("layer %q: %w", layer.Name, ErrDuplicate)
			}
		}
		return putJSON(txn, layerKey(layer.ID), layer)
	})
}

// GetLayerByID retrieves a layer by its UUID.
func (s *BadgerStore) GetLayerByID(id uuid.UUID) (*models.Layer, error) {
	var layer models.Layer
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, layerKey(id), &layer)
	})
	if err != nil {
		return nil, err
	}
	return &layer, nil
}

// GetLayerByName retrieves a layer by its name.
// This requires a full scan since we're filtering by name.
func (s *BadgerStore) GetLayerByName(name string) (*models.Layer, error) {
	layers, err := s.ListLayers()
	if err != nil {
		return nil, err
	}
	for _, layer := range layers {
		if layer.Name == name {
			return layer, nil
		}
	}
	return nil, ErrNotFound
}

// ListLayers returns all layers sorted by name.
func (s *BadgerStore) ListLayers() ([]*models.Layer, error) {
	var layers []*models.Layer
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		layers, err = listLayers(txn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	sort.Slice(layers, func(i, j int) bool {
		return strings.Compare(layers[i].Name, layers[j].Name) < 0
	})
	return layers, nil
}

// DeleteLayer removes a layer and its features.
func (s *BadgerStore) DeleteLayer(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		features, err := listFeatures(txn, func(f *models.Feature) bool { return f.LayerID == id })
		if err != nil {
			return err
		}
		for _, f := range features {
			if err := txn.Delete(featureKey(f.ID)); err != nil {
				return err
			}
		}
		return txn.Delete(layerKey(id))
	})
}

// CreateFeature stores a new feature. The layer must exist.
func (s *BadgerStore) CreateFeature(f *models.Feature) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var layer models.Layer
		if err := getJSON(txn, layerKey(f.LayerID), &layer); err != nil {
			return fmt.Errorf("layer %s: %w", f.LayerID, err)
		}
		return putJSON(txn, featureKey(f.ID), f)
	})
}

// GetFeature retrieves a feature by its UUID.
func (s *BadgerStore) GetFeature(id uuid.UUID) (*models.Feature, error) {
	var f models.Feature
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, featureKey(id), &f)
	})
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFeatures returns a layer's features, oldest first.
func (s *BadgerStore) ListFeatures(layerID uuid.UUID) ([]*models.Feature, error) {
	var features []*models.Feature
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		features, err = listFeatures(txn, func(f *models.Feature) bool { return f.LayerID == layerID })
		return err
	})
	return features, err
}

// ListAllFeatures returns every feature, oldest first.
func (s *BadgerStore) ListAllFeatures() ([]*models.Feature, error) {
	var features []*models.Feature
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		features, err = listFeatures(txn, nil)
		return err
	})
	return features, err
}

// DeleteFeature removes a single feature.
func (s *BadgerStore) DeleteFeature(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(featureKey(id))
	})
}
