// ABOUTME: Repository interfaces for layer and feature storage
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"github.com/google/uuid"
	"github.com/harper/geoedit/internal/models"
)

// LayerRepository defines operations for managing feature layers.
type LayerRepository interface {
	CreateLayer(layer *models.Layer) error
	GetLayerByID(id uuid.UUID) (*models.Layer, error)
	GetLayerByName(name string) (*models.Layer, error)
	ListLayers() ([]*models.Layer, error)
	DeleteLayer(id uuid.UUID) error
}

// FeatureRepository defines operations for managing saved features.
type FeatureRepository interface {
	CreateFeature(feature *models.Feature) error
	GetFeature(id uuid.UUID) (*models.Feature, error)
	ListFeatures(layerID uuid.UUID) ([]*models.Feature, error)
	ListAllFeatures() ([]*models.Feature, error)
	DeleteFeature(id uuid.UUID) error
}

// Repository combines all repository operations with lifecycle management.
type Repository interface {
	LayerRepository
	FeatureRepository
	Close() error
	Reset() error
}
