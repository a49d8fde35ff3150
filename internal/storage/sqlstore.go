// ABOUTME: Shared SQL repository used by the SQLite and Postgres backends
// ABOUTME: Queries are written with ? placeholders and rebound per dialect

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/harper/geoedit/internal/models"
)

const (
	layerColumns   = "id, name, kind, editable, created_at"
	featureColumns = "id, layer_id, kind, points, created_at"
)

// sqlStore implements Repository over database/sql.
type sqlStore struct {
	db           *sql.DB
	dollarParams bool
}

// rebind rewrites ? placeholders as $1, $2, ... for drivers that need it.
func (s *sqlStore) rebind(query string) string {
	if !s.dollarParams {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *sqlStore) exec(query string, args ...any) error {
	_, err := s.db.Exec(s.rebind(query), args...)
	return err
}

// Close closes the database connection.
func (s *sqlStore) Close() error {
	return s.db.Close()
}

// Reset clears all data from the database.
func (s *sqlStore) Reset() error {
	if err := s.exec("DELETE FROM features"); err != nil {
		return fmt.Errorf("clear features: %w", err)
	}
	if err := s.exec("DELETE FROM layers"); err != nil {
		return fmt.Errorf("clear layers: %w", err)
	}
	return nil
}

// CreateLayer creates a new layer. Names are unique.
func (s *sqlStore) CreateLayer(layer *models.Layer) error {
	if _, err := s.GetLayerByName(layer.Name); err == nil {
		return fmt.Errorf("layer %q: %w", layer.Name, ErrDuplicate)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	err := s.exec(
		"INSERT INTO layers ("+layerColumns+") VALUES (?, ?, ?, ?, ?)",
		layer.ID.String(), layer.Name, layer.Kind.String(), layer.Editable, layer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert layer: %w", err)
	}
	return nil
}

// GetLayerByID retrieves a layer by its UUID.
func (s *sqlStore) GetLayerByID(id uuid.UUID) (*models.Layer, error) {
	row := s.db.QueryRow(s.rebind("SELECT "+layerColumns+" FROM layers WHERE id = ?"), id.String())
	return scanLayer(row)
}

// GetLayerByName retrieves a layer by its name.
func (s *sqlStore) GetLayerByName(name string) (*models.Layer, error) {
	row := s.db.QueryRow(s.rebind("SELECT "+layerColumns+" FROM layers WHERE name = ?"), name)
	return scanLayer(row)
}

// ListLayers returns all layers sorted by name.
func (s *sqlStore) ListLayers() ([]*models.Layer, error) {
	rows, err := s.db.Query("SELECT " + layerColumns + " FROM layers ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query layers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var layers []*models.Layer
	for rows.Next() {
		layer, err := scanLayer(rows)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, rows.Err()
}

// DeleteLayer removes a layer (features cascade delete automatically).
func (s *sqlStore) DeleteLayer(id uuid.UUID) error {
	return s.exec("DELETE FROM layers WHERE id = ?", id.String())
}

// CreateFeature stores a new feature.
func (s *sqlStore) CreateFeature(f *models.Feature) error {
	points, err := json.Marshal(f.Points)
	if err != nil {
		return fmt.Errorf("encode points: %w", err)
	}
	err = s.exec(
		"INSERT INTO features ("+featureColumns+") VALUES (?, ?, ?, ?, ?)",
		f.ID.String(), f.LayerID.String(), f.Kind.String(), string(points), f.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feature: %w", err)
	}
	return nil
}

// GetFeature retrieves a feature by its UUID.
func (s *sqlStore) GetFeature(id uuid.UUID) (*models.Feature, error) {
	row := s.db.QueryRow(s.rebind("SELECT "+featureColumns+" FROM features WHERE id = ?"), id.String())
	return scanFeature(row)
}

// ListFeatures returns a layer's features, oldest first.
func (s *sqlStore) ListFeatures(layerID uuid.UUID) ([]*models.Feature, error) {
	rows, err := s.db.Query(
		s.rebind("SELECT "+featureColumns+" FROM features WHERE layer_id = ? ORDER BY created_at, id"),
		layerID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanFeatures(rows)
}

// ListAllFeatures returns every feature, oldest first.
func (s *sqlStore) ListAllFeatures() ([]*models.Feature, error) {
	rows, err := s.db.Query("SELECT " + featureColumns + " FROM features ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanFeatures(rows)
}

// DeleteFeature removes a single feature.
func (s *sqlStore) DeleteFeature(id uuid.UUID) error {
	return s.exec("DELETE FROM features WHERE id = ?", id.String())
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLayer(row scanner) (*models.Layer, error) {
	var idStr, kindStr string
	var layer models.Layer
	err := row.Scan(&idStr, &layer.Name, &kindStr, &layer.Editable, &layer.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan layer: %w", err)
	}
	layer.ID, _ = uuid.Parse(idStr)
	layer.Kind, _ = models.ParseGeometryKind(kindStr)
	return &layer, nil
}

func scanFeature(row scanner) (*models.Feature, error) {
	var idStr, layerIDStr, kindStr, points string
	var f models.Feature
	err := row.Scan(&idStr, &layerIDStr, &kindStr, &points, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan feature: %w", err)
	}
	if err := json.Unmarshal([]byte(points), &f.Points); err != nil {
		return nil, fmt.Errorf("decode points of feature %s: %w", idStr, err)
	}
	f.ID, _ = uuid.Parse(idStr)
	f.LayerID, _ = uuid.Parse(layerIDStr)
	f.Kind, _ = models.ParseGeometryKind(kindStr)
	return &f, nil
}

func scanFeatures(rows *sql.Rows) ([]*models.Feature, error) {
	var features []*models.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}
