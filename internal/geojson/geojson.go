// ABOUTME: GeoJSON generation utilities
// ABOUTME: Converts saved features and live edit geometry to FeatureCollections

package geojson

import (
	"encoding/json"
	"time"

	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/models"
)

// FeatureCollection represents a GeoJSON FeatureCollection.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature represents a GeoJSON Feature.
type Feature struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id,omitempty"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry represents a GeoJSON Geometry.
type Geometry struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// PointCoordinates represents [x, y] for a Point.
type PointCoordinates [2]float64

// LineCoordinates represents [[x, y], [x, y], ...] for a LineString.
type LineCoordinates []PointCoordinates

// PolygonCoordinates holds linear rings; the first is the exterior.
type PolygonCoordinates []LineCoordinates

// LayerNameResolver resolves a layer ID to its name.
type LayerNameResolver func(layerID string) string

func toCoords(points []models.Point) LineCoordinates {
	coords := make(LineCoordinates, len(points))
	for i, p := range points {
		coords[i] = PointCoordinates{p.X, p.Y}
	}
	return coords
}

// closedRing returns the ring with the first point repeated at the end.
func closedRing(points []models.Point) LineCoordinates {
	ring := toCoords(points)
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// geometryFor builds the GeoJSON geometry for a kind. It reports false for
// degenerate input: no points, lines under 2 points, polygons under 3.
func geometryFor(kind models.GeometryKind, points []models.Point) (Geometry, bool) {
	switch kind {
	case models.KindPoint:
		if len(points) == 0 {
			return Geometry{}, false
		}
		return Geometry{Type: "Point", Coordinates: PointCoordinates{points[0].X, points[0].Y}}, true
	case models.KindMultiPoint:
		if len(points) == 0 {
			return Geometry{}, false
		}
		return Geometry{Type: "MultiPoint", Coordinates: toCoords(points)}, true
	case models.KindLine, models.KindPolyline:
		if len(points) < 2 {
			return Geometry{}, false
		}
		return Geometry{Type: "LineString", Coordinates: toCoords(points)}, true
	case models.KindPolygon, models.KindEnvelope:
		if len(points) < 3 {
			return Geometry{}, false
		}
		return Geometry{Type: "Polygon", Coordinates: PolygonCoordinates{closedRing(points)}}, true
	default:
		return Geometry{}, false
	}
}

// FromFeatures converts saved features to a FeatureCollection. Degenerate
// features are skipped.
func FromFeatures(features []*models.Feature, nameResolver LayerNameResolver) *FeatureCollection {
	out := make([]Feature, 0, len(features))

	for _, f := range features {
		geom, ok := geometryFor(f.Kind, f.Points)
		if !ok {
			continue
		}

		name := ""
		if nameResolver != nil {
			name = nameResolver(f.LayerID.String())
		}

		out = append(out, Feature{
			Type:     "Feature",
			ID:       f.ID.String(),
			Geometry: geom,
			Properties: map[string]interface{}{
				"layer":      name,
				"kind":       f.Kind.String(),
				"created_at": f.CreatedAt.Format(time.RFC3339),
			},
		})
	}

	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: out,
	}
}

// FromGeometry converts the geometry of an edit in progress. The collection
// is empty when the geometry is not yet valid GeoJSON.
func FromGeometry(g editing.Geometry) *FeatureCollection {
	fc := &FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}

	geom, ok := geometryFor(g.Type.Kind(), g.Points)
	if !ok {
		return fc
	}
	fc.Features = append(fc.Features, Feature{
		Type:     "Feature",
		Geometry: geom,
		Properties: map[string]interface{}{
			"kind":        g.Type.Kind().String(),
			"point_count": len(g.Points),
		},
	})
	return fc
}

// ToJSON serializes a FeatureCollection to JSON.
func (fc *FeatureCollection) ToJSON() ([]byte, error) {
	return json.Marshal(fc)
}

// ToJSONIndent serializes a FeatureCollection to indented JSON.
func (fc *FeatureCollection) ToJSONIndent() ([]byte, error) {
	return json.MarshalIndent(fc, "", "  ")
}
