// ABOUTME: Unit tests for GeoJSON generation
// ABOUTME: Tests feature conversion, ring closing, and degenerate input

package geojson

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/models"
)

func TestFromFeatures(t *testing.T) {
	layerID := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	features := []*models.Feature{
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindPoint, Points: []models.Point{{X: -87.6, Y: 41.8}}, CreatedAt: created},
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindPolyline, Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}, CreatedAt: created},
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindPolygon, Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, CreatedAt: created},
	}

	resolver := func(id string) string {
		if id == layerID.String() {
			return "survey"
		}
		return ""
	}

	fc := FromFeatures(features, resolver)

	if fc.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection type, got %s", fc.Type)
	}
	if len(fc.Features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(fc.Features))
	}

	wantTypes := []string{"Point", "LineString", "Polygon"}
	for i, f := range fc.Features {
		if f.Geometry.Type != wantTypes[i] {
			t.Errorf("feature %d: expected %s, got %s", i, wantTypes[i], f.Geometry.Type)
		}
		if f.Properties["layer"] != "survey" {
			t.Errorf("feature %d: expected layer survey, got %v", i, f.Properties["layer"])
		}
		if f.ID != features[i].ID.String() {
			t.Errorf("feature %d: expected id %s, got %s", i, features[i].ID, f.ID)
		}
	}

	point, ok := fc.Features[0].Geometry.Coordinates.(PointCoordinates)
	if !ok {
		t.Fatal("expected PointCoordinates")
	}
	if point[0] != -87.6 || point[1] != 41.8 {
		t.Errorf("expected [x, y] order, got %v", point)
	}

	poly, ok := fc.Features[2].Geometry.Coordinates.(PolygonCoordinates)
	if !ok {
		t.Fatal("expected PolygonCoordinates")
	}
	ring := poly[0]
	if len(ring) != 4 || ring[0] != ring[3] {
		t.Errorf("expected closed ring of 4, got %v", ring)
	}
	if fc.Features[2].Properties["created_at"] != "2026-03-01T12:00:00Z" {
		t.Errorf("unexpected created_at %v", fc.Features[2].Properties["created_at"])
	}
}

func TestFromFeatures_SkipsDegenerate(t *testing.T) {
	layerID := uuid.New()
	features := []*models.Feature{
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindPolyline, Points: []models.Point{{X: 0, Y: 0}}},
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindPolygon, Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindPoint},
		{ID: uuid.New(), LayerID: layerID, Kind: models.KindUnknown, Points: []models.Point{{X: 0, Y: 0}}},
	}

	fc := FromFeatures(features, nil)
	if len(fc.Features) != 0 {
		t.Errorf("expected all features skipped, got %d", len(fc.Features))
	}
}

func TestFromFeatures_AlreadyClosedRing(t *testing.T) {
	f := &models.Feature{ID: uuid.New(), Kind: models.KindPolygon,
		Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0}}}

	fc := FromFeatures([]*models.Feature{f}, nil)
	ring := fc.Features[0].Geometry.Coordinates.(PolygonCoordinates)[0]
	if len(ring) != 4 {
		t.Errorf("closed ring should not gain a point, got %v", ring)
	}
}

func TestFromGeometry(t *testing.T) {
	tests := []struct {
		name     string
		g        editing.Geometry
		wantType string
	}{
		{"point", editing.PointGeometry(models.Point{X: 1, Y: 2}), "Point"},
		{"polyline", editing.Geometry{Type: editing.GeometryPolyline, Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}, "LineString"},
		{"polygon", editing.Geometry{Type: editing.GeometryPolygon, Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}}, "Polygon"},
		{"short polygon", editing.Geometry{Type: editing.GeometryPolygon, Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}}, ""},
		{"none", editing.Geometry{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := FromGeometry(tt.g)
			if tt.wantType == "" {
				if len(fc.Features) != 0 {
					t.Errorf("expected empty collection, got %d features", len(fc.Features))
				}
				return
			}
			if len(fc.Features) != 1 {
				t.Fatalf("expected 1 feature, got %d", len(fc.Features))
			}
			if fc.Features[0].Geometry.Type != tt.wantType {
				t.Errorf("expected %s, got %s", tt.wantType, fc.Features[0].Geometry.Type)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	fc := FromGeometry(editing.PointGeometry(models.Point{X: 1.5, Y: 2}))

	data, err := fc.ToJSON()
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed["type"] != "FeatureCollection" {
		t.Errorf("expected FeatureCollection, got %v", parsed["type"])
	}

	indented, err := FromGeometry(editing.Geometry{}).ToJSONIndent()
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(indented) != "{\n  \"type\": \"FeatureCollection\",\n  \"features\": []\n}" {
		t.Errorf("unexpected indented output: %s", indented)
	}
}
