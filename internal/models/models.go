// ABOUTME: Core data models for layers, features, and map points
// ABOUTME: Provides constructor functions and validators for editable geometry

package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Point is a 2D coordinate in map units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Midpoint returns the point halfway between p and other.
func (p Point) Midpoint(other Point) Point {
	return Point{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// String formats the point for display.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// GeometryKind is the geometry type of a layer or feature.
type GeometryKind int

// Geometry kinds known to the feature store.
const (
	KindUnknown GeometryKind = iota
	KindPoint
	KindMultiPoint
	KindLine
	KindPolyline
	KindEnvelope
	KindPolygon
)

var kindNames = map[GeometryKind]string{
	KindUnknown:    "unknown",
	KindPoint:      "point",
	KindMultiPoint: "multipoint",
	KindLine:       "line",
	KindPolyline:   "polyline",
	KindEnvelope:   "envelope",
	KindPolygon:    "polygon",
}

func (k GeometryKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// MarshalText encodes the kind by name so stored and exported data stay readable.
func (k GeometryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *GeometryKind) UnmarshalText(text []byte) error {
	kind, err := ParseGeometryKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseGeometryKind parses a kind name (case-insensitive).
func ParseGeometryKind(s string) (GeometryKind, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for kind, name := range kindNames {
		if name == needle {
			return kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown geometry kind %q", s)
}

// ValidateName checks if a name is valid (non-empty, within length limits).
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("name cannot be empty or whitespace")
	}
	if len(name) > 255 {
		return fmt.Errorf("name too long (max 255 characters)")
	}
	return nil
}

// ValidatePoint rejects NaN and infinite coordinates.
func ValidatePoint(p Point) error {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return fmt.Errorf("coordinates cannot be NaN")
	}
	if math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("coordinates cannot be infinite")
	}
	return nil
}

// Layer is a feature table that new geometries can be added to.
type Layer struct {
	ID        uuid.UUID    `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Kind      GeometryKind `json:"kind" yaml:"kind"`
	Editable  bool         `json:"editable" yaml:"editable"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// Feature is a saved geometry belonging to a layer.
type Feature struct {
	ID        uuid.UUID    `json:"id" yaml:"id"`
	LayerID   uuid.UUID    `json:"layer_id" yaml:"layer_id"`
	Kind      GeometryKind `json:"kind" yaml:"kind"`
	Points    []Point      `json:"points" yaml:"points"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// NewLayer creates an editable layer with generated UUID and timestamp.
func NewLayer(name string, kind GeometryKind) *Layer {
	return &Layer{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		Editable:  true,
		CreatedAt: time.Now(),
	}
}

// NewFeature creates a feature with generated UUID and timestamp.
// The points slice is copied.
func NewFeature(layerID uuid.UUID, kind GeometryKind, points []Point) *Feature {
	return &Feature{
		ID:        uuid.New(),
		LayerID:   layerID,
		Kind:      kind,
		Points:    append([]Point(nil), points...),
		CreatedAt: time.Now(),
	}
}
