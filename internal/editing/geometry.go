// ABOUTME: Materialized geometry produced from an editing state
// ABOUTME: Handed to renderers and to the feature store on save

package editing

import "github.com/harper/geoedit/internal/models"

// GeometryType identifies the shape of a Geometry.
type GeometryType int

// Geometry types.
const (
	GeometryNone GeometryType = iota
	GeometryPoint
	GeometryPolyline
	GeometryPolygon
)

func (t GeometryType) String() string {
	switch t {
	case GeometryPoint:
		return "point"
	case GeometryPolyline:
		return "polyline"
	case GeometryPolygon:
		return "polygon"
	default:
		return "none"
	}
}

// MarshalText encodes the type by name.
func (t GeometryType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Kind returns the feature-store kind for this geometry type.
func (t GeometryType) Kind() models.GeometryKind {
	switch t {
	case GeometryPoint:
		return models.KindPoint
	case GeometryPolyline:
		return models.KindPolyline
	case GeometryPolygon:
		return models.KindPolygon
	default:
		return models.KindUnknown
	}
}

// Geometry is a read-only snapshot of vertices. A polygon's ring is implicitly
// closed: Points never repeats the first vertex at the end.
type Geometry struct {
	Type   GeometryType   `json:"type"`
	Points []models.Point `json:"points"`
}

// PointGeometry wraps a single point.
func PointGeometry(p models.Point) Geometry {
	return Geometry{Type: GeometryPoint, Points: []models.Point{p}}
}

// Ring returns the vertices with the first repeated at the end for polygons.
// Other types return a copy of Points.
func (g Geometry) Ring() []models.Point {
	out := make([]models.Point, 0, len(g.Points)+1)
	out = append(out, g.Points...)
	if g.Type == GeometryPolygon && len(g.Points) > 0 {
		out = append(out, g.Points[0])
	}
	return out
}
