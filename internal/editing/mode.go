// ABOUTME: Edit modes and the per-mode editing policy table
// ABOUTME: Maps layer geometry kinds onto the modes the controller understands

package editing

import "github.com/harper/geoedit/internal/models"

// EditMode is the state of an edit session.
type EditMode int

// Edit modes. ModeNone is both the initial and the discarded state;
// ModeSaving is entered only while a geometry is being persisted.
const (
	ModeNone EditMode = iota
	ModePoint
	ModePolyline
	ModePolygon
	ModeSaving
)

type modePolicy struct {
	name       string
	minPoints  int
	closesRing bool
	editable   bool
	geometry   GeometryType
}

var modePolicies = map[EditMode]modePolicy{
	ModeNone:     {name: "none"},
	ModePoint:    {name: "point", minPoints: 1, editable: true, geometry: GeometryPoint},
	ModePolyline: {name: "polyline", minPoints: 2, editable: true, geometry: GeometryPolyline},
	ModePolygon:  {name: "polygon", minPoints: 3, closesRing: true, editable: true, geometry: GeometryPolygon},
	ModeSaving:   {name: "saving"},
}

func (m EditMode) policy() modePolicy {
	if p, ok := modePolicies[m]; ok {
		return p
	}
	return modePolicies[ModeNone]
}

func (m EditMode) String() string {
	return m.policy().name
}

// Editable reports whether taps are accepted in this mode.
func (m EditMode) Editable() bool {
	return m.policy().editable
}

// MinPoints is the vertex count a geometry needs before it can be saved.
// Zero for modes that never save.
func (m EditMode) MinPoints() int {
	return m.policy().minPoints
}

// ClosesRing reports whether the last vertex connects back to the first.
func (m EditMode) ClosesRing() bool {
	return m.policy().closesRing
}

// ModeForKind maps a layer geometry kind to an edit mode.
func ModeForKind(kind models.GeometryKind) EditMode {
	switch kind {
	case models.KindPoint, models.KindMultiPoint:
		return ModePoint
	case models.KindLine, models.KindPolyline:
		return ModePolyline
	case models.KindEnvelope, models.KindPolygon:
		return ModePolygon
	default:
		return ModeNone
	}
}
