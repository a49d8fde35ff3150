// ABOUTME: EditingState snapshot of a single geometry edit step
// ABOUTME: Holds ordered vertices plus the vertex/midpoint selection

package editing

import (
	"fmt"

	"github.com/harper/geoedit/internal/models"
)

// EditingState is one step of a geometry edit. Snapshots pushed onto a
// controller's history are never mutated again; use Clone to derive a new one.
//
// At most one of MidPointSelected and VertexSelected is true. InsertingIndex
// indexes the vertex list while a vertex is selected and the midpoint list
// while a midpoint is selected; otherwise it is meaningless.
type EditingState struct {
	points           []models.Point
	midPointSelected bool
	vertexSelected   bool
	insertingIndex   int
}

// NewEditingState returns an empty state.
func NewEditingState() *EditingState {
	return &EditingState{}
}

// Clone returns a fully independent copy.
func (s *EditingState) Clone() *EditingState {
	return &EditingState{
		points:           append([]models.Point(nil), s.points...),
		midPointSelected: s.midPointSelected,
		vertexSelected:   s.vertexSelected,
		insertingIndex:   s.insertingIndex,
	}
}

// Points returns a copy of the vertices in order.
func (s *EditingState) Points() []models.Point {
	return append([]models.Point(nil), s.points...)
}

// Point returns the vertex at index i.
func (s *EditingState) Point(i int) (models.Point, error) {
	if err := s.checkIndex(i); err != nil {
		return models.Point{}, err
	}
	return s.points[i], nil
}

// PointCount returns the number of vertices.
func (s *EditingState) PointCount() int {
	return len(s.points)
}

// AddPoint appends a vertex.
func (s *EditingState) AddPoint(p models.Point) {
	s.points = append(s.points, p)
}

// InsertPoint inserts a vertex before index i. i may equal PointCount.
func (s *EditingState) InsertPoint(i int, p models.Point) error {
	if i < 0 || i > len(s.points) {
		return fmt.Errorf("insert at %d of %d points: %w", i, len(s.points), ErrIndexOutOfRange)
	}
	s.points = append(s.points, models.Point{})
	copy(s.points[i+1:], s.points[i:])
	s.points[i] = p
	return nil
}

// ReplacePoint overwrites the vertex at index i.
func (s *EditingState) ReplacePoint(i int, p models.Point) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.points[i] = p
	return nil
}

// RemovePoint removes and returns the vertex at index i.
func (s *EditingState) RemovePoint(i int) (models.Point, error) {
	if err := s.checkIndex(i); err != nil {
		return models.Point{}, err
	}
	p := s.points[i]
	s.points = append(s.points[:i], s.points[i+1:]...)
	return p, nil
}

// ClearPoints removes every vertex.
func (s *EditingState) ClearPoints() {
	s.points = nil
}

// MidPointSelected reports whether a midpoint is being manipulated.
func (s *EditingState) MidPointSelected() bool {
	return s.midPointSelected
}

// VertexSelected reports whether a vertex is being manipulated.
func (s *EditingState) VertexSelected() bool {
	return s.vertexSelected
}

// InsertingIndex is the index of the selected vertex or midpoint.
func (s *EditingState) InsertingIndex() int {
	return s.insertingIndex
}

// SelectMidpoint marks midpoint i as selected and clears any vertex selection.
func (s *EditingState) SelectMidpoint(i int) {
	s.midPointSelected = true
	s.vertexSelected = false
	s.insertingIndex = i
}

// SelectVertex marks vertex i as selected and clears any midpoint selection.
func (s *EditingState) SelectVertex(i int) {
	s.vertexSelected = true
	s.midPointSelected = false
	s.insertingIndex = i
}

// ClearSelection clears both selection flags.
func (s *EditingState) ClearSelection() {
	s.midPointSelected = false
	s.vertexSelected = false
}

// DeletePoint removes the selected vertex, or the last vertex when none is
// selected, then clears both selection flags. It fails on an empty state.
func (s *EditingState) DeletePoint() error {
	i := len(s.points) - 1
	if s.vertexSelected {
		i = s.insertingIndex
	}
	if _, err := s.RemovePoint(i); err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	s.ClearSelection()
	return nil
}

// Geometry materializes the vertices for the given mode. It reports false when
// there are no vertices or the mode produces no geometry.
func (s *EditingState) Geometry(mode EditMode) (Geometry, bool) {
	if len(s.points) == 0 {
		return Geometry{}, false
	}
	switch mode {
	case ModePoint:
		return PointGeometry(s.points[0]), true
	case ModePolyline, ModePolygon:
		return Geometry{Type: mode.policy().geometry, Points: s.Points()}, true
	default:
		return Geometry{}, false
	}
}

func (s *EditingState) checkIndex(i int) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("index %d of %d points: %w", i, len(s.points), ErrIndexOutOfRange)
	}
	return nil
}
