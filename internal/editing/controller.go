// ABOUTME: GeometryEditController state machine driving a geometry edit
// ABOUTME: Translates screen taps into vertex edits and keeps the undo history

package editing

import (
	"fmt"
	"math"

	"github.com/harper/geoedit/internal/models"
)

// TapResult describes what a handled tap did.
type TapResult int

// Tap results.
const (
	TapAdded TapResult = iota
	TapMidpointSelected
	TapVertexSelected
	TapMoved
)

func (r TapResult) String() string {
	switch r {
	case TapAdded:
		return "vertex_added"
	case TapMidpointSelected:
		return "midpoint_selected"
	case TapVertexSelected:
		return "vertex_selected"
	case TapMoved:
		return "point_moved"
	default:
		return "unknown"
	}
}

// Controller drives one geometry edit. It is not safe for concurrent use;
// the host must serialize calls.
type Controller struct {
	editMode      EditMode
	editingStates []*EditingState
	current       *EditingState
}

// NewController returns a controller in ModeNone with an empty history.
func NewController() *Controller {
	return &Controller{current: NewEditingState()}
}

// EditMode returns the current mode.
func (c *Controller) EditMode() EditMode {
	return c.editMode
}

// SetEditMode sets the mode.
func (c *Controller) SetEditMode(mode EditMode) {
	c.editMode = mode
}

// SetEditModeForKind sets the mode from a layer geometry kind and returns it.
func (c *Controller) SetEditModeForKind(kind models.GeometryKind) EditMode {
	c.editMode = ModeForKind(kind)
	return c.editMode
}

// CurrentEditingState returns a copy of the working state.
func (c *Controller) CurrentEditingState() *EditingState {
	return c.current.Clone()
}

// EditingStatesCount returns the number of snapshots in the undo history.
func (c *Controller) EditingStatesCount() int {
	return len(c.editingStates)
}

// Midpoints derives the midpoints of the working state for the current mode.
func (c *Controller) Midpoints() []models.Point {
	return Midpoints(c.current.points, c.editMode)
}

// CurrentGeometry materializes the working state using the current mode.
func (c *Controller) CurrentGeometry() (Geometry, bool) {
	return c.current.Geometry(c.editMode)
}

// IsSaveValid reports whether the working state has enough vertices for the mode.
func (c *Controller) IsSaveValid() bool {
	if !c.editMode.Editable() {
		return false
	}
	return c.current.PointCount() >= c.editMode.MinPoints()
}

// HandleScreenPoint applies a tap at screen position (x, y).
//
// While a vertex or midpoint is selected the tap completes a move. Otherwise a
// midpoint within tolerance is selected first, then a vertex; failing both the
// tap becomes a new vertex. In ModePoint the existing vertex is always replaced.
// Non-finite positions are rejected with ErrInvalidTap and change nothing.
func (c *Controller) HandleScreenPoint(x, y float64, t Transform) (TapResult, error) {
	if !c.editMode.Editable() {
		return 0, fmt.Errorf("tap in %s mode: %w", c.editMode, ErrNotEditing)
	}
	if !finite(x) || !finite(y) {
		return 0, fmt.Errorf("tap (%g, %g): %w", x, y, ErrInvalidTap)
	}

	p := t.ScreenToMap(int(x), int(y))
	if c.editMode == ModePoint {
		c.current.ClearPoints()
	}

	if c.current.midPointSelected || c.current.vertexSelected {
		if err := c.MovePoint(p); err != nil {
			return 0, err
		}
		return TapMoved, nil
	}

	if i := SelectedIndex(x, y, c.Midpoints(), t); i != NoMatch {
		c.current.SelectMidpoint(i)
		return TapMidpointSelected, nil
	}
	if i := SelectedIndex(x, y, c.current.points, t); i != NoMatch {
		c.current.SelectVertex(i)
		return TapVertexSelected, nil
	}

	c.current.AddPoint(p)
	c.pushState()
	return TapAdded, nil
}

// MovePoint completes a move started by selecting a vertex or midpoint. A
// selected midpoint becomes a new vertex at p, inserted after the midpoint's
// left vertex; a selected vertex is replaced by p. Both flags are cleared and
// one snapshot is pushed.
func (c *Controller) MovePoint(p models.Point) error {
	var err error
	switch {
	case c.current.midPointSelected:
		err = c.current.InsertPoint(c.current.insertingIndex+1, p)
	case c.current.vertexSelected:
		err = c.current.ReplacePoint(c.current.insertingIndex, p)
	default:
		return ErrNoSelection
	}
	if err != nil {
		return fmt.Errorf("move point: %w", err)
	}
	c.current.ClearSelection()
	c.pushState()
	return nil
}

// DeletePoint removes the selected vertex, or the last one, and pushes a
// snapshot. It fails without touching history when there are no vertices.
func (c *Controller) DeletePoint() error {
	if err := c.current.DeletePoint(); err != nil {
		return err
	}
	c.pushState()
	return nil
}

// Undo drops the newest snapshot and restores the one before it, or an empty
// state when none remain. It fails with ErrUndoUnderflow on an empty history
// and leaves the controller unchanged.
func (c *Controller) Undo() error {
	n := len(c.editingStates)
	if n == 0 {
		return ErrUndoUnderflow
	}
	c.editingStates[n-1] = nil
	c.editingStates = c.editingStates[:n-1]
	if n == 1 {
		c.current = NewEditingState()
	} else {
		c.current = c.editingStates[n-2].Clone()
	}
	return nil
}

// DiscardEdits clears the history and working state and returns to ModeNone.
func (c *Controller) DiscardEdits() {
	c.editingStates = nil
	c.current = NewEditingState()
	c.editMode = ModeNone
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Controller) pushState() {
	c.editingStates = append(c.editingStates, c.current.Clone())
}
