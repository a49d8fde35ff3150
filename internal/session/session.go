// ABOUTME: Edit session binding a geometry controller to a target layer
// ABOUTME: Guards actions like an editing toolbar and persists finished features

package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/logging"
	"github.com/harper/geoedit/internal/metrics"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/storage"
)

var (
	// ErrLayerNotEditable is returned when beginning an edit on a read-only layer.
	ErrLayerNotEditable = errors.New("layer is not editable")
	// ErrUnsupportedLayer is returned when the layer kind has no edit mode.
	ErrUnsupportedLayer = errors.New("layer geometry kind cannot be edited")
	// ErrActionUnavailable is returned when an action is not currently offered.
	ErrActionUnavailable = errors.New("action not available")
)

// Actions reports which toolbar actions are currently offered.
type Actions struct {
	Save        bool `json:"save"`
	DeletePoint bool `json:"delete_point"`
	Undo        bool `json:"undo"`
}

// Status is a read-only snapshot of an edit for display.
type Status struct {
	Layer            string         `json:"layer,omitempty"`
	Mode             string         `json:"mode"`
	Points           []models.Point `json:"points"`
	Midpoints        []models.Point `json:"midpoints"`
	HistoryCount     int            `json:"history_count"`
	MidpointSelected bool           `json:"midpoint_selected"`
	VertexSelected   bool           `json:"vertex_selected"`
	InsertingIndex   int            `json:"inserting_index"`
	Actions          Actions        `json:"actions"`
}

// Session owns one controller and the layer it is adding a feature to.
// Like the controller it wraps, it is not safe for concurrent use.
type Session struct {
	ctrl   *editing.Controller
	layer  *models.Layer
	repo   storage.FeatureRepository
	logger *log.Logger
}

// New returns an idle session saving into repo. A nil logger means
// logging.Default().
func New(repo storage.FeatureRepository, logger *log.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		ctrl:   editing.NewController(),
		repo:   repo,
		logger: logger,
	}
}

// Begin starts a new edit on layer, discarding any edit in progress.
func (s *Session) Begin(layer *models.Layer) error {
	s.Discard()
	if !layer.Editable {
		return fmt.Errorf("begin edit on %q: %w", layer.Name, ErrLayerNotEditable)
	}
	mode := s.ctrl.SetEditModeForKind(layer.Kind)
	if mode == editing.ModeNone {
		return fmt.Errorf("begin edit on %q (%s): %w", layer.Name, layer.Kind, ErrUnsupportedLayer)
	}
	s.layer = layer
	s.logger.Info("edit started", "layer", layer.Name, "mode", mode)
	return nil
}

// Editing reports whether an edit is in progress.
func (s *Session) Editing() bool {
	return s.layer != nil && s.ctrl.EditMode().Editable()
}

// Layer returns the layer being edited, or nil.
func (s *Session) Layer() *models.Layer {
	return s.layer
}

// Controller exposes the underlying controller for read access.
func (s *Session) Controller() *editing.Controller {
	return s.ctrl
}

// Tap forwards a screen tap to the controller.
func (s *Session) Tap(x, y float64, t editing.Transform) (editing.TapResult, error) {
	res, err := s.ctrl.HandleScreenPoint(x, y, t)
	if err != nil {
		return res, err
	}
	metrics.TapsTotal.WithLabelValues(res.String()).Inc()
	s.logger.Debug("tap", "x", x, "y", y, "result", res, "points", s.ctrl.CurrentEditingState().PointCount())
	return res, nil
}

// Actions returns the toolbar state. Delete is hidden in point mode, on an
// empty edit, and while a midpoint is selected.
func (s *Session) Actions() Actions {
	if !s.Editing() {
		return Actions{}
	}
	state := s.ctrl.CurrentEditingState()
	return Actions{
		Save: s.ctrl.IsSaveValid(),
		DeletePoint: s.ctrl.EditMode() != editing.ModePoint &&
			state.PointCount() > 0 &&
			!state.MidPointSelected(),
		Undo: s.ctrl.EditingStatesCount() > 0,
	}
}

// DeletePoint deletes the selected or last vertex when the action is offered.
func (s *Session) DeletePoint() error {
	if !s.Actions().DeletePoint {
		return fmt.Errorf("delete point: %w", ErrActionUnavailable)
	}
	if err := s.ctrl.DeletePoint(); err != nil {
		return err
	}
	metrics.DeletesTotal.Inc()
	return nil
}

// Undo reverts the last edit step when the action is offered.
func (s *Session) Undo() error {
	if !s.Actions().Undo {
		return fmt.Errorf("undo: %w", ErrActionUnavailable)
	}
	if err := s.ctrl.Undo(); err != nil {
		return err
	}
	metrics.UndoTotal.Inc()
	return nil
}

// Save stores the working geometry as a new feature of the edited layer and
// ends the edit. The edit ends even when storage fails.
func (s *Session) Save() (*models.Feature, error) {
	if !s.Actions().Save {
		metrics.SaveFailuresTotal.Inc()
		return nil, fmt.Errorf("save: %w", ErrActionUnavailable)
	}
	geom, ok := s.ctrl.CurrentGeometry()
	if !ok {
		metrics.SaveFailuresTotal.Inc()
		return nil, fmt.Errorf("save: %w", ErrActionUnavailable)
	}
	layer := s.layer
	s.ctrl.SetEditMode(editing.ModeSaving)
	defer s.Discard()

	feature := models.NewFeature(layer.ID, geom.Type.Kind(), geom.Points)
	if err := s.repo.CreateFeature(feature); err != nil {
		metrics.SaveFailuresTotal.Inc()
		s.logger.Error("save failed", "layer", layer.Name, "err", err)
		return nil, fmt.Errorf("save feature to %q: %w", layer.Name, err)
	}

	metrics.FeaturesSavedTotal.WithLabelValues(feature.Kind.String()).Inc()
	s.logger.Info("feature saved", "layer", layer.Name, "id", feature.ID, "kind", feature.Kind, "points", len(feature.Points))
	return feature, nil
}

// Discard abandons the edit in progress, if any.
func (s *Session) Discard() {
	if s.layer != nil {
		s.logger.Debug("edit discarded", "layer", s.layer.Name)
	}
	s.ctrl.DiscardEdits()
	s.layer = nil
}

// Status snapshots the edit for display.
func (s *Session) Status() Status {
	state := s.ctrl.CurrentEditingState()
	st := Status{
		Mode:             s.ctrl.EditMode().String(),
		Points:           state.Points(),
		Midpoints:        s.ctrl.Midpoints(),
		HistoryCount:     s.ctrl.EditingStatesCount(),
		MidpointSelected: state.MidPointSelected(),
		VertexSelected:   state.VertexSelected(),
		InsertingIndex:   state.InsertingIndex(),
		Actions:          s.Actions(),
	}
	if st.Points == nil {
		st.Points = []models.Point{}
	}
	if st.Midpoints == nil {
		st.Midpoints = []models.Point{}
	}
	if s.layer != nil {
		st.Layer = s.layer.Name
	}
	return st
}

// Draw renders the edit in progress.
func (s *Session) Draw(r editing.Renderer, style editing.Style) error {
	return s.ctrl.Draw(r, style)
}
