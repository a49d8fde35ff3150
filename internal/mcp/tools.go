// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Exposes layer management and the tap-driven geometry edit to AI agents

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/render"
	"github.com/harper/geoedit/internal/session"
	"github.com/harper/geoedit/internal/storage"
	"github.com/harper/geoedit/internal/viewport"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerListLayersTool()
	s.registerCreateLayerTool()
	s.registerBeginEditTool()
	s.registerTapTool()
	s.registerUndoTool()
	s.registerDeletePointTool()
	s.registerSaveEditTool()
	s.registerDiscardEditTool()
	s.registerEditStatusTool()
	s.registerRenderEditTool()
	s.registerListFeaturesTool()
}

func jsonResult(output any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

// EmptyInput is used by tools that take no arguments.
type EmptyInput struct{}

// LayerOutput defines output for layer tools.
type LayerOutput struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	Editable     bool      `json:"editable"`
	FeatureCount int       `json:"feature_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListLayersOutput defines output for list_layers tool.
type ListLayersOutput struct {
	Layers []LayerOutput `json:"layers"`
	Count  int           `json:"count"`
}

func toLayerOutput(l *models.Layer, featureCount int) LayerOutput {
	return LayerOutput{
		ID:           l.ID.String(),
		Name:         l.Name,
		Kind:         l.Kind.String(),
		Editable:     l.Editable,
		FeatureCount: featureCount,
		CreatedAt:    l.CreatedAt,
	}
}

func (s *Server) listLayers() (ListLayersOutput, error) {
	layers, err := s.repo.ListLayers()
	if err != nil {
		return ListLayersOutput{}, fmt.Errorf("failed to list layers: %w", err)
	}
	out := ListLayersOutput{Layers: make([]LayerOutput, 0, len(layers))}
	for _, l := range layers {
		features, err := s.repo.ListFeatures(l.ID)
		if err != nil {
			return ListLayersOutput{}, fmt.Errorf("failed to list features of %q: %w", l.Name, err)
		}
		out.Layers = append(out.Layers, toLayerOutput(l, len(features)))
	}
	out.Count = len(out.Layers)
	return out, nil
}

func (s *Server) registerListLayersTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_layers",
		Description: "List all layers with their geometry kind, editability, and feature count.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListLayers)
}

func (s *Server) handleListLayers(_ context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, ListLayersOutput, error) {
	output, err := s.listLayers()
	if err != nil {
		return nil, ListLayersOutput{}, err
	}
	return jsonResult(output), output, nil
}

// CreateLayerInput defines input for create_layer tool.
type CreateLayerInput struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	ReadOnly bool   `json:"readonly,omitempty"`
}

func (s *Server) registerCreateLayerTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "create_layer",
		Description: "Create a layer that features can be drawn into.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Unique layer name (e.g., 'parcels', 'roads')",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Geometry kind: point, multipoint, line, polyline, envelope, or polygon",
				},
				"readonly": map[string]interface{}{
					"type":        "boolean",
					"description": "Create the layer read-only (edits will be refused)",
				},
			},
			"required": []string{"name", "kind"},
		},
	}, s.handleCreateLayer)
}

func (s *Server) handleCreateLayer(_ context.Context, req *mcp.CallToolRequest, input CreateLayerInput) (*mcp.CallToolResult, LayerOutput, error) {
	if err := models.ValidateName(input.Name); err != nil {
		return nil, LayerOutput{}, err
	}
	kind, err := models.ParseGeometryKind(input.Kind)
	if err != nil {
		return nil, LayerOutput{}, err
	}

	layer := models.NewLayer(input.Name, kind)
	layer.Editable = !input.ReadOnly
	if err := s.repo.CreateLayer(layer); err != nil {
		return nil, LayerOutput{}, fmt.Errorf("failed to create layer: %w", err)
	}

	output := toLayerOutput(layer, 0)
	return jsonResult(output), output, nil
}

// StatusOutput wraps the edit status returned by edit tools.
type StatusOutput struct {
	Editing bool           `json:"editing"`
	Status  session.Status `json:"status"`
	Message string         `json:"message,omitempty"`
}

func (s *Server) status(msg string) StatusOutput {
	return StatusOutput{Editing: s.session.Editing(), Status: s.session.Status(), Message: msg}
}

// BeginEditInput defines input for begin_edit tool.
type BeginEditInput struct {
	Layer      string   `json:"layer"`
	Width      *int     `json:"width,omitempty"`
	Height     *int     `json:"height,omitempty"`
	CenterX    *float64 `json:"center_x,omitempty"`
	CenterY    *float64 `json:"center_y,omitempty"`
	Resolution *float64 `json:"resolution,omitempty"`
}

func (s *Server) registerBeginEditTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "begin_edit",
		Description: "Start drawing a new feature into a layer. Discards any edit in progress. Optionally sets the screen viewport that tap coordinates refer to.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layer": map[string]interface{}{
					"type":        "string",
					"description": "Name of the layer to add a feature to",
				},
				"width": map[string]interface{}{
					"type":        "integer",
					"description": "Screen width in pixels (default 800)",
				},
				"height": map[string]interface{}{
					"type":        "integer",
					"description": "Screen height in pixels (default 600)",
				},
				"center_x": map[string]interface{}{
					"type":        "number",
					"description": "Map X coordinate at the screen center",
				},
				"center_y": map[string]interface{}{
					"type":        "number",
					"description": "Map Y coordinate at the screen center",
				},
				"resolution": map[string]interface{}{
					"type":        "number",
					"description": "Map units per pixel (default 1)",
				},
			},
			"required": []string{"layer"},
		},
	}, s.handleBeginEdit)
}

func (s *Server) handleBeginEdit(_ context.Context, req *mcp.CallToolRequest, input BeginEditInput) (*mcp.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layer, err := s.repo.GetLayerByName(input.Layer)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, StatusOutput{}, fmt.Errorf("layer '%s' not found", input.Layer)
		}
		return nil, StatusOutput{}, fmt.Errorf("failed to get layer: %w", err)
	}

	view, err := s.viewportFor(input)
	if err != nil {
		return nil, StatusOutput{}, err
	}
	if err := s.session.Begin(layer); err != nil {
		return nil, StatusOutput{}, err
	}
	s.view = view

	output := s.status(fmt.Sprintf("Editing '%s' (%s)", layer.Name, layer.Kind))
	return jsonResult(output), output, nil
}

// viewportFor overlays the optional viewport fields on the current viewport.
func (s *Server) viewportFor(input BeginEditInput) (*viewport.Viewport, error) {
	width, height := s.view.Width, s.view.Height
	center, res := s.view.Center, s.view.Resolution
	if input.Width != nil {
		width = *input.Width
	}
	if input.Height != nil {
		height = *input.Height
	}
	if input.CenterX != nil {
		center.X = *input.CenterX
	}
	if input.CenterY != nil {
		center.Y = *input.CenterY
	}
	if input.Resolution != nil {
		res = *input.Resolution
	}
	return viewport.New(width, height, center, res)
}

// TapInput defines input for tap tool.
type TapInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TapOutput defines output for tap tool.
type TapOutput struct {
	Result string         `json:"result"`
	Point  models.Point   `json:"map_point"`
	Status session.Status `json:"status"`
}

func (s *Server) registerTapTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "tap",
		Description: "Tap the screen at pixel (x, y). Adds a vertex, or selects a nearby vertex or midpoint; the next tap then moves the selected vertex or inserts a vertex at the selected midpoint.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{
					"type":        "number",
					"description": "Screen X in pixels from the left edge",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Screen Y in pixels from the top edge",
				},
			},
			"required": []string{"x", "y"},
		},
	}, s.handleTap)
}

func (s *Server) handleTap(_ context.Context, req *mcp.CallToolRequest, input TapInput) (*mcp.CallToolResult, TapOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.session.Tap(input.X, input.Y, s.view)
	if err != nil {
		return nil, TapOutput{}, err
	}

	output := TapOutput{
		Result: res.String(),
		Point:  s.view.ScreenToMap(int(input.X), int(input.Y)),
		Status: s.session.Status(),
	}
	return jsonResult(output), output, nil
}

func (s *Server) registerUndoTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "undo",
		Description: "Undo the last edit step.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleUndo)
}

func (s *Server) handleUndo(_ context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Undo(); err != nil {
		return nil, StatusOutput{}, err
	}
	output := s.status("Undone")
	return jsonResult(output), output, nil
}

func (s *Server) registerDeletePointTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "delete_point",
		Description: "Delete the selected vertex, or the last vertex when none is selected.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleDeletePoint)
}

func (s *Server) handleDeletePoint(_ context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.DeletePoint(); err != nil {
		return nil, StatusOutput{}, err
	}
	output := s.status("Point deleted")
	return jsonResult(output), output, nil
}

// FeatureOutput defines output for feature tools.
type FeatureOutput struct {
	ID        string         `json:"id"`
	Layer     string         `json:"layer"`
	Kind      string         `json:"kind"`
	Points    []models.Point `json:"points"`
	CreatedAt time.Time      `json:"created_at"`
}

func toFeatureOutput(f *models.Feature, layerName string) FeatureOutput {
	return FeatureOutput{
		ID:        f.ID.String(),
		Layer:     layerName,
		Kind:      f.Kind.String(),
		Points:    f.Points,
		CreatedAt: f.CreatedAt,
	}
}

func (s *Server) registerSaveEditTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "save_edit",
		Description: "Save the drawn geometry as a new feature and end the edit. Requires 1 point for point layers, 2 for lines, 3 for polygons.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleSaveEdit)
}

func (s *Server) handleSaveEdit(_ context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, FeatureOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	layer := s.session.Layer()
	f, err := s.session.Save()
	if err != nil {
		return nil, FeatureOutput{}, err
	}
	output := toFeatureOutput(f, layer.Name)
	return jsonResult(output), output, nil
}

func (s *Server) registerDiscardEditTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "discard_edit",
		Description: "Abandon the edit in progress without saving.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleDiscardEdit)
}

func (s *Server) handleDiscardEdit(_ context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.Discard()
	output := s.status("Edit discarded")
	return jsonResult(output), output, nil
}

func (s *Server) registerEditStatusTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "edit_status",
		Description: "Show the edit in progress: vertices, midpoints, selection, history depth, and available actions.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleEditStatus)
}

func (s *Server) handleEditStatus(_ context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, StatusOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := s.status("")
	return jsonResult(output), output, nil
}

// RenderInput defines input for render_edit tool.
type RenderInput struct {
	Format string `json:"format,omitempty"`
}

// DrawCall is one draw request in a JSON render.
type DrawCall struct {
	Type    string         `json:"type"`
	Points  []models.Point `json:"points"`
	Color   string         `json:"color"`
	Outline string         `json:"outline,omitempty"`
	Size    float64        `json:"size"`
}

// RenderOutput defines output for render_edit tool.
type RenderOutput struct {
	Format string     `json:"format"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Calls  []DrawCall `json:"calls,omitempty"`
}

func (s *Server) registerRenderEditTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "render_edit",
		Description: "Render the edit overlay. Format 'png' (default) returns an image; 'json' returns the draw calls.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"format": map[string]interface{}{
					"type":        "string",
					"description": "png or json",
				},
			},
		},
	}, s.handleRenderEdit)
}

func (s *Server) handleRenderEdit(_ context.Context, req *mcp.CallToolRequest, input RenderInput) (*mcp.CallToolResult, RenderOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	output := RenderOutput{Format: input.Format, Width: s.view.Width, Height: s.view.Height}
	switch input.Format {
	case "", "png":
		output.Format = "png"
		raster := render.NewRaster(s.view.Width, s.view.Height, s.view)
		defer func() { _ = raster.Close() }()
		if err := s.session.Draw(raster, s.style); err != nil {
			return nil, RenderOutput{}, fmt.Errorf("failed to draw: %w", err)
		}
		var buf bytes.Buffer
		if err := raster.EncodePNG(&buf); err != nil {
			return nil, RenderOutput{}, fmt.Errorf("failed to encode png: %w", err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.ImageContent{Data: buf.Bytes(), MIMEType: "image/png"}},
		}, output, nil
	case "json":
		rec := &render.Recorder{}
		if err := s.session.Draw(rec, s.style); err != nil {
			return nil, RenderOutput{}, fmt.Errorf("failed to draw: %w", err)
		}
		for _, c := range rec.Calls {
			output.Calls = append(output.Calls, DrawCall{
				Type:    c.Geometry.Type.String(),
				Points:  c.Geometry.Points,
				Color:   c.Symbol.Color,
				Outline: c.Symbol.Outline,
				Size:    c.Symbol.Size,
			})
		}
		return jsonResult(output), output, nil
	default:
		return nil, RenderOutput{}, fmt.Errorf("unknown format %q (expected png or json)", input.Format)
	}
}

// ListFeaturesInput defines input for list_features tool.
type ListFeaturesInput struct {
	Layer string `json:"layer,omitempty"`
}

// ListFeaturesOutput defines output for list_features tool.
type ListFeaturesOutput struct {
	Features []FeatureOutput `json:"features"`
	Count    int             `json:"count"`
}

func (s *Server) registerListFeaturesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_features",
		Description: "List saved features, optionally for one layer, oldest first.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"layer": map[string]interface{}{
					"type":        "string",
					"description": "Only list features of this layer",
				},
			},
		},
	}, s.handleListFeatures)
}

func (s *Server) handleListFeatures(_ context.Context, req *mcp.CallToolRequest, input ListFeaturesInput) (*mcp.CallToolResult, ListFeaturesOutput, error) {
	names, err := s.layerNames()
	if err != nil {
		return nil, ListFeaturesOutput{}, err
	}

	var features []*models.Feature
	if input.Layer != "" {
		layer, err := s.repo.GetLayerByName(input.Layer)
		if err != nil {
			return nil, ListFeaturesOutput{}, fmt.Errorf("layer '%s' not found", input.Layer)
		}
		features, err = s.repo.ListFeatures(layer.ID)
		if err != nil {
			return nil, ListFeaturesOutput{}, fmt.Errorf("failed to list features: %w", err)
		}
	} else {
		features, err = s.repo.ListAllFeatures()
		if err != nil {
			return nil, ListFeaturesOutput{}, fmt.Errorf("failed to list features: %w", err)
		}
	}

	output := ListFeaturesOutput{Features: make([]FeatureOutput, 0, len(features))}
	for _, f := range features {
		output.Features = append(output.Features, toFeatureOutput(f, names[f.LayerID.String()]))
	}
	output.Count = len(output.Features)
	return jsonResult(output), output, nil
}
