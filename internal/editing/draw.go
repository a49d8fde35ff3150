// ABOUTME: Draw passes that turn an edit into renderer requests
// ABOUTME: Styles are immutable configuration passed in per draw

package editing

// Symbol is the visual style of one draw request. Size is a marker diameter or
// a line width in pixels; Outline applies to fills only.
type Symbol struct {
	Color   string  `json:"color"`
	Outline string  `json:"outline,omitempty"`
	Size    float64 `json:"size"`
}

// Style groups the symbols used to draw an edit.
type Style struct {
	Line             Symbol `json:"line"`
	Fill             Symbol `json:"fill"`
	Vertex           Symbol `json:"vertex"`
	SelectedVertex   Symbol `json:"selected_vertex"`
	Midpoint         Symbol `json:"midpoint"`
	SelectedMidpoint Symbol `json:"selected_midpoint"`
}

// DefaultStyle returns black vertices, green midpoints, red selections, a
// black line and a translucent yellow fill.
func DefaultStyle() Style {
	return Style{
		Line:             Symbol{Color: "#000000", Size: 4},
		Fill:             Symbol{Color: "#FFFF0064", Outline: "#000000", Size: 2},
		Vertex:           Symbol{Color: "#000000", Size: 20},
		SelectedVertex:   Symbol{Color: "#FF0000", Size: 20},
		Midpoint:         Symbol{Color: "#00FF00", Size: 15},
		SelectedMidpoint: Symbol{Color: "#FF0000", Size: 20},
	}
}

// Renderer receives draw requests. Renderers own no edit state; every draw
// starts from Clear.
type Renderer interface {
	Clear()
	Draw(g Geometry, s Symbol) error
}

// Draw clears r and draws the working geometry in three passes: the connecting
// path, the midpoints, then the vertices. The selected midpoint or vertex uses
// the selected symbol; with nothing selected the newest vertex does.
func (c *Controller) Draw(r Renderer, style Style) error {
	r.Clear()
	s := c.current
	n := len(s.points)

	if n >= 2 {
		path := Geometry{Type: GeometryPolyline, Points: s.Points()}
		sym := style.Line
		if c.editMode.ClosesRing() {
			path.Type = GeometryPolygon
			sym = style.Fill
		}
		if err := r.Draw(path, sym); err != nil {
			return err
		}
	}

	for i, m := range c.Midpoints() {
		sym := style.Midpoint
		if s.midPointSelected && s.insertingIndex == i {
			sym = style.SelectedMidpoint
		}
		if err := r.Draw(PointGeometry(m), sym); err != nil {
			return err
		}
	}

	idle := !s.midPointSelected && !s.vertexSelected
	for i, p := range s.points {
		sym := style.Vertex
		if (s.vertexSelected && s.insertingIndex == i) || (idle && i == n-1) {
			sym = style.SelectedVertex
		}
		if err := r.Draw(PointGeometry(p), sym); err != nil {
			return err
		}
	}
	return nil
}
