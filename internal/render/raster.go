// ABOUTME: Raster renderer drawing edit overlays with the gg software rasterizer
// ABOUTME: Projects map geometry through a viewport transform onto a PNG surface

package render

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/harper/geoedit/internal/editing"
)

// Raster implements editing.Renderer on an in-memory image.
type Raster struct {
	dc         *gg.Context
	t          editing.Transform
	background gg.RGBA
}

var _ editing.Renderer = (*Raster)(nil)

// NewRaster creates a width x height surface. Geometry is projected with t,
// which should describe the same pixel grid.
func NewRaster(width, height int, t editing.Transform) *Raster {
	r := &Raster{
		dc:         gg.NewContext(width, height),
		t:          t,
		background: gg.White,
	}
	r.Clear()
	return r
}

// SetBackground changes the color used by Clear.
func (r *Raster) SetBackground(hex string) {
	r.background = gg.Hex(hex)
}

// Clear wipes the surface to the background color.
func (r *Raster) Clear() {
	r.dc.ClearWithColor(r.background)
}

// Draw renders one geometry. Points become filled circles of diameter
// s.Size; polylines are stroked at width s.Size; polygons are filled with
// s.Color and outlined with s.Outline when set.
func (r *Raster) Draw(g editing.Geometry, s editing.Symbol) error {
	if len(g.Points) == 0 {
		return nil
	}
	switch g.Type {
	case editing.GeometryPoint:
		sx, sy := r.t.MapToScreen(g.Points[0].X, g.Points[0].Y)
		r.dc.SetHexColor(s.Color)
		r.dc.DrawCircle(sx, sy, s.Size/2)
		return r.dc.Fill()
	case editing.GeometryPolyline:
		r.tracePath(g, false)
		r.dc.SetHexColor(s.Color)
		r.dc.SetLineWidth(s.Size)
		return r.dc.Stroke()
	case editing.GeometryPolygon:
		r.tracePath(g, true)
		r.dc.SetHexColor(s.Color)
		if s.Outline == "" {
			return r.dc.Fill()
		}
		if err := r.dc.FillPreserve(); err != nil {
			return err
		}
		r.dc.SetHexColor(s.Outline)
		r.dc.SetLineWidth(s.Size)
		return r.dc.Stroke()
	default:
		return fmt.Errorf("cannot draw geometry type %s", g.Type)
	}
}

func (r *Raster) tracePath(g editing.Geometry, closed bool) {
	r.dc.ClearPath()
	for i, p := range g.Points {
		sx, sy := r.t.MapToScreen(p.X, p.Y)
		if i == 0 {
			r.dc.MoveTo(sx, sy)
			continue
		}
		r.dc.LineTo(sx, sy)
	}
	if closed {
		r.dc.ClosePath()
	}
}

// EncodePNG writes the surface as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// SavePNG writes the surface to a PNG file.
func (r *Raster) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

// Close releases the drawing context.
func (r *Raster) Close() error {
	return r.dc.Close()
}
