// ABOUTME: Affine screen-to-map viewport used to interpret taps
// ABOUTME: Screen y grows downward while map y grows upward

package viewport

import (
	"fmt"
	"math"

	"github.com/harper/geoedit/internal/models"
)

// Viewport maps a Width x Height pixel surface onto the map. Center is the map
// coordinate shown at the middle of the surface and Resolution is map units
// per pixel.
type Viewport struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Center     models.Point `json:"center"`
	Resolution float64      `json:"resolution"`
}

// New returns a viewport, validating its dimensions.
func New(width, height int, center models.Point, resolution float64) (*Viewport, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("viewport size must be positive, got %dx%d", width, height)
	}
	if resolution <= 0 || math.IsNaN(resolution) || math.IsInf(resolution, 0) {
		return nil, fmt.Errorf("resolution must be a positive number, got %g", resolution)
	}
	if err := models.ValidatePoint(center); err != nil {
		return nil, fmt.Errorf("center: %w", err)
	}
	return &Viewport{Width: width, Height: height, Center: center, Resolution: resolution}, nil
}

// ScreenToMap converts a pixel position to map coordinates.
func (v *Viewport) ScreenToMap(x, y int) models.Point {
	return models.Point{
		X: v.Center.X + (float64(x)-float64(v.Width)/2)*v.Resolution,
		Y: v.Center.Y - (float64(y)-float64(v.Height)/2)*v.Resolution,
	}
}

// MapToScreen converts map coordinates to a (fractional) pixel position.
func (v *Viewport) MapToScreen(x, y float64) (float64, float64) {
	sx := (x-v.Center.X)/v.Resolution + float64(v.Width)/2
	sy := (v.Center.Y-y)/v.Resolution + float64(v.Height)/2
	return sx, sy
}

// Pan moves the center by a pixel offset.
func (v *Viewport) Pan(dx, dy float64) {
	v.Center.X += dx * v.Resolution
	v.Center.Y -= dy * v.Resolution
}

// Zoom divides the resolution by factor; factor > 1 zooms in.
func (v *Viewport) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	v.Resolution /= factor
}

// Fit centers the viewport on points and picks a resolution that leaves margin
// pixels on every side. A single point keeps the current resolution.
func (v *Viewport) Fit(points []models.Point, margin int) {
	if len(points) == 0 {
		return
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	v.Center = models.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}

	usableW := float64(v.Width - 2*margin)
	usableH := float64(v.Height - 2*margin)
	if usableW <= 0 || usableH <= 0 {
		return
	}
	res := math.Max((maxX-minX)/usableW, (maxY-minY)/usableH)
	if res > 0 {
		v.Resolution = res
	}
}
