// ABOUTME: Tests for the affine viewport transform
// ABOUTME: Covers round trips, axis direction, pan, zoom, and fit

package viewport

import (
	"math"
	"testing"

	"github.com/harper/geoedit/internal/models"
)

func mustViewport(t *testing.T) *Viewport {
	t.Helper()
	v, err := New(800, 600, models.Point{X: 100, Y: 200}, 0.5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		res  float64
		c    models.Point
	}{
		{"zero_width", 0, 10, 1, models.Point{}},
		{"negative_height", 10, -1, 1, models.Point{}},
		{"zero_resolution", 10, 10, 0, models.Point{}},
		{"nan_resolution", 10, 10, math.NaN(), models.Point{}},
		{"nan_center", 10, 10, 1, models.Point{X: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.w, tt.h, tt.c, tt.res); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCenterPixelIsCenter(t *testing.T) {
	v := mustViewport(t)
	if got := v.ScreenToMap(400, 300); got != v.Center {
		t.Errorf("center pixel maps to %v, want %v", got, v.Center)
	}
}

func TestAxisDirections(t *testing.T) {
	v := mustViewport(t)
	right := v.ScreenToMap(410, 300)
	down := v.ScreenToMap(400, 310)

	if right.X <= v.Center.X {
		t.Error("moving right on screen should increase map x")
	}
	if down.Y >= v.Center.Y {
		t.Error("moving down on screen should decrease map y")
	}
}

func TestRoundTrip(t *testing.T) {
	v := mustViewport(t)
	for _, px := range [][2]int{{0, 0}, {799, 599}, {123, 456}} {
		p := v.ScreenToMap(px[0], px[1])
		sx, sy := v.MapToScreen(p.X, p.Y)
		if math.Abs(sx-float64(px[0])) > 1e-9 || math.Abs(sy-float64(px[1])) > 1e-9 {
			t.Errorf("round trip of %v gave (%g, %g)", px, sx, sy)
		}
	}
}

func TestPanAndZoom(t *testing.T) {
	v := mustViewport(t)
	v.Pan(20, 10)
	if v.Center != (models.Point{X: 110, Y: 195}) {
		t.Errorf("center after pan = %v", v.Center)
	}
	v.Zoom(2)
	if v.Resolution != 0.25 {
		t.Errorf("resolution after zoom = %g", v.Resolution)
	}
	v.Zoom(0)
	if v.Resolution != 0.25 {
		t.Error("zoom by zero should be ignored")
	}
}

func TestFit(t *testing.T) {
	v := mustViewport(t)
	v.Fit([]models.Point{{X: 0, Y: 0}, {X: 100, Y: 50}}, 50)

	if v.Center != (models.Point{X: 50, Y: 25}) {
		t.Errorf("center = %v, want (50, 25)", v.Center)
	}
	// usable width 700 px for 100 units, usable height 500 px for 50 units
	if math.Abs(v.Resolution-100.0/700.0) > 1e-12 {
		t.Errorf("resolution = %g", v.Resolution)
	}

	before := v.Resolution
	v.Fit([]models.Point{{X: 5, Y: 5}}, 50)
	if v.Resolution != before {
		t.Error("fitting one point should keep the resolution")
	}
}
