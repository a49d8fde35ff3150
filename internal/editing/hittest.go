// ABOUTME: Screen-space hit testing and midpoint derivation
// ABOUTME: Nearest candidate within a fixed pixel tolerance wins

package editing

import "github.com/harper/geoedit/internal/models"

// Tolerance is the hit-test radius in screen pixels.
const Tolerance = 40.0

// NoMatch is returned by SelectedIndex when no candidate is close enough.
const NoMatch = -1

// Transform converts between screen pixels and map coordinates.
// The two directions must round-trip within the hit-test tolerance.
type Transform interface {
	ScreenToMap(x, y int) models.Point
	MapToScreen(x, y float64) (float64, float64)
}

// SelectedIndex returns the index of the candidate nearest to the screen
// position (x, y), or NoMatch if even the nearest is Tolerance pixels or
// further away. Distances are measured in screen space; candidates whose
// distance is not finite never match.
func SelectedIndex(x, y float64, candidates []models.Point, t Transform) int {
	best := NoMatch
	bestDist := 0.0
	for i, p := range candidates {
		sx, sy := t.MapToScreen(p.X, p.Y)
		dx, dy := sx-x, sy-y
		d := dx*dx + dy*dy
		if !finite(d) {
			continue
		}
		if best == NoMatch || d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best == NoMatch || bestDist >= Tolerance*Tolerance {
		return NoMatch
	}
	return best
}

// Midpoints returns one midpoint per consecutive vertex pair, plus one closing
// the ring when mode is a polygon with more than two vertices.
func Midpoints(points []models.Point, mode EditMode) []models.Point {
	n := len(points)
	if n < 2 {
		return nil
	}
	mids := make([]models.Point, 0, n)
	for i := 0; i < n-1; i++ {
		mids = append(mids, points[i].Midpoint(points[i+1]))
	}
	if mode.ClosesRing() && n > 2 {
		mids = append(mids, points[n-1].Midpoint(points[0]))
	}
	return mids
}
