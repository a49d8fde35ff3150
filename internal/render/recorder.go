// ABOUTME: Recording renderer capturing draw requests as data
// ABOUTME: Used for JSON draw output and by tests

package render

import "github.com/harper/geoedit/internal/editing"

// Call is one recorded draw request.
type Call struct {
	Geometry editing.Geometry `json:"geometry"`
	Symbol   editing.Symbol   `json:"symbol"`
}

// Recorder implements editing.Renderer by keeping the requests of the last draw.
type Recorder struct {
	Calls []Call
}

var _ editing.Renderer = (*Recorder)(nil)

// Clear drops recorded calls.
func (r *Recorder) Clear() {
	r.Calls = nil
}

// Draw records the request.
func (r *Recorder) Draw(g editing.Geometry, s editing.Symbol) error {
	r.Calls = append(r.Calls, Call{Geometry: g, Symbol: s})
	return nil
}
