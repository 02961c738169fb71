package layout

import (
	"time"

	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Frame is the resolved geometry of one widget.
type Frame struct {
	ID          string `json:"id" toml:"id"`
	Kind        string `json:"kind" toml:"kind"`
	X           int    `json:"x" toml:"x"`
	Y           int    `json:"y" toml:"y"`
	Width       int    `json:"width" toml:"width"`
	Height      int    `json:"height" toml:"height"`
	Baseline    int    `json:"baseline,omitempty" toml:"baseline,omitempty"`
	HasBaseline bool   `json:"has_baseline,omitempty" toml:"has_baseline,omitempty"`
	Gone        bool   `json:"gone,omitempty" toml:"gone,omitempty"`
}

// Result is the outcome of one [Engine.Solve].
type Result struct {
	// Frames holds the container first, then every child in insertion
	// order.
	Frames []Frame `json:"frames"`

	// Stage is the last stage that ran.
	Stage string `json:"stage"`

	// Resolved reports whether every widget ended up with a frame decided
	// by a stage (propagation or solver).
	Resolved bool `json:"resolved"`

	// Unresolved lists the widgets the propagation stages could not
	// resolve. When the solver ran, these are the widgets it positioned.
	Unresolved []string `json:"unresolved,omitempty"`

	Stats Stats `json:"stats"`
}

// Stats contains solve statistics.
type Stats struct {
	Widgets    int           `json:"widgets"`
	Measures   int           `json:"measures"`
	SolverAxes int           `json:"solver_axes,omitempty"`
	DirectTime time.Duration `json:"direct_ns,omitempty"`
	GraphTime  time.Duration `json:"graph_ns,omitempty"`
	SolverTime time.Duration `json:"solver_ns,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Frame returns the frame with the given ID.
func (r *Result) Frame(id string) (Frame, bool) {
	for _, f := range r.Frames {
		if f.ID == id {
			return f, true
		}
	}
	return Frame{}, false
}

// FrameOf captures the current geometry of w.
func FrameOf(w *widget.Widget) Frame {
	f := Frame{
		ID:     w.ID,
		Kind:   w.Kind.String(),
		X:      w.X(),
		Y:      w.Y(),
		Width:  w.Width(),
		Height: w.Height(),
		Gone:   w.Visibility == widget.Gone,
	}
	if w.HasBaseline {
		f.HasBaseline = true
		f.Baseline = w.Baseline()
	}
	return f
}

// Frames captures the container and every child.
func Frames(c *widget.Container) []Frame {
	out := make([]Frame, 0, len(c.Children())+1)
	out = append(out, FrameOf(c.Widget))
	for _, w := range c.Children() {
		out = append(out, FrameOf(w))
	}
	return out
}
