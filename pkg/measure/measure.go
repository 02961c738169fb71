// Package measure defines the boundary between layout and content sizing.
//
// The layout engine never inspects widget content. Whenever it needs an
// intrinsic size it calls a [Measurer] with a [Spec] describing what is
// already known (behaviour and dimension per axis) and a [Strategy] telling
// the measurer how much freedom it has. [Table] is a measurer backed by a
// map of intrinsic sizes, used by documents and tests.
package measure

import (
	"sync"

	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Strategy tells the measurer how to treat the given dimensions.
type Strategy int

const (
	// SelfDimensions lets the widget pick its own size.
	SelfDimensions Strategy = iota
	// TryGivenDimensions prefers the given size if content fits.
	TryGivenDimensions
	// UseGivenDimensions forces the given size.
	UseGivenDimensions
)

func (s Strategy) String() string {
	switch s {
	case TryGivenDimensions:
		return "try_given"
	case UseGivenDimensions:
		return "use_given"
	}
	return "self"
}

// Spec is one measure request.
type Spec struct {
	Horizontal widget.DimensionBehaviour
	Vertical   widget.DimensionBehaviour
	Width      int
	Height     int
	Strategy   Strategy
}

// Behaviour returns the behaviour requested on an axis.
func (s Spec) Behaviour(o widget.Orientation) widget.DimensionBehaviour {
	if o == widget.Vertical {
		return s.Vertical
	}
	return s.Horizontal
}

// Result is what a measurer reports back.
type Result struct {
	Width       int
	Height      int
	HasBaseline bool
	Baseline    int
	// NeedsSolverPass asks the engine to re-solve after this measure.
	NeedsSolverPass bool
}

// Length returns the measured size on an axis.
func (r Result) Length(o widget.Orientation) int {
	if o == widget.Vertical {
		return r.Height
	}
	return r.Width
}

// Measurer sizes widget content.
type Measurer interface {
	Measure(w *widget.Widget, spec Spec) Result
	// DidMeasures is called once after a batch of Measure calls.
	DidMeasures()
}

// Size is an intrinsic content size.
type Size struct {
	Width    int `json:"width" toml:"width"`
	Height   int `json:"height" toml:"height"`
	Baseline int `json:"baseline,omitempty" toml:"baseline"`
}

// Table answers measure requests from a map of intrinsic sizes keyed by
// widget ID. FIXED axes report the given dimension, WRAP_CONTENT axes the
// intrinsic size, MATCH_CONSTRAINT and MATCH_PARENT axes the given
// dimension (the intrinsic size when none was given). Widgets absent from
// the table measure as their declared size.
//
// Table is safe for concurrent use; it also counts calls, which tests and
// the engine stats use.
type Table struct {
	mu      sync.Mutex
	sizes   map[string]Size
	calls   int
	batches int
}

// NewTable returns a measurer over sizes. The map is copied.
func NewTable(sizes map[string]Size) *Table {
	t := &Table{sizes: make(map[string]Size, len(sizes))}
	for k, v := range sizes {
		t.sizes[k] = v
	}
	return t
}

// Set records the intrinsic size of a widget.
func (t *Table) Set(id string, s Size) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sizes[id] = s
}

// Measure implements [Measurer].
func (t *Table) Measure(w *widget.Widget, spec Spec) Result {
	t.mu.Lock()
	size, ok := t.sizes[w.ID]
	t.calls++
	t.mu.Unlock()

	if !ok {
		size = Size{Width: w.DeclaredWidth(), Height: w.DeclaredHeight()}
		if w.HasBaseline {
			size.Baseline = w.BaselineDistance
		}
	}
	res := Result{
		Width:  pick(spec.Horizontal, spec.Width, size.Width, spec.Strategy),
		Height: pick(spec.Vertical, spec.Height, size.Height, spec.Strategy),
	}
	if size.Baseline > 0 {
		res.HasBaseline = true
		res.Baseline = size.Baseline
	}
	return res
}

func pick(b widget.DimensionBehaviour, given, intrinsic int, s Strategy) int {
	if s == UseGivenDimensions {
		return given
	}
	switch b {
	case widget.Fixed:
		return given
	case widget.WrapContent:
		return intrinsic
	}
	if given > 0 {
		return given
	}
	return intrinsic
}

// DidMeasures implements [Measurer].
func (t *Table) DidMeasures() {
	t.mu.Lock()
	t.batches++
	t.mu.Unlock()
}

// Calls returns the number of Measure calls so far.
func (t *Table) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Batches returns the number of DidMeasures calls so far.
func (t *Table) Batches() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.batches
}
