package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/dependency"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Run is the set of dependency nodes describing one widget (or one chain,
// guideline or barrier) along one axis.
type Run interface {
	dependency.Dependency

	Widget() *widget.Widget
	Orientation() widget.Orientation
	Start() *dependency.Node
	End() *dependency.Node
	Dimension() *dependency.Node
	Group() *RunGroup

	base() *runBase
	clear()
	apply()
	applyToWidget()
	supportsWrapComputation() bool
	wrapDimension() int
}

type runType int

const (
	runNone runType = iota
	runCenter
)

type runBase struct {
	graph       *DependencyGraph
	self        Run
	widget      *widget.Widget
	orientation widget.Orientation

	start, end, dim *dependency.Node

	behaviour widget.DimensionBehaviour
	matchType widget.MatchConstraintDefault
	kind      runType
	resolved  bool
	group     *RunGroup
}

func (b *runBase) init(g *DependencyGraph, w *widget.Widget, o widget.Orientation, self Run) {
	b.graph = g
	b.self = self
	b.widget = w
	b.orientation = o
	startKind, endKind, dimKind := dependency.KindLeft, dependency.KindRight, dependency.KindHorizontalDimension
	if o == widget.Vertical {
		startKind, endKind, dimKind = dependency.KindTop, dependency.KindBottom, dependency.KindVerticalDimension
	}
	b.start = dependency.New(self, startKind)
	b.end = dependency.New(self, endKind)
	b.dim = dependency.New(self, dimKind)
	b.behaviour = w.Dimension[o]
	b.matchType = w.MatchDefault[o]
}

func (b *runBase) base() *runBase { return b }

// Widget returns the widget the run describes. For chains this is the first
// member.
func (b *runBase) Widget() *widget.Widget { return b.widget }

// Orientation returns the axis of the run.
func (b *runBase) Orientation() widget.Orientation { return b.orientation }

// Start returns the leading edge node.
func (b *runBase) Start() *dependency.Node { return b.start }

// End returns the trailing edge node.
func (b *runBase) End() *dependency.Node { return b.end }

// Dimension returns the size node.
func (b *runBase) Dimension() *dependency.Node { return b.dim }

// Group returns the run group assigned by the last graph build.
func (b *runBase) Group() *RunGroup { return b.group }

func (b *runBase) supportsWrapComputation() bool { return false }

func (b *runBase) applyToWidget() {}

func (b *runBase) wrapDimension() int {
	if b.dim.IsResolved() {
		return b.dim.Value()
	}
	return 0
}

// target maps an anchor's connection to the node it reads from.
func (b *runBase) target(a *widget.Anchor) *dependency.Node {
	if a == nil || a.Target == nil {
		return nil
	}
	t := a.Target
	switch t.Type {
	case widget.AnchorLeft, widget.AnchorCenterX:
		return b.graph.runFor(t.Owner, widget.Horizontal).start
	case widget.AnchorRight:
		return b.graph.runFor(t.Owner, widget.Horizontal).end
	case widget.AnchorTop, widget.AnchorCenterY:
		return b.graph.runFor(t.Owner, widget.Vertical).start
	case widget.AnchorBottom:
		return b.graph.runFor(t.Owner, widget.Vertical).end
	case widget.AnchorBaseline:
		return b.graph.runFor(t.Owner, widget.Vertical).baseline
	}
	return nil
}

func other(o widget.Orientation) widget.Orientation {
	if o == widget.Vertical {
		return widget.Horizontal
	}
	return widget.Vertical
}

// round rounds half up and truncates toward zero.
func round(x float64) int { return int(0.5 + x) }

// spreadGap is the SPREAD gap for free space shared by visible members:
// free/(visible+1) rounded half up. It is capped so the visible gaps never
// push the last member past the end; the remainder trails the last member.
func spreadGap(free, visible int) int {
	return min(round(float64(free)/float64(visible+1)), free/visible)
}

func parentFixed(p *widget.Container, o widget.Orientation) bool {
	if p == nil {
		return false
	}
	d := p.Dimension[o]
	return d == widget.Fixed || d == widget.MatchParent
}

// attachesToParent reports whether an unconnected widget is pinned to its
// parent's leading edge on the axis. Guidelines never are; barriers only on
// the axis they do not position.
func attachesToParent(w *widget.Widget, o widget.Orientation) bool {
	if w.IsGuideline() {
		return false
	}
	if b := w.Barrier(); b != nil {
		bo, ok := b.Orientation()
		return !ok || bo != o
	}
	return true
}
