package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/dependency"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// HelperReferences positions a barrier at the extreme edge of its
// references.
type HelperReferences struct {
	runBase

	barrier *widget.Barrier
}

func newHelperReferences(g *DependencyGraph, b *widget.Barrier, o widget.Orientation) *HelperReferences {
	r := &HelperReferences{barrier: b}
	r.init(g, b.Widget, o, r)
	return r
}

func (r *HelperReferences) clear() {
	r.group = nil
	r.start.Clear()
	r.end.Clear()
	r.dim.Clear()
	r.resolved = false
	r.graph.runFor(r.widget, r.orientation).clear()
}

func (r *HelperReferences) apply() {
	b, o := r.barrier, r.orientation
	r.start.DelegateToRun = true
	for _, ref := range b.References {
		if !b.Counts(ref) {
			continue
		}
		rr := r.graph.runFor(ref, o)
		t := rr.end
		if b.IsMin() {
			t = rr.start
		}
		r.start.Targets = append(r.start.Targets, t)
		t.Dependencies = append(t.Dependencies, r.start)
	}

	wr := r.graph.runFor(r.widget, o)
	dependency.Link(wr.start, r.start, 0)
	dependency.Link(wr.end, r.start, 0)
	wr.dim.Resolve(0)
	r.dim.Resolve(0)
	dependency.Link(r.end, r.start, 0)
}

// Update resolves the barrier once every reference edge is known.
func (r *HelperReferences) Update(dependency.Dependency) {
	if r.start.IsResolved() || len(r.start.Targets) == 0 {
		return
	}
	v := r.start.Targets[0].Value()
	for _, t := range r.start.Targets {
		if !t.IsResolved() {
			return
		}
		if r.barrier.IsMin() {
			v = min(v, t.Value())
		} else {
			v = max(v, t.Value())
		}
	}
	r.start.Resolve(v + r.barrier.Margin)
}

func (r *HelperReferences) applyToWidget() {
	if !r.start.IsResolved() {
		return
	}
	if r.orientation == widget.Vertical {
		r.widget.SetY(r.start.Value())
	} else {
		r.widget.SetX(r.start.Value())
	}
}
