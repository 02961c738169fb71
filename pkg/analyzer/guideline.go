package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/dependency"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// GuidelineReference positions a guideline from its parent's edges or a
// percentage of the parent's size.
type GuidelineReference struct {
	runBase

	guideline *widget.Guideline
}

func newGuidelineReference(g *DependencyGraph, gl *widget.Guideline) *GuidelineReference {
	r := &GuidelineReference{guideline: gl}
	r.init(g, gl.Widget, gl.Axis(), r)
	return r
}

func (r *GuidelineReference) clear() {
	r.group = nil
	r.start.Clear()
	r.end.Clear()
	r.dim.Clear()
	r.resolved = false
	r.graph.runFor(r.widget, r.orientation).clear()
}

func (r *GuidelineReference) apply() {
	gl, o := r.guideline, r.orientation
	parent := gl.Parent()
	if parent == nil {
		return
	}
	pr := r.graph.runFor(parent.Widget, o)
	switch {
	case gl.Begin != -1:
		dependency.Link(r.start, pr.start, gl.Begin)
	case gl.End != -1:
		dependency.Link(r.start, pr.end, -gl.End)
	case gl.Percent != -1:
		r.start.DelegateToRun = true
		r.start.Targets = append(r.start.Targets, pr.dim)
		pr.dim.Dependencies = append(pr.dim.Dependencies, r.start)
	}

	// Widgets reference the guideline through its widget run.
	wr := r.graph.runFor(r.widget, o)
	dependency.Link(wr.start, r.start, 0)
	dependency.Link(wr.end, r.start, 0)
	wr.dim.Resolve(0)
	r.dim.Resolve(0)
	dependency.Link(r.end, r.start, 0)
}

// Update resolves a percentage guideline once the parent size is known.
func (r *GuidelineReference) Update(dependency.Dependency) {
	if !r.start.ReadyToSolve || r.start.IsResolved() || len(r.start.Targets) == 0 {
		return
	}
	if t := r.start.Targets[0]; t.IsResolved() {
		r.start.Resolve(round(float64(t.Value()) * r.guideline.Percent))
	}
}

func (r *GuidelineReference) applyToWidget() {
	if !r.start.IsResolved() {
		return
	}
	if r.orientation == widget.Vertical {
		r.widget.SetY(r.start.Value())
	} else {
		r.widget.SetX(r.start.Value())
	}
}
