package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/dependency"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// widgetRun holds the logic shared by horizontal and vertical runs. The
// baseline nodes are only wired on the vertical axis.
type widgetRun struct {
	runBase

	baseline *dependency.Node
}

// HorizontalRun resolves a widget's x and width.
type HorizontalRun struct {
	widgetRun
}

// VerticalRun resolves a widget's y, height and baseline.
type VerticalRun struct {
	widgetRun
}

// Baseline returns the baseline node.
func (r *VerticalRun) Baseline() *dependency.Node { return r.baseline }

func newHorizontalRun(g *DependencyGraph, w *widget.Widget) *HorizontalRun {
	r := &HorizontalRun{}
	r.init(g, w, widget.Horizontal, r)
	return r
}

func newVerticalRun(g *DependencyGraph, w *widget.Widget) *VerticalRun {
	r := &VerticalRun{}
	r.init(g, w, widget.Vertical, r)
	r.baseline = dependency.New(r, dependency.KindBaseline)
	return r
}

func (r *widgetRun) vertical() bool { return r.orientation == widget.Vertical }

func (r *widgetRun) clear() {
	r.group = nil
	r.start.Clear()
	r.end.Clear()
	r.dim.Clear()
	if r.baseline != nil {
		r.baseline.Clear()
	}
	r.kind = runNone
	r.resolved = false
}

func (r *widgetRun) supportsWrapComputation() bool {
	if r.behaviour == widget.MatchConstraint {
		return r.matchType == widget.MatchSpread
	}
	return true
}

// linkBaseline wires the baseline at its measured distance below start.
func (r *widgetRun) linkBaseline() {
	if !r.vertical() || !r.widget.HasBaseline {
		return
	}
	dependency.Link(r.baseline, r.start, r.widget.BaselineDistance)
}

func (r *widgetRun) apply() {
	w, o := r.widget, r.orientation
	parent := w.Parent()
	if parent == nil {
		// The container is seeded by DirectMeasure once every run is wired.
		return
	}
	sa, ea := w.Start(o), w.End(o)

	if w.IsMeasured() {
		r.dim.Resolve(w.Length(o))
	}

	if r.behaviour == widget.MatchParent && parentFixed(parent, o) {
		pr := r.graph.runFor(parent.Widget, o)
		dependency.Link(r.start, pr.start, sa.EffectiveMargin())
		dependency.Link(r.end, pr.end, -ea.EffectiveMargin())
		r.dim.Resolve(parent.Length(o) - sa.EffectiveMargin() - ea.EffectiveMargin())
		r.linkBaseline()
		return
	}
	if !r.dim.IsResolved() && r.behaviour == widget.Fixed {
		r.dim.Resolve(w.Length(o))
	}

	if r.dim.IsResolved() && w.IsMeasured() {
		r.applyMeasured()
		return
	}

	if !r.dim.IsResolved() && r.behaviour == widget.MatchConstraint {
		switch r.matchType {
		case widget.MatchRatio:
			or := r.graph.runFor(w, other(o))
			if !(or.behaviour == widget.MatchConstraint && or.matchType == widget.MatchRatio) {
				r.dim.Targets = append(r.dim.Targets, or.dim)
				r.dim.DelegateToRun = true
				r.dim.Dependencies = append(r.dim.Dependencies, r.start, r.end)
				or.dim.AddDependency(r.dim)
			}
		case widget.MatchPercent:
			pd := r.graph.runFor(parent.Widget, o).dim
			r.dim.Targets = append(r.dim.Targets, pd)
			r.dim.DelegateToRun = true
			r.dim.Dependencies = append(r.dim.Dependencies, r.start, r.end)
			pd.AddDependency(r.dim)
		}
	}
	if !r.dim.DelegateToRun {
		r.dim.Dependencies = append(r.dim.Dependencies, r.self)
	}

	if w.InChain(o) {
		r.applyChainMember()
		return
	}

	switch {
	case sa.IsConnected() && ea.IsConnected():
		if t := r.target(sa); t != nil {
			t.AddDependency(r.self)
		}
		if t := r.target(ea); t != nil {
			t.AddDependency(r.self)
		}
		r.start.Margin = sa.EffectiveMargin()
		r.end.Margin = -ea.EffectiveMargin()
		r.kind = runCenter
		r.linkBaseline()
	case sa.IsConnected():
		if t := r.target(sa); t != nil {
			dependency.Link(r.start, t, sa.EffectiveMargin())
			dependency.LinkScaled(r.end, r.start, 1, r.dim, r.dim)
			r.linkBaseline()
		}
	case ea.IsConnected():
		if t := r.target(ea); t != nil {
			dependency.Link(r.end, t, -ea.EffectiveMargin())
			dependency.LinkScaled(r.start, r.end, -1, r.dim, r.dim)
			r.linkBaseline()
		}
	case r.vertical() && w.Anchor(widget.AnchorBaseline).IsConnected():
		if t := r.target(w.Anchor(widget.AnchorBaseline)); t != nil {
			dependency.Link(r.baseline, t, 0)
			dependency.Link(r.start, r.baseline, -w.BaselineDistance)
			dependency.LinkScaled(r.end, r.start, 1, r.dim, r.dim)
		}
	default:
		if attachesToParent(w, o) {
			dependency.Link(r.start, r.graph.runFor(parent.Widget, o).start, r.declaredOffset())
			dependency.LinkScaled(r.end, r.start, 1, r.dim, r.dim)
			r.linkBaseline()
		}
	}
	if len(r.dim.Targets) == 0 {
		r.dim.ReadyToSolve = true
	}
}

// applyMeasured wires a widget whose size is already known.
func (r *widgetRun) applyMeasured() {
	w, o := r.widget, r.orientation
	sa, ea := w.Start(o), w.End(o)
	size := r.dim.Value()

	if w.InChain(o) {
		r.applyChainMember()
		return
	}

	switch {
	case sa.IsConnected() && ea.IsConnected():
		if t := r.target(sa); t != nil {
			dependency.Link(r.start, t, sa.EffectiveMargin())
		}
		if t := r.target(ea); t != nil {
			dependency.Link(r.end, t, -ea.EffectiveMargin())
		}
		r.start.DelegateToRun = true
		r.end.DelegateToRun = true
		r.linkBaseline()
	case sa.IsConnected():
		if t := r.target(sa); t != nil {
			dependency.Link(r.start, t, sa.EffectiveMargin())
			dependency.Link(r.end, r.start, size)
			r.linkBaseline()
		}
	case ea.IsConnected():
		if t := r.target(ea); t != nil {
			dependency.Link(r.end, t, -ea.EffectiveMargin())
			dependency.Link(r.start, r.end, -size)
		}
		r.linkBaseline()
	case r.vertical() && w.Anchor(widget.AnchorBaseline).IsConnected():
		if t := r.target(w.Anchor(widget.AnchorBaseline)); t != nil {
			dependency.Link(r.baseline, t, 0)
			dependency.Link(r.start, r.baseline, -w.BaselineDistance)
			dependency.Link(r.end, r.start, size)
		}
	default:
		if attachesToParent(w, o) {
			dependency.Link(r.start, r.graph.runFor(w.Parent().Widget, o).start, r.declaredOffset())
			dependency.Link(r.end, r.start, size)
			r.linkBaseline()
		}
	}
}

// applyChainMember records the member's margins. The owning chain resolves
// its edges.
func (r *widgetRun) applyChainMember() {
	w, o := r.widget, r.orientation
	r.start.Margin = w.Start(o).EffectiveMargin()
	r.end.Margin = -w.End(o).EffectiveMargin()
	r.linkBaseline()
	if len(r.dim.Targets) == 0 {
		r.dim.ReadyToSolve = true
	}
}

func (r *widgetRun) declaredOffset() int {
	if r.vertical() {
		return r.widget.Y()
	}
	return r.widget.X()
}

// Update reacts to a target or the run's own dimension resolving.
func (r *widgetRun) Update(dependency.Dependency) {
	if r.kind == runCenter {
		r.updateCenter()
		return
	}
	w, o := r.widget, r.orientation
	if !r.dim.IsResolved() && r.behaviour == widget.MatchConstraint {
		switch r.matchType {
		case widget.MatchRatio:
			or := r.graph.runFor(w, other(o))
			if or.dim.IsResolved() && !(or.behaviour == widget.MatchConstraint && or.matchType == widget.MatchRatio) {
				r.dim.Resolve(r.ratioFrom(or.dim.Value()))
			}
		case widget.MatchPercent:
			if p := w.Parent(); p != nil {
				if pd := r.graph.runFor(p.Widget, o).dim; pd.IsResolved() {
					r.dim.Resolve(w.LimitedDimension(o, round(float64(pd.Value())*w.MatchPercent[o])))
				}
			}
		}
	}

	if !(r.start.ReadyToSolve && r.end.ReadyToSolve) {
		return
	}
	if r.start.IsResolved() && r.end.IsResolved() && r.dim.IsResolved() {
		return
	}
	if len(r.start.Targets) == 0 || len(r.end.Targets) == 0 {
		return
	}
	st, et := r.start.Targets[0], r.end.Targets[0]
	startPos := st.Value() + r.start.Margin
	endPos := et.Value() + r.end.Margin

	if !r.dim.IsResolved() && r.behaviour == widget.MatchConstraint {
		switch r.matchType {
		case widget.MatchSpread:
			if !w.InChain(o) {
				r.start.Resolve(startPos)
				r.end.Resolve(endPos)
				r.dim.Resolve(endPos - startPos)
				return
			}
		case widget.MatchWrap:
			r.dim.Resolve(w.LimitedDimension(o, min(endPos-startPos, r.dim.WrapValue)))
		}
	}
	if !r.dim.IsResolved() {
		return
	}
	r.center(st, et, startPos, endPos)
}

// updateCenter handles runs whose two anchors are both connected: the run
// listens to both targets directly and centers itself between them.
func (r *widgetRun) updateCenter() {
	w, o := r.widget, r.orientation
	sa, ea := w.Start(o), w.End(o)
	st, et := r.target(sa), r.target(ea)
	if st == nil || et == nil || !st.IsResolved() || !et.IsResolved() {
		return
	}
	startPos := st.Value() + sa.EffectiveMargin()
	endPos := et.Value() - ea.EffectiveMargin()
	distance := endPos - startPos

	if !r.dim.IsResolved() && r.behaviour == widget.MatchConstraint {
		r.resolveDimension(distance)
	}
	if !r.dim.IsResolved() {
		return
	}
	if r.dim.Value() == distance {
		r.start.Resolve(startPos)
		r.end.Resolve(endPos)
		return
	}
	r.center(st, et, startPos, endPos)
}

// center positions a resolved dimension between startPos and endPos using
// the widget's bias. Targeting a single node on both sides forces 0.5.
func (r *widgetRun) center(st, et *dependency.Node, startPos, endPos int) {
	bias := r.widget.Bias[r.orientation]
	if st == et {
		startPos, endPos = st.Value(), et.Value()
		bias = 0.5
	}
	dim := r.dim.Value()
	distance := endPos - startPos - dim
	r.start.Resolve(round(float64(startPos) + float64(distance)*bias))
	r.end.Resolve(r.start.Value() + dim)
}

func (r *widgetRun) resolveDimension(distance int) {
	w, o := r.widget, r.orientation
	switch r.matchType {
	case widget.MatchSpread:
		r.dim.Resolve(w.LimitedDimension(o, distance))
	case widget.MatchPercent:
		if p := w.Parent(); p != nil {
			if pd := r.graph.runFor(p.Widget, o).dim; pd.IsResolved() {
				r.dim.Resolve(w.LimitedDimension(o, round(float64(pd.Value())*w.MatchPercent[o])))
			}
		}
	case widget.MatchWrap:
		r.dim.Resolve(min(w.LimitedDimension(o, r.dim.WrapValue), distance))
	case widget.MatchRatio:
		or := r.graph.runFor(w, other(o))
		if or.behaviour == widget.MatchConstraint && or.matchType == widget.MatchRatio {
			r.resolveInsetRatio(distance, or)
		} else if or.dim.IsResolved() {
			r.dim.Resolve(r.ratioFrom(or.dim.Value()))
		}
	}
}

// ratioFrom derives this axis from the other axis' size. Ratio is
// width/height.
func (r *widgetRun) ratioFrom(otherSize int) int {
	w := r.widget
	if w.Ratio <= 0 {
		return otherSize
	}
	var v int
	if r.orientation == widget.Horizontal {
		v = round(float64(otherSize) * w.Ratio)
	} else {
		v = round(float64(otherSize) / w.Ratio)
	}
	return w.LimitedDimension(r.orientation, v)
}

// resolveInsetRatio sizes a widget that is ratio constrained on both axes
// once both axes know their available space.
func (r *widgetRun) resolveInsetRatio(distance int, or *widgetRun) {
	w := r.widget
	oo := or.orientation
	osa, oea := w.Start(oo), w.End(oo)
	ost, oet := or.target(osa), or.target(oea)
	if ost == nil || oet == nil || !ost.IsResolved() || !oet.IsResolved() {
		return
	}
	otherDistance := oet.Value() - oea.EffectiveMargin() - (ost.Value() + osa.EffectiveMargin())
	dx, dy := distance, otherDistance
	if r.orientation == widget.Vertical {
		dx, dy = otherDistance, distance
	}
	width, height, ok := insetRatio(dx, dy, w.Ratio, w.RatioSide)
	if !ok {
		return
	}
	if r.orientation == widget.Horizontal {
		r.dim.Resolve(width)
		or.dim.Resolve(height)
	} else {
		r.dim.Resolve(height)
		or.dim.Resolve(width)
	}
}

// insetRatio fits a width/height ratio inside dx by dy. RatioWidth derives
// the width from dy, RatioHeight the height from dx, and RatioUnknown picks
// whichever candidate fits.
func insetRatio(dx, dy int, ratio float64, side widget.RatioSide) (int, int, bool) {
	if ratio <= 0 {
		return 0, 0, false
	}
	switch side {
	case widget.RatioWidth:
		return round(float64(dy) * ratio), dy, true
	case widget.RatioHeight:
		return dx, round(float64(dx) / ratio), true
	}
	if w := round(float64(dy) * ratio); w <= dx {
		return w, dy, true
	}
	if h := round(float64(dx) / ratio); h <= dy {
		return dx, h, true
	}
	return 0, 0, false
}

func (r *widgetRun) applyToWidget() {
	w := r.widget
	if r.start.IsResolved() {
		if r.vertical() {
			w.SetY(r.start.Value())
		} else {
			w.SetX(r.start.Value())
		}
	}
	if r.dim.IsResolved() && w.Visibility != widget.Gone {
		w.SetLength(r.orientation, r.dim.Value())
	}
}

func (r *widgetRun) isResolved() bool {
	return r.start.IsResolved() && r.end.IsResolved() && r.dim.IsResolved()
}
