package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/measure"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

type runPair struct {
	h *HorizontalRun
	v *VerticalRun
}

// DependencyGraph owns the runs of one container and drives value
// propagation through them.
type DependencyGraph struct {
	container *widget.Container
	measurer  measure.Measurer

	widgetRuns map[*widget.Widget]*runPair
	runs       []Run
	groups     []*RunGroup
	built      bool
	measures   int
}

// NewDependencyGraph returns a graph for c. The runs are built lazily by
// [DependencyGraph.BuildGraph] or [DependencyGraph.DirectMeasure].
func NewDependencyGraph(c *widget.Container, m measure.Measurer) *DependencyGraph {
	return &DependencyGraph{
		container:  c,
		measurer:   m,
		widgetRuns: map[*widget.Widget]*runPair{},
	}
}

// HorizontalRun returns the horizontal run of w.
func (g *DependencyGraph) HorizontalRun(w *widget.Widget) *HorizontalRun {
	return g.pair(w).h
}

// VerticalRun returns the vertical run of w.
func (g *DependencyGraph) VerticalRun(w *widget.Widget) *VerticalRun {
	return g.pair(w).v
}

func (g *DependencyGraph) pair(w *widget.Widget) *runPair {
	p, ok := g.widgetRuns[w]
	if !ok {
		p = &runPair{h: newHorizontalRun(g, w), v: newVerticalRun(g, w)}
		g.widgetRuns[w] = p
	}
	return p
}

// runFor returns the widget run of w on an axis. Widgets outside the
// container get runs too; they never resolve.
func (g *DependencyGraph) runFor(w *widget.Widget, o widget.Orientation) *widgetRun {
	p := g.pair(w)
	if o == widget.Vertical {
		return &p.v.widgetRun
	}
	return &p.h.widgetRun
}

// Runs returns the runs of the last build in wiring order: the container
// first, then one entry per widget axis, chain, guideline and barrier.
func (g *DependencyGraph) Runs() []Run { return g.runs }

// Groups returns the run groups found by the last build.
func (g *DependencyGraph) Groups() []*RunGroup { return g.groups }

// Measures returns how many measure calls the graph issued.
func (g *DependencyGraph) Measures() int { return g.measures }

func (g *DependencyGraph) buildRuns() {
	g.runs = g.runs[:0]
	c := g.container
	g.runs = append(g.runs, g.HorizontalRun(c.Widget), g.VerticalRun(c.Widget))

	chains := [2]map[*widget.Widget]bool{{}, {}}
	for _, w := range c.Children() {
		switch {
		case w.IsGuideline():
			gl := w.Guideline()
			g.pair(w)
			g.runs = append(g.runs, newGuidelineReference(g, gl))
			continue
		case w.IsBarrier():
			b := w.Barrier()
			bo, ok := b.Orientation()
			if ok {
				g.runs = append(g.runs, newHelperReferences(g, b, bo))
			}
			for _, o := range []widget.Orientation{widget.Horizontal, widget.Vertical} {
				if !ok || o != bo {
					g.runs = append(g.runs, g.axisRun(w, o))
				}
			}
			continue
		}
		for _, o := range []widget.Orientation{widget.Horizontal, widget.Vertical} {
			if !w.InChain(o) {
				g.runs = append(g.runs, g.axisRun(w, o))
				continue
			}
			first := w.ChainFirst(o)
			if chains[o][first] {
				continue
			}
			chains[o][first] = true
			g.runs = append(g.runs, newChainRun(g, first, o))
		}
	}
	g.built = true
}

func (g *DependencyGraph) axisRun(w *widget.Widget, o widget.Orientation) Run {
	if o == widget.Vertical {
		return g.VerticalRun(w)
	}
	return g.HorizontalRun(w)
}

// BuildGraph clears and rewires every run, then groups them for wrap
// computation.
func (g *DependencyGraph) BuildGraph() {
	if !g.built {
		g.buildRuns()
	}
	for _, r := range g.runs {
		r.clear()
	}
	for _, r := range g.runs {
		r.apply()
	}
	g.findGroups()
}

// DirectMeasure measures the widgets, wires the graph, seeds the container
// edges and lets values propagate. With optimizeWrap a WRAP_CONTENT
// container is sized from its content when every run supports it. It
// reports whether every widget resolved.
func (g *DependencyGraph) DirectMeasure(optimizeWrap bool) bool {
	if !g.built {
		g.buildRuns()
	}
	c := g.container
	for _, w := range c.Children() {
		w.SetMeasured(false)
	}
	for _, r := range g.runs {
		r.clear()
	}
	g.basicMeasure()
	for _, r := range g.runs {
		r.apply()
	}
	g.findGroups()

	if optimizeWrap {
		for _, r := range g.runs[2:] {
			if !r.supportsWrapComputation() {
				optimizeWrap = false
				break
			}
		}
	}

	for _, o := range []widget.Orientation{widget.Horizontal, widget.Vertical} {
		cr := g.runFor(c.Widget, o)
		cr.start.Resolve(0)
		switch c.Dimension[o] {
		case widget.Fixed, widget.MatchParent:
			cr.dim.Resolve(c.Length(o))
			cr.end.Resolve(c.Length(o))
		case widget.WrapContent:
			if optimizeWrap {
				size := c.LimitedDimension(o, g.computeWrap(o))
				c.SetLength(o, size)
				cr.dim.Resolve(size)
				cr.end.Resolve(size)
			}
		}
	}

	for range len(c.Children()) + 1 {
		if !g.measureWidgets() {
			break
		}
	}
	if g.measurer != nil {
		g.measurer.DidMeasures()
	}

	for _, r := range g.runs {
		r.applyToWidget()
	}
	return len(g.Unresolved()) == 0
}

func (g *DependencyGraph) computeWrap(o widget.Orientation) int {
	size := 0
	for _, grp := range g.groups {
		size = max(size, grp.ComputeWrapSize(g.container, o))
	}
	return size
}

// IsResolved reports whether the graph resolved w on an axis.
func (g *DependencyGraph) IsResolved(w *widget.Widget, o widget.Orientation) bool {
	p, ok := g.widgetRuns[w]
	if !ok {
		return false
	}
	if o == widget.Vertical {
		return p.v.isResolved()
	}
	return p.h.isResolved()
}

// Unresolved returns the IDs of widgets the graph left unresolved, the
// container included. Guidelines and barriers only count on the axis they
// position.
func (g *DependencyGraph) Unresolved() []string {
	var ids []string
	c := g.container
	for _, o := range []widget.Orientation{widget.Horizontal, widget.Vertical} {
		if !g.IsResolved(c.Widget, o) {
			ids = append(ids, c.ID)
			break
		}
	}
	for _, w := range c.Children() {
		for _, o := range w.ResolutionAxes() {
			if !g.IsResolved(w, o) {
				ids = append(ids, w.ID)
				break
			}
		}
	}
	return ids
}

// ====================================================================
// Measurement
// ====================================================================

func (g *DependencyGraph) measure(w *widget.Widget, spec measure.Spec) measure.Result {
	g.measures++
	if g.measurer == nil {
		return measure.Result{Width: spec.Width, Height: spec.Height}
	}
	return g.measurer.Measure(w, spec)
}

func (g *DependencyGraph) applyBaseline(w *widget.Widget, res measure.Result) {
	if res.HasBaseline {
		w.HasBaseline = true
		w.BaselineDistance = res.Baseline
	}
}

// basicMeasure measures every widget whose size does not depend on the
// layout and records wrap sizes for the others. It picks the behaviour
// each run works with for this pass.
func (g *DependencyGraph) basicMeasure() {
	c := g.container
	for _, w := range c.Children() {
		h, v := g.runFor(w, widget.Horizontal), g.runFor(w, widget.Vertical)
		for _, r := range []*widgetRun{h, v} {
			r.behaviour = w.Dimension[r.orientation]
			r.matchType = w.MatchDefault[r.orientation]
		}
		if w.IsHelper() || w.Visibility == widget.Gone {
			h.behaviour, v.behaviour = widget.Fixed, widget.Fixed
			w.SetMeasured(true)
			w.SetMeasureRequested(false)
			continue
		}

		for _, r := range []*widgetRun{h, v} {
			o := r.orientation
			switch r.behaviour {
			case widget.MatchParent:
				if !parentFixed(c, o) {
					r.behaviour = widget.WrapContent
				}
			case widget.MatchConstraint:
				switch {
				case r.matchType == widget.MatchSpread && w.HasDanglingDimension(o) && !w.InChain(o):
					r.behaviour = widget.WrapContent
				case r.matchType == widget.MatchPercent && !parentFixed(c, o):
					r.behaviour = widget.WrapContent
				}
			}
		}

		spec := measure.Spec{
			Horizontal: h.behaviour,
			Vertical:   v.behaviour,
			Width:      w.DeclaredWidth(),
			Height:     w.DeclaredHeight(),
			Strategy:   measure.SelfDimensions,
		}
		for _, r := range []*widgetRun{h, v} {
			if r.behaviour == widget.MatchParent {
				size := c.Length(r.orientation) - w.Start(r.orientation).EffectiveMargin() - w.End(r.orientation).EffectiveMargin()
				if r.orientation == widget.Vertical {
					spec.Vertical, spec.Height = widget.Fixed, size
				} else {
					spec.Horizontal, spec.Width = widget.Fixed, size
				}
			}
		}

		hmc, vmc := h.behaviour == widget.MatchConstraint, v.behaviour == widget.MatchConstraint
		if !hmc && !vmc {
			res := g.measure(w, spec)
			w.SetWidth(res.Width)
			w.SetHeight(res.Height)
			g.applyBaseline(w, res)
			h.dim.WrapValue, v.dim.WrapValue = res.Width, res.Height
			for _, r := range []*widgetRun{h, v} {
				if r.behaviour == widget.WrapContent {
					r.behaviour = widget.Fixed
				}
			}
			w.SetMeasured(true)
			w.SetMeasureRequested(false)
			continue
		}

		// At least one axis is sized by the layout. Measure the content
		// with those axes wrapped to learn the wrap sizes.
		if hmc {
			spec.Horizontal = widget.WrapContent
		}
		if vmc {
			spec.Vertical = widget.WrapContent
		}
		res := g.measure(w, spec)
		g.applyBaseline(w, res)
		h.dim.WrapValue, v.dim.WrapValue = res.Width, res.Height
		for _, r := range []*widgetRun{h, v} {
			if r.behaviour != widget.WrapContent {
				continue
			}
			// A wrapped axis next to a ratio axis is final; next to any
			// other match constraint it waits for the constrained axis.
			or := g.runFor(w, other(r.orientation))
			if or.matchType == widget.MatchRatio {
				w.SetLength(r.orientation, r.dim.WrapValue)
				r.behaviour = widget.Fixed
			}
		}
	}
}

// measureWidgets measures widgets whose wrapped axis was waiting on the
// other axis. It reports whether any measurement was made.
func (g *DependencyGraph) measureWidgets() bool {
	progress := false
	for _, w := range g.container.Children() {
		if w.IsMeasured() || w.IsHelper() || w.Visibility == widget.Gone {
			continue
		}
		h, v := g.runFor(w, widget.Horizontal), g.runFor(w, widget.Vertical)
		switch {
		case h.dim.IsResolved() && v.dim.IsResolved():
			res := g.measure(w, measure.Spec{
				Horizontal: widget.Fixed, Vertical: widget.Fixed,
				Width: h.dim.Value(), Height: v.dim.Value(),
				Strategy: measure.UseGivenDimensions,
			})
			g.applyBaseline(w, res)
			w.SetMeasured(true)
			w.SetMeasureRequested(false)
			progress = true
		case h.dim.IsResolved() && v.behaviour == widget.WrapContent:
			res := g.measure(w, measure.Spec{
				Horizontal: widget.Fixed, Vertical: widget.WrapContent,
				Width: h.dim.Value(), Height: w.DeclaredHeight(),
				Strategy: measure.TryGivenDimensions,
			})
			g.applyBaseline(w, res)
			v.dim.Resolve(w.LimitedDimension(widget.Vertical, res.Height))
			progress = true
		case v.dim.IsResolved() && h.behaviour == widget.WrapContent:
			res := g.measure(w, measure.Spec{
				Horizontal: widget.WrapContent, Vertical: widget.Fixed,
				Width: w.DeclaredWidth(), Height: v.dim.Value(),
				Strategy: measure.TryGivenDimensions,
			})
			h.dim.Resolve(w.LimitedDimension(widget.Horizontal, res.Width))
			progress = true
		}
	}
	return progress
}
