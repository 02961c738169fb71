package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/measure"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Direct resolves anchors by walking connections outward from already
// resolved anchors, recording final values on the anchors themselves.
//
// A Direct value is not safe for concurrent use; use one per layout call.
type Direct struct {
	measurer measure.Measurer
	measures int
}

// NewDirect returns a direct pass measuring through m. A nil measurer
// sizes widgets at their declared dimensions.
func NewDirect(m measure.Measurer) *Direct {
	return &Direct{measurer: m}
}

// Measures returns how many measure calls the pass issued.
func (d *Direct) Measures() int { return d.measures }

var orientations = []widget.Orientation{widget.Horizontal, widget.Vertical}

// SolvingPass resolves as much of c as anchor propagation allows and
// reports whether the container and every child ended up resolved. The
// caller resets final values beforehand; a second call without a reset
// changes nothing.
func (d *Direct) SolvingPass(c *widget.Container) bool {
	for _, o := range orientations {
		d.solveAxis(c, o)
	}
	// Widgets that could not be measured on the first axis may be
	// measurable now that the other axis is resolved.
	for range 2 {
		progress := false
		for _, o := range orientations {
			for _, w := range c.Children() {
				if w.IsHelper() || w.IsResolved(o) {
					continue
				}
				d.solveDependent(w, o)
				if w.IsResolved(o) {
					progress = true
				}
			}
			d.solveHelpers(c, o)
		}
		if !progress {
			break
		}
	}
	if d.measurer != nil {
		d.measurer.DidMeasures()
	}
	return c.IsResolved(widget.Horizontal) && c.IsResolved(widget.Vertical) && c.AllResolved()
}

func (d *Direct) solveAxis(c *widget.Container, o widget.Orientation) {
	switch c.Dimension[o] {
	case widget.Fixed, widget.MatchParent:
		c.SetFinal(o, 0, c.Length(o))
	default:
		c.Start(o).SetFinalValue(0)
	}

	for _, gl := range c.Guidelines() {
		if gl.Axis() != o {
			continue
		}
		if gl.Begin == -1 && !c.IsResolved(o) {
			continue
		}
		p := gl.Position(c.Length(o))
		gl.SetFinal(o, p, p)
		centerAnchor(gl.Widget, o).SetFinalValue(p)
		d.pass(gl.Widget, o)
	}

	d.pass(c.Widget, o)
	d.solveUnconnected(c, o)
	d.solveHelpers(c, o)
}

// solveHelpers alternates chains and barriers until neither makes
// progress, since each can unblock the other.
func (d *Direct) solveHelpers(c *widget.Container, o widget.Orientation) {
	for range len(c.Children()) + 1 {
		progress := false
		seen := map[*widget.Widget]bool{}
		for _, w := range c.Children() {
			if !w.InChain(o) || w.IsResolved(o) {
				continue
			}
			first := w.ChainFirst(o)
			if seen[first] {
				continue
			}
			seen[first] = true
			if d.solveChain(first, o) {
				progress = true
			}
		}
		for _, b := range c.Barriers() {
			bo, ok := b.Orientation()
			if !ok || bo != o || b.IsResolved(o) || !b.AllSolved() {
				continue
			}
			v, ok := b.Extreme()
			if !ok {
				continue
			}
			b.SetFinal(o, v, v)
			d.pass(b.Widget, o)
			progress = true
		}
		if !progress {
			return
		}
	}
}

// solveUnconnected places widgets with no connection on the axis at their
// declared offset, or across the container for MATCH_PARENT.
func (d *Direct) solveUnconnected(c *widget.Container, o widget.Orientation) {
	for _, w := range c.Children() {
		if w.IsHelper() || w.IsResolved(o) {
			continue
		}
		if w.Start(o).IsConnected() || w.End(o).IsConnected() {
			continue
		}
		if o == widget.Vertical && w.Anchor(widget.AnchorBaseline).IsConnected() {
			continue
		}
		if w.Dimension[o] == widget.MatchParent {
			if !c.IsResolved(o) {
				continue
			}
			w.SetFinal(o, w.Start(o).EffectiveMargin(), c.Length(o)-w.End(o).EffectiveMargin())
			d.pass(w, o)
			continue
		}
		if !d.ensureMeasured(w) {
			continue
		}
		offset := w.X()
		if o == widget.Vertical {
			offset = w.Y()
		}
		w.SetFinal(o, offset, offset+w.Length(o))
		d.pass(w, o)
	}
}

// pass visits the widgets depending on w's resolved edges. Marking w done
// on entry stops cyclic connections from recursing forever.
func (d *Direct) pass(w *widget.Widget, o widget.Orientation) {
	if w.IsSolvingPassDone(o) {
		return
	}
	w.MarkSolvingPassDone(o)

	for _, a := range []*widget.Anchor{w.Start(o), w.End(o), centerAnchor(w, o)} {
		if !a.HasFinalValue() {
			continue
		}
		for _, dep := range a.Dependents() {
			d.solveDependent(dep.Owner, o)
		}
	}
	if o != widget.Vertical {
		return
	}
	bl := w.Anchor(widget.AnchorBaseline)
	if !bl.HasFinalValue() {
		return
	}
	for _, dep := range bl.Dependents() {
		owner := dep.Owner
		if owner.IsResolved(o) || dep.Type != widget.AnchorBaseline || !d.ensureMeasured(owner) {
			continue
		}
		owner.SetFinalBaseline(bl.FinalValue() + dep.EffectiveMargin())
		if owner.IsResolved(o) {
			d.pass(owner, o)
		}
	}
}

// solveDependent tries to resolve w on the axis from its targets.
func (d *Direct) solveDependent(w *widget.Widget, o widget.Orientation) {
	if w.IsResolved(o) || w.IsHelper() || w.Parent() == nil {
		return
	}
	if w.InChain(o) {
		d.solveChain(w.ChainFirst(o), o)
		return
	}
	sa, ea := w.Start(o), w.End(o)
	startReady := sa.IsConnected() && sa.Target.HasFinalValue()
	endReady := ea.IsConnected() && ea.Target.HasFinalValue()

	switch {
	case sa.IsConnected() && ea.IsConnected():
		if !startReady || !endReady {
			return
		}
		if w.Visibility != widget.Gone && w.Dimension[o] == widget.MatchConstraint &&
			(w.MatchDefault[o] == widget.MatchSpread || w.MatchDefault[o] == widget.MatchPercent) {
			d.solveMatchConstraint(w, o)
		} else {
			d.solveCenter(w, o)
		}
	case sa.IsConnected():
		if !startReady || !d.ensureMeasured(w) {
			return
		}
		x1 := sa.Target.FinalValue() + sa.EffectiveMargin()
		w.SetFinal(o, x1, x1+w.Length(o))
	case ea.IsConnected():
		if !endReady || !d.ensureMeasured(w) {
			return
		}
		x2 := ea.Target.FinalValue() - ea.EffectiveMargin()
		w.SetFinal(o, x2-w.Length(o), x2)
	default:
		return
	}
	if w.IsResolved(o) {
		d.pass(w, o)
	}
}

// centerAnchor returns w's center anchor on the axis. Only guidelines
// record a final value on it.
func centerAnchor(w *widget.Widget, o widget.Orientation) *widget.Anchor {
	if o == widget.Vertical {
		return w.Anchor(widget.AnchorCenterY)
	}
	return w.Anchor(widget.AnchorCenterX)
}

// place centers size between s1 and s2 with bias.
func place(w *widget.Widget, o widget.Orientation, s1, s2, size int, bias float64) {
	distance := s2 - s1 - size
	var d1 int
	if distance > 0 {
		d1 = round(bias * float64(distance))
	} else {
		d1 = int(bias * float64(distance))
	}
	x1 := s1 + d1
	x2 := x1 + size
	if s1 > s2 {
		x1 = s1 - d1
		x2 = x1 - size
	}
	w.SetFinal(o, min(x1, x2), max(x1, x2))
}

func (d *Direct) centerBounds(w *widget.Widget, o widget.Orientation) (int, int, float64) {
	sa, ea := w.Start(o), w.End(o)
	bias := w.Bias[o]
	if sa.Target == ea.Target {
		bias = 0.5
	}
	s1 := sa.Target.FinalValue() + sa.EffectiveMargin()
	s2 := ea.Target.FinalValue() - ea.EffectiveMargin()
	return s1, s2, bias
}

func (d *Direct) solveCenter(w *widget.Widget, o widget.Orientation) {
	if !d.ensureMeasured(w) {
		return
	}
	s1, s2, bias := d.centerBounds(w, o)
	place(w, o, s1, s2, w.Length(o), bias)
}

// solveMatchConstraint sizes a spread or percent widget from the space
// between its targets, then centers it.
func (d *Direct) solveMatchConstraint(w *widget.Widget, o widget.Orientation) {
	s1, s2, bias := d.centerBounds(w, o)
	size := s2 - s1
	if w.MatchDefault[o] == widget.MatchPercent {
		p := w.Parent()
		if !p.IsResolved(o) {
			return
		}
		size = round(float64(p.Length(o)) * w.MatchPercent[o])
	}
	size = w.LimitedDimension(o, size)
	place(w, o, s1, s2, size, bias)
}

// solveChain lays out a chain whose ends are resolved and whose members
// all have a known size. It reports whether the chain was placed.
func (d *Direct) solveChain(first *widget.Widget, o widget.Orientation) bool {
	head := widget.NewChainHead(first, o)
	if head.FirstVisible == nil || head.First.IsResolved(o) {
		return false
	}
	sa, ea := head.First.Start(o), head.Last.End(o)
	if !sa.IsConnected() || !ea.IsConnected() || !sa.Target.HasFinalValue() || !ea.Target.HasFinalValue() {
		return false
	}
	if len(head.MatchConstraints) > 0 {
		return false
	}
	for _, m := range head.Members {
		if m.Visibility != widget.Gone && !d.ensureMeasured(m) {
			return false
		}
	}
	// Sizes may have changed while measuring.
	head = widget.NewChainHead(first, o)

	start := sa.Target.FinalValue() + head.FirstVisible.Start(o).EffectiveMargin()
	end := ea.Target.FinalValue() - head.LastVisible.End(o).EffectiveMargin()
	distance := end - start
	size := head.TotalSize
	visible := head.VisibleCount

	style := head.Style()
	if (style == widget.ChainSpreadInside && visible < 2) || visible == 1 {
		style = widget.ChainPacked
	}

	position := start
	lead, gap := 0, 0
	if size > distance {
		position -= round(float64(size-distance) / 2)
	} else {
		switch style {
		case widget.ChainSpread:
			gap = spreadGap(distance-size, visible)
			lead = gap
		case widget.ChainSpreadInside:
			gap = (distance - size) / (visible - 1)
		case widget.ChainPacked:
			lead = max(0, round(float64(distance-size)*head.Bias()))
		}
	}

	position += lead
	for _, m := range head.Members {
		if m.Visibility == widget.Gone {
			m.SetFinal(o, position, position)
			continue
		}
		if m != head.FirstVisible {
			position += m.Start(o).EffectiveMargin()
		}
		m.SetFinal(o, position, position+m.Length(o))
		position += m.Length(o)
		if m != head.LastVisible {
			position += m.End(o).EffectiveMargin() + gap
		}
	}
	for _, m := range head.Members {
		d.pass(m, o)
	}
	return true
}

// ====================================================================
// Measurement
// ====================================================================

func (d *Direct) ensureMeasured(w *widget.Widget) bool {
	if w.Visibility == widget.Gone || w.IsMeasured() || !w.MeasureRequested() {
		return true
	}
	if !canMeasure(w) {
		return false
	}
	d.measure(w)
	return true
}

// axisFixed reports whether w's size on the axis is known without the
// layout: fixed, wrapped, already resolved, or derivable from the parent.
func axisFixed(w *widget.Widget, o widget.Orientation) bool {
	b := w.Dimension[o]
	switch {
	case b == widget.Fixed || b == widget.WrapContent || w.IsResolved(o):
		return true
	case b == widget.MatchParent:
		p := w.Parent()
		return p != nil && p.Dimension[o] == widget.Fixed
	case b != widget.MatchConstraint:
		return false
	}
	switch w.MatchDefault[o] {
	case widget.MatchSpread:
		return w.Ratio == 0 && w.HasDanglingDimension(o)
	case widget.MatchWrap:
		return w.HasResolvedTargets(o, w.Length(o))
	}
	return false
}

func canMeasure(w *widget.Widget) bool {
	h, v := axisFixed(w, widget.Horizontal), axisFixed(w, widget.Vertical)
	if w.Ratio > 0 && (h || v) {
		return true
	}
	return h && v
}

func (d *Direct) measure(w *widget.Widget) {
	spec := measure.Spec{
		Horizontal: w.Dimension[widget.Horizontal],
		Vertical:   w.Dimension[widget.Vertical],
		Width:      w.DeclaredWidth(),
		Height:     w.DeclaredHeight(),
		Strategy:   measure.SelfDimensions,
	}
	set := func(o widget.Orientation, b widget.DimensionBehaviour, size int) {
		if o == widget.Vertical {
			spec.Vertical, spec.Height = b, size
		} else {
			spec.Horizontal, spec.Width = b, size
		}
	}
	ratioAxis := -1
	for _, o := range orientations {
		switch b := w.Dimension[o]; {
		case w.IsResolved(o):
			set(o, widget.Fixed, w.Length(o))
		case b == widget.MatchParent:
			set(o, widget.Fixed, w.Parent().Length(o)-w.Start(o).EffectiveMargin()-w.End(o).EffectiveMargin())
		case b == widget.MatchConstraint && w.Ratio > 0 && w.MatchDefault[o] != widget.MatchWrap && !axisFixed(w, o):
			ratioAxis = int(o)
		case b == widget.MatchConstraint:
			set(o, widget.WrapContent, w.Length(o))
		}
	}
	if ratioAxis >= 0 {
		o := widget.Orientation(ratioAxis)
		first := d.measureWith(w, spec)
		var size int
		if o == widget.Horizontal {
			size = round(float64(first.Height) * w.Ratio)
		} else {
			size = round(float64(first.Width) / w.Ratio)
		}
		set(o, widget.Fixed, w.LimitedDimension(o, size))
		set(other(o), widget.Fixed, first.Length(other(o)))
		spec.Strategy = measure.UseGivenDimensions
	}
	res := d.measureWith(w, spec)
	w.SetWidth(res.Width)
	w.SetHeight(res.Height)
	if res.HasBaseline {
		w.HasBaseline = true
		w.BaselineDistance = res.Baseline
	}
	w.SetMeasured(true)
	w.SetMeasureRequested(false)
}

func (d *Direct) measureWith(w *widget.Widget, spec measure.Spec) measure.Result {
	d.measures++
	if d.measurer == nil {
		return measure.Result{Width: spec.Width, Height: spec.Height}
	}
	return d.measurer.Measure(w, spec)
}
