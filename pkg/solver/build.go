package solver

import (
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Resolved reports whether a widget axis is already resolved and must be
// pinned rather than solved.
type Resolved func(w *widget.Widget, o widget.Orientation) bool

var orientations = []widget.Orientation{widget.Horizontal, widget.Vertical}

// Build emits the constraints of c into sys and returns how many widget
// axes were left to the solver. Resolved axes are pinned at their current
// frame with [StrengthFixed]; only unresolved axes get their connection,
// dimension and chain constraints.
func Build(sys LinearSystem, c *widget.Container, resolved Resolved) int {
	b := builder{sys: sys, c: c}
	n := 0
	for _, o := range orientations {
		cs, ce := b.start(c.Widget, o), b.end(c.Widget, o)
		sys.AddEquality(cs, nil, 0, StrengthFixed)
		if resolved(c.Widget, o) {
			sys.AddEquality(ce, cs, c.Length(o), StrengthFixed)
		} else {
			n++
		}
		for _, w := range c.Children() {
			if !axisApplies(w, o) {
				continue
			}
			if resolved(w, o) {
				b.pin(w, o)
				continue
			}
			n++
			b.emit(w, o)
		}
	}
	return n
}

// Apply copies the solved frames of unresolved axes back onto the widgets.
func Apply(sys LinearSystem, c *widget.Container, resolved Resolved) {
	for _, o := range orientations {
		if !resolved(c.Widget, o) {
			size := sys.ObjectVariableValue(c.End(o)) - sys.ObjectVariableValue(c.Start(o))
			c.SetLength(o, max(0, size))
		}
		for _, w := range c.Children() {
			if !axisApplies(w, o) || resolved(w, o) {
				continue
			}
			x := sys.ObjectVariableValue(w.Start(o))
			size := sys.ObjectVariableValue(w.End(o)) - x
			if o == widget.Vertical {
				w.SetY(x)
			} else {
				w.SetX(x)
			}
			if w.Visibility != widget.Gone && !w.IsHelper() {
				w.SetLength(o, max(0, size))
			}
		}
	}
}

func axisApplies(w *widget.Widget, o widget.Orientation) bool {
	for _, a := range w.ResolutionAxes() {
		if a == o {
			return true
		}
	}
	return false
}

type builder struct {
	sys LinearSystem
	c   *widget.Container
}

func (b builder) start(w *widget.Widget, o widget.Orientation) *Variable {
	return b.sys.CreateObjectVariable(w.Start(o))
}

func (b builder) end(w *widget.Widget, o widget.Orientation) *Variable {
	return b.sys.CreateObjectVariable(w.End(o))
}

func (b builder) target(a *widget.Anchor) *Variable {
	return b.sys.CreateObjectVariable(a.Target)
}

func (b builder) pin(w *widget.Widget, o widget.Orientation) {
	pos := w.X()
	if o == widget.Vertical {
		pos = w.Y()
	}
	s, e := b.start(w, o), b.end(w, o)
	b.sys.AddEquality(s, nil, pos, StrengthFixed)
	b.sys.AddEquality(e, s, w.Length(o), StrengthFixed)
	if o == widget.Vertical && w.HasBaseline {
		b.sys.AddEquality(b.sys.CreateObjectVariable(w.Anchor(widget.AnchorBaseline)), s, w.BaselineDistance, StrengthFixed)
	}
}

func (b builder) emit(w *widget.Widget, o widget.Orientation) {
	sys := b.sys
	s, e := b.start(w, o), b.end(w, o)
	cs, ce := b.start(b.c.Widget, o), b.end(b.c.Widget, o)

	if gl := w.Guideline(); gl != nil {
		switch {
		case gl.Begin != -1:
			sys.AddEquality(s, cs, gl.Begin, StrengthFixed)
		case gl.End != -1:
			sys.AddEquality(s, ce, -gl.End, StrengthFixed)
		default:
			sys.AddEquality(s, cs, gl.Position(b.c.Length(o)), StrengthFixed)
		}
		sys.AddEquality(e, s, 0, StrengthFixed)
		return
	}
	if br := w.Barrier(); br != nil {
		for _, ref := range br.References {
			if !br.Counts(ref) {
				continue
			}
			rv := sys.CreateObjectVariable(br.ReferenceAnchor(ref))
			if br.IsMin() {
				sys.AddLowerThan(s, rv, br.Margin, StrengthBarrier)
			} else {
				sys.AddGreaterThan(s, rv, br.Margin, StrengthBarrier)
			}
		}
		sys.AddEquality(e, s, 0, StrengthFixed)
		return
	}

	sa, ea := w.Start(o), w.End(o)
	spread := w.Dimension[o] == widget.MatchConstraint && w.MatchDefault[o] == widget.MatchSpread
	switch {
	case w.Visibility == widget.Gone:
		sys.AddEquality(e, s, 0, StrengthFixed)
	case w.Dimension[o] == widget.MatchParent:
		sys.AddEquality(s, cs, sa.EffectiveMargin(), StrengthEquality)
		sys.AddEquality(e, ce, -ea.EffectiveMargin(), StrengthEquality)
		return
	case w.Dimension[o] == widget.MatchConstraint:
		if !spread {
			sys.AddEquality(e, s, w.Length(o), StrengthHighest)
		}
	default:
		sys.AddEquality(e, s, w.Length(o), StrengthFixed)
	}

	if o == widget.Vertical && w.HasBaseline {
		bl := w.Anchor(widget.AnchorBaseline)
		bv := sys.CreateObjectVariable(bl)
		sys.AddEquality(bv, s, w.BaselineDistance, StrengthFixed)
		if bl.IsConnected() && !sa.IsConnected() && !ea.IsConnected() {
			sys.AddEquality(bv, b.target(bl), bl.EffectiveMargin(), StrengthFixed)
			return
		}
	}

	if w.InChain(o) {
		// Members link to their neighbours; the chain ends hold against
		// their targets.
		if prev := w.PreviousInChain(o); prev != nil {
			sys.AddEquality(s, b.end(prev, o), sa.EffectiveMargin()+prev.End(o).EffectiveMargin(), StrengthEquality)
		} else if sa.IsConnected() {
			sys.AddGreaterThan(s, b.target(sa), sa.EffectiveMargin(), StrengthEquality)
		}
		if w.NextInChain(o) == nil && ea.IsConnected() {
			sys.AddLowerThan(e, b.target(ea), -ea.EffectiveMargin(), StrengthEquality)
		}
		return
	}

	switch {
	case sa.IsConnected() && ea.IsConnected():
		st, et := b.target(sa), b.target(ea)
		if spread {
			sys.AddEquality(s, st, sa.EffectiveMargin(), StrengthHigh)
			sys.AddEquality(e, et, -ea.EffectiveMargin(), StrengthHigh)
			return
		}
		sys.AddGreaterThan(s, st, sa.EffectiveMargin(), StrengthEquality)
		sys.AddLowerThan(e, et, -ea.EffectiveMargin(), StrengthEquality)
		sys.AddCentering(s, st, sa.EffectiveMargin(), w.Bias[o], et, e, ea.EffectiveMargin(), StrengthHigh)
	case sa.IsConnected():
		sys.AddEquality(s, b.target(sa), sa.EffectiveMargin(), StrengthFixed)
	case ea.IsConnected():
		sys.AddEquality(e, b.target(ea), -ea.EffectiveMargin(), StrengthFixed)
	default:
		offset := w.X()
		if o == widget.Vertical {
			offset = w.Y()
		}
		sys.AddEquality(s, cs, offset, StrengthLow)
	}
}
