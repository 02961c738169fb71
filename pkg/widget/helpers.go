package widget

// Guideline is an invisible line at a fixed offset or fraction of its
// parent. A [Vertical] guideline is a vertical line and positions x; a
// [Horizontal] guideline positions y.
type Guideline struct {
	*Widget

	Orientation Orientation

	// Exactly one of Begin, End or Percent applies, checked in that order:
	// Begin >= 0 is an offset from the leading edge, End >= 0 from the
	// trailing edge, Percent >= 0 a fraction of the parent length.
	Begin   int
	End     int
	Percent float64
}

// NewGuideline returns a guideline with no position source set.
func NewGuideline(id string, o Orientation) *Guideline {
	w := New(id, 0, 0)
	w.Kind = KindGuideline
	g := &Guideline{Widget: w, Orientation: o, Begin: -1, End: -1, Percent: -1}
	w.guideline = g
	return g
}

// SetBegin positions the guideline at an offset from the parent's start.
func (g *Guideline) SetBegin(v int) { g.Begin, g.End, g.Percent = v, -1, -1 }

// SetEnd positions the guideline at an offset from the parent's end.
func (g *Guideline) SetEnd(v int) { g.Begin, g.End, g.Percent = -1, v, -1 }

// SetPercent positions the guideline at a fraction of the parent length.
func (g *Guideline) SetPercent(p float64) { g.Begin, g.End, g.Percent = -1, -1, p }

// Axis returns the axis along which the guideline's position is measured:
// x for a vertical guideline, y for a horizontal one.
func (g *Guideline) Axis() Orientation {
	if g.Orientation == Vertical {
		return Horizontal
	}
	return Vertical
}

// Anchor returns the anchor other widgets connect to.
func (g *Guideline) Anchor() *Anchor {
	return g.Widget.Start(g.Axis())
}

// Position computes the guideline coordinate for a parent of the given
// length, rounding percentages half up.
func (g *Guideline) Position(parentLength int) int {
	switch {
	case g.Begin >= 0:
		return g.Begin
	case g.End >= 0:
		return parentLength - g.End
	case g.Percent >= 0:
		return int(0.5 + float64(parentLength)*g.Percent)
	}
	return 0
}

// BarrierType selects the side a barrier follows.
type BarrierType int

const (
	BarrierLeft BarrierType = iota
	BarrierRight
	BarrierTop
	BarrierBottom
	// BarrierInvalid makes the barrier a silent no-op.
	BarrierInvalid
)

func (t BarrierType) String() string {
	switch t {
	case BarrierLeft:
		return "left"
	case BarrierRight:
		return "right"
	case BarrierTop:
		return "top"
	case BarrierBottom:
		return "bottom"
	}
	return "invalid"
}

// ParseBarrierType maps a side name to a BarrierType. Unknown names map to
// [BarrierInvalid] rather than failing.
func ParseBarrierType(s string) BarrierType {
	switch s {
	case "left", "start":
		return BarrierLeft
	case "right", "end":
		return BarrierRight
	case "top":
		return BarrierTop
	case "bottom":
		return BarrierBottom
	}
	return BarrierInvalid
}

// Barrier follows the extreme edge of its referenced widgets: the minimum
// for left/top barriers, the maximum for right/bottom ones, plus Margin.
type Barrier struct {
	*Widget

	Type             BarrierType
	Margin           int
	References       []*Widget
	AllowsGoneWidget bool
}

// NewBarrier returns a barrier over refs.
func NewBarrier(id string, t BarrierType, margin int, refs ...*Widget) *Barrier {
	w := New(id, 0, 0)
	w.Kind = KindBarrier
	b := &Barrier{Widget: w, Type: t, Margin: margin, References: refs}
	w.barrier = b
	return b
}

// Orientation returns the axis the barrier resolves on, and false for an
// invalid type.
func (b *Barrier) Orientation() (Orientation, bool) {
	switch b.Type {
	case BarrierLeft, BarrierRight:
		return Horizontal, true
	case BarrierTop, BarrierBottom:
		return Vertical, true
	}
	return Horizontal, false
}

// ReferenceAnchor returns the anchor of ref the barrier follows.
func (b *Barrier) ReferenceAnchor(ref *Widget) *Anchor {
	switch b.Type {
	case BarrierLeft:
		return ref.Anchor(AnchorLeft)
	case BarrierRight:
		return ref.Anchor(AnchorRight)
	case BarrierTop:
		return ref.Anchor(AnchorTop)
	case BarrierBottom:
		return ref.Anchor(AnchorBottom)
	}
	return nil
}

// Anchor returns the barrier's own anchor that dependents connect to.
func (b *Barrier) Anchor() *Anchor {
	switch b.Type {
	case BarrierLeft:
		return b.Widget.Anchor(AnchorLeft)
	case BarrierRight:
		return b.Widget.Anchor(AnchorRight)
	case BarrierTop:
		return b.Widget.Anchor(AnchorTop)
	case BarrierBottom:
		return b.Widget.Anchor(AnchorBottom)
	}
	return nil
}

// IsMin reports whether the barrier takes the minimum of its references.
func (b *Barrier) IsMin() bool { return b.Type == BarrierLeft || b.Type == BarrierTop }

// Counts reports whether ref participates in the barrier.
func (b *Barrier) Counts(ref *Widget) bool {
	return ref.Visibility != Gone || b.AllowsGoneWidget
}

// AllSolved reports whether every participating reference is resolved on
// the barrier's axis by the direct pass.
func (b *Barrier) AllSolved() bool {
	o, ok := b.Orientation()
	if !ok {
		return false
	}
	for _, ref := range b.References {
		if !b.Counts(ref) {
			continue
		}
		if !ref.IsResolved(o) {
			return false
		}
	}
	return true
}

// Extreme computes the barrier position from the references' final anchor
// values. It reports false when no reference participates.
func (b *Barrier) Extreme() (int, bool) {
	found := false
	var v int
	for _, ref := range b.References {
		if !b.Counts(ref) {
			continue
		}
		a := b.ReferenceAnchor(ref)
		if a == nil || !a.HasFinalValue() {
			return 0, false
		}
		p := a.FinalValue()
		switch {
		case !found:
			v = p
		case b.IsMin():
			v = min(v, p)
		default:
			v = max(v, p)
		}
		found = true
	}
	return v + b.Margin, found
}
