package widget

// InChain reports whether w is linked to a neighbour on the axis: one of
// its edge anchors targets an anchor that targets it back.
func (w *Widget) InChain(o Orientation) bool {
	return w.PreviousInChain(o) != nil || w.NextInChain(o) != nil
}

// PreviousInChain returns the chain neighbour before w on the axis, or nil.
func (w *Widget) PreviousInChain(o Orientation) *Widget {
	s := w.Start(o)
	if s.Target != nil && s.Target.Target == s {
		return s.Target.Owner
	}
	return nil
}

// NextInChain returns the chain neighbour after w on the axis, or nil.
func (w *Widget) NextInChain(o Orientation) *Widget {
	e := w.End(o)
	if e.Target != nil && e.Target.Target == e {
		return e.Target.Owner
	}
	return nil
}

// ChainFirst walks back from w to the first member of its chain. A visited
// set stops the walk on malformed cyclic chains.
func (w *Widget) ChainFirst(o Orientation) *Widget {
	seen := map[*Widget]bool{w: true}
	first := w
	for prev := first.PreviousInChain(o); prev != nil && !seen[prev]; prev = first.PreviousInChain(o) {
		seen[prev] = true
		first = prev
	}
	return first
}

// ChainHead summarizes one chain on one axis. The head member carries the
// chain style and bias for the whole chain.
type ChainHead struct {
	Orientation Orientation

	First, Last               *Widget
	FirstVisible, LastVisible *Widget

	// Members lists every widget in chain order.
	Members []*Widget
	// MatchConstraints lists visible MATCH_CONSTRAINT members sized by the
	// chain (spread, percent or ratio defaults).
	MatchConstraints []*Widget

	VisibleCount int
	// TotalSize is the size of non MATCH_CONSTRAINT visible members plus
	// inner margins; the outer margins of the first and last visible
	// members are excluded.
	TotalSize    int
	TotalMargins int
	TotalWeight  float64

	HasDefinedWeights   bool
	HasUndefinedWeights bool
	HasRatio            bool
}

// NewChainHead collects the chain containing w on the axis.
func NewChainHead(w *Widget, o Orientation) *ChainHead {
	h := &ChainHead{Orientation: o, First: w.ChainFirst(o)}
	h.define()
	return h
}

// Style returns the chain style declared on the first member.
func (h *ChainHead) Style() ChainStyle { return h.First.ChainStyle[h.Orientation] }

// Bias returns the bias declared on the first member.
func (h *ChainHead) Bias() float64 { return h.First.Bias[h.Orientation] }

func (h *ChainHead) define() {
	o := h.Orientation
	seen := map[*Widget]bool{}
	for w := h.First; w != nil && !seen[w]; w = w.NextInChain(o) {
		seen[w] = true
		h.Members = append(h.Members, w)
		h.Last = w
		if w.Visibility == Gone {
			continue
		}
		h.VisibleCount++
		if w.Dimension[o] != MatchConstraint {
			h.TotalSize += w.Length(o)
		}
		margins := w.Start(o).EffectiveMargin() + w.End(o).EffectiveMargin()
		h.TotalSize += margins
		h.TotalMargins += margins
		if h.FirstVisible == nil {
			h.FirstVisible = w
		}
		h.LastVisible = w
		if w.Dimension[o] != MatchConstraint {
			continue
		}
		switch w.MatchDefault[o] {
		case MatchSpread, MatchRatio, MatchPercent:
			h.MatchConstraints = append(h.MatchConstraints, w)
			if w.Weight[o] > 0 {
				h.TotalWeight += w.Weight[o]
				h.HasDefinedWeights = true
			} else {
				h.HasUndefinedWeights = true
			}
		}
		if w.Ratio != 0 {
			h.HasRatio = true
		}
	}
	if h.FirstVisible != nil {
		h.TotalSize -= h.FirstVisible.Start(o).EffectiveMargin()
	}
	if h.LastVisible != nil {
		h.TotalSize -= h.LastVisible.End(o).EffectiveMargin()
	}
}
