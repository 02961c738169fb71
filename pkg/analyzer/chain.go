package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/dependency"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// ChainRun resolves every member of a chain on one axis at once: it waits
// for both chain ends, sizes MATCH_CONSTRAINT members from the remaining
// space and distributes what is left according to the chain style.
type ChainRun struct {
	runBase

	members []*widgetRun
	head    *widget.ChainHead

	// updating guards against member resolutions re-entering Update.
	updating bool
}

func newChainRun(g *DependencyGraph, w *widget.Widget, o widget.Orientation) *ChainRun {
	c := &ChainRun{}
	first := w.ChainFirst(o)
	c.init(g, first, o, c)
	seen := map[*widget.Widget]bool{}
	for m := first; m != nil && !seen[m]; m = m.NextInChain(o) {
		seen[m] = true
		c.members = append(c.members, g.runFor(m, o))
	}
	return c
}

// Members returns the member widgets in chain order.
func (c *ChainRun) Members() []*widget.Widget {
	out := make([]*widget.Widget, len(c.members))
	for i, m := range c.members {
		out[i] = m.widget
	}
	return out
}

// MemberRuns returns the widget runs of the members in chain order.
func (c *ChainRun) MemberRuns() []Run {
	out := make([]Run, len(c.members))
	for i, m := range c.members {
		out[i] = m.self
	}
	return out
}

func (c *ChainRun) clear() {
	c.group = nil
	c.start.Clear()
	c.end.Clear()
	c.dim.Clear()
	c.resolved = false
	for _, m := range c.members {
		m.clear()
	}
}

func (c *ChainRun) supportsWrapComputation() bool {
	for _, m := range c.members {
		if !m.supportsWrapComputation() {
			return false
		}
	}
	return true
}

// wrapDimension is the sum of the visible members' sizes and the margins
// between them. The outer margins live on the chain's own edges.
func (c *ChainRun) wrapDimension() int {
	first, last := -1, -1
	for i, m := range c.members {
		if m.widget.Visibility != widget.Gone {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	size := 0
	for i, m := range c.members {
		if m.widget.Visibility == widget.Gone {
			continue
		}
		if i > first {
			size += m.start.Margin
		}
		size += m.wrapDimension()
		if i < last {
			size -= m.end.Margin
		}
	}
	return size
}

func (c *ChainRun) apply() {
	o := c.orientation
	for _, m := range c.members {
		m.apply()
	}
	c.head = widget.NewChainHead(c.widget, o)
	if c.head.FirstVisible == nil {
		return
	}
	first := c.members[0].widget
	last := c.members[len(c.members)-1].widget
	if t := c.target(first.Start(o)); t != nil {
		dependency.Link(c.start, t, c.head.FirstVisible.Start(o).EffectiveMargin())
	}
	if t := c.target(last.End(o)); t != nil {
		dependency.Link(c.end, t, -c.head.LastVisible.End(o).EffectiveMargin())
	}
	c.start.UpdateDelegate = c
	c.end.UpdateDelegate = c
	for _, m := range c.members {
		if !m.dim.IsResolved() {
			m.dim.Dependencies = append(m.dim.Dependencies, c)
		}
	}
}

// Update lays out the chain once both ends and every fixed member size are
// known.
func (c *ChainRun) Update(dependency.Dependency) {
	if c.updating || c.head == nil || c.head.FirstVisible == nil {
		return
	}
	if !c.start.IsResolved() || !c.end.IsResolved() {
		return
	}
	c.updating = true
	defer func() { c.updating = false }()

	o := c.orientation
	firstVisible, lastVisible := -1, -1
	for i, m := range c.members {
		if m.widget.Visibility == widget.Gone {
			continue
		}
		if firstVisible < 0 {
			firstVisible = i
		}
		lastVisible = i
	}

	distance := c.end.Value() - c.start.Value()
	size, visible := 0, 0
	var flexible []*widgetRun
	for i, m := range c.members {
		w := m.widget
		if w.Visibility == widget.Gone {
			continue
		}
		visible++
		if i > firstVisible {
			size += m.start.Margin
		}
		if !m.dim.IsResolved() {
			if !c.resolveMemberDimension(m) {
				if w.Dimension[o] != widget.MatchConstraint {
					return
				}
				flexible = append(flexible, m)
			}
		}
		if m.dim.IsResolved() {
			size += m.dim.Value()
		}
		if i < lastVisible {
			size -= m.end.Margin
		}
	}

	if len(flexible) > 0 {
		size = c.distribute(flexible, distance, size)
	}

	position := c.start.Value()
	if size > distance {
		position -= round(float64(size-distance) / 2)
	}

	style := c.head.Style()
	if style == widget.ChainSpreadInside && visible < 2 {
		style = widget.ChainPacked
	}
	if visible == 1 && len(flexible) == 0 {
		style = widget.ChainPacked
	}

	lead, gap := 0, 0
	if size <= distance && len(flexible) == 0 {
		switch style {
		case widget.ChainSpread:
			gap = spreadGap(distance-size, visible)
			lead = gap
		case widget.ChainSpreadInside:
			gap = (distance - size) / (visible - 1)
		case widget.ChainPacked:
			lead = max(0, round(float64(distance-size)*c.head.Bias()))
		}
	}

	position += lead
	for i, m := range c.members {
		if m.widget.Visibility == widget.Gone {
			m.start.Resolve(position)
			m.end.Resolve(position)
			m.dim.Resolve(0)
			continue
		}
		if i > firstVisible {
			position += m.start.Margin
		}
		m.start.Resolve(position)
		position += m.dim.Value()
		m.end.Resolve(position)
		if i < lastVisible {
			position += gap - m.end.Margin
		}
	}
	c.dim.Resolve(distance)
}

// resolveMemberDimension resolves sizes that do not depend on the chain:
// wrap and percent match constraints. It reports whether the member's size
// is now known.
func (c *ChainRun) resolveMemberDimension(m *widgetRun) bool {
	w, o := m.widget, c.orientation
	if m.behaviour != widget.MatchConstraint {
		return m.dim.IsResolved()
	}
	switch m.matchType {
	case widget.MatchWrap:
		m.dim.Resolve(w.LimitedDimension(o, m.dim.WrapValue))
	case widget.MatchPercent:
		p := w.Parent()
		if p == nil {
			return false
		}
		pd := c.graph.runFor(p.Widget, o).dim
		if !pd.IsResolved() {
			return false
		}
		m.dim.Resolve(w.LimitedDimension(o, round(float64(pd.Value())*w.MatchPercent[o])))
	case widget.MatchRatio:
		or := c.graph.runFor(w, other(o))
		if !or.dim.IsResolved() || (or.behaviour == widget.MatchConstraint && or.matchType == widget.MatchRatio) {
			return false
		}
		m.dim.Resolve(m.ratioFrom(or.dim.Value()))
	}
	return m.dim.IsResolved()
}

// distribute shares the space left by fixed members among spread members,
// by weight when any weight is defined. Members hitting their bounds keep
// the clamped size and a second pass shares the rest among the others. It
// returns the chain size including the distributed members.
func (c *ChainRun) distribute(flexible []*widgetRun, distance, size int) int {
	o := c.orientation
	weighted := false
	for _, m := range flexible {
		if m.widget.Weight[o] > 0 {
			weighted = true
		}
	}
	share := func(ms []*widgetRun, space int) map[*widgetRun]int {
		out := make(map[*widgetRun]int, len(ms))
		total := 0.0
		for _, m := range ms {
			if weighted {
				total += max(0, m.widget.Weight[o])
			}
		}
		sum := 0
		var last *widgetRun
		for _, m := range ms {
			switch {
			case weighted && total > 0:
				out[m] = round(float64(space) * max(0, m.widget.Weight[o]) / total)
				if m.widget.Weight[o] > 0 {
					last = m
				}
			case weighted:
				out[m] = 0
			default:
				out[m] = round(float64(space) / float64(len(ms)))
				last = m
			}
			sum += out[m]
		}
		// The rounding remainder goes to the last member that takes space,
		// so the members fill the chain exactly.
		if last != nil {
			out[last] += space - sum
		}
		return out
	}

	space := max(0, distance-size)
	sizes := share(flexible, space)
	var free []*widgetRun
	limited := 0
	for _, m := range flexible {
		v := sizes[m]
		if l := m.widget.LimitedDimension(o, v); l != v {
			sizes[m] = l
			space -= l
			limited++
			continue
		}
		free = append(free, m)
	}
	if limited > 0 && len(free) > 0 {
		for m, v := range share(free, max(0, space)) {
			sizes[m] = m.widget.LimitedDimension(o, v)
		}
	}
	for _, m := range flexible {
		m.dim.Resolve(sizes[m])
		size += sizes[m]
	}
	return size
}

func (c *ChainRun) applyToWidget() {
	for _, m := range c.members {
		m.applyToWidget()
	}
}
