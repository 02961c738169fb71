package analyzer

import (
	"github.com/matzehuels/anchorlayout/pkg/dependency"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Group directions record which edge of the first run a group was reached
// through.
const (
	DirectionStart = iota
	DirectionEnd
	DirectionBaseline
)

// RunGroup is a connected set of runs reachable from one container edge.
// WRAP_CONTENT containers take the largest extent over all groups.
type RunGroup struct {
	Index     int
	First     Run
	Last      Run
	Runs      []Run
	Direction int
	// Dual is set when the group connects back to the edge it started
	// from, which is what centered and spread content looks like.
	Dual bool
}

func newRunGroup(index int, r Run, direction int) *RunGroup {
	return &RunGroup{Index: index, First: r, Last: r, Direction: direction}
}

func (g *RunGroup) add(r Run) {
	g.Runs = append(g.Runs, r)
	g.Last = r
}

// findGroups partitions the runs into groups starting from the container
// edges.
func (g *DependencyGraph) findGroups() {
	g.groups = g.groups[:0]
	for _, o := range []widget.Orientation{widget.Horizontal, widget.Vertical} {
		g.findGroup(g.runFor(g.container.Widget, o), o)
	}
}

func (g *DependencyGraph) findGroup(r *widgetRun, o widget.Orientation) {
	for _, d := range r.start.Dependencies {
		if n := dependencyStart(d); n != nil {
			g.applyGroup(n, o, DirectionStart, r.end, nil)
		}
	}
	for _, d := range r.end.Dependencies {
		if n := dependencyStart(d); n != nil {
			g.applyGroup(n, o, DirectionEnd, r.start, nil)
		}
	}
	if o == widget.Vertical {
		for _, d := range r.baseline.Dependencies {
			if n := dependencyStart(d); n != nil {
				g.applyGroup(n, o, DirectionBaseline, nil, nil)
			}
		}
	}
}

// dependencyStart maps a listener to the node a group walk continues from:
// nodes stay themselves, runs listening directly map to their start.
func dependencyStart(d dependency.Dependency) *dependency.Node {
	switch v := d.(type) {
	case *dependency.Node:
		return v
	case Run:
		return v.Start()
	}
	return nil
}

func (g *DependencyGraph) applyGroup(n *dependency.Node, o widget.Orientation, direction int, end *dependency.Node, group *RunGroup) {
	r, ok := n.Run.(Run)
	if !ok {
		return
	}
	b := r.base()
	if b.group != nil || b.widget == g.container.Widget {
		return
	}
	if group == nil {
		group = newRunGroup(len(g.groups), r, direction)
		g.groups = append(g.groups, group)
	}
	b.group = group
	group.add(r)

	for _, d := range b.start.Dependencies {
		if dn := dependencyStart(d); dn != nil {
			g.applyGroup(dn, o, DirectionStart, end, group)
		}
	}
	for _, d := range b.end.Dependencies {
		if dn := dependencyStart(d); dn != nil {
			g.applyGroup(dn, o, DirectionEnd, end, group)
		}
	}
	vr, vertical := r.(*VerticalRun)
	if o == widget.Vertical && vertical {
		for _, d := range vr.baseline.Dependencies {
			if dn := dependencyStart(d); dn != nil {
				g.applyGroup(dn, o, DirectionBaseline, end, group)
			}
		}
	}
	for _, t := range b.start.Targets {
		if t == end {
			group.Dual = true
		}
		g.applyGroup(t, o, DirectionStart, end, group)
	}
	for _, t := range b.end.Targets {
		if t == end {
			group.Dual = true
		}
		g.applyGroup(t, o, DirectionEnd, end, group)
	}
	if o == widget.Vertical && vertical {
		for _, t := range vr.baseline.Targets {
			g.applyGroup(t, o, DirectionBaseline, end, group)
		}
	}
}

// ComputeWrapSize returns the container size on the axis needed to hold
// the group, honoring margins and the first run's bias.
func (g *RunGroup) ComputeWrapSize(c *widget.Container, o widget.Orientation) int {
	first, last := g.First, g.Last
	if first.Orientation() != o {
		return 0
	}
	fb, lb := first.base(), last.base()
	cr := fb.graph.runFor(c.Widget, o)
	withStart := containsNode(fb.start.Targets, cr.start)
	withEnd := containsNode(lb.end.Targets, cr.end)
	wrap := first.wrapDimension()

	switch {
	case withStart && withEnd:
		maxPos := traverseStart(fb.start, 0, map[*dependency.Node]bool{})
		minPos := traverseEnd(lb.end, 0, map[*dependency.Node]bool{})
		endGap := maxPos - wrap
		if endGap >= -lb.end.Margin {
			endGap += lb.end.Margin
		}
		startGap := -minPos - wrap - fb.start.Margin
		if startGap >= fb.start.Margin {
			startGap -= fb.start.Margin
		}
		bias := fb.widget.Bias[o]
		var gap float64
		switch {
		case bias >= 1:
			gap = float64(startGap)
		case bias <= 0:
			gap = float64(endGap)
		default:
			gap = float64(startGap)/bias + float64(endGap)/(1-bias)
		}
		startGap = round(gap * bias)
		endGap = round(gap * (1 - bias))
		return fb.start.Margin + startGap + wrap + endGap - lb.end.Margin
	case withStart:
		return max(traverseStart(fb.start, fb.start.Margin, map[*dependency.Node]bool{}), fb.start.Margin+wrap)
	case withEnd:
		minPos := traverseEnd(lb.end, lb.end.Margin, map[*dependency.Node]bool{})
		return max(-minPos, -lb.end.Margin+wrap)
	}
	return fb.start.Margin + wrap - lb.end.Margin
}

func containsNode(nodes []*dependency.Node, n *dependency.Node) bool {
	for _, x := range nodes {
		if x == n {
			return true
		}
	}
	return false
}

// traverseStart returns the furthest trailing position reachable from n
// when n sits at position. onStack breaks cycles.
func traverseStart(n *dependency.Node, position int, onStack map[*dependency.Node]bool) int {
	r, ok := n.Run.(Run)
	if !ok || onStack[n] {
		return position
	}
	if _, helper := r.(*HelperReferences); helper {
		return position
	}
	onStack[n] = true
	defer delete(onStack, n)

	b := r.base()
	out := position
	for _, d := range n.Dependencies {
		next := dependencyStart(d)
		if next == nil || next.Run == n.Run {
			continue
		}
		out = max(out, traverseStart(next, position+next.Margin, onStack))
	}
	if n == b.start {
		dim := r.wrapDimension()
		out = max(out, traverseStart(b.end, position+dim, onStack))
		out = max(out, position+dim-b.end.Margin)
	}
	return out
}

// traverseEnd is traverseStart walking toward the leading edge; it returns
// the smallest reachable position.
func traverseEnd(n *dependency.Node, position int, onStack map[*dependency.Node]bool) int {
	r, ok := n.Run.(Run)
	if !ok || onStack[n] {
		return position
	}
	if _, helper := r.(*HelperReferences); helper {
		return position
	}
	onStack[n] = true
	defer delete(onStack, n)

	b := r.base()
	out := position
	for _, d := range n.Dependencies {
		next := dependencyStart(d)
		if next == nil || next.Run == n.Run {
			continue
		}
		out = min(out, traverseEnd(next, position+next.Margin, onStack))
	}
	if n == b.end {
		dim := r.wrapDimension()
		out = min(out, traverseEnd(b.start, position-dim, onStack))
		out = min(out, position-dim-b.start.Margin)
	}
	return out
}
