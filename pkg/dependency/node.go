// Package dependency implements the single-assignment dataflow node that
// drives dependency-graph layout.
//
// A [Node] stands for one scalar of the layout (a start edge, an end edge,
// a baseline or a dimension). It is Unresolved until [Node.Resolve] assigns
// its value, which happens at most once per pass. Resolving a node
// synchronously notifies every registered listener, which in turn may
// resolve itself once all of its targets are resolved:
//
//	parent := dependency.New(nil, dependency.KindLeft)
//	child := dependency.New(nil, dependency.KindLeft)
//	dependency.Link(child, parent, 16)
//	parent.Resolve(0)
//	child.Value() // 16
//
// Nodes are not safe for concurrent use; a pass runs on one goroutine.
package dependency

import (
	"fmt"
	"strconv"
)

// Dependency is anything that can be notified when a node it listens to
// resolves: another node, or the run owning a node.
type Dependency interface {
	Update(trigger Dependency)
}

// Kind identifies which scalar a node stands for.
type Kind int

const (
	KindUnknown Kind = iota
	KindHorizontalDimension
	KindVerticalDimension
	KindLeft
	KindRight
	KindTop
	KindBottom
	KindBaseline
)

func (k Kind) String() string {
	switch k {
	case KindHorizontalDimension:
		return "width"
	case KindVerticalDimension:
		return "height"
	case KindLeft:
		return "left"
	case KindRight:
		return "right"
	case KindTop:
		return "top"
	case KindBottom:
		return "bottom"
	case KindBaseline:
		return "baseline"
	}
	return "unknown"
}

// IsDimension reports whether the kind is a width or height.
func (k Kind) IsDimension() bool {
	return k == KindHorizontalDimension || k == KindVerticalDimension
}

// State is the resolution state of a node.
type State uint8

const (
	Unresolved State = iota
	Resolved
)

func (s State) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// Node is a single-assignment layout value.
//
// A node resolves to target + margin once its single non-dimension target
// resolves. When MarginDependency is set the margin is
// MarginFactor * MarginDependency's value instead, and the node stalls until
// that dimension resolves. Nodes with DelegateToRun hand resolution to their
// owning run once every target is resolved.
type Node struct {
	// Run owns the node and is called when DelegateToRun is set.
	Run  Dependency
	Kind Kind

	Margin           int
	MarginFactor     int
	MarginDependency *Node

	// UpdateDelegate is told about every update before the node tries to
	// resolve itself.
	UpdateDelegate Dependency
	DelegateToRun  bool
	ReadyToSolve   bool

	// WrapValue is the intrinsic size reported by the measurer, used by
	// dimension nodes when sizing MATCH_CONSTRAINT wrap widgets.
	WrapValue int

	// Targets are the nodes this node is computed from; Dependencies are
	// the listeners notified when it resolves.
	Targets      []*Node
	Dependencies []Dependency

	state State
	value int
}

// New returns an unresolved node owned by run.
func New(run Dependency, kind Kind) *Node {
	return &Node{Run: run, Kind: kind, MarginFactor: 1}
}

// State returns the resolution state.
func (n *Node) State() State { return n.state }

// IsResolved reports whether the node holds a value.
func (n *Node) IsResolved() bool { return n.state == Resolved }

// Value returns the resolved value, or zero while unresolved.
func (n *Node) Value() int { return n.value }

// Resolve assigns v and notifies listeners. Resolving an already resolved
// node is a no-op, so each node resolves at most once per pass.
func (n *Node) Resolve(v int) {
	if n.state == Resolved {
		return
	}
	n.state = Resolved
	n.value = v
	for _, d := range n.Dependencies {
		d.Update(d)
	}
}

// Update reacts to a target resolving.
func (n *Node) Update(Dependency) {
	for _, t := range n.Targets {
		if !t.IsResolved() {
			return
		}
	}
	n.ReadyToSolve = true
	if n.UpdateDelegate != nil {
		n.UpdateDelegate.Update(n)
	}
	if n.DelegateToRun {
		if n.Run != nil {
			n.Run.Update(n)
		}
		return
	}

	var target *Node
	count := 0
	for _, t := range n.Targets {
		if t.Kind.IsDimension() {
			continue
		}
		target = t
		count++
	}
	if target != nil && count == 1 && target.IsResolved() {
		if n.MarginDependency != nil {
			if !n.MarginDependency.IsResolved() {
				return
			}
			n.Margin = n.MarginFactor * n.MarginDependency.Value()
		}
		n.Resolve(target.Value() + n.Margin)
	}
	if n.UpdateDelegate != nil {
		n.UpdateDelegate.Update(n)
	}
}

// AddDependency registers a listener. If the node is already resolved the
// listener is notified immediately.
func (n *Node) AddDependency(d Dependency) {
	n.Dependencies = append(n.Dependencies, d)
	if n.state == Resolved {
		d.Update(d)
	}
}

// Clear drops all edges and resolution state so the node can be rewired
// for the next pass.
func (n *Node) Clear() {
	n.Targets = nil
	n.Dependencies = nil
	n.state = Unresolved
	n.value = 0
	n.Margin = 0
	n.MarginFactor = 1
	n.MarginDependency = nil
	n.UpdateDelegate = nil
	n.DelegateToRun = false
	n.ReadyToSolve = false
}

// Invalidate forgets the resolved value but keeps the wiring.
func (n *Node) Invalidate() {
	n.state = Unresolved
	n.value = 0
	n.ReadyToSolve = false
}

// Link makes node follow target at the given margin: node.Targets gains
// target and target.Dependencies gains node.
func Link(node, target *Node, margin int) {
	node.Targets = append(node.Targets, target)
	node.Margin = margin
	target.Dependencies = append(target.Dependencies, node)
}

// LinkScaled makes node follow target at factor times dim's value. dim is
// registered as a target too (through extra, usually the node's own
// dimension) so the node waits for it.
func LinkScaled(node, target *Node, factor int, extra, dim *Node) {
	node.Targets = append(node.Targets, target, extra)
	node.MarginFactor = factor
	node.MarginDependency = dim
	target.Dependencies = append(target.Dependencies, node)
	dim.Dependencies = append(dim.Dependencies, node)
}

func (n *Node) String() string {
	v := "-"
	if n.state == Resolved {
		v = strconv.Itoa(n.value)
	}
	return fmt.Sprintf("%s[%s] targets=%d deps=%d", n.Kind, v, len(n.Targets), len(n.Dependencies))
}
