package widget

import (
	"errors"
	"fmt"
)

// ErrDuplicateChild is returned by [Container.Add] when a child with the
// same ID is already present.
var ErrDuplicateChild = errors.New("duplicate child ID")

// Container is the root of a widget tree. It is a widget itself (its
// anchors are the parent edges children connect to) and owns the children,
// guidelines and barriers laid out inside it.
type Container struct {
	*Widget

	children []*Widget
	byID     map[string]*Widget
}

// NewContainer returns a FIXED container of the given size. Set
// Dimension[o] to [WrapContent] to let the layout compute a size.
func NewContainer(id string, width, height int) *Container {
	w := New(id, width, height)
	w.Kind = KindContainer
	return &Container{Widget: w, byID: map[string]*Widget{}}
}

// Add appends children to the container. Adding a widget twice or a widget
// whose ID is taken returns [ErrDuplicateChild].
func (c *Container) Add(children ...*Widget) error {
	for _, w := range children {
		if w.ID == c.ID {
			return fmt.Errorf("%q: %w", w.ID, ErrDuplicateChild)
		}
		if _, ok := c.byID[w.ID]; ok {
			return fmt.Errorf("%q: %w", w.ID, ErrDuplicateChild)
		}
		w.parent = c
		c.children = append(c.children, w)
		c.byID[w.ID] = w
	}
	return nil
}

// Children returns every child, helpers included, in insertion order.
func (c *Container) Children() []*Widget { return c.children }

// Lookup returns the child with the given ID, or the container itself.
func (c *Container) Lookup(id string) (*Widget, bool) {
	if id == c.ID {
		return c.Widget, true
	}
	w, ok := c.byID[id]
	return w, ok
}

// Guidelines returns the guideline children.
func (c *Container) Guidelines() []*Guideline {
	var out []*Guideline
	for _, w := range c.children {
		if w.guideline != nil {
			out = append(out, w.guideline)
		}
	}
	return out
}

// Barriers returns the barrier children.
func (c *Container) Barriers() []*Barrier {
	var out []*Barrier
	for _, w := range c.children {
		if w.barrier != nil {
			out = append(out, w.barrier)
		}
	}
	return out
}

// ResetFinalResolution clears final-value bookkeeping on the container and
// every child. Call it before each solving pass.
func (c *Container) ResetFinalResolution() {
	c.Widget.ResetFinalResolution()
	for _, w := range c.children {
		w.ResetFinalResolution()
	}
}

// ResetMeasures flags every widget for measurement again.
func (c *Container) ResetMeasures() {
	for _, w := range c.children {
		w.measured = false
		w.measureRequested = true
	}
}

// AllResolved reports whether every child is resolved by the direct pass.
// Guidelines and barriers only count on the axis they position.
func (c *Container) AllResolved() bool {
	for _, w := range c.children {
		for _, o := range w.ResolutionAxes() {
			if !w.IsResolved(o) {
				return false
			}
		}
	}
	return true
}

// Unresolved returns the IDs of children the direct pass left unresolved.
func (c *Container) Unresolved() []string {
	var ids []string
	for _, w := range c.children {
		for _, o := range w.ResolutionAxes() {
			if !w.IsResolved(o) {
				ids = append(ids, w.ID)
				break
			}
		}
	}
	return ids
}
