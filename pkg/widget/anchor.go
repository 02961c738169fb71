package widget

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSelfConnection is returned by [Widget.Connect] when an anchor would
	// target another anchor of the same widget.
	ErrSelfConnection = errors.New("anchor cannot target its own widget")

	// ErrIncompatibleAnchors is returned by [Widget.Connect] when the source
	// and target anchor types cannot be connected (for example a left anchor
	// targeting a top anchor).
	ErrIncompatibleAnchors = errors.New("incompatible anchor types")

	// ErrUnknownAnchor is returned by [ParseAnchorType] for unknown names.
	ErrUnknownAnchor = errors.New("unknown anchor type")
)

// AnchorType identifies one of the eight anchors of a widget.
type AnchorType int

const (
	AnchorNone AnchorType = iota
	AnchorLeft
	AnchorTop
	AnchorRight
	AnchorBottom
	AnchorBaseline
	AnchorCenter
	AnchorCenterX
	AnchorCenterY
)

var anchorNames = [...]string{
	AnchorNone:     "none",
	AnchorLeft:     "left",
	AnchorTop:      "top",
	AnchorRight:    "right",
	AnchorBottom:   "bottom",
	AnchorBaseline: "baseline",
	AnchorCenter:   "center",
	AnchorCenterX:  "center_x",
	AnchorCenterY:  "center_y",
}

func (t AnchorType) String() string {
	if t < 0 || int(t) >= len(anchorNames) {
		return fmt.Sprintf("anchor(%d)", int(t))
	}
	return anchorNames[t]
}

// ParseAnchorType parses an anchor name such as "left" or "center_x".
// "start" and "end" are accepted as aliases for left and right, "centerx"
// and "centery" for the center axes.
func ParseAnchorType(s string) (AnchorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AnchorLeft, nil
	case "top":
		return AnchorTop, nil
	case "right", "end":
		return AnchorRight, nil
	case "bottom":
		return AnchorBottom, nil
	case "baseline":
		return AnchorBaseline, nil
	case "center":
		return AnchorCenter, nil
	case "center_x", "centerx":
		return AnchorCenterX, nil
	case "center_y", "centery":
		return AnchorCenterY, nil
	}
	return AnchorNone, fmt.Errorf("%w: %q", ErrUnknownAnchor, s)
}

// Orientation returns the axis an anchor positions. Baseline and the vertical
// edges are [Vertical]; center anchors report [Horizontal] except CenterY.
func (t AnchorType) Orientation() Orientation {
	switch t {
	case AnchorTop, AnchorBottom, AnchorBaseline, AnchorCenterY:
		return Vertical
	}
	return Horizontal
}

// unsetGoneMargin marks an anchor whose gone margin was never set.
const unsetGoneMargin = -1 << 31

// Anchor is one connection point of a widget. It targets at most one anchor
// of another widget; the targeted anchor records it as a dependent so that
// solving passes can walk connections in both directions.
type Anchor struct {
	Type  AnchorType
	Owner *Widget

	// Target is the anchor this anchor is connected to, or nil.
	Target *Anchor
	// Margin is the distance kept from Target.
	Margin int
	// GoneMargin replaces Margin while the target's owner is GONE.
	GoneMargin int

	dependents []*Anchor

	finalValue    int
	hasFinalValue bool
}

func newAnchor(owner *Widget, t AnchorType) *Anchor {
	return &Anchor{Type: t, Owner: owner, GoneMargin: unsetGoneMargin}
}

// IsConnected reports whether the anchor targets another anchor.
func (a *Anchor) IsConnected() bool { return a.Target != nil }

// Dependents returns the anchors that target a, in connection order.
func (a *Anchor) Dependents() []*Anchor { return a.dependents }

// HasDependents reports whether any anchor targets a.
func (a *Anchor) HasDependents() bool { return len(a.dependents) > 0 }

// EffectiveMargin returns the margin to apply for the current visibility.
// A GONE owner contributes no margin; a GONE target switches to GoneMargin
// when one was set.
func (a *Anchor) EffectiveMargin() int {
	if a.Owner.Visibility == Gone {
		return 0
	}
	if a.GoneMargin != unsetGoneMargin && a.Target != nil && a.Target.Owner.Visibility == Gone {
		return a.GoneMargin
	}
	return a.Margin
}

// SetGoneMargin sets the margin used when the target's owner is GONE.
func (a *Anchor) SetGoneMargin(m int) { a.GoneMargin = m }

// FinalValue returns the coordinate recorded by the direct solving pass.
func (a *Anchor) FinalValue() int { return a.finalValue }

// HasFinalValue reports whether a final coordinate was recorded.
func (a *Anchor) HasFinalValue() bool { return a.hasFinalValue }

// SetFinalValue records the resolved coordinate of the anchor.
func (a *Anchor) SetFinalValue(v int) {
	a.finalValue = v
	a.hasFinalValue = true
}

// ResetFinalResolution forgets any recorded final value.
func (a *Anchor) ResetFinalResolution() {
	a.finalValue = 0
	a.hasFinalValue = false
}

// Opposite returns the anchor on the other side of the same axis, or nil for
// baseline and center anchors.
func (a *Anchor) Opposite() *Anchor {
	switch a.Type {
	case AnchorLeft:
		return a.Owner.Anchor(AnchorRight)
	case AnchorRight:
		return a.Owner.Anchor(AnchorLeft)
	case AnchorTop:
		return a.Owner.Anchor(AnchorBottom)
	case AnchorBottom:
		return a.Owner.Anchor(AnchorTop)
	}
	return nil
}

// IsValidConnection reports whether a may target other.
func (a *Anchor) IsValidConnection(other *Anchor) bool {
	if other == nil {
		return false
	}
	target := other.Type
	if target == a.Type {
		if a.Type == AnchorBaseline && (!other.Owner.HasBaseline || !a.Owner.HasBaseline) {
			return false
		}
		return true
	}
	switch a.Type {
	case AnchorCenter:
		return target != AnchorBaseline && target != AnchorCenterX && target != AnchorCenterY
	case AnchorLeft, AnchorRight:
		ok := target == AnchorLeft || target == AnchorRight
		if other.Owner.IsGuideline() {
			ok = ok || target == AnchorCenterX
		}
		return ok
	case AnchorTop, AnchorBottom:
		ok := target == AnchorTop || target == AnchorBottom
		if other.Owner.IsGuideline() {
			ok = ok || target == AnchorCenterY
		}
		return ok
	case AnchorBaseline:
		return target != AnchorLeft && target != AnchorRight
	}
	return false
}

// connect links a to target without validation.
func (a *Anchor) connect(target *Anchor, margin int) {
	if a.Target != nil {
		a.Target.removeDependent(a)
	}
	a.Target = target
	a.Margin = margin
	target.dependents = append(target.dependents, a)
}

// Reset removes the connection of a, if any.
func (a *Anchor) Reset() {
	if a.Target != nil {
		a.Target.removeDependent(a)
	}
	a.Target = nil
	a.Margin = 0
	a.GoneMargin = unsetGoneMargin
	a.ResetFinalResolution()
}

func (a *Anchor) removeDependent(d *Anchor) {
	for i, x := range a.dependents {
		if x == d {
			a.dependents = append(a.dependents[:i], a.dependents[i+1:]...)
			return
		}
	}
}

func (a *Anchor) String() string {
	if a.Owner == nil {
		return a.Type.String()
	}
	return a.Owner.ID + "." + a.Type.String()
}
