package widget

import (
	"errors"
	"testing"
)

func TestConnect(t *testing.T) {
	a := New("a", 10, 10)
	b := New("b", 10, 10)

	if err := a.Connect(AnchorLeft, b, AnchorRight, 8); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	left := a.Anchor(AnchorLeft)
	if left.Target != b.Anchor(AnchorRight) || left.Margin != 8 {
		t.Errorf("left = %v margin %d, want b.right margin 8", left.Target, left.Margin)
	}
	if deps := b.Anchor(AnchorRight).Dependents(); len(deps) != 1 || deps[0] != left {
		t.Errorf("b.right dependents = %v, want [a.left]", deps)
	}

	// Reconnecting moves the dependent.
	if err := a.Connect(AnchorLeft, b, AnchorLeft, 0); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if b.Anchor(AnchorRight).HasDependents() {
		t.Error("b.right still has dependents after reconnect")
	}
}

func TestConnectErrors(t *testing.T) {
	a := New("a", 10, 10)
	b := New("b", 10, 10)

	tests := []struct {
		name     string
		from, to AnchorType
		target   *Widget
		want     error
	}{
		{"self", AnchorLeft, AnchorRight, a, ErrSelfConnection},
		{"axis mismatch", AnchorLeft, AnchorTop, b, ErrIncompatibleAnchors},
		{"baseline without baseline", AnchorBaseline, AnchorBaseline, b, ErrIncompatibleAnchors},
		{"baseline to left", AnchorBaseline, AnchorLeft, b, ErrIncompatibleAnchors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Connect(tt.from, tt.target, tt.to, 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("Connect() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestConnectCenter(t *testing.T) {
	a := New("a", 10, 10)
	b := New("b", 100, 100)
	if err := a.Connect(AnchorCenter, b, AnchorCenter, 0); err != nil {
		t.Fatal(err)
	}
	for _, at := range []AnchorType{AnchorLeft, AnchorTop, AnchorRight, AnchorBottom} {
		if got := a.Anchor(at).Target; got != b.Anchor(at) {
			t.Errorf("%s target = %v, want %v", at, got, b.Anchor(at))
		}
	}
}

func TestEffectiveMargin(t *testing.T) {
	a := New("a", 10, 10)
	b := New("b", 10, 10)
	_ = a.Connect(AnchorLeft, b, AnchorRight, 8)
	left := a.Anchor(AnchorLeft)

	if got := left.EffectiveMargin(); got != 8 {
		t.Errorf("margin = %d, want 8", got)
	}
	b.Visibility = Gone
	if got := left.EffectiveMargin(); got != 8 {
		t.Errorf("margin with unset gone margin = %d, want 8", got)
	}
	left.SetGoneMargin(2)
	if got := left.EffectiveMargin(); got != 2 {
		t.Errorf("gone margin = %d, want 2", got)
	}
	a.Visibility = Gone
	if got := left.EffectiveMargin(); got != 0 {
		t.Errorf("margin of gone owner = %d, want 0", got)
	}
}

func TestGoneWidgetHasZeroSize(t *testing.T) {
	w := New("w", 40, 30)
	w.Visibility = Gone
	if w.Width() != 0 || w.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", w.Width(), w.Height())
	}
	if w.DeclaredWidth() != 40 {
		t.Errorf("DeclaredWidth = %d, want 40", w.DeclaredWidth())
	}
	if w.MeasureRequested() {
		t.Error("gone widget should never request a measure")
	}
}

func TestLimitedDimension(t *testing.T) {
	tests := []struct {
		name     string
		behavior DimensionBehaviour
		min, max int
		in, want int
	}{
		{"unbounded", MatchConstraint, 0, 0, 120, 120},
		{"raised to min", MatchConstraint, 50, 0, 20, 50},
		{"capped at max", MatchConstraint, 0, 80, 120, 80},
		{"inside bounds", MatchConstraint, 10, 200, 120, 120},
		{"wrap bounds", WrapContent, 30, 60, 90, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New("w", 0, 0)
			w.Dimension[Horizontal] = tt.behavior
			if tt.behavior == MatchConstraint {
				w.MatchMin[Horizontal], w.MatchMax[Horizontal] = tt.min, tt.max
			} else {
				w.MinWidth, w.MaxWidth = tt.min, tt.max
			}
			if got := w.LimitedDimension(Horizontal, tt.in); got != tt.want {
				t.Errorf("LimitedDimension(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestSetFinalIsSingleAssignment(t *testing.T) {
	w := New("w", 10, 10)
	w.SetFinalHorizontal(5, 25)
	w.SetFinalHorizontal(100, 200)
	if w.X() != 5 || w.Width() != 20 {
		t.Errorf("frame = %v, want x=5 width=20", w)
	}
	if !w.IsResolved(Horizontal) {
		t.Error("IsResolved(Horizontal) = false")
	}
	w.ResetFinalResolution()
	if w.IsResolved(Horizontal) || w.Anchor(AnchorLeft).HasFinalValue() {
		t.Error("ResetFinalResolution left state behind")
	}
}

func TestResetRestoresDeclaredSize(t *testing.T) {
	w := New("w", 50, 20)
	w.Visibility = Gone
	w.SetFinalHorizontal(10, 10)
	w.SetFinalVertical(5, 5)
	if w.DeclaredWidth() != 50 || w.DeclaredHeight() != 20 {
		t.Errorf("declared = %dx%d after resolving, want 50x20", w.DeclaredWidth(), w.DeclaredHeight())
	}

	w.ResetFinalResolution()
	w.Visibility = Visible
	if w.Width() != 50 || w.Height() != 20 {
		t.Errorf("size after reset = %dx%d, want 50x20", w.Width(), w.Height())
	}

	w.SetDeclaredSize(70, 30)
	w.SetFinalHorizontal(0, 100)
	w.ResetFinalResolution()
	if w.Width() != 70 || w.Height() != 30 {
		t.Errorf("size after SetDeclaredSize = %dx%d, want 70x30", w.Width(), w.Height())
	}
}

func TestParse(t *testing.T) {
	if a, err := ParseAnchorType("Center_X"); err != nil || a != AnchorCenterX {
		t.Errorf("ParseAnchorType = %v, %v", a, err)
	}
	if _, err := ParseAnchorType("middle"); !errors.Is(err, ErrUnknownAnchor) {
		t.Errorf("ParseAnchorType(middle) error = %v", err)
	}
	if b, err := ParseDimensionBehaviour("0dp"); err != nil || b != MatchConstraint {
		t.Errorf("ParseDimensionBehaviour = %v, %v", b, err)
	}
	if ParseBarrierType("diagonal") != BarrierInvalid {
		t.Error("unknown barrier side should be invalid")
	}
}

func TestContainerAdd(t *testing.T) {
	c := NewContainer("root", 100, 100)
	a := New("a", 10, 10)
	if err := c.Add(a); err != nil {
		t.Fatal(err)
	}
	if a.Parent() != c {
		t.Error("parent not set")
	}
	if err := c.Add(New("a", 1, 1)); !errors.Is(err, ErrDuplicateChild) {
		t.Errorf("duplicate Add error = %v", err)
	}
	if w, ok := c.Lookup("root"); !ok || w != c.Widget {
		t.Error("Lookup(root) should return the container widget")
	}
}
