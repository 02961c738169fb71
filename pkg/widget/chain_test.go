package widget

import "testing"

// chainOf builds a horizontal chain of n widgets of the given width between
// the container's edges.
func chainOf(t *testing.T, n, width int) (*Container, []*Widget) {
	t.Helper()
	c := NewContainer("root", 300, 100)
	ws := make([]*Widget, n)
	for i := range ws {
		ws[i] = New(string(rune('a'+i)), width, 20)
		if err := c.Add(ws[i]); err != nil {
			t.Fatal(err)
		}
	}
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ws[0].Connect(AnchorLeft, c.Widget, AnchorLeft, 0))
	for i := 1; i < n; i++ {
		must(ws[i-1].Connect(AnchorRight, ws[i], AnchorLeft, 0))
		must(ws[i].Connect(AnchorLeft, ws[i-1], AnchorRight, 0))
	}
	must(ws[n-1].Connect(AnchorRight, c.Widget, AnchorRight, 0))
	return c, ws
}

func TestChainLinks(t *testing.T) {
	_, ws := chainOf(t, 3, 50)

	if !ws[1].InChain(Horizontal) {
		t.Error("middle widget should be in a chain")
	}
	if ws[1].InChain(Vertical) {
		t.Error("no vertical chain expected")
	}
	if got := ws[0].PreviousInChain(Horizontal); got != nil {
		t.Errorf("first.Previous = %v, want nil", got)
	}
	if got := ws[0].NextInChain(Horizontal); got != ws[1] {
		t.Errorf("first.Next = %v, want %v", got, ws[1])
	}
	if got := ws[2].ChainFirst(Horizontal); got != ws[0] {
		t.Errorf("ChainFirst = %v, want %v", got, ws[0])
	}
}

func TestChainHead(t *testing.T) {
	_, ws := chainOf(t, 3, 50)
	ws[1].Anchor(AnchorLeft).Margin = 10
	ws[2].Dimension[Horizontal] = MatchConstraint
	ws[2].Weight[Horizontal] = 2

	h := NewChainHead(ws[1], Horizontal)
	if h.First != ws[0] || h.Last != ws[2] {
		t.Fatalf("first/last = %v/%v", h.First, h.Last)
	}
	if len(h.Members) != 3 || h.VisibleCount != 3 {
		t.Errorf("members = %d visible = %d, want 3/3", len(h.Members), h.VisibleCount)
	}
	if h.TotalSize != 110 {
		t.Errorf("TotalSize = %d, want 110", h.TotalSize)
	}
	if len(h.MatchConstraints) != 1 || h.TotalWeight != 2 {
		t.Errorf("match constraints = %d weight = %v", len(h.MatchConstraints), h.TotalWeight)
	}
}

func TestChainHeadSkipsGoneMembers(t *testing.T) {
	_, ws := chainOf(t, 3, 50)
	ws[0].Visibility = Gone

	h := NewChainHead(ws[0], Horizontal)
	if h.VisibleCount != 2 || h.FirstVisible != ws[1] {
		t.Errorf("visible = %d first visible = %v", h.VisibleCount, h.FirstVisible)
	}
	if h.TotalSize != 100 {
		t.Errorf("TotalSize = %d, want 100", h.TotalSize)
	}
}

func TestGuidelinePosition(t *testing.T) {
	g := NewGuideline("g", Horizontal)
	g.SetPercent(0.25)
	if got := g.Position(400); got != 100 {
		t.Errorf("Position = %d, want 100", got)
	}
	g.SetEnd(30)
	if got := g.Position(400); got != 370 {
		t.Errorf("Position = %d, want 370", got)
	}
	if g.Axis() != Vertical {
		t.Error("horizontal guideline should position y")
	}
}

func TestBarrierExtreme(t *testing.T) {
	a := New("a", 100, 10)
	b := New("b", 200, 10)
	a.SetFinalHorizontal(0, 100)
	b.SetFinalHorizontal(0, 200)

	bar := NewBarrier("bar", BarrierRight, 10, a, b)
	if !bar.AllSolved() {
		t.Fatal("AllSolved = false")
	}
	if got, ok := bar.Extreme(); !ok || got != 210 {
		t.Errorf("Extreme = %d, %v, want 210", got, ok)
	}

	b.Visibility = Gone
	if got, _ := bar.Extreme(); got != 110 {
		t.Errorf("Extreme with gone ref = %d, want 110", got)
	}
	bar.AllowsGoneWidget = true
	if got, _ := bar.Extreme(); got != 210 {
		t.Errorf("Extreme allowing gone = %d, want 210", got)
	}
}
