package analyzer

import (
	"testing"

	"github.com/matzehuels/anchorlayout/pkg/measure"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// chain builds a horizontal chain of n widgets of the given width between
// the edges of a 300x100 container.
func chain(t *testing.T, n, width int) (*widget.Container, []*widget.Widget) {
	t.Helper()
	c := widget.NewContainer("root", 300, 100)
	ws := make([]*widget.Widget, n)
	for i := range ws {
		ws[i] = widget.New(string(rune('a'+i)), width, 20)
		must(t, c.Add(ws[i]))
	}
	must(t, ws[0].Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 0))
	for i := 1; i < n; i++ {
		must(t, ws[i-1].Connect(widget.AnchorRight, ws[i], widget.AnchorLeft, 0))
		must(t, ws[i].Connect(widget.AnchorLeft, ws[i-1], widget.AnchorRight, 0))
	}
	must(t, ws[n-1].Connect(widget.AnchorRight, c.Widget, widget.AnchorRight, 0))
	return c, ws
}

type solveFunc func(t *testing.T, c *widget.Container) bool

// passes runs a test against both resolution strategies.
var passes = map[string]solveFunc{
	"direct": func(t *testing.T, c *widget.Container) bool {
		c.ResetFinalResolution()
		c.ResetMeasures()
		return NewDirect(measure.NewTable(nil)).SolvingPass(c)
	},
	"graph": func(t *testing.T, c *widget.Container) bool {
		return NewDependencyGraph(c, measure.NewTable(nil)).DirectMeasure(true)
	},
}

func xs(ws []*widget.Widget) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = w.X()
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestChainStyles(t *testing.T) {
	tests := []struct {
		name  string
		style widget.ChainStyle
		bias  float64
		want  []int
	}{
		{"spread", widget.ChainSpread, 0.5, []int{38, 126, 214}},
		{"spread inside", widget.ChainSpreadInside, 0.5, []int{0, 125, 250}},
		{"packed", widget.ChainPacked, 0.5, []int{75, 125, 175}},
		{"packed start", widget.ChainPacked, 0, []int{0, 50, 100}},
		{"packed end", widget.ChainPacked, 1, []int{150, 200, 250}},
	}
	for name, solve := range passes {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				c, ws := chain(t, 3, 50)
				ws[0].ChainStyle[widget.Horizontal] = tt.style
				ws[0].Bias[widget.Horizontal] = tt.bias
				if !solve(t, c) {
					t.Fatalf("unresolved: %v", c.Unresolved())
				}
				if got := xs(ws); !equalInts(got, tt.want) {
					t.Errorf("x = %v, want %v", got, tt.want)
				}
				for _, w := range ws {
					if w.Width() != 50 {
						t.Errorf("%s width = %d, want 50", w.ID, w.Width())
					}
				}
			})
		}
	}
}

func TestChainSpreadConservesSpace(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c, ws := chain(t, 3, 50)
			solve(t, c)
			// 150/4 = 37.5 rounds to 38; the remainder trails the last member.
			var gaps []int
			prev := 0
			for _, w := range ws {
				gaps = append(gaps, w.X()-prev)
				prev = w.X() + w.Width()
			}
			gaps = append(gaps, 300-prev)
			if !equalInts(gaps, []int{38, 38, 38, 36}) {
				t.Errorf("gaps = %v, want [38 38 38 36]", gaps)
			}
			total := 0
			for i, g := range gaps {
				total += g
				if i < len(ws) {
					total += ws[i].Width()
				}
			}
			if total != 300 {
				t.Errorf("gaps + widths = %d, want 300", total)
			}
		})
	}
}

func TestSpreadGap(t *testing.T) {
	tests := []struct {
		free, visible, want int
	}{
		{150, 3, 38},
		{152, 3, 38},
		{148, 3, 37},
		{0, 2, 0},
		{3, 4, 0},
		{9, 4, 2},
	}
	for _, tt := range tests {
		if got := spreadGap(tt.free, tt.visible); got != tt.want {
			t.Errorf("spreadGap(%d, %d) = %d, want %d", tt.free, tt.visible, got, tt.want)
		}
	}
}

func TestChainMatchConstraintWeights(t *testing.T) {
	c, ws := chain(t, 3, 50)
	ws[1].Dimension[widget.Horizontal] = widget.MatchConstraint
	ws[2].Dimension[widget.Horizontal] = widget.MatchConstraint
	ws[1].Weight[widget.Horizontal] = 1
	ws[2].Weight[widget.Horizontal] = 3

	g := NewDependencyGraph(c, measure.NewTable(nil))
	if !g.DirectMeasure(true) {
		t.Fatalf("unresolved: %v", g.Unresolved())
	}
	if got := []int{ws[0].Width(), ws[1].Width(), ws[2].Width()}; !equalInts(got, []int{50, 63, 187}) {
		t.Errorf("widths = %v, want [50 63 187]", got)
	}
	if got := xs(ws); !equalInts(got, []int{0, 50, 113}) {
		t.Errorf("x = %v, want [0 50 113]", got)
	}
}

func TestChainGoneMember(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c, ws := chain(t, 3, 50)
			ws[1].Visibility = widget.Gone
			ws[0].ChainStyle[widget.Horizontal] = widget.ChainPacked
			if !solve(t, c) {
				t.Fatalf("unresolved: %v", c.Unresolved())
			}
			if got := xs(ws); !equalInts(got, []int{100, 150, 150}) {
				t.Errorf("x = %v, want [100 150 150]", got)
			}
			if ws[1].Width() != 0 {
				t.Errorf("gone width = %d", ws[1].Width())
			}
		})
	}
}

func TestMarginArithmetic(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c := widget.NewContainer("root", 300, 100)
			a := widget.New("a", 40, 20)
			b := widget.New("b", 30, 20)
			r := widget.New("r", 50, 20)
			must(t, c.Add(a, b, r))
			must(t, a.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 16))
			must(t, a.Connect(widget.AnchorTop, c.Widget, widget.AnchorTop, 4))
			must(t, b.Connect(widget.AnchorLeft, a, widget.AnchorRight, 8))
			must(t, b.Connect(widget.AnchorTop, a, widget.AnchorBottom, 2))
			must(t, r.Connect(widget.AnchorRight, c.Widget, widget.AnchorRight, 10))
			must(t, r.Connect(widget.AnchorBottom, c.Widget, widget.AnchorBottom, 5))

			if !solve(t, c) {
				t.Fatalf("unresolved: %v", c.Unresolved())
			}
			frames := []struct {
				w    *widget.Widget
				x, y int
			}{{a, 16, 4}, {b, 64, 26}, {r, 240, 75}}
			for _, f := range frames {
				if f.w.X() != f.x || f.w.Y() != f.y {
					t.Errorf("%s at (%d,%d), want (%d,%d)", f.w.ID, f.w.X(), f.w.Y(), f.x, f.y)
				}
			}
		})
	}
}

func TestCenteredWithBias(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c := widget.NewContainer("root", 300, 100)
			w := widget.New("w", 100, 20)
			must(t, c.Add(w))
			must(t, w.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 0))
			must(t, w.Connect(widget.AnchorRight, c.Widget, widget.AnchorRight, 0))
			must(t, w.Connect(widget.AnchorCenterY, c.Widget, widget.AnchorCenterY, 0))
			w.Bias[widget.Horizontal] = 0.3

			if !solve(t, c) {
				t.Fatalf("unresolved: %v", c.Unresolved())
			}
			if w.X() != 60 || w.Y() != 40 {
				t.Errorf("w at (%d,%d), want (60,40)", w.X(), w.Y())
			}
		})
	}
}

func TestBarrier(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c := widget.NewContainer("root", 400, 100)
			a := widget.New("a", 100, 20)
			b := widget.New("b", 200, 20)
			bar := widget.NewBarrier("bar", widget.BarrierRight, 10, a, b)
			d := widget.New("d", 50, 20)
			must(t, c.Add(a, b, bar.Widget, d))
			must(t, a.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 0))
			must(t, b.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 0))
			must(t, d.Connect(widget.AnchorLeft, bar.Widget, widget.AnchorRight, 0))

			if !solve(t, c) {
				t.Fatalf("unresolved: %v", c.Unresolved())
			}
			if bar.X() != 210 {
				t.Errorf("barrier x = %d, want 210", bar.X())
			}
			if d.X() != 210 {
				t.Errorf("d x = %d, want 210", d.X())
			}
		})
	}
}

func TestGuidelinePercent(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c := widget.NewContainer("root", 300, 400)
			gl := widget.NewGuideline("gl", widget.Horizontal)
			gl.SetPercent(0.25)
			w := widget.New("w", 50, 20)
			must(t, c.Add(gl.Widget, w))
			must(t, w.Connect(widget.AnchorTop, gl.Widget, widget.AnchorTop, 0))

			if !solve(t, c) {
				t.Fatalf("unresolved: %v", c.Unresolved())
			}
			if gl.Y() != 100 || w.Y() != 100 {
				t.Errorf("guideline y = %d, w y = %d, want 100", gl.Y(), w.Y())
			}
		})
	}
}

func TestGuidelineCenterAnchor(t *testing.T) {
	for name, solve := range passes {
		t.Run(name, func(t *testing.T) {
			c := widget.NewContainer("root", 300, 400)
			vg := widget.NewGuideline("vg", widget.Vertical)
			vg.SetBegin(100)
			hg := widget.NewGuideline("hg", widget.Horizontal)
			hg.SetEnd(100)
			w := widget.New("w", 50, 20)
			must(t, c.Add(vg.Widget, hg.Widget, w))
			must(t, w.Connect(widget.AnchorLeft, vg.Widget, widget.AnchorCenterX, 20))
			must(t, w.Connect(widget.AnchorTop, hg.Widget, widget.AnchorCenterY, 0))

			if !solve(t, c) {
				t.Fatalf("unresolved: %v", c.Unresolved())
			}
			if w.X() != 120 || w.Y() != 300 {
				t.Errorf("w at (%d,%d), want (120,300)", w.X(), w.Y())
			}
		})
	}
}

func TestGoneCollapse(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, c *widget.Container, g *widget.Widget)
		wantX int
	}{
		{"fixed", func(*testing.T, *widget.Container, *widget.Widget) {}, 60},
		{"wrap content", func(_ *testing.T, _ *widget.Container, g *widget.Widget) {
			g.Dimension[widget.Horizontal] = widget.WrapContent
			g.Dimension[widget.Vertical] = widget.WrapContent
		}, 60},
		{"match parent", func(_ *testing.T, _ *widget.Container, g *widget.Widget) {
			g.Dimension[widget.Horizontal] = widget.MatchParent
			g.Dimension[widget.Vertical] = widget.MatchParent
		}, 60},
		// Both edges connected: the zero-size point is centered between
		// 60 and 300.
		{"match constraint", func(t *testing.T, c *widget.Container, g *widget.Widget) {
			g.Dimension[widget.Horizontal] = widget.MatchConstraint
			must(t, g.Connect(widget.AnchorRight, c.Widget, widget.AnchorRight, 0))
		}, 180},
	}
	for name, solve := range passes {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				c := widget.NewContainer("root", 300, 100)
				a := widget.New("a", 50, 20)
				g := widget.New("g", 40, 20)
				b := widget.New("b", 30, 20)
				must(t, c.Add(a, g, b))
				must(t, a.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 10))
				must(t, g.Connect(widget.AnchorLeft, a, widget.AnchorRight, 20))
				must(t, b.Connect(widget.AnchorLeft, g, widget.AnchorRight, 5))
				b.Anchor(widget.AnchorLeft).SetGoneMargin(8)
				tt.setup(t, c, g)
				g.Visibility = widget.Gone

				if !solve(t, c) {
					t.Fatalf("unresolved: %v", c.Unresolved())
				}
				if g.Width() != 0 || g.Height() != 0 {
					t.Errorf("gone size = %dx%d, want 0x0", g.Width(), g.Height())
				}
				if g.X() != tt.wantX {
					t.Errorf("gone x = %d, want %d", g.X(), tt.wantX)
				}
				if b.X() != tt.wantX+8 {
					t.Errorf("b x = %d, want %d", b.X(), tt.wantX+8)
				}
			})
		}
	}
}

func TestDirectIsIdempotent(t *testing.T) {
	c, ws := chain(t, 3, 50)
	tbl := measure.NewTable(nil)
	d := NewDirect(tbl)
	c.ResetFinalResolution()
	c.ResetMeasures()
	if !d.SolvingPass(c) {
		t.Fatal("first pass unresolved")
	}
	first, calls := xs(ws), tbl.Calls()

	if !d.SolvingPass(c) {
		t.Fatal("second pass unresolved")
	}
	if got := xs(ws); !equalInts(got, first) {
		t.Errorf("second pass moved widgets: %v, want %v", got, first)
	}
	if tbl.Calls() != calls {
		t.Errorf("second pass measured %d more times", tbl.Calls()-calls)
	}
}

func TestGraphRatio(t *testing.T) {
	c := widget.NewContainer("root", 300, 100)
	w := widget.New("w", 0, 50)
	w.Dimension[widget.Horizontal] = widget.MatchConstraint
	w.MatchDefault[widget.Horizontal] = widget.MatchRatio
	w.Ratio = 2
	must(t, c.Add(w))
	must(t, w.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 0))

	g := NewDependencyGraph(c, measure.NewTable(nil))
	if !g.DirectMeasure(true) {
		t.Fatalf("unresolved: %v", g.Unresolved())
	}
	if w.Width() != 100 || w.Height() != 50 {
		t.Errorf("w = %dx%d, want 100x50", w.Width(), w.Height())
	}
}

func TestGraphPercent(t *testing.T) {
	c := widget.NewContainer("root", 300, 100)
	w := widget.New("w", 0, 20)
	w.Dimension[widget.Horizontal] = widget.MatchConstraint
	w.MatchDefault[widget.Horizontal] = widget.MatchPercent
	w.MatchPercent[widget.Horizontal] = 0.5
	must(t, c.Add(w))
	must(t, w.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 0))
	must(t, w.Connect(widget.AnchorRight, c.Widget, widget.AnchorRight, 0))

	g := NewDependencyGraph(c, measure.NewTable(nil))
	if !g.DirectMeasure(true) {
		t.Fatalf("unresolved: %v", g.Unresolved())
	}
	if w.X() != 75 || w.Width() != 150 {
		t.Errorf("w x = %d width = %d, want 75/150", w.X(), w.Width())
	}
}

func TestGraphWrapContainer(t *testing.T) {
	c := widget.NewContainer("root", 0, 100)
	c.Dimension[widget.Horizontal] = widget.WrapContent
	a := widget.New("a", 80, 20)
	must(t, c.Add(a))
	must(t, a.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 10))
	must(t, a.Connect(widget.AnchorRight, c.Widget, widget.AnchorRight, 10))

	c.ResetFinalResolution()
	if NewDirect(nil).SolvingPass(c) {
		t.Fatal("direct pass cannot size a wrap container")
	}

	g := NewDependencyGraph(c, measure.NewTable(nil))
	if !g.DirectMeasure(true) {
		t.Fatalf("unresolved: %v", g.Unresolved())
	}
	if c.Width() != 100 || a.X() != 10 {
		t.Errorf("container width = %d, a x = %d, want 100/10", c.Width(), a.X())
	}

	g = NewDependencyGraph(c, measure.NewTable(nil))
	if g.DirectMeasure(false) {
		t.Error("wrap container resolved without wrap optimization")
	}
}

func TestGraphBaseline(t *testing.T) {
	tbl := measure.NewTable(map[string]measure.Size{
		"a": {Width: 60, Height: 30, Baseline: 15},
		"b": {Width: 40, Height: 20, Baseline: 5},
	})
	c := widget.NewContainer("root", 300, 100)
	a := widget.New("a", 0, 0)
	b := widget.New("b", 0, 0)
	for _, w := range []*widget.Widget{a, b} {
		w.Dimension = [2]widget.DimensionBehaviour{widget.WrapContent, widget.WrapContent}
		w.HasBaseline = true
	}
	must(t, c.Add(a, b))
	must(t, a.Connect(widget.AnchorTop, c.Widget, widget.AnchorTop, 10))
	must(t, b.Connect(widget.AnchorBaseline, a, widget.AnchorBaseline, 0))

	g := NewDependencyGraph(c, tbl)
	if !g.DirectMeasure(true) {
		t.Fatalf("unresolved: %v", g.Unresolved())
	}
	if b.Y() != 20 {
		t.Errorf("b y = %d, want 20", b.Y())
	}
	if got := g.VerticalRun(b).Baseline().Value(); got != 25 {
		t.Errorf("b baseline = %d, want 25", got)
	}
}

func TestGraphRuns(t *testing.T) {
	c, _ := chain(t, 3, 50)
	g := NewDependencyGraph(c, nil)
	g.BuildGraph()

	var chains, widgets int
	for _, r := range g.Runs() {
		switch r.(type) {
		case *ChainRun:
			chains++
		case *HorizontalRun, *VerticalRun:
			widgets++
		}
	}
	// The container's two runs plus one vertical run per member.
	if chains != 1 || widgets != 5 {
		t.Errorf("chains = %d widget runs = %d, want 1/5", chains, widgets)
	}
}

func TestInsetRatio(t *testing.T) {
	tests := []struct {
		name         string
		dx, dy       int
		ratio        float64
		side         widget.RatioSide
		wantW, wantH int
	}{
		{"height bound", 400, 100, 2, widget.RatioUnknown, 200, 100},
		{"width bound", 100, 400, 2, widget.RatioUnknown, 100, 50},
		{"width side", 400, 100, 2, widget.RatioWidth, 200, 100},
		{"height side", 400, 100, 2, widget.RatioHeight, 400, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := insetRatio(tt.dx, tt.dy, tt.ratio, tt.side)
			if !ok || w != tt.wantW || h != tt.wantH {
				t.Errorf("insetRatio = %d, %d, %v, want %d, %d", w, h, ok, tt.wantW, tt.wantH)
			}
		})
	}
}
