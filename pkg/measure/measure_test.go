package measure

import (
	"testing"

	"github.com/matzehuels/anchorlayout/pkg/widget"
)

func TestTableMeasure(t *testing.T) {
	tbl := NewTable(map[string]Size{"label": {Width: 80, Height: 20, Baseline: 15}})
	label := widget.New("label", 0, 0)

	tests := []struct {
		name  string
		spec  Spec
		wantW int
		wantH int
	}{
		{"wrap both", Spec{Horizontal: widget.WrapContent, Vertical: widget.WrapContent}, 80, 20},
		{"fixed width", Spec{Horizontal: widget.Fixed, Width: 120, Vertical: widget.WrapContent}, 120, 20},
		{"match constraint given", Spec{Horizontal: widget.MatchConstraint, Width: 200, Vertical: widget.WrapContent}, 200, 20},
		{"match constraint unknown", Spec{Horizontal: widget.MatchConstraint, Vertical: widget.WrapContent}, 80, 20},
		{"use given", Spec{Horizontal: widget.WrapContent, Width: 5, Vertical: widget.WrapContent, Height: 6, Strategy: UseGivenDimensions}, 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tbl.Measure(label, tt.spec)
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("Measure() = %dx%d, want %dx%d", got.Width, got.Height, tt.wantW, tt.wantH)
			}
			if !got.HasBaseline || got.Baseline != 15 {
				t.Errorf("baseline = %v/%d, want true/15", got.HasBaseline, got.Baseline)
			}
		})
	}
	if tbl.Calls() != len(tests) {
		t.Errorf("Calls() = %d, want %d", tbl.Calls(), len(tests))
	}
}

func TestTableFallsBackToDeclaredSize(t *testing.T) {
	tbl := NewTable(nil)
	w := widget.New("w", 30, 40)
	got := tbl.Measure(w, Spec{Horizontal: widget.WrapContent, Vertical: widget.WrapContent})
	if got.Width != 30 || got.Height != 40 || got.HasBaseline {
		t.Errorf("Measure() = %+v, want 30x40 without baseline", got)
	}
}
