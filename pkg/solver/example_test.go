package solver_test

import (
	"fmt"

	"github.com/matzehuels/anchorlayout/pkg/solver"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

func ExampleRecorder() {
	c := widget.NewContainer("root", 200, 100)
	w := widget.New("w", 50, 20)
	_ = c.Add(w)
	_ = w.Connect(widget.AnchorLeft, c.Widget, widget.AnchorLeft, 10)

	rec := solver.NewRecorder(nil)
	solver.Build(rec, c, func(x *widget.Widget, o widget.Orientation) bool {
		return x != w || o == widget.Vertical
	})
	_ = rec.Minimize()

	fmt.Println(rec.ObjectVariableValue(w.Anchor(widget.AnchorLeft)), rec.ObjectVariableValue(w.Anchor(widget.AnchorRight)))
	// Output: 10 60
}
