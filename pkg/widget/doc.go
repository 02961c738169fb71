// Package widget defines the constraint model solved by anchorlayout: widgets,
// their anchors, and the helper widgets (guidelines and barriers) that
// position other widgets.
//
// # Overview
//
// A [Widget] is a rectangle with eight anchors ([AnchorLeft], [AnchorTop],
// [AnchorRight], [AnchorBottom], [AnchorBaseline] and the three center
// anchors). An anchor may be connected to exactly one anchor of another
// widget with a margin; the connection reads "my left edge sits Margin
// pixels after that anchor". Widgets live inside a [Container], which is
// itself a widget and serves as the parent of every child.
//
//	root := widget.NewContainer("root", 400, 300)
//	title := widget.New("title", 100, 40)
//	root.Add(title)
//	title.Connect(widget.AnchorLeft, root.Widget, widget.AnchorLeft, 16)
//	title.Connect(widget.AnchorTop, root.Widget, widget.AnchorTop, 16)
//
// # Dimensions
//
// Each axis carries a [DimensionBehaviour]:
//
//   - [Fixed]: the declared size is used as is
//   - [WrapContent]: the size comes from the measurer (intrinsic content)
//   - [MatchParent]: the widget fills its parent minus its margins
//   - [MatchConstraint]: the size is derived from the constraints, refined by
//     a [MatchConstraintDefault] (spread, wrap, percent or ratio)
//
// # Chains
//
// Two widgets whose facing anchors target each other (A.right to B.left and
// B.left to A.right) form a chain. [Widget.InChain], [Widget.PreviousInChain]
// and [Widget.NextInChain] expose the links, and [NewChainHead] collects the
// members together with the totals needed to distribute free space.
//
// # Final values
//
// The anchor-level solving pass records resolved coordinates directly on
// anchors through [Anchor.SetFinalValue] and on widgets through
// [Widget.SetFinalHorizontal] and [Widget.SetFinalVertical]. Call
// [Container.ResetFinalResolution] before every pass.
//
// # Concurrency
//
// Widgets are not safe for concurrent use. A widget tree is mutated by one
// layout pass at a time.
package widget
