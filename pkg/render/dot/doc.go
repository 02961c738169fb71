// Package dot exports the dependency graph of a layout as Graphviz DOT and
// renders it to SVG.
//
// Every run becomes a cluster holding its start, end and dimension nodes
// (plus the baseline node of vertical runs). Edges point from a target to
// the node computed from it and carry the margin. Resolved nodes are
// filled; unresolved nodes are outlined in red, which makes a stalled
// propagation easy to trace.
//
//	g := analyzer.NewDependencyGraph(root, table)
//	g.DirectMeasure(true)
//	src := dot.ToDOT(g, dot.Options{Detailed: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package dot
