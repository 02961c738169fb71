// Package layout runs the resolution stages over a widget tree.
//
// An [Engine] resolves a [widget.Container] in up to three stages, stopping
// at the first that resolves every widget:
//
//  1. direct: anchor-level propagation from the container edges
//     ([analyzer.Direct]). Cheap, but gives up on WRAP_CONTENT containers,
//     chains with MATCH_CONSTRAINT members and anything depending on them.
//  2. graph: run-level dependency propagation ([analyzer.DependencyGraph])
//     with optional wrap computation of the container size.
//  3. solver: the axes still unresolved are emitted into a
//     [solver.LinearSystem]; resolved axes are pinned at FIXED strength.
//
// # Usage
//
//	eng, err := layout.New(layout.Options{Measurer: table})
//	if err != nil {
//	    return err
//	}
//	res, err := eng.Solve(ctx, root)
//	for _, f := range res.Frames {
//	    fmt.Println(f.ID, f.X, f.Y, f.Width, f.Height)
//	}
//
// An engine holds no per-solve state; one engine may solve many containers
// concurrently as long as each container is solved by one goroutine at a
// time.
package layout
