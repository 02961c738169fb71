// Package pkg provides the core libraries for anchorlayout.
//
// # Overview
//
// Anchorlayout resolves the frames of widgets laid out by anchor
// connections: each side of a widget is tied to a side of its parent, a
// sibling, a guideline or a barrier, and the engine works out positions and
// sizes without a general constraint solver whenever it can. The pkg
// directory is organized into three areas:
//
//  1. Model: [widget] (widgets, anchors, chains, helpers), [measure]
//     (intrinsic sizes) and [dependency] (the single-assignment node every
//     solved value flows through)
//  2. Solving: [analyzer] (runs, the dependency graph and the direct pass),
//     [solver] (the linear-system fallback) and [layout] (the engine that
//     orders them)
//  3. Plumbing: [document] (TOML/JSON documents and frame export),
//     [pipeline] (cached solve and export), [cache], [render/dot],
//     [observability], [errors] and [buildinfo]
//
// # Architecture
//
// The data flow for one document:
//
//	TOML / JSON document
//	         ↓
//	    [document] package (widget tree + measure table)
//	         ↓
//	    [layout] package: direct pass → dependency graph → solver fallback
//	         ↓
//	    frames (JSON / TOML), or a DOT / SVG dependency graph
//
// # Quick Start
//
//	doc, err := document.Load("dialog.toml")
//	if err != nil {
//	    return err
//	}
//	c, table, err := document.Build(doc)
//	if err != nil {
//	    return err
//	}
//	engine, err := layout.New(layout.Options{Measurer: table})
//	if err != nil {
//	    return err
//	}
//	res, err := engine.Solve(ctx, c)
//	if err != nil {
//	    return err
//	}
//	for _, f := range res.Frames {
//	    fmt.Println(f.ID, f.X, f.Y, f.Width, f.Height)
//	}
//
// The CLI and the HTTP service go through [pipeline.Runner], which adds
// content-addressed caching on top of these calls.
package pkg
