// Package analyzer resolves widget geometry without a general constraint
// solver.
//
// # Overview
//
// Two complementary passes live here:
//
//   - [Direct] walks anchor connections outward from the container edges,
//     guidelines and barriers, recording final coordinates directly on
//     anchors. It handles one-sided and centered connections, spread
//     MATCH_CONSTRAINT widgets and fully fixed chains.
//   - [DependencyGraph] builds a graph of [dependency.Node] values (start,
//     end and dimension of every widget on every axis), seeds the container
//     edges and lets values propagate. It adds ratio, percent and wrap
//     sizing, weighted chains, baselines and WRAP_CONTENT container sizing
//     through [RunGroup].
//
// Both passes are deterministic and single threaded. Neither fails: when a
// value cannot be derived it simply stays unresolved, and the caller falls
// back to a linear solver for what is left.
//
// # Runs
//
// A [Run] groups the nodes of one widget on one axis. The variants are
// [HorizontalRun], [VerticalRun] (which adds a baseline node), [ChainRun]
// (the single writer of its members' positions), [GuidelineReference] and
// [HelperReferences] (barriers). The interface is sealed; switch on the
// concrete types.
//
// # Rounding
//
// Every fractional position or size is rounded as int(0.5 + x), which
// truncates toward zero. Biases, percentages and ratios all go through this
// rule, so results are reproducible bit for bit.
package analyzer
