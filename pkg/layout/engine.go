package layout

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/anchorlayout/pkg/analyzer"
	"github.com/matzehuels/anchorlayout/pkg/observability"
	"github.com/matzehuels/anchorlayout/pkg/solver"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Engine resolves widget trees. See the package documentation for the
// stage order.
type Engine struct {
	opts Options
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	return &Engine{opts: opts}, nil
}

// Options returns the engine configuration with defaults applied.
func (e *Engine) Options() Options { return e.opts }

// Solve resets c and runs the enabled stages until every widget is
// resolved. The context is checked between stages; a stage itself runs to
// completion. The only errors are cancellation and solver failures.
func (e *Engine) Solve(ctx context.Context, c *widget.Container) (*Result, error) {
	start := time.Now()
	hooks := observability.Layout()
	hooks.OnSolveStart(ctx, c.ID, len(c.Children()))

	res, err := e.solve(ctx, c)
	duration := time.Since(start)

	stage := ""
	if res != nil {
		stage = res.Stage
		res.Stats.Duration = duration
	}
	hooks.OnSolveComplete(ctx, c.ID, stage, duration, err)
	if err != nil {
		e.opts.Logger.Debug("solve failed", "container", c.ID, "err", err)
		return nil, err
	}
	e.opts.Logger.Debug("solved layout",
		"container", c.ID,
		"widgets", res.Stats.Widgets,
		"stage", res.Stage,
		"resolved", res.Resolved,
		"duration", duration)
	return res, nil
}

func (e *Engine) solve(ctx context.Context, c *widget.Container) (*Result, error) {
	c.ResetFinalResolution()
	c.ResetMeasures()

	res := &Result{Stats: Stats{Widgets: len(c.Children())}}
	resolved := func(w *widget.Widget, o widget.Orientation) bool { return w.IsResolved(o) }

	if !e.opts.DisableDirect {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		d := analyzer.NewDirect(e.opts.Measurer)
		ok := d.SolvingPass(c)
		res.Stats.DirectTime = time.Since(t)
		res.Stats.Measures += d.Measures()
		e.stageDone(ctx, res, StageDirect, ok, d.Measures(), res.Stats.DirectTime)
		if ok {
			return e.finish(res, c, nil), nil
		}
		res.Unresolved = directUnresolved(c)
	}

	if !e.opts.DisableGraph {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		g := analyzer.NewDependencyGraph(c, e.opts.Measurer)
		ok := g.DirectMeasure(!e.opts.DisableWrapOptimization)
		res.Stats.GraphTime = time.Since(t)
		res.Stats.Measures += g.Measures()
		e.stageDone(ctx, res, StageGraph, ok, g.Measures(), res.Stats.GraphTime)
		if ok {
			res.Unresolved = nil
			return e.finish(res, c, nil), nil
		}
		res.Unresolved = g.Unresolved()
		resolved = g.IsResolved
	}

	if e.opts.DisableSolver {
		return e.finish(res, c, res.Unresolved), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Stage == "" {
		res.Unresolved = directUnresolved(c)
	}

	// A container with a declared size is never left to the solver.
	pinned := func(w *widget.Widget, o widget.Orientation) bool {
		if w == c.Widget && c.Dimension[o] != widget.WrapContent {
			return true
		}
		return resolved(w, o)
	}
	t := time.Now()
	sys := e.opts.Solver()
	res.Stats.SolverAxes = solver.Build(sys, c, pinned)
	if err := sys.Minimize(); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	solver.Apply(sys, c, pinned)
	res.Stats.SolverTime = time.Since(t)
	e.stageDone(ctx, res, StageSolver, true, 0, res.Stats.SolverTime)
	return e.finish(res, c, nil), nil
}

func (e *Engine) stageDone(ctx context.Context, res *Result, stage string, ok bool, measures int, d time.Duration) {
	res.Stage = stage
	observability.Layout().OnStageComplete(ctx, stage, ok, measures, d)
	e.opts.Logger.Debug("stage complete",
		"stage", stage,
		"resolved", ok,
		"measures", measures,
		"duration", d)
}

func (e *Engine) finish(res *Result, c *widget.Container, unresolved []string) *Result {
	res.Resolved = len(unresolved) == 0
	res.Frames = Frames(c)
	return res
}

// directUnresolved lists the container (when an axis is open) followed by
// the children the direct pass left unresolved.
func directUnresolved(c *widget.Container) []string {
	var ids []string
	for _, o := range []widget.Orientation{widget.Horizontal, widget.Vertical} {
		if !c.IsResolved(o) {
			ids = append(ids, c.ID)
			break
		}
	}
	return append(ids, c.Unresolved()...)
}
