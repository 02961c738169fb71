package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchorlayout/pkg/analyzer"
	"github.com/matzehuels/anchorlayout/pkg/cache"
	"github.com/matzehuels/anchorlayout/pkg/document"
	errs "github.com/matzehuels/anchorlayout/pkg/errors"
	"github.com/matzehuels/anchorlayout/pkg/layout"
	"github.com/matzehuels/anchorlayout/pkg/observability"
	"github.com/matzehuels/anchorlayout/pkg/render/dot"
)

// Cache key types reported to the cache hooks.
const (
	keyTypeLayout = "layout"
	keyTypeGraph  = "graph"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options; every
// solve builds its own widget tree.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// SolveFile loads the document at path and solves it.
func (r *Runner) SolveFile(ctx context.Context, path string, opts Options) (*Result, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	return r.Solve(ctx, doc, opts)
}

// Solve returns the frames for doc, from the cache when an identical
// document was solved with the same options before.
func (r *Runner) Solve(ctx context.Context, doc *document.Document, opts Options) (*Result, error) {
	start := time.Now()
	r.applyLogger(&opts)
	opts.SetDefaults()

	docHash, err := hashDocument(doc)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.LayoutKey(docHash, opts.LayoutKeyOpts())
	result := &Result{DocHash: docHash}

	if !opts.Refresh {
		if fs, ok := r.cachedFrames(ctx, key); ok {
			result.Frames = fs
			result.CacheHit = true
			result.Duration = time.Since(start)
			r.Logger.Debug("layout cache hit", "container", fs.Container, "hash", docHash[:12])
			return result, nil
		}
	}

	c, tbl, err := document.Build(doc)
	if err != nil {
		return nil, err
	}
	eng, err := layout.New(opts.EngineOptions(tbl))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "engine options")
	}
	res, err := eng.Solve(ctx, c)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errs.Wrap(errs.ErrCodeTimeout, err, "solve %s", c.ID)
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "solve %s", c.ID)
	}

	result.Frames = document.NewFrameSet(res)
	result.Stats = res.Stats
	r.store(ctx, keyTypeLayout, key, result.Frames, cache.TTLLayout)

	result.Duration = time.Since(start)
	r.Logger.Info("solved layout",
		"container", c.ID,
		"widgets", res.Stats.Widgets,
		"stage", res.Stage,
		"resolved", res.Resolved,
		"duration", result.Duration)
	return result, nil
}

// Graph exports the dependency graph of doc as DOT or SVG.
func (r *Runner) Graph(ctx context.Context, doc *document.Document, opts GraphOptions) ([]byte, error) {
	if err := opts.SetDefaults(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "graph options")
	}

	docHash, err := hashDocument(doc)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.GraphKey(docHash, opts.KeyOpts())
	hooks := observability.Cache()
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, keyTypeGraph)
		return data, nil
	}
	hooks.OnCacheMiss(ctx, keyTypeGraph)

	c, tbl, err := document.Build(doc)
	if err != nil {
		return nil, err
	}
	c.ResetFinalResolution()
	c.ResetMeasures()
	g := analyzer.NewDependencyGraph(c, tbl)
	g.DirectMeasure(!opts.DisableWrapOptimization)

	data := []byte(dot.ToDOT(g, dot.Options{Detailed: opts.Detailed}))
	if opts.Format == FormatSVG {
		if data, err = dot.RenderSVG(ctx, string(data)); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
	}
	r.Logger.Debug("exported dependency graph",
		"container", c.ID,
		"runs", len(g.Runs()),
		"format", opts.Format)

	if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		hooks.OnCacheSet(ctx, keyTypeGraph, len(data))
	}
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedFrames looks up a frame set. Undecodable entries count as misses
// and are recomputed.
func (r *Runner) cachedFrames(ctx context.Context, key string) (document.FrameSet, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		return document.FrameSet{}, false
	}
	fs, err := document.ReadFrames(bytes.NewReader(data), document.FormatJSON)
	if err != nil {
		hooks.OnCacheMiss(ctx, keyTypeLayout)
		return document.FrameSet{}, false
	}
	hooks.OnCacheHit(ctx, keyTypeLayout)
	return fs, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, fs document.FrameSet, ttl time.Duration) {
	var buf bytes.Buffer
	if err := document.WriteFrames(&buf, fs, document.FormatJSON); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, buf.Len())
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func hashDocument(doc *document.Document) (string, error) {
	data, err := doc.Canonical()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidDocument, err, "canonical document")
	}
	return cache.Hash(data), nil
}

// String summarizes a result for status lines.
func (r *Result) String() string {
	src := "solved"
	if r.CacheHit {
		src = "cached"
	}
	return fmt.Sprintf("%s: %d frames, stage %s (%s)", r.Frames.Container, len(r.Frames.Frames), r.Frames.Stage, src)
}
