// Package pipeline runs the document → solve → export pipeline shared by
// the CLI and the HTTP service.
//
// Both entry points load a layout document, solve it with the layout
// engine and hand back frames or a dependency-graph export. Results are
// cached by document content so unchanged documents are never solved
// twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.SolveFile(ctx, "dialog.toml", pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range res.Frames.Frames {
//	    fmt.Println(f.ID, f.X, f.Y, f.Width, f.Height)
//	}
//
// Export the dependency graph instead:
//
//	svg, err := runner.Graph(ctx, doc, pipeline.GraphOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchorlayout/pkg/cache"
	"github.com/matzehuels/anchorlayout/pkg/document"
	"github.com/matzehuels/anchorlayout/pkg/layout"
	"github.com/matzehuels/anchorlayout/pkg/measure"
)

// Graph export formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// ValidGraphFormats is the set of supported graph export formats.
var ValidGraphFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// ValidateGraphFormat checks that a graph export format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return fmt.Errorf("invalid graph format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options
// =============================================================================

// Options configures a solve. It supports JSON and TOML so the same
// struct serves HTTP requests and the CLI config file.
type Options struct {
	DisableDirect           bool `json:"disable_direct,omitempty" toml:"disable_direct"`
	DisableGraph            bool `json:"disable_graph,omitempty" toml:"disable_graph"`
	DisableSolver           bool `json:"disable_solver,omitempty" toml:"disable_solver"`
	DisableWrapOptimization bool `json:"disable_wrap_optimization,omitempty" toml:"disable_wrap_optimization"`

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool `json:"refresh,omitempty" toml:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`
}

// SetDefaults applies defaults.
func (o *Options) SetDefaults() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// EngineOptions returns the layout engine configuration for a document
// whose intrinsic sizes come from m.
func (o *Options) EngineOptions(m measure.Measurer) layout.Options {
	return layout.Options{
		DisableDirect:           o.DisableDirect,
		DisableGraph:            o.DisableGraph,
		DisableSolver:           o.DisableSolver,
		DisableWrapOptimization: o.DisableWrapOptimization,
		Measurer:                m,
		Logger:                  o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for a solve.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		DisableDirect:           o.DisableDirect,
		DisableGraph:            o.DisableGraph,
		DisableSolver:           o.DisableSolver,
		DisableWrapOptimization: o.DisableWrapOptimization,
	}
}

// GraphOptions configures a dependency graph export.
type GraphOptions struct {
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	// DisableWrapOptimization leaves WRAP_CONTENT containers unresolved in
	// the exported graph.
	DisableWrapOptimization bool `json:"disable_wrap_optimization,omitempty"`
}

// SetDefaults applies defaults and validates the format.
func (o *GraphOptions) SetDefaults() error {
	if o.Format == "" {
		o.Format = FormatDOT
	}
	return ValidateGraphFormat(o.Format)
}

// KeyOpts returns cache key options for a graph export.
func (o *GraphOptions) KeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Format:   o.Format,
		Detailed: o.Detailed,
		NoWrap:   o.DisableWrapOptimization,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a solve.
type Result struct {
	// DocHash is the content hash of the canonical document.
	DocHash string `json:"doc_hash"`

	// Frames is the solved frame set.
	Frames document.FrameSet `json:"frames"`

	// Stats holds engine statistics. It is zero on a cache hit.
	Stats layout.Stats `json:"stats"`

	// CacheHit is true when the frames came from the cache.
	CacheHit bool `json:"cache_hit"`

	// Duration is the wall time of the whole run.
	Duration time.Duration `json:"duration"`
}
