package layout

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchorlayout/pkg/measure"
	"github.com/matzehuels/anchorlayout/pkg/solver"
)

// Stage names reported in [Result.Stage].
const (
	StageDirect = "direct"
	StageGraph  = "graph"
	StageSolver = "solver"
)

// ErrNoStages is returned when every stage is disabled.
var ErrNoStages = errors.New("layout: every stage is disabled")

// Options configures an [Engine]. The zero value enables every stage.
type Options struct {
	DisableDirect bool `json:"disable_direct,omitempty" toml:"disable_direct"`
	DisableGraph  bool `json:"disable_graph,omitempty" toml:"disable_graph"`
	DisableSolver bool `json:"disable_solver,omitempty" toml:"disable_solver"`

	// DisableWrapOptimization stops the graph stage from sizing
	// WRAP_CONTENT containers from their content.
	DisableWrapOptimization bool `json:"disable_wrap_optimization,omitempty" toml:"disable_wrap_optimization"`

	// Runtime options (not serialized)
	Measurer measure.Measurer `json:"-" toml:"-"`
	Solver   solver.Factory   `json:"-" toml:"-"`
	Logger   *log.Logger      `json:"-" toml:"-"`
}

// SetDefaults fills in the solver factory and a discarding logger.
// A nil Measurer is left nil: stages then keep declared sizes.
func (o *Options) SetDefaults() {
	if o.Solver == nil {
		o.Solver = solver.NewRecorderFactory(nil)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks that at least one stage can run.
func (o *Options) Validate() error {
	if o.DisableDirect && o.DisableGraph && o.DisableSolver {
		return ErrNoStages
	}
	return nil
}

// Stages returns the enabled stage names in execution order.
func (o Options) Stages() []string {
	var s []string
	if !o.DisableDirect {
		s = append(s, StageDirect)
	}
	if !o.DisableGraph {
		s = append(s, StageGraph)
	}
	if !o.DisableSolver {
		s = append(s, StageSolver)
	}
	return s
}
