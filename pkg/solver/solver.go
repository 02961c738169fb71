// Package solver is the boundary to a general linear-arithmetic solver.
//
// The layout engine resolves most layouts with direct propagation. What is
// left (cycles, under-constrained widgets, wrap containers the graph could
// not size) is handed to a [LinearSystem]: one variable per anchor, and
// equalities, inequalities and centerings weighted by [Strength]. A full
// simplex implementation is out of scope; [Recorder] records the requests
// and answers them by best-effort propagation, which is enough for tests
// and for the CLI's inspection commands.
//
// [Build] emits the constraints of a container in which some widgets are
// already resolved: those are pinned with [StrengthFixed], the rest get
// their full constraint set. [Apply] copies the solution back.
package solver

import (
	"fmt"

	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Strength orders constraints: a stronger constraint wins over a weaker
// one when both cannot hold.
type Strength int

const (
	StrengthNone Strength = iota
	StrengthLow
	StrengthMedium
	StrengthBarrier
	StrengthHigh
	StrengthHighest
	StrengthEquality
	StrengthFixed
)

var strengthNames = [...]string{
	StrengthNone:     "none",
	StrengthLow:      "low",
	StrengthMedium:   "medium",
	StrengthBarrier:  "barrier",
	StrengthHigh:     "high",
	StrengthHighest:  "highest",
	StrengthEquality: "equality",
	StrengthFixed:    "fixed",
}

func (s Strength) String() string {
	if s < 0 || int(s) >= len(strengthNames) {
		return fmt.Sprintf("strength(%d)", int(s))
	}
	return strengthNames[s]
}

// Variable is one unknown of the system, usually an anchor coordinate.
type Variable struct {
	ID     int
	Name   string
	Anchor *widget.Anchor
}

func (v *Variable) String() string {
	if v == nil {
		return "0"
	}
	return v.Name
}

// LinearSystem is the solver interface the engine falls back to.
//
// In every relation a nil variable stands for the constant zero, so
// AddEquality(v, nil, 10, s) pins v at 10.
type LinearSystem interface {
	// CreateObjectVariable returns the variable of an anchor, creating it
	// on first use.
	CreateObjectVariable(a *widget.Anchor) *Variable
	// AddEquality adds a = b + margin.
	AddEquality(a, b *Variable, margin int, s Strength)
	// AddGreaterThan adds a >= b + margin.
	AddGreaterThan(a, b *Variable, margin int, s Strength)
	// AddLowerThan adds a <= b + margin.
	AddLowerThan(a, b *Variable, margin int, s Strength)
	// AddCentering places begin and end between beginTarget and endTarget:
	// (1-bias) * (begin - beginTarget - beginMargin) =
	// bias * (endTarget - end - endMargin).
	AddCentering(begin, beginTarget *Variable, beginMargin int, bias float64, endTarget, end *Variable, endMargin int, s Strength)
	// Minimize solves the system.
	Minimize() error
	// ObjectVariableValue returns the solved value of an anchor.
	ObjectVariableValue(a *widget.Anchor) int
}

// Factory creates a fresh system for one layout call.
type Factory func() LinearSystem
