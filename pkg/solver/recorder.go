package solver

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// ConstraintKind identifies a recorded request.
type ConstraintKind int

const (
	KindEquality ConstraintKind = iota
	KindGreaterThan
	KindLowerThan
	KindCentering
)

func (k ConstraintKind) String() string {
	switch k {
	case KindGreaterThan:
		return ">="
	case KindLowerThan:
		return "<="
	case KindCentering:
		return "center"
	}
	return "="
}

// Constraint is one recorded request. Equalities and inequalities use A, B
// and Margin; centerings use all four variables, both margins and Bias.
type Constraint struct {
	Kind     ConstraintKind
	A, B     *Variable
	C, D     *Variable
	Margin   int
	Margin2  int
	Bias     float64
	Strength Strength
}

func (c Constraint) String() string {
	if c.Kind == KindCentering {
		return fmt.Sprintf("center(%s in %s+%d .. %s-%d with %s, bias %.2f) [%s]",
			c.A, c.B, c.Margin, c.C, c.Margin2, c.D, c.Bias, c.Strength)
	}
	return fmt.Sprintf("%s %s %s%+d [%s]", c.A, c.Kind, c.B, c.Margin, c.Strength)
}

// Recorder is a [LinearSystem] that records every request. Minimize
// answers values from Seed first, then propagates equalities, centerings
// and finally inequalities until nothing changes. Values it cannot derive
// are zero.
//
// Seed is keyed by anchor name, "id.left" for example.
type Recorder struct {
	Seed map[string]int

	Constraints []Constraint
	Minimized   int

	vars   map[*widget.Anchor]*Variable
	order  []*Variable
	values map[*Variable]int
	known  map[*Variable]bool
}

// NewRecorder returns an empty recorder.
func NewRecorder(seed map[string]int) *Recorder {
	return &Recorder{Seed: seed, vars: map[*widget.Anchor]*Variable{}}
}

// NewRecorderFactory returns a [Factory] producing recorders sharing seed.
func NewRecorderFactory(seed map[string]int) Factory {
	return func() LinearSystem { return NewRecorder(seed) }
}

// Variables returns the created variables in creation order.
func (r *Recorder) Variables() []*Variable { return r.order }

// CreateObjectVariable implements [LinearSystem].
func (r *Recorder) CreateObjectVariable(a *widget.Anchor) *Variable {
	if v, ok := r.vars[a]; ok {
		return v
	}
	v := &Variable{ID: len(r.order), Name: a.String(), Anchor: a}
	r.vars[a] = v
	r.order = append(r.order, v)
	return v
}

// AddEquality implements [LinearSystem].
func (r *Recorder) AddEquality(a, b *Variable, margin int, s Strength) {
	r.Constraints = append(r.Constraints, Constraint{Kind: KindEquality, A: a, B: b, Margin: margin, Strength: s})
}

// AddGreaterThan implements [LinearSystem].
func (r *Recorder) AddGreaterThan(a, b *Variable, margin int, s Strength) {
	r.Constraints = append(r.Constraints, Constraint{Kind: KindGreaterThan, A: a, B: b, Margin: margin, Strength: s})
}

// AddLowerThan implements [LinearSystem].
func (r *Recorder) AddLowerThan(a, b *Variable, margin int, s Strength) {
	r.Constraints = append(r.Constraints, Constraint{Kind: KindLowerThan, A: a, B: b, Margin: margin, Strength: s})
}

// AddCentering implements [LinearSystem].
func (r *Recorder) AddCentering(begin, beginTarget *Variable, beginMargin int, bias float64, endTarget, end *Variable, endMargin int, s Strength) {
	r.Constraints = append(r.Constraints, Constraint{
		Kind: KindCentering, A: begin, B: beginTarget, C: endTarget, D: end,
		Margin: beginMargin, Margin2: endMargin, Bias: bias, Strength: s,
	})
}

// Minimize implements [LinearSystem].
func (r *Recorder) Minimize() error {
	r.Minimized++
	r.values = map[*Variable]int{}
	r.known = map[*Variable]bool{}
	for _, v := range r.order {
		if x, ok := r.Seed[v.Name]; ok {
			r.set(v, x)
		}
	}

	// Stronger constraints are applied first so they win any conflict.
	cs := slices.Clone(r.Constraints)
	slices.SortStableFunc(cs, func(a, b Constraint) int { return cmp.Compare(b.Strength, a.Strength) })

	// Each step decides the strongest applicable constraint. Equalities
	// always go before centerings, and centerings before inequalities.
	for range len(r.order) + 1 {
		if !r.step(cs, r.equality) && !r.step(cs, r.centering) && !r.step(cs, r.inequality) {
			break
		}
	}
	return nil
}

func (r *Recorder) step(cs []Constraint, apply func(Constraint) bool) bool {
	for _, c := range cs {
		if apply(c) {
			return true
		}
	}
	return false
}

// ObjectVariableValue implements [LinearSystem].
func (r *Recorder) ObjectVariableValue(a *widget.Anchor) int {
	v, ok := r.vars[a]
	if !ok {
		return 0
	}
	return r.values[v]
}

func (r *Recorder) isKnown(v *Variable) bool { return v == nil || r.known[v] }

func (r *Recorder) value(v *Variable) int {
	if v == nil {
		return 0
	}
	return r.values[v]
}

func (r *Recorder) set(v *Variable, x int) bool {
	if v == nil || r.known[v] {
		return false
	}
	r.values[v] = x
	r.known[v] = true
	return true
}

func (r *Recorder) equality(c Constraint) bool {
	if c.Kind != KindEquality {
		return false
	}
	switch {
	case r.isKnown(c.B) && !r.isKnown(c.A):
		return r.set(c.A, r.value(c.B)+c.Margin)
	case r.isKnown(c.A) && !r.isKnown(c.B):
		return r.set(c.B, r.value(c.A)-c.Margin)
	}
	return false
}

// centering solves begin and end when both targets are known and the size
// between begin and end is fixed by an equality.
func (r *Recorder) centering(c Constraint) bool {
	if c.Kind != KindCentering || !r.isKnown(c.B) || !r.isKnown(c.C) {
		return false
	}
	if r.isKnown(c.A) && r.isKnown(c.D) {
		return false
	}
	size, ok := r.sizeBetween(c.A, c.D)
	if !ok {
		return false
	}
	lo := r.value(c.B) + c.Margin
	hi := r.value(c.C) - c.Margin2
	begin := int(0.5 + float64(lo) + float64(hi-lo-size)*c.Bias)
	p := r.set(c.A, begin)
	return r.set(c.D, begin+size) || p
}

func (r *Recorder) sizeBetween(begin, end *Variable) (int, bool) {
	for _, c := range r.Constraints {
		if c.Kind != KindEquality {
			continue
		}
		if c.A == end && c.B == begin {
			return c.Margin, true
		}
		if c.A == begin && c.B == end {
			return -c.Margin, true
		}
	}
	return 0, false
}

// inequality treats a bound as an equality once only one side is known.
func (r *Recorder) inequality(c Constraint) bool {
	if c.Kind != KindGreaterThan && c.Kind != KindLowerThan {
		return false
	}
	switch {
	case r.isKnown(c.B) && !r.isKnown(c.A):
		return r.set(c.A, r.value(c.B)+c.Margin)
	case r.isKnown(c.A) && !r.isKnown(c.B):
		return r.set(c.B, r.value(c.A)-c.Margin)
	}
	return false
}
