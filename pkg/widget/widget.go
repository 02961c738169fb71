package widget

import (
	"fmt"
	"strings"
)

// Orientation selects an axis. Per-axis widget properties are indexed by it.
type Orientation int

const (
	Horizontal Orientation = 0
	Vertical   Orientation = 1
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// DimensionBehaviour describes how a widget's size on one axis is decided.
type DimensionBehaviour int

const (
	Fixed DimensionBehaviour = iota
	WrapContent
	MatchConstraint
	MatchParent
)

func (b DimensionBehaviour) String() string {
	switch b {
	case WrapContent:
		return "wrap"
	case MatchConstraint:
		return "match_constraint"
	case MatchParent:
		return "match_parent"
	}
	return "fixed"
}

// ParseDimensionBehaviour parses "fixed", "wrap", "match_constraint" (or
// "constraint", "0dp") and "match_parent" (or "parent").
func ParseDimensionBehaviour(s string) (DimensionBehaviour, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return Fixed, nil
	case "wrap", "wrap_content":
		return WrapContent, nil
	case "match_constraint", "constraint", "0dp":
		return MatchConstraint, nil
	case "match_parent", "parent":
		return MatchParent, nil
	}
	return Fixed, fmt.Errorf("unknown dimension behaviour %q", s)
}

// MatchConstraintDefault refines [MatchConstraint] sizing.
type MatchConstraintDefault int

const (
	MatchSpread MatchConstraintDefault = iota
	MatchWrap
	MatchPercent
	MatchRatio
	// MatchRatioResolved marks a ratio axis whose size was already derived
	// from the other axis.
	MatchRatioResolved
)

func (m MatchConstraintDefault) String() string {
	switch m {
	case MatchWrap:
		return "wrap"
	case MatchPercent:
		return "percent"
	case MatchRatio:
		return "ratio"
	case MatchRatioResolved:
		return "ratio_resolved"
	}
	return "spread"
}

// ParseMatchConstraintDefault parses "spread", "wrap", "percent" or "ratio".
func ParseMatchConstraintDefault(s string) (MatchConstraintDefault, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "spread":
		return MatchSpread, nil
	case "wrap":
		return MatchWrap, nil
	case "percent":
		return MatchPercent, nil
	case "ratio":
		return MatchRatio, nil
	}
	return MatchSpread, fmt.Errorf("unknown match constraint default %q", s)
}

// RatioSide tells which side of a ratio widget is derived from the other.
type RatioSide int

const (
	RatioUnknown RatioSide = iota
	// RatioWidth derives the width from the height.
	RatioWidth
	// RatioHeight derives the height from the width.
	RatioHeight
)

// ChainStyle controls how free space is distributed along a chain.
type ChainStyle int

const (
	ChainSpread ChainStyle = iota
	ChainSpreadInside
	ChainPacked
)

func (c ChainStyle) String() string {
	switch c {
	case ChainSpreadInside:
		return "spread_inside"
	case ChainPacked:
		return "packed"
	}
	return "spread"
}

// ParseChainStyle parses "spread", "spread_inside" or "packed".
func ParseChainStyle(s string) (ChainStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "spread":
		return ChainSpread, nil
	case "spread_inside", "inside":
		return ChainSpreadInside, nil
	case "packed":
		return ChainPacked, nil
	}
	return ChainSpread, fmt.Errorf("unknown chain style %q", s)
}

// Visibility of a widget. GONE widgets collapse to zero size and drop their
// margins but keep propagating positions.
type Visibility int

const (
	Visible Visibility = iota
	Invisible
	Gone
)

func (v Visibility) String() string {
	switch v {
	case Invisible:
		return "invisible"
	case Gone:
		return "gone"
	}
	return "visible"
}

// ParseVisibility parses "visible", "invisible" or "gone".
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "visible":
		return Visible, nil
	case "invisible":
		return Invisible, nil
	case "gone":
		return Gone, nil
	}
	return Visible, fmt.Errorf("unknown visibility %q", s)
}

// Kind distinguishes regular widgets from containers and helpers.
type Kind int

const (
	KindView Kind = iota
	KindContainer
	KindGuideline
	KindBarrier
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindGuideline:
		return "guideline"
	case KindBarrier:
		return "barrier"
	}
	return "view"
}

// UnsetWeight marks a chain weight that was never set.
const UnsetWeight = -1

// Widget is a rectangle positioned by anchor constraints.
//
// Configuration fields are set by callers before a layout pass. Geometry
// (position, size, resolution flags) is owned by the engine and accessed
// through methods; [Widget.Width] and [Widget.Height] report zero for GONE
// widgets.
type Widget struct {
	ID   string
	Kind Kind

	// Dimension is the sizing behaviour per axis, indexed by [Orientation].
	Dimension [2]DimensionBehaviour

	// MinWidth and friends bound WRAP_CONTENT sizes (0 = unbounded max).
	MinWidth, MaxWidth   int
	MinHeight, MaxHeight int

	// MatchDefault, MatchPercent, MatchMin and MatchMax refine
	// MATCH_CONSTRAINT sizing per axis. MatchMax of 0 means unbounded.
	MatchDefault [2]MatchConstraintDefault
	MatchPercent [2]float64
	MatchMin     [2]int
	MatchMax     [2]int

	// Ratio is width/height; 0 disables ratio sizing.
	Ratio     float64
	RatioSide RatioSide

	Bias       [2]float64
	ChainStyle [2]ChainStyle
	Weight     [2]float64

	Visibility Visibility

	HasBaseline      bool
	BaselineDistance int

	parent  *Container
	anchors [9]*Anchor

	x, y          int
	width, height int

	// declWidth and declHeight are the sizes set by the caller. width and
	// height hold the measured or resolved size of the current pass.
	declWidth, declHeight int

	measured         bool
	measureRequested bool

	resolved        [2]bool
	solvingPassDone [2]bool

	guideline *Guideline
	barrier   *Barrier
}

// New returns a FIXED widget of the given size with default bias 0.5,
// percent 1.0 and unset chain weights.
func New(id string, width, height int) *Widget {
	w := &Widget{
		ID:           id,
		Bias:         [2]float64{0.5, 0.5},
		MatchPercent: [2]float64{1, 1},
		Weight:       [2]float64{UnsetWeight, UnsetWeight},
		width:        width,
		height:       height,
		declWidth:    width,
		declHeight:   height,
	}
	for t := AnchorLeft; t <= AnchorCenterY; t++ {
		w.anchors[t] = newAnchor(w, t)
	}
	w.measureRequested = true
	return w
}

// Anchor returns the anchor of the given type. AnchorNone returns nil.
func (w *Widget) Anchor(t AnchorType) *Anchor {
	if t <= AnchorNone || int(t) >= len(w.anchors) {
		return nil
	}
	return w.anchors[t]
}

// Anchors returns the positional anchors in declaration order.
func (w *Widget) Anchors() []*Anchor {
	return []*Anchor{
		w.anchors[AnchorLeft], w.anchors[AnchorTop], w.anchors[AnchorRight],
		w.anchors[AnchorBottom], w.anchors[AnchorBaseline],
		w.anchors[AnchorCenter], w.anchors[AnchorCenterX], w.anchors[AnchorCenterY],
	}
}

// Start returns the leading anchor on the axis (left or top).
func (w *Widget) Start(o Orientation) *Anchor {
	if o == Vertical {
		return w.anchors[AnchorTop]
	}
	return w.anchors[AnchorLeft]
}

// End returns the trailing anchor on the axis (right or bottom).
func (w *Widget) End(o Orientation) *Anchor {
	if o == Vertical {
		return w.anchors[AnchorBottom]
	}
	return w.anchors[AnchorRight]
}

// Connect connects the from anchor of w to the to anchor of target.
//
// Center anchors expand into their edge pairs: connecting AnchorCenter to a
// center anchor centers on both axes, AnchorCenterX centers between the
// target's left and right edges, AnchorCenterY between top and bottom.
func (w *Widget) Connect(from AnchorType, target *Widget, to AnchorType, margin int) error {
	if target == nil {
		return fmt.Errorf("%s.%s: nil target", w.ID, from)
	}
	if target == w {
		return fmt.Errorf("%s.%s: %w", w.ID, from, ErrSelfConnection)
	}
	switch from {
	case AnchorCenter:
		switch to {
		case AnchorCenter:
			w.anchors[AnchorLeft].connect(target.anchors[AnchorLeft], 0)
			w.anchors[AnchorRight].connect(target.anchors[AnchorRight], 0)
			w.anchors[AnchorTop].connect(target.anchors[AnchorTop], 0)
			w.anchors[AnchorBottom].connect(target.anchors[AnchorBottom], 0)
			return nil
		case AnchorLeft, AnchorRight:
			w.anchors[AnchorLeft].connect(target.anchors[to], 0)
			w.anchors[AnchorRight].connect(target.anchors[to], 0)
			return nil
		case AnchorTop, AnchorBottom:
			w.anchors[AnchorTop].connect(target.anchors[to], 0)
			w.anchors[AnchorBottom].connect(target.anchors[to], 0)
			return nil
		}
	case AnchorCenterX:
		switch to {
		case AnchorCenterX, AnchorCenter:
			w.anchors[AnchorLeft].connect(target.anchors[AnchorLeft], 0)
			w.anchors[AnchorRight].connect(target.anchors[AnchorRight], 0)
			return nil
		case AnchorLeft, AnchorRight:
			w.anchors[AnchorLeft].connect(target.anchors[to], 0)
			w.anchors[AnchorRight].connect(target.anchors[to], 0)
			return nil
		}
	case AnchorCenterY:
		switch to {
		case AnchorCenterY, AnchorCenter:
			w.anchors[AnchorTop].connect(target.anchors[AnchorTop], 0)
			w.anchors[AnchorBottom].connect(target.anchors[AnchorBottom], 0)
			return nil
		case AnchorTop, AnchorBottom:
			w.anchors[AnchorTop].connect(target.anchors[to], 0)
			w.anchors[AnchorBottom].connect(target.anchors[to], 0)
			return nil
		}
	default:
		src, dst := w.Anchor(from), target.Anchor(to)
		if src == nil || dst == nil || !src.IsValidConnection(dst) {
			return fmt.Errorf("%s.%s -> %s.%s: %w", w.ID, from, target.ID, to, ErrIncompatibleAnchors)
		}
		src.connect(dst, margin)
		return nil
	}
	return fmt.Errorf("%s.%s -> %s.%s: %w", w.ID, from, target.ID, to, ErrIncompatibleAnchors)
}

// ResetAnchors disconnects every anchor of w.
func (w *Widget) ResetAnchors() {
	for _, a := range w.anchors {
		if a != nil {
			a.Reset()
		}
	}
}

// Parent returns the container holding w, or nil for a root container.
func (w *Widget) Parent() *Container { return w.parent }

// IsGuideline reports whether w is a guideline.
func (w *Widget) IsGuideline() bool { return w.guideline != nil }

// IsBarrier reports whether w is a barrier.
func (w *Widget) IsBarrier() bool { return w.barrier != nil }

// IsHelper reports whether w is a guideline or a barrier.
func (w *Widget) IsHelper() bool { return w.guideline != nil || w.barrier != nil }

// Guideline returns the guideline backing w, or nil.
func (w *Widget) Guideline() *Guideline { return w.guideline }

// Barrier returns the barrier backing w, or nil.
func (w *Widget) Barrier() *Barrier { return w.barrier }

// X returns the resolved left coordinate.
func (w *Widget) X() int { return w.x }

// Y returns the resolved top coordinate.
func (w *Widget) Y() int { return w.y }

// Width returns the current width, zero when GONE.
func (w *Widget) Width() int {
	if w.Visibility == Gone {
		return 0
	}
	return w.width
}

// Height returns the current height, zero when GONE.
func (w *Widget) Height() int {
	if w.Visibility == Gone {
		return 0
	}
	return w.height
}

// Length returns the size on the given axis.
func (w *Widget) Length(o Orientation) int {
	if o == Vertical {
		return w.Height()
	}
	return w.Width()
}

// Baseline returns the baseline coordinate (y + baseline distance).
func (w *Widget) Baseline() int { return w.y + w.BaselineDistance }

// SetX sets the left coordinate.
func (w *Widget) SetX(x int) { w.x = x }

// SetY sets the top coordinate.
func (w *Widget) SetY(y int) { w.y = y }

// SetWidth sets the width, raised to MinWidth.
func (w *Widget) SetWidth(v int) {
	w.width = v
	if w.width < w.MinWidth {
		w.width = w.MinWidth
	}
}

// SetHeight sets the height, raised to MinHeight.
func (w *Widget) SetHeight(v int) {
	w.height = v
	if w.height < w.MinHeight {
		w.height = w.MinHeight
	}
}

// SetLength sets the size on the given axis.
func (w *Widget) SetLength(o Orientation, v int) {
	if o == Vertical {
		w.SetHeight(v)
	} else {
		w.SetWidth(v)
	}
}

// SetFrame sets position and size in one call.
func (w *Widget) SetFrame(x, y, width, height int) {
	w.x, w.y = x, y
	w.SetWidth(width)
	w.SetHeight(height)
}

// DeclaredWidth returns the caller's width regardless of visibility. A
// layout pass never changes it.
func (w *Widget) DeclaredWidth() int { return w.declWidth }

// DeclaredHeight returns the caller's height regardless of visibility.
func (w *Widget) DeclaredHeight() int { return w.declHeight }

// SetDeclaredSize replaces the caller's size. The current size follows it
// until the next pass measures or resolves the widget.
func (w *Widget) SetDeclaredSize(width, height int) {
	w.declWidth, w.declHeight = width, height
	w.width, w.height = width, height
}

// IsMeasured reports whether the current pass already measured w.
func (w *Widget) IsMeasured() bool { return w.measured }

// SetMeasured marks w as measured for the current pass.
func (w *Widget) SetMeasured(v bool) { w.measured = v }

// MeasureRequested reports whether w still needs a measure call. GONE widgets
// never do.
func (w *Widget) MeasureRequested() bool {
	return w.measureRequested && w.Visibility != Gone
}

// SetMeasureRequested flags w for (re)measurement.
func (w *Widget) SetMeasureRequested(v bool) { w.measureRequested = v }

// LimitedDimension clamps a candidate size on an axis to the
// MATCH_CONSTRAINT bounds when the axis is MATCH_CONSTRAINT, or to the
// wrap bounds otherwise. A max of zero means unbounded.
func (w *Widget) LimitedDimension(o Orientation, d int) int {
	lo, hi := w.MinWidth, w.MaxWidth
	if o == Vertical {
		lo, hi = w.MinHeight, w.MaxHeight
	}
	if w.Dimension[o] == MatchConstraint {
		lo, hi = w.MatchMin[o], w.MatchMax[o]
	}
	d = max(lo, d)
	if hi > 0 {
		d = min(hi, d)
	}
	return d
}

// HasDanglingDimension reports whether fewer than two anchors on the axis
// are connected.
func (w *Widget) HasDanglingDimension(o Orientation) bool {
	n := 0
	if w.Start(o).IsConnected() {
		n++
	}
	if w.End(o).IsConnected() {
		n++
	}
	return n < 2
}

// HasResolvedTargets reports whether both anchors on the axis target
// anchors with final values leaving room for size.
func (w *Widget) HasResolvedTargets(o Orientation, size int) bool {
	s, e := w.Start(o), w.End(o)
	if s.Target == nil || e.Target == nil || !s.Target.HasFinalValue() || !e.Target.HasFinalValue() {
		return false
	}
	room := e.Target.FinalValue() - e.EffectiveMargin() - (s.Target.FinalValue() + s.EffectiveMargin())
	return room >= size
}

// IsResolved reports whether the direct pass resolved both edges of the axis.
func (w *Widget) IsResolved(o Orientation) bool {
	return w.resolved[o] || (w.Start(o).HasFinalValue() && w.End(o).HasFinalValue())
}

// ResolutionAxes returns the axes on which w must be resolved for a layout
// to be complete: both for regular widgets, the positioned axis for
// guidelines and barriers, none for invalid barriers.
func (w *Widget) ResolutionAxes() []Orientation {
	switch {
	case w.guideline != nil:
		return []Orientation{w.guideline.Axis()}
	case w.barrier != nil:
		if o, ok := w.barrier.Orientation(); ok {
			return []Orientation{o}
		}
		return nil
	}
	return []Orientation{Horizontal, Vertical}
}

// IsSolvingPassDone reports whether traversal already visited w on the axis.
func (w *Widget) IsSolvingPassDone(o Orientation) bool { return w.solvingPassDone[o] }

// MarkSolvingPassDone records a traversal visit on the axis.
func (w *Widget) MarkSolvingPassDone(o Orientation) { w.solvingPassDone[o] = true }

// SetFinalHorizontal records the resolved left and right edges. It is a
// no-op once the axis is resolved.
func (w *Widget) SetFinalHorizontal(x1, x2 int) {
	if w.resolved[Horizontal] {
		return
	}
	w.anchors[AnchorLeft].SetFinalValue(x1)
	w.anchors[AnchorRight].SetFinalValue(x2)
	w.x = x1
	w.width = x2 - x1
	w.resolved[Horizontal] = true
}

// SetFinalVertical records the resolved top and bottom edges and derives
// the baseline.
func (w *Widget) SetFinalVertical(y1, y2 int) {
	if w.resolved[Vertical] {
		return
	}
	w.anchors[AnchorTop].SetFinalValue(y1)
	w.anchors[AnchorBottom].SetFinalValue(y2)
	w.y = y1
	w.height = y2 - y1
	if w.HasBaseline {
		w.anchors[AnchorBaseline].SetFinalValue(y1 + w.BaselineDistance)
	}
	w.resolved[Vertical] = true
}

// SetFinal dispatches to SetFinalHorizontal or SetFinalVertical.
func (w *Widget) SetFinal(o Orientation, p1, p2 int) {
	if o == Vertical {
		w.SetFinalVertical(p1, p2)
	} else {
		w.SetFinalHorizontal(p1, p2)
	}
}

// SetFinalBaseline records the baseline coordinate and derives top/bottom.
func (w *Widget) SetFinalBaseline(b int) {
	if !w.HasBaseline {
		return
	}
	y1 := b - w.BaselineDistance
	w.SetFinalVertical(y1, y1+w.Height())
}

// ResetFinalResolution clears resolution flags and anchor final values and
// restores the declared size, so a widget collapsed while GONE or stretched
// by its constraints starts the next pass from what the caller set.
func (w *Widget) ResetFinalResolution() {
	w.width, w.height = w.declWidth, w.declHeight
	w.resolved = [2]bool{}
	w.solvingPassDone = [2]bool{}
	for _, a := range w.anchors {
		if a != nil {
			a.ResetFinalResolution()
		}
	}
}

func (w *Widget) String() string {
	return fmt.Sprintf("%s(%d,%d %dx%d)", w.ID, w.x, w.y, w.Width(), w.Height())
}
