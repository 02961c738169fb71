package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	errs "github.com/matzehuels/anchorlayout/pkg/errors"
	"github.com/matzehuels/anchorlayout/pkg/measure"
	"github.com/matzehuels/anchorlayout/pkg/widget"
)

// Build creates the widget tree described by d together with a measurer
// answering from its [measure] table.
//
// Entries without an ID get a generated one; they cannot be connection
// targets. Widgets are added first, then guidelines, then barriers, so
// connections and barrier references may point at any entry.
func Build(d *Document) (*widget.Container, *measure.Table, error) {
	id := d.ID
	if id == "" {
		id = "root"
	}
	if err := errs.ValidateID(id); err != nil {
		return nil, nil, err
	}
	for _, f := range []struct {
		name string
		v    int
	}{{"width", d.Width}, {"height", d.Height}, {"min_width", d.MinWidth}, {"max_width", d.MaxWidth}, {"min_height", d.MinHeight}, {"max_height", d.MaxHeight}} {
		if err := errs.ValidateSize(id, f.name, f.v); err != nil {
			return nil, nil, err
		}
	}

	c := widget.NewContainer(id, d.Width, d.Height)
	var err error
	if c.Dimension[widget.Horizontal], err = parseDimension(id, d.Horizontal); err != nil {
		return nil, nil, err
	}
	if c.Dimension[widget.Vertical], err = parseDimension(id, d.Vertical); err != nil {
		return nil, nil, err
	}
	c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight = d.MinWidth, d.MaxWidth, d.MinHeight, d.MaxHeight

	b := &builder{c: c}
	for i := range d.Widgets {
		if err := b.addWidget(&d.Widgets[i]); err != nil {
			return nil, nil, err
		}
	}
	for i := range d.Guidelines {
		if err := b.addGuideline(&d.Guidelines[i]); err != nil {
			return nil, nil, err
		}
	}
	for i := range d.Barriers {
		if err := b.addBarrier(&d.Barriers[i]); err != nil {
			return nil, nil, err
		}
	}
	for _, p := range b.pending {
		if err := b.connect(p.w, p.conns); err != nil {
			return nil, nil, err
		}
	}

	for mid := range d.Measure {
		if _, ok := c.Lookup(mid); !ok {
			return nil, nil, errs.New(errs.ErrCodeUnknownWidget, "measure: unknown widget %q", mid)
		}
	}
	return c, measure.NewTable(d.Measure), nil
}

type pendingConnections struct {
	w     *widget.Widget
	conns []Connection
}

type builder struct {
	c       *widget.Container
	pending []pendingConnections
}

func (b *builder) add(w *widget.Widget) error {
	if err := b.c.Add(w); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDocument, ErrDuplicateID, "%q", w.ID)
	}
	return nil
}

func (b *builder) id(id, prefix string) (string, error) {
	if id == "" {
		return prefix + "-" + uuid.NewString()[:8], nil
	}
	return id, errs.ValidateID(id)
}

func (b *builder) addWidget(e *Widget) error {
	id, err := b.id(e.ID, "widget")
	if err != nil {
		return err
	}
	sizes := []struct {
		name string
		v    int
	}{
		{"width", e.Width}, {"height", e.Height},
		{"min_width", e.MinWidth}, {"max_width", e.MaxWidth},
		{"min_height", e.MinHeight}, {"max_height", e.MaxHeight},
		{"match_min_width", e.MatchMinWidth}, {"match_max_width", e.MatchMaxWidth},
		{"match_min_height", e.MatchMinHeight}, {"match_max_height", e.MatchMaxHeight},
	}
	for _, s := range sizes {
		if err := errs.ValidateSize(id, s.name, s.v); err != nil {
			return err
		}
	}

	w := widget.New(id, e.Width, e.Height)
	if w.Dimension[widget.Horizontal], err = parseDimension(id, e.Horizontal); err != nil {
		return err
	}
	if w.Dimension[widget.Vertical], err = parseDimension(id, e.Vertical); err != nil {
		return err
	}
	w.MinWidth, w.MaxWidth, w.MinHeight, w.MaxHeight = e.MinWidth, e.MaxWidth, e.MinHeight, e.MaxHeight
	w.MatchMin = [2]int{e.MatchMinWidth, e.MatchMinHeight}
	w.MatchMax = [2]int{e.MatchMaxWidth, e.MatchMaxHeight}

	for o, s := range [2]string{e.MatchHorizontal, e.MatchVertical} {
		m, err := widget.ParseMatchConstraintDefault(s)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidDocument, err, "%s", id)
		}
		w.MatchDefault[o] = m
	}
	for o, p := range [2]*float64{e.PercentWidth, e.PercentHeight} {
		if p == nil {
			continue
		}
		if err := errs.ValidateFraction(id, "percent", *p); err != nil {
			return err
		}
		w.MatchPercent[o] = *p
	}
	if e.Ratio != "" {
		if w.Ratio, w.RatioSide, err = ParseRatio(e.Ratio); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidDocument, err, "%s", id)
		}
	}
	for o, p := range [2]*float64{e.HorizontalBias, e.VerticalBias} {
		if p == nil {
			continue
		}
		if err := errs.ValidateFraction(id, "bias", *p); err != nil {
			return err
		}
		w.Bias[o] = *p
	}
	for o, s := range [2]string{e.HorizontalChainStyle, e.VerticalChainStyle} {
		cs, err := widget.ParseChainStyle(s)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidDocument, err, "%s", id)
		}
		w.ChainStyle[o] = cs
	}
	for o, p := range [2]*float64{e.HorizontalWeight, e.VerticalWeight} {
		if p != nil {
			w.Weight[o] = *p
		}
	}
	if w.Visibility, err = widget.ParseVisibility(e.Visibility); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDocument, err, "%s", id)
	}
	if e.Baseline != nil {
		w.HasBaseline = true
		w.BaselineDistance = *e.Baseline
	}

	if err := b.add(w); err != nil {
		return err
	}
	if len(e.Connect) > 0 {
		b.pending = append(b.pending, pendingConnections{w: w, conns: e.Connect})
	}
	return nil
}

func (b *builder) connect(w *widget.Widget, conns []Connection) error {
	for _, cn := range conns {
		from, err := widget.ParseAnchorType(cn.From)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidAnchor, err, "%s", w.ID)
		}
		tid, tanchor, ok := strings.Cut(cn.To, ".")
		if !ok {
			return errs.New(errs.ErrCodeInvalidAnchor, "%s.%s: target %q must be written id.anchor", w.ID, from, cn.To)
		}
		to, err := widget.ParseAnchorType(tanchor)
		if err != nil {
			return errs.Wrap(errs.ErrCodeInvalidAnchor, err, "%s.%s", w.ID, from)
		}
		if tid == ParentID {
			tid = b.c.ID
		}
		target, ok := b.c.Lookup(tid)
		if !ok {
			return errs.New(errs.ErrCodeUnknownWidget, "%s.%s: unknown target %q", w.ID, from, tid)
		}
		if err := w.Connect(from, target, to, cn.Margin); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidAnchor, err, "connect")
		}
		if cn.GoneMargin != nil {
			switch from {
			case widget.AnchorCenter, widget.AnchorCenterX, widget.AnchorCenterY:
			default:
				w.Anchor(from).SetGoneMargin(*cn.GoneMargin)
			}
		}
	}
	return nil
}

func (b *builder) addGuideline(e *Guideline) error {
	id, err := b.id(e.ID, "guideline")
	if err != nil {
		return err
	}
	o, err := parseOrientation(e.Orientation)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDocument, err, "%s", id)
	}
	g := widget.NewGuideline(id, o)
	set := 0
	if e.Begin != nil {
		g.SetBegin(*e.Begin)
		set++
	}
	if e.End != nil {
		g.SetEnd(*e.End)
		set++
	}
	if e.Percent != nil {
		if err := errs.ValidateFraction(id, "percent", *e.Percent); err != nil {
			return err
		}
		g.SetPercent(*e.Percent)
		set++
	}
	if set != 1 {
		return errs.New(errs.ErrCodeInvalidDocument, "%s: guideline needs exactly one of begin, end or percent", id)
	}
	return b.add(g.Widget)
}

func (b *builder) addBarrier(e *Barrier) error {
	id, err := b.id(e.ID, "barrier")
	if err != nil {
		return err
	}
	refs := make([]*widget.Widget, 0, len(e.Refs))
	for _, r := range e.Refs {
		w, ok := b.c.Lookup(r)
		if !ok || w == b.c.Widget {
			return errs.New(errs.ErrCodeUnknownWidget, "%s: unknown reference %q", id, r)
		}
		refs = append(refs, w)
	}
	// Unknown sides make an invalid barrier, which lays out as a no-op.
	br := widget.NewBarrier(id, widget.ParseBarrierType(strings.ToLower(e.Side)), e.Margin, refs...)
	br.AllowsGoneWidget = e.AllowsGone
	return b.add(br.Widget)
}

func parseDimension(id, s string) (widget.DimensionBehaviour, error) {
	d, err := widget.ParseDimensionBehaviour(s)
	if err != nil {
		return d, errs.Wrap(errs.ErrCodeInvalidDocument, err, "%s", id)
	}
	return d, nil
}

func parseOrientation(s string) (widget.Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return widget.Horizontal, nil
	case "vertical", "v":
		return widget.Vertical, nil
	}
	return widget.Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// ParseRatio parses "w:h", a plain number, or either prefixed with "W," or
// "H," naming the side derived from the other. The ratio is width/height.
func ParseRatio(s string) (float64, widget.RatioSide, error) {
	side := widget.RatioUnknown
	s = strings.TrimSpace(s)
	if prefix, rest, ok := strings.Cut(s, ","); ok {
		switch strings.ToUpper(strings.TrimSpace(prefix)) {
		case "W":
			side = widget.RatioWidth
		case "H":
			side = widget.RatioHeight
		default:
			return 0, side, fmt.Errorf("invalid ratio side %q", prefix)
		}
		s = strings.TrimSpace(rest)
	}
	num, den, hasDen := strings.Cut(s, ":")
	n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return 0, side, fmt.Errorf("invalid ratio %q", s)
	}
	if hasDen {
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, side, fmt.Errorf("invalid ratio %q", s)
		}
		n /= d
	}
	if n <= 0 {
		return 0, side, fmt.Errorf("ratio %q must be positive", s)
	}
	return n, side, nil
}
