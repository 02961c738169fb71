package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/anchorlayout/pkg/analyzer"
	"github.com/matzehuels/anchorlayout/pkg/dependency"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds node values and margins to the labels. When false only
	// the node kind is shown.
	Detailed bool
}

// RunName describes a run as "id kind", e.g. "title horizontal".
func RunName(r analyzer.Run) string {
	kind := "run"
	switch r.(type) {
	case *analyzer.HorizontalRun:
		kind = "horizontal"
	case *analyzer.VerticalRun:
		kind = "vertical"
	case *analyzer.ChainRun:
		kind = r.Orientation().String() + " chain"
	case *analyzer.GuidelineReference:
		kind = "guideline"
	case *analyzer.HelperReferences:
		kind = "barrier"
	}
	return r.Widget().ID + " " + kind
}

// runNodes returns the nodes a run owns, in display order.
func runNodes(r analyzer.Run) []*dependency.Node {
	nodes := []*dependency.Node{r.Start(), r.End(), r.Dimension()}
	if v, ok := r.(*analyzer.VerticalRun); ok {
		nodes = append(nodes, v.Baseline())
	}
	return nodes
}

type namer struct {
	names map[*dependency.Node]string
	order []*dependency.Node
}

func (n *namer) name(node *dependency.Node) (string, bool) {
	if s, ok := n.names[node]; ok {
		return s, false
	}
	s := "n" + strconv.Itoa(len(n.order))
	n.names[node] = s
	n.order = append(n.order, node)
	return s, true
}

// ToDOT converts the runs of g to Graphviz DOT. Build the graph first with
// [analyzer.DependencyGraph.BuildGraph] or
// [analyzer.DependencyGraph.DirectMeasure]; the latter also shows resolved
// values.
func ToDOT(g *analyzer.DependencyGraph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	nm := &namer{names: map[*dependency.Node]string{}}
	clusters := 0
	var cluster func(r analyzer.Run, indent string)
	cluster = func(r analyzer.Run, indent string) {
		fmt.Fprintf(&buf, "%ssubgraph cluster_%d {\n", indent, clusters)
		clusters++
		fmt.Fprintf(&buf, "%s  label=%q;\n", indent, RunName(r))
		for _, node := range runNodes(r) {
			name, _ := nm.name(node)
			fmt.Fprintf(&buf, "%s  %s [%s];\n", indent, name, strings.Join(fmtAttrs(node, opts.Detailed), ", "))
		}
		if c, ok := r.(*analyzer.ChainRun); ok {
			for _, m := range c.MemberRuns() {
				cluster(m, indent+"  ")
			}
		}
		fmt.Fprintf(&buf, "%s}\n", indent)
	}
	for _, r := range g.Runs() {
		cluster(r, "  ")
	}

	// Targets owned by runs outside the run list (the widget runs behind
	// guidelines and barriers) are declared on first use.
	buf.WriteString("\n")
	for i := 0; i < len(nm.order); i++ {
		node := nm.order[i]
		for _, t := range node.Targets {
			tn, fresh := nm.name(t)
			if fresh {
				fmt.Fprintf(&buf, "  %s [%s];\n", tn, strings.Join(fmtAttrs(t, opts.Detailed), ", "))
			}
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", tn, nm.names[node], strings.Join(edgeAttrs(node, t, opts.Detailed), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *dependency.Node, detailed bool) string {
	label := n.Kind.String()
	if owner, ok := n.Run.(analyzer.Run); ok {
		label = owner.Widget().ID + "." + label
	}
	if !detailed {
		return label
	}
	if n.IsResolved() {
		return label + "\n= " + strconv.Itoa(n.Value())
	}
	return label + "\n(" + n.State().String() + ")"
}

func fmtAttrs(n *dependency.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, detailed))}
	switch {
	case !n.IsResolved():
		attrs = append(attrs, "color=red")
	case n.Kind.IsDimension():
		attrs = append(attrs, "fillcolor=lightyellow")
	default:
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func edgeAttrs(node, target *dependency.Node, detailed bool) []string {
	var attrs []string
	if target.Kind.IsDimension() {
		attrs = append(attrs, "style=dashed")
	}
	if detailed && !node.DelegateToRun && node.Margin != 0 && !target.Kind.IsDimension() {
		attrs = append(attrs, fmt.Sprintf("label=%q", fmt.Sprintf("%+d", node.Margin)))
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "style=solid")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching pixel width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
