package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphrank/pkg/graph"
	"github.com/matzehuels/graphrank/pkg/shortestpath"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the shortest distance to every node label.
	// When false, only the vertex number is shown.
	Detailed bool

	// TreeOnly drops edges that are not on the shortest-path tree.
	TreeOnly bool
}

// ToDOT converts a weighted matrix to Graphviz DOT format. Edges on the
// shortest-path tree recorded in res are drawn bold; vertices the source
// cannot reach get dashed grey outlines.
//
// res may be the zero Result, in which case the plain graph is drawn.
func ToDOT(m *graph.Matrix, res shortestpath.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=18];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("\n")

	n := m.N()
	for v := 0; v < n; v++ {
		attrs := nodeAttrs(v, res, opts.Detailed)
		fmt.Fprintf(&buf, "  %d [%s];\n", v, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for u := 0; u < n; u++ {
		for v, w := range m.Row(u) {
			if w == 0 {
				continue
			}
			tree := onTree(res, u, v)
			if opts.TreeOnly && !tree {
				continue
			}
			fmt.Fprintf(&buf, "  %d -> %d [%s];\n", u, v, strings.Join(edgeAttrs(w, tree), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(v int, res shortestpath.Result, detailed bool) []string {
	label := strconv.Itoa(v)
	known := v < len(res.Dist)
	if detailed && known {
		if d := res.Dist[v]; d == shortestpath.Sentinel {
			label += "\n∞"
		} else {
			label += "\n" + strconv.FormatUint(d, 10)
		}
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case known && v == res.Source:
		attrs = append(attrs, "shape=doublecircle", "fillcolor=\"#d0e6ff\"")
	case known && res.Dist[v] == shortestpath.Sentinel:
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey", "fontcolor=grey40")
	}
	return attrs
}

func edgeAttrs(w uint32, tree bool) []string {
	attrs := []string{fmt.Sprintf("label=\"%d\"", w)}
	if tree {
		return append(attrs, "penwidth=2.5", "color=\"#1f6feb\"")
	}
	return append(attrs, "color=grey60", "fontcolor=grey50")
}

func onTree(res shortestpath.Result, u, v int) bool {
	return res.Pred != nil && v < len(res.Pred) && res.Pred[v] == u
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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

// normalizeViewBox rewrites the root element so the drawing scales from the
// origin regardless of the offsets Graphviz emits.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
