package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/datacanvas/pkg/scene"
)

// DOTOptions configures ToDOT.
type DOTOptions struct {
	// Positions appends each node's page coordinates to its label.
	Positions bool
}

const maxDOTLabel = 40

// ToDOT describes the scene tree: one box per frame, one note per label and
// image, with edges from parent to child.
func ToDOT(snap scene.Snapshot, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	for _, n := range snap.Nodes {
		label := dotLabel(n, snap, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(dotAttrs(n, label), ", "))
	}

	buf.WriteString("\n")
	for _, n := range snap.Nodes {
		if n.Parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Parent, n.ID)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n scene.Node, snap scene.Snapshot, opts DOTOptions) string {
	text := n.Text
	if n.Kind == scene.KindImage {
		text = "image"
		if a, ok := snap.Asset(n.AssetID); ok {
			text = a.Name
		}
	}
	if r := []rune(text); len(r) > maxDOTLabel {
		text = string(r[:maxDOTLabel-1]) + "…"
	}
	if opts.Positions {
		text += fmt.Sprintf("\n(%g, %g)", n.X, n.Y)
	}
	return text
}

func dotAttrs(n scene.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case scene.KindContainer:
		attrs = append(attrs, "shape=box", "style=\"rounded,filled\"", "fillcolor=white")
	case scene.KindImage:
		attrs = append(attrs, "shape=box3d", "fillcolor=lightgrey", "style=filled")
	default:
		attrs = append(attrs, "shape=plaintext", fmt.Sprintf("fontcolor=%q", palette[n.Style.Color()]))
	}
	return attrs
}

// RenderNodelinkSVG lays out a DOT graph with Graphviz.
func RenderNodelinkSVG(ctx context.Context, dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's point-based svg header with one sized in
// pixels.
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
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
