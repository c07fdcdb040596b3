package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/datacanvas/pkg/scene"
)

// Font stacks for the two label fonts.
const (
	fontDraw = `'Patrick Hand', 'Comic Sans MS', 'Segoe Script', sans-serif`
	fontMono = `'JetBrains Mono', 'Menlo', 'Consolas', monospace`
)

// Label colors keyed by scene.Style.Color.
var palette = map[string]string{
	"black": "#1d1d1d",
	"blue":  "#4465e9",
	"red":   "#e03131",
}

const (
	frameFill   = "#ffffff"
	frameStroke = "#9fa8b2"
	titleColor  = "#717171"
	fontSize    = 16.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
}

// WithBackground fills the canvas behind all nodes.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle adds a <title> element.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// RenderSVG draws snap. The view box is the snapshot viewport, or the node
// bounds plus scene.ViewPadding when the viewport was never fitted.
func RenderSVG(snap scene.Snapshot, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	view := viewBox(snap)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		view.X, view.Y, view.W, view.H, view.W, view.H)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			view.X, view.Y, view.W, view.H, escapeXML(r.background))
	}

	for _, n := range snap.Nodes {
		switch n.Kind {
		case scene.KindContainer:
			renderFrame(&buf, n)
		case scene.KindLabel:
			renderLabel(&buf, n)
		case scene.KindImage:
			renderImage(&buf, n, snap)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func viewBox(snap scene.Snapshot) scene.Rect {
	if snap.Viewport.W > 0 && snap.Viewport.H > 0 {
		return snap.Viewport
	}
	b, ok := snap.Bounds()
	if !ok {
		return scene.Rect{W: 2 * scene.ViewPadding, H: 2 * scene.ViewPadding}
	}
	p := scene.ViewPadding
	return scene.Rect{X: b.X - p, Y: b.Y - p, W: b.W + 2*p, H: b.H + 2*p}
}

func renderFrame(buf *bytes.Buffer, n scene.Node) {
	fmt.Fprintf(buf, `  <g class="frame" id="%s">`+"\n", escapeXML(string(n.ID)))
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
		n.X, n.Y, n.W, n.H, frameFill, frameStroke)
	if n.Text != "" {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="%s" font-size="12" fill="%s">%s</text>`+"\n",
			n.X, n.Y-6, fontDraw, titleColor, escapeXML(n.Text))
	}
	buf.WriteString("  </g>\n")
}

func renderLabel(buf *bytes.Buffer, n scene.Node) {
	font := fontDraw
	if n.Style.Font() == "mono" {
		font = fontMono
	}
	fmt.Fprintf(buf, `  <text class="%s" x="%.1f" y="%.1f" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
		escapeXML(string(n.Style)), n.X, n.Y+fontSize, font, fontSize, palette[n.Style.Color()], escapeXML(n.Text))
}

func renderImage(buf *bytes.Buffer, n scene.Node, snap scene.Snapshot) {
	a, ok := snap.Asset(n.AssetID)
	if !ok {
		return
	}
	fmt.Fprintf(buf, `  <image href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid meet"><title>%s</title></image>`+"\n",
		escapeXML(a.Src), n.X, n.Y, n.W, n.H, escapeXML(a.Name))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
