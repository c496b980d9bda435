package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/fonts"
)

const (
	tickLength  = 3.5 // points
	tickPad     = 3.5 // points
	lineSpacing = 1.2 // multiples of the font size
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	stroke     string
	fill       string
	fontFamily string
	bboxes     bool
}

// WithBackground sets the canvas color (default white).
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = EscapeXML(color) }
}

// WithStroke sets the color of frames, ticks and text (default #333).
func WithStroke(color string) SVGOption {
	return func(r *svgRenderer) { r.stroke, r.fill = EscapeXML(color), EscapeXML(color) }
}

// WithFontFamily overrides the CSS font-family of all text.
func WithFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = EscapeXML(family) }
}

// WithBBoxes outlines every measured bounding box, which shows what the
// layout had to make room for.
func WithBBoxes() SVGOption { return func(r *svgRenderer) { r.bboxes = true } }

// RenderSVG draws the scene as an SVG document sized in inches.
func RenderSVG(s *Scene, opts ...SVGOption) []byte {
	r := svgRenderer{
		background: "#fff",
		stroke:     "#333",
		fill:       "#333",
		fontFamily: fonts.FontFamily,
	}
	for _, opt := range opts {
		opt(&r)
	}

	pw, ph := s.Pixels()
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%gin" height="%gin">`+"\n",
		pw, ph, s.Width, s.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)

	for _, ax := range s.Axes {
		r.renderAxes(&buf, s, ax)
	}
	for _, t := range s.Texts {
		r.renderText(&buf, s, t)
	}
	if r.bboxes {
		r.renderBBoxes(&buf, s)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderAxes(buf *bytes.Buffer, s *Scene, ax AxesScene) {
	x, y, w, h := s.box(ax.Rect)
	fmt.Fprintf(buf, `  <g class="axes" id="axes-%d">`+"\n", ax.Index)
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
		x, y, w, h, r.stroke)

	size := s.pt(s.FontSize)
	tick := s.pt(tickLength)
	pad := s.pt(tickPad)

	for i, f := range ticks(len(ax.XTicks)) {
		tx := x + f*w
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", tx, y+h, tx, y+h+tick, r.stroke)
		r.text(buf, tx, y+h+tick+pad, size, "middle", "hanging", "", ax.XTicks[i])
	}
	for i, f := range ticks(len(ax.YTicks)) {
		ty := y + h - f*h
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", x-tick, ty, x, ty, r.stroke)
		r.text(buf, x-tick-pad, ty, size, "end", "central", "", ax.YTicks[i])
	}

	bx, by, _, bh := s.box(ax.BBox)
	if ax.XLabel != "" {
		r.text(buf, x+w/2, by+bh, size, "middle", "text-after-edge", "", ax.XLabel)
	}
	if ax.YLabel != "" {
		cy := y + h/2
		rotate := fmt.Sprintf(` transform="rotate(-90 %.2f %.2f)"`, bx, cy)
		r.text(buf, bx, cy, size, "middle", "hanging", rotate, ax.YLabel)
	}
	if ax.Title != "" {
		r.text(buf, x+w/2, by, size*figure.SuptitleScale, "middle", "hanging", "", ax.Title)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, s *Scene, t TextScene) {
	x, y := s.point(t.X, t.Y)
	size := s.pt(t.Size)
	lines := (&figure.Text{Content: t.Content}).Lines()

	anchor := map[figure.HAlign]string{figure.AlignCenter: "middle", figure.AlignRight: "end"}[t.HAlign]
	if anchor == "" {
		anchor = "start"
	}
	baseline := "text-after-edge"
	shift := float64(len(lines)-1) * size * lineSpacing
	switch t.VAlign {
	case figure.AlignTop:
		baseline, shift = "hanging", 0
	case figure.AlignMiddle:
		baseline, shift = "central", shift/2
	}

	weight := ""
	if t.Role == RoleSuptitle {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="%s" font-family="%s" font-size="%.2f" fill="%s"%s>`,
		t.Role, x, y-shift, anchor, baseline, r.fontFamily, size, r.fill, weight)
	for i, line := range lines {
		dy := 0.0
		if i > 0 {
			dy = size * lineSpacing
		}
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2f">%s</tspan>`, x, dy, EscapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func (r *svgRenderer) renderBBoxes(buf *bytes.Buffer, s *Scene) {
	outline := func(rect figure.Rect, class string) {
		x, y, w, h := s.box(rect)
		fmt.Fprintf(buf, `  <rect class="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#d33" stroke-dasharray="4 2"/>`+"\n",
			class, x, y, w, h)
	}
	for _, ax := range s.Axes {
		outline(ax.BBox, "bbox-axes")
	}
	for _, t := range s.Texts {
		outline(t.BBox, "bbox-"+t.Role)
	}
	if !s.Content.Empty() {
		outline(s.Content, "bbox-content")
	}
}

func (r *svgRenderer) text(buf *bytes.Buffer, x, y, size float64, anchor, baseline, extra, content string) {
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="%s" font-family="%s" font-size="%.2f" fill="%s"%s>%s</text>`+"\n",
		x, y, anchor, baseline, r.fontFamily, size, r.fill, extra, EscapeXML(content))
}

// EscapeXML escapes s for use as SVG text or attribute content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
