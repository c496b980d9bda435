package render

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
)

// FaceSource supplies font faces for raster output. [*oracle.Metrics]
// implements it, so pixels match what the layout measured.
type FaceSource interface {
	Face(size, dpi float64) (font.Face, error)
}

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithScale sets the PNG scale factor (default 1, the figure's DPI).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the scene with faces from src.
func RenderPNG(s *Scene, src FaceSource, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if math.IsNaN(r.scale) || r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %v", r.scale)
	}

	pw, ph := s.Pixels()
	dc := gg.NewContext(int(math.Ceil(pw*r.scale)), int(math.Ceil(ph*r.scale)))
	dc.Scale(r.scale, r.scale)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetHexColor("#333333")
	dc.SetLineWidth(1)

	dpi := s.DPI * r.scale
	face := func(pt float64) error {
		f, err := src.Face(pt, dpi)
		if err != nil {
			return err
		}
		dc.SetFontFace(f)
		return nil
	}
	// Faces are sized in scaled pixels; the context transform would scale
	// them twice.
	label := func(s string, x, y, ax, ay float64) {
		dc.Push()
		dc.Identity()
		dc.DrawStringAnchored(s, x*r.scale, y*r.scale, ax, ay)
		dc.Pop()
	}

	for _, ax := range s.Axes {
		x, y, w, h := s.box(ax.Rect)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

		if err := face(s.FontSize); err != nil {
			return nil, err
		}
		tick, pad := s.pt(tickLength), s.pt(tickPad)
		for i, f := range ticks(len(ax.XTicks)) {
			tx := x + f*w
			dc.DrawLine(tx, y+h, tx, y+h+tick)
			dc.Stroke()
			label(ax.XTicks[i], tx, y+h+tick+pad, 0.5, 1)
		}
		for i, f := range ticks(len(ax.YTicks)) {
			ty := y + h - f*h
			dc.DrawLine(x-tick, ty, x, ty)
			dc.Stroke()
			label(ax.YTicks[i], x-tick-pad, ty, 1, 0.35)
		}

		bx, by, _, bh := s.box(ax.BBox)
		if ax.XLabel != "" {
			label(ax.XLabel, x+w/2, by+bh, 0.5, 0)
		}
		if ax.YLabel != "" {
			cy := y + h/2
			dc.Push()
			dc.Identity()
			dc.RotateAbout(-math.Pi/2, bx*r.scale, cy*r.scale)
			dc.DrawStringAnchored(ax.YLabel, bx*r.scale, cy*r.scale, 0.5, 1)
			dc.Pop()
		}
		if ax.Title != "" {
			if err := face(s.FontSize * figure.SuptitleScale); err != nil {
				return nil, err
			}
			label(ax.Title, x+w/2, by, 0.5, 1)
		}
	}

	for _, t := range s.Texts {
		if err := face(t.Size); err != nil {
			return nil, err
		}
		x, y := s.point(t.X, t.Y)
		lines := (&figure.Text{Content: t.Content}).Lines()
		lineH := s.pt(t.Size) * lineSpacing
		ax := map[figure.HAlign]float64{figure.AlignCenter: 0.5, figure.AlignRight: 1}[t.HAlign]

		// Top of the first line.
		top := y - float64(len(lines))*lineH
		switch t.VAlign {
		case figure.AlignTop:
			top = y
		case figure.AlignMiddle:
			top = y - float64(len(lines))*lineH/2
		}
		for i, line := range lines {
			label(line, x, top+float64(i)*lineH, ax, 1)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
