package oracle

import (
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/fonts"
)

// Default decoration spacing in points, matching common plotting defaults.
const (
	DefaultTickPad     = 3.5
	DefaultLabelPad    = 4.0
	DefaultTitlePad    = 6.0
	DefaultLineSpacing = 1.2
)

// Metrics is a font-backed [Oracle]. Text is measured with an OpenType face
// at the figure's DPI; axes decorations are stacked outward from the data
// rectangle: tick labels, then axis labels, and the title on top.
//
// Metrics is safe for concurrent use. Faces are cached per size and DPI.
type Metrics struct {
	font        *opentype.Font
	lineSpacing float64
	tickPad     float64
	labelPad    float64
	titlePad    float64

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	dpi  float64
}

// Option configures a Metrics oracle.
type Option func(*Metrics)

// WithFont measures with f instead of the default Go font.
func WithFont(f *opentype.Font) Option {
	return func(m *Metrics) { m.font = f }
}

// WithLineSpacing sets the distance between consecutive baselines as a
// multiple of the line height (default 1.2).
func WithLineSpacing(s float64) Option {
	return func(m *Metrics) { m.lineSpacing = s }
}

// WithPads sets the tick, label and title paddings in points.
func WithPads(tick, label, title float64) Option {
	return func(m *Metrics) { m.tickPad, m.labelPad, m.titlePad = tick, label, title }
}

// New creates a Metrics oracle.
func New(opts ...Option) (*Metrics, error) {
	m := &Metrics{
		lineSpacing: DefaultLineSpacing,
		tickPad:     DefaultTickPad,
		labelPad:    DefaultLabelPad,
		titlePad:    DefaultTitlePad,
		faces:       make(map[faceKey]font.Face),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.font == nil {
		f, err := fonts.Lookup(fonts.Default)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load default font")
		}
		m.font = f
	}
	return m, nil
}

// Face returns a cached face for size points at dpi.
func (m *Metrics) Face(size, dpi float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{size: size, dpi: dpi}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeOracle, err, "create face at %gpt/%gdpi", size, dpi)
	}
	m.faces[key] = f
	return f, nil
}

// TextExtent implements [TextMeasurer].
func (m *Metrics) TextExtent(fig *figure.Figure, s string, size float64) (float64, float64, error) {
	if s == "" {
		return 0, 0, nil
	}
	if size <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", size)
	}
	dpi := fig.DPI()
	face, err := m.Face(size, dpi)
	if err != nil {
		return 0, 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lines := strings.Split(s, "\n")
	var widest fixed.Int26_6
	for _, line := range lines {
		if w := font.MeasureString(face, line); w > widest {
			widest = w
		}
	}
	metrics := face.Metrics()
	lineH := toFloat(metrics.Ascent + metrics.Descent)
	height := lineH * (1 + float64(len(lines)-1)*m.lineSpacing)

	return toFloat(widest) / dpi, height / dpi, nil
}

// lineHeight returns the height in inches of one line at size points.
func (m *Metrics) lineHeight(fig *figure.Figure, size float64) (float64, error) {
	_, h, err := m.TextExtent(fig, "Xg", size)
	return h, err
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// insets is the decoration extent around an axes' data rectangle, in inches.
type insets struct {
	left, right, bottom, top float64
}

// axesInsets measures how far an axes' decorations extend beyond its data
// rectangle on each side.
func (m *Metrics) axesInsets(fig *figure.Figure, ax *figure.Axes) (insets, error) {
	var in insets
	base := fig.FontSize()
	pt := func(v float64) float64 { return v / 72 }

	lineH, err := m.lineHeight(fig, base)
	if err != nil {
		return in, err
	}

	if n := len(ax.YTickLabels); n > 0 {
		var widest float64
		for _, lbl := range ax.YTickLabels {
			w, _, err := m.TextExtent(fig, lbl, base)
			if err != nil {
				return in, err
			}
			widest = math.Max(widest, w)
		}
		in.left = widest + pt(m.tickPad)
		// Outer tick labels are vertically centered on the axes edges.
		in.top = lineH / 2
		in.bottom = lineH / 2
	}
	if ax.YLabel != "" {
		// Rotated 90°: the label's height becomes horizontal extent.
		_, h, err := m.TextExtent(fig, ax.YLabel, base)
		if err != nil {
			return in, err
		}
		in.left += pt(m.labelPad) + h
	}

	if n := len(ax.XTickLabels); n > 0 {
		first, _, err := m.TextExtent(fig, ax.XTickLabels[0], base)
		if err != nil {
			return in, err
		}
		last, _, err := m.TextExtent(fig, ax.XTickLabels[n-1], base)
		if err != nil {
			return in, err
		}
		in.left = math.Max(in.left, first/2)
		in.right = math.Max(in.right, last/2)
		in.bottom = lineH + pt(m.tickPad)
	}
	if ax.XLabel != "" {
		_, h, err := m.TextExtent(fig, ax.XLabel, base)
		if err != nil {
			return in, err
		}
		in.bottom += pt(m.labelPad) + h
	}

	if ax.Title != "" {
		_, h, err := m.TextExtent(fig, ax.Title, base*figure.SuptitleScale)
		if err != nil {
			return in, err
		}
		in.top = math.Max(in.top, pt(m.titlePad)+h)
	}
	return in, nil
}

// BBox implements [Geometry].
func (m *Metrics) BBox(fig *figure.Figure, a figure.Artist) (figure.Rect, error) {
	w, h := fig.Size()
	switch v := a.(type) {
	case *figure.Axes:
		if v.Figure() != fig {
			return figure.Rect{}, errors.New(errors.ErrCodeInvalidAxes, "axes does not belong to this figure")
		}
		in, err := m.axesInsets(fig, v)
		if err != nil {
			return figure.Rect{}, err
		}
		pos := v.Position()
		return figure.Rect{
			X0: pos.X0 - in.left/w,
			Y0: pos.Y0 - in.bottom/h,
			X1: pos.X1 + in.right/w,
			Y1: pos.Y1 + in.top/h,
		}, nil
	case *figure.Text:
		tw, th, err := m.TextExtent(fig, v.Content, v.Size(fig.FontSize()))
		if err != nil {
			return figure.Rect{}, err
		}
		return v.Place(tw/w, th/h), nil
	default:
		return figure.Rect{}, errors.New(errors.ErrCodeUnsupported, "unsupported artist %T", a)
	}
}
