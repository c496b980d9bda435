package render

import (
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/oracle"
)

// Text roles in a scene.
const (
	RoleText     = "text"
	RoleSuptitle = "suptitle"
)

// Scene is the rendered geometry of a figure. Rectangles are figure
// fractions with the origin at the bottom left.
type Scene struct {
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	DPI      float64          `json:"dpi"`
	FontSize float64          `json:"font_size"`
	Params   figure.MarginSet `json:"params"`
	Axes     []AxesScene      `json:"axes"`
	Texts    []TextScene      `json:"texts,omitempty"`

	// Content is the union of every measured box, zero for an empty figure.
	Content figure.Rect `json:"content"`
}

// AxesScene is one axes: its data rectangle and the box its decorations
// occupy.
type AxesScene struct {
	Index  int         `json:"index"`
	Grid   figure.Grid `json:"grid"`
	Placed bool        `json:"placed,omitempty"`
	Rect   figure.Rect `json:"rect"`
	BBox   figure.Rect `json:"bbox"`
	Aspect float64     `json:"aspect"`
	Title  string      `json:"title,omitempty"`
	XLabel string      `json:"xlabel,omitempty"`
	YLabel string      `json:"ylabel,omitempty"`
	XTicks []string    `json:"xticks,omitempty"`
	YTicks []string    `json:"yticks,omitempty"`
}

// TextScene is one text artist and its measured box.
type TextScene struct {
	Role    string        `json:"role"`
	Content string        `json:"content"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	HAlign  figure.HAlign `json:"ha"`
	VAlign  figure.VAlign `json:"va"`
	Size    float64       `json:"size"`
	BBox    figure.Rect   `json:"bbox"`
}

// NewScene snapshots fig, measuring every artist with g.
func NewScene(fig *figure.Figure, g oracle.Geometry) (*Scene, error) {
	fig.Lock()
	defer fig.Unlock()

	w, h := fig.Size()
	s := &Scene{
		Width:    w,
		Height:   h,
		DPI:      fig.DPI(),
		FontSize: fig.FontSize(),
		Params:   fig.Params(),
	}

	for i, ax := range fig.Axes() {
		bbox, err := g.BBox(fig, ax)
		if err != nil {
			return nil, err
		}
		pos := ax.Position()
		s.Axes = append(s.Axes, AxesScene{
			Index:  i,
			Grid:   ax.Grid(),
			Placed: !ax.HasGrid(),
			Rect:   pos,
			BBox:   bbox,
			Aspect: (pos.Width() * w) / (pos.Height() * h),
			Title:  ax.Title,
			XLabel: ax.XLabel,
			YLabel: ax.YLabel,
			XTicks: ax.XTickLabels,
			YTicks: ax.YTickLabels,
		})
	}

	add := func(role string, t *figure.Text) error {
		bbox, err := g.BBox(fig, t)
		if err != nil {
			return err
		}
		s.Texts = append(s.Texts, TextScene{
			Role:    role,
			Content: t.Content,
			X:       t.X,
			Y:       t.Y,
			HAlign:  t.HAlign,
			VAlign:  t.VAlign,
			Size:    t.Size(fig.FontSize()),
			BBox:    bbox,
		})
		return nil
	}
	for _, t := range fig.Texts() {
		if err := add(RoleText, t); err != nil {
			return nil, err
		}
	}
	if st := fig.Suptitle(); st != nil && st.Content != "" {
		if err := add(RoleSuptitle, st); err != nil {
			return nil, err
		}
	}
	s.Content = s.contentBox()
	return s, nil
}

func (s *Scene) contentBox() figure.Rect {
	var boxes []figure.Rect
	for _, ax := range s.Axes {
		boxes = append(boxes, ax.BBox)
	}
	for _, t := range s.Texts {
		boxes = append(boxes, t.BBox)
	}
	if len(boxes) == 0 {
		return figure.Rect{}
	}
	u := boxes[0]
	for _, b := range boxes[1:] {
		u = u.Union(b)
	}
	return u
}

// Pixels returns the canvas size in device pixels.
func (s *Scene) Pixels() (width, height float64) {
	return s.Width * s.DPI, s.Height * s.DPI
}

// box converts a figure-fractional rectangle to a top-left pixel box.
func (s *Scene) box(r figure.Rect) (x, y, w, h float64) {
	pw, ph := s.Pixels()
	return r.X0 * pw, (1 - r.Y1) * ph, r.Width() * pw, r.Height() * ph
}

// point converts a figure-fractional point to top-left pixel coordinates.
func (s *Scene) point(fx, fy float64) (x, y float64) {
	pw, ph := s.Pixels()
	return fx * pw, (1 - fy) * ph
}

// pt converts points to pixels.
func (s *Scene) pt(v float64) float64 { return v * s.DPI / 72 }

// ticks returns n evenly spaced fractions along [0, 1].
func ticks(n int) []float64 {
	switch n {
	case 0:
		return nil
	case 1:
		return []float64{0.5}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n-1)
	}
	return out
}
