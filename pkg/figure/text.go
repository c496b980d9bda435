package figure

import "strings"

// HAlign is the horizontal anchor of a text artist.
type HAlign string

// VAlign is the vertical anchor of a text artist.
type VAlign string

const (
	AlignLeft   HAlign = "left"
	AlignCenter HAlign = "center"
	AlignRight  HAlign = "right"

	AlignTop    VAlign = "top"
	AlignMiddle VAlign = "center"
	AlignBottom VAlign = "bottom"
)

// Text is a free-floating text artist anchored at (X, Y) in figure fractions.
//
// Overlapping classifies the artist for the aspect routine: non-overlapping
// texts reserve dedicated space outside the plot area and are measured once;
// overlapping texts may intrude into the plot area and are re-measured on
// every iteration.
type Text struct {
	Content     string  `json:"content"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	HAlign      HAlign  `json:"ha,omitempty"`
	VAlign      VAlign  `json:"va,omitempty"`
	FontSize    float64 `json:"size,omitempty"`
	Overlapping bool    `json:"overlapping,omitempty"`
}

func (*Text) artist() {}

// Lines splits the content on newlines.
func (t *Text) Lines() []string {
	if t.Content == "" {
		return nil
	}
	return strings.Split(t.Content, "\n")
}

// Size returns the font size in points, falling back to base when unset.
func (t *Text) Size(base float64) float64 {
	if t.FontSize > 0 {
		return t.FontSize
	}
	return base
}

// Place returns the text's rectangle in figure fractions given its measured
// extent as fractions of the figure width and height. The anchored edge is
// exact.
func (t *Text) Place(w, h float64) Rect {
	var r Rect
	switch t.HAlign {
	case AlignCenter:
		r.X0, r.X1 = t.X-w/2, t.X+w/2
	case AlignRight:
		r.X0, r.X1 = t.X-w, t.X
	default:
		r.X0, r.X1 = t.X, t.X+w
	}
	switch t.VAlign {
	case AlignTop:
		r.Y0, r.Y1 = t.Y-h, t.Y
	case AlignMiddle:
		r.Y0, r.Y1 = t.Y-h/2, t.Y+h/2
	default:
		r.Y0, r.Y1 = t.Y, t.Y+h
	}
	return r
}
