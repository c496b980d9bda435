package figure

import "math"

// Rect is a rectangle in figure-fractional coordinates.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Unit is the whole figure.
var Unit = Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}

func (r Rect) Width() float64   { return r.X1 - r.X0 }
func (r Rect) Height() float64  { return r.Y1 - r.Y0 }
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.X1 <= r.X0 || r.Y1 <= r.Y0 }

// Inches converts r to physical inches for a figure of the given size.
// The result is ordered the same way (x0, y0, x1, y1) from the bottom-left.
func (r Rect) Inches(width, height float64) Rect {
	return Rect{X0: r.X0 * width, Y0: r.Y0 * height, X1: r.X1 * width, Y1: r.Y1 * height}
}
