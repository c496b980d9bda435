package figure

import (
	"github.com/matzehuels/figfit/pkg/errors"
)

// Artist is anything with a measurable bounding box: an [*Axes] or a [*Text].
type Artist interface {
	artist()
}

// Grid locates an axes in its subplot grid. Row 0 is the top row.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
	Row  int `json:"row"`
	Col  int `json:"col"`
}

// Axes is one rectangular plotting region of a Figure.
//
// The decoration fields (title, labels, tick labels) are what a tight layout
// has to make room for around the data rectangle.
type Axes struct {
	fig  *Figure
	grid Grid
	pos  *Rect

	Title       string
	XLabel      string
	YLabel      string
	XTickLabels []string
	YTickLabels []string
}

func (*Axes) artist() {}

// Figure returns the owning figure.
func (a *Axes) Figure() *Figure { return a.fig }

// Grid returns the axes' subplot grid geometry.
func (a *Axes) Grid() Grid { return a.grid }

// HasGrid reports whether the axes is placed by its grid rather than by an
// explicit position.
func (a *Axes) HasGrid() bool { return a.pos == nil }

// Position returns the data rectangle in figure fractions.
func (a *Axes) Position() Rect {
	if a.pos != nil {
		return *a.pos
	}
	return GridPosition(a.fig.params, a.grid)
}

// SetPosition pins the data rectangle, detaching the axes from the figure's
// subplot parameters.
func (a *Axes) SetPosition(r Rect) error {
	if r.Empty() {
		return errors.New(errors.ErrCodeInvalidAxes, "axes position must have positive area, got %+v", r)
	}
	a.pos = &r
	return nil
}

// ClearPosition reattaches the axes to its grid.
func (a *Axes) ClearPosition() { a.pos = nil }

// GridPosition computes a grid cell's rectangle for the given subplot
// parameters. Rows are counted from the top.
func GridPosition(m MarginSet, g Grid) Rect {
	cellW, sepW := cellSize(m.Right-m.Left, g.Cols, m.WSpace)
	cellH, sepH := cellSize(m.Top-m.Bottom, g.Rows, m.HSpace)

	x0 := m.Left + float64(g.Col)*(cellW+sepW)
	y1 := m.Top - float64(g.Row)*(cellH+sepH)
	return Rect{X0: x0, Y0: y1 - cellH, X1: x0 + cellW, Y1: y1}
}

// cellSize splits total into n cells separated by gaps of space×cell.
func cellSize(total float64, n int, space float64) (cell, sep float64) {
	cell = total / (float64(n) + space*float64(n-1))
	return cell, space * cell
}

// RowFactor is the height of a column of n rows measured in cell heights,
// including the inter-row gaps.
func RowFactor(n int, hspace float64) float64 {
	return float64(n) + hspace*float64(n-1)
}
