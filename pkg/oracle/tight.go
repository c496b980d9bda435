package oracle

import (
	"math"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
)

// TightMargins implements [Geometry] for figures whose grid-placed axes share
// one subplot grid. Outer margins come from the outermost row and column
// decorations plus pad; inter-axes spacing from the widest gap between
// neighbouring cells plus pad, divided by the resulting average cell size.
// Spacing along an axis with a single cell keeps the figure's current value.
func (m *Metrics) TightMargins(fig *figure.Figure, pad float64, rect figure.Rect) (figure.MarginSet, error) {
	if err := errors.ValidatePad(pad); err != nil {
		return figure.MarginSet{}, err
	}
	if rect.Empty() {
		return figure.MarginSet{}, errors.New(errors.ErrCodeOracle, "layout rect %+v has no area", rect)
	}

	grid, cells, err := m.gridInsets(fig)
	if err != nil {
		return figure.MarginSet{}, err
	}

	w, h := fig.Size()
	padIn := fig.PadInches(pad)
	current := fig.Params()

	var leftIn, rightIn, topIn, bottomIn float64
	colLeft := make([]float64, grid.Cols)
	colRight := make([]float64, grid.Cols)
	rowTop := make([]float64, grid.Rows)
	rowBottom := make([]float64, grid.Rows)
	for g, in := range cells {
		colLeft[g.Col] = math.Max(colLeft[g.Col], in.left)
		colRight[g.Col] = math.Max(colRight[g.Col], in.right)
		rowTop[g.Row] = math.Max(rowTop[g.Row], in.top)
		rowBottom[g.Row] = math.Max(rowBottom[g.Row], in.bottom)
	}
	leftIn = colLeft[0]
	rightIn = colRight[grid.Cols-1]
	topIn = rowTop[0]
	bottomIn = rowBottom[grid.Rows-1]

	ms := figure.MarginSet{
		Left:   rect.X0 + (padIn+leftIn)/w,
		Right:  rect.X1 - (padIn+rightIn)/w,
		Bottom: rect.Y0 + (padIn+bottomIn)/h,
		Top:    rect.Y1 - (padIn+topIn)/h,
		WSpace: current.WSpace,
		HSpace: current.HSpace,
	}
	if ms.Left >= ms.Right || ms.Bottom >= ms.Top {
		return figure.MarginSet{}, errors.New(errors.ErrCodeOracle,
			"decorations leave no room for axes in a %gx%g inch figure", w, h)
	}

	if grid.Cols > 1 {
		var gap float64
		for c := 0; c < grid.Cols-1; c++ {
			gap = math.Max(gap, colRight[c]+colLeft[c+1])
		}
		ms.WSpace, err = spacing((gap+padIn)/w, ms.Right-ms.Left, grid.Cols)
		if err != nil {
			return figure.MarginSet{}, err
		}
	}
	if grid.Rows > 1 {
		var gap float64
		for r := 0; r < grid.Rows-1; r++ {
			gap = math.Max(gap, rowBottom[r]+rowTop[r+1])
		}
		ms.HSpace, err = spacing((gap+padIn)/h, ms.Top-ms.Bottom, grid.Rows)
		if err != nil {
			return figure.MarginSet{}, err
		}
	}
	return ms, nil
}

// spacing converts a gap in figure fractions to a fraction of the average
// cell size when n cells share total.
func spacing(gap, total float64, n int) (float64, error) {
	cell := (total - float64(n-1)*gap) / float64(n)
	if cell <= 0 {
		return 0, errors.New(errors.ErrCodeOracle, "spacing leaves no room for %d cells", n)
	}
	return gap / cell, nil
}

// gridInsets collects decoration insets for every grid-placed axes, keyed by
// grid cell. All grid-placed axes must share the same grid dimensions.
func (m *Metrics) gridInsets(fig *figure.Figure) (figure.Grid, map[figure.Grid]insets, error) {
	var grid figure.Grid
	cells := make(map[figure.Grid]insets)

	for _, ax := range fig.Axes() {
		if !ax.HasGrid() {
			continue
		}
		g := ax.Grid()
		if len(cells) == 0 {
			grid = figure.Grid{Rows: g.Rows, Cols: g.Cols}
		} else if g.Rows != grid.Rows || g.Cols != grid.Cols {
			return grid, nil, errors.New(errors.ErrCodeOracle,
				"axes do not share a subplot grid (%dx%d vs %dx%d)", g.Rows, g.Cols, grid.Rows, grid.Cols)
		}
		in, err := m.axesInsets(fig, ax)
		if err != nil {
			return grid, nil, err
		}
		if prev, ok := cells[g]; ok {
			in = insets{
				left:   math.Max(prev.left, in.left),
				right:  math.Max(prev.right, in.right),
				bottom: math.Max(prev.bottom, in.bottom),
				top:    math.Max(prev.top, in.top),
			}
		}
		cells[g] = in
	}
	if len(cells) == 0 {
		return grid, nil, errors.New(errors.ErrCodeOracle, "figure has no grid-placed axes")
	}
	return grid, cells, nil
}
