// Package oracle defines the geometry and text-measurement collaborator that
// figfit's layout routines query, and provides a font-metrics implementation.
//
// The layout core never measures anything itself. It asks an [Oracle] for
// tight-layout margins and artist bounding boxes, applies one scalar change
// to the figure and asks again. Keeping the oracle behind an interface lets
// the convergence loop run against a real font-backed implementation
// ([Metrics]) or a scripted fake (package oracletest).
//
// # Contract
//
//   - [Geometry.TightMargins] is a pure function of the figure's current
//     size, decorations and the padding; it must be re-queried after every
//     geometry-affecting mutation.
//   - [Geometry.BBox] returns an artist's rendered extent in figure
//     fractions, decorations included for axes.
//   - [TextMeasurer.TextExtent] returns a string's rendered width and height
//     in inches without mutating the figure.
package oracle

import (
	"github.com/matzehuels/figfit/pkg/figure"
)

// Geometry proposes tight-layout margins and measures artists.
type Geometry interface {
	// TightMargins returns margins that make the axes and their decorations
	// fit inside rect with pad (in multiples of the figure font size) between
	// the content and rect's edges.
	TightMargins(fig *figure.Figure, pad float64, rect figure.Rect) (figure.MarginSet, error)

	// BBox returns the artist's bounding box in figure fractions.
	BBox(fig *figure.Figure, a figure.Artist) (figure.Rect, error)
}

// TextMeasurer measures rendered text.
type TextMeasurer interface {
	// TextExtent returns the width and height in inches of s rendered at
	// size points on fig. Newlines start new lines.
	TextExtent(fig *figure.Figure, s string, size float64) (width, height float64, err error)
}

// Oracle is the full collaborator contract.
type Oracle interface {
	Geometry
	TextMeasurer
}
