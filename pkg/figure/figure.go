package figure

import (
	"sync"

	"github.com/matzehuels/figfit/pkg/errors"
)

const (
	// DefaultDPI is the resolution of a new figure in dots per inch.
	DefaultDPI = 100.0

	// DefaultFontSize is the base font size of a new figure in points.
	DefaultFontSize = 10.0

	// SuptitleScale is the suptitle size relative to the base font size.
	SuptitleScale = 1.2

	// suptitleY is the suptitle's top anchor in figure fractions.
	suptitleY = 0.98
)

// Figure is a mutable canvas owning axes and text artists.
// It is mutated in place by every layout operation and never copied.
type Figure struct {
	mu sync.Mutex

	width    float64
	height   float64
	dpi      float64
	fontSize float64
	params   MarginSet

	axes     []*Axes
	texts    []*Text
	suptitle *Text
}

// Option configures a new Figure.
type Option func(*Figure)

// WithDPI sets the device resolution (default 100).
func WithDPI(dpi float64) Option {
	return func(f *Figure) { f.dpi = dpi }
}

// WithFontSize sets the base font size in points (default 10).
func WithFontSize(pt float64) Option {
	return func(f *Figure) { f.fontSize = pt }
}

// WithParams sets the initial subplot parameters (default [DefaultParams]).
func WithParams(m MarginSet) Option {
	return func(f *Figure) { f.params = m }
}

// New creates a figure of the given size in inches.
func New(width, height float64, opts ...Option) (*Figure, error) {
	f := &Figure{
		width:    width,
		height:   height,
		dpi:      DefaultDPI,
		fontSize: DefaultFontSize,
		params:   DefaultParams,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := errors.ValidateFigureSize(width, height); err != nil {
		return nil, err
	}
	if err := errors.ValidateDPI(f.dpi); err != nil {
		return nil, err
	}
	if f.fontSize <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", f.fontSize)
	}
	if err := f.params.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Lock acquires exclusive access to the figure.
func (f *Figure) Lock() { f.mu.Lock() }

// Unlock releases the figure.
func (f *Figure) Unlock() { f.mu.Unlock() }

// Size returns the figure width and height in inches.
func (f *Figure) Size() (width, height float64) { return f.width, f.height }

// Width returns the figure width in inches.
func (f *Figure) Width() float64 { return f.width }

// Height returns the figure height in inches.
func (f *Figure) Height() float64 { return f.height }

// SetSize resizes the figure. Subplot parameters are left untouched, so the
// physical size of every grid-placed axes changes with the figure.
func (f *Figure) SetSize(width, height float64) error {
	if err := errors.ValidateFigureSize(width, height); err != nil {
		return err
	}
	f.width, f.height = width, height
	return nil
}

// DPI returns the device resolution in dots per inch.
func (f *Figure) DPI() float64 { return f.dpi }

// FontSize returns the base font size in points.
func (f *Figure) FontSize() float64 { return f.fontSize }

// PadInches converts a padding in multiples of the base font size to inches.
func (f *Figure) PadInches(pad float64) float64 { return pad * f.fontSize / 72 }

// Params returns the applied subplot parameters.
func (f *Figure) Params() MarginSet { return f.params }

// Adjust applies new subplot parameters. Invalid parameters leave the figure
// unchanged.
func (f *Figure) Adjust(m MarginSet) error {
	if err := m.Validate(); err != nil {
		return err
	}
	f.params = m
	return nil
}

// AddSubplot adds an axes at the 1-based index of a rows×cols grid, counting
// left to right then top to bottom.
func (f *Figure) AddSubplot(rows, cols, index int) (*Axes, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidAxes, "grid must have at least one row and column, got %dx%d", rows, cols)
	}
	if index < 1 || index > rows*cols {
		return nil, errors.New(errors.ErrCodeInvalidAxes, "subplot index %d out of range [1, %d]", index, rows*cols)
	}
	ax := &Axes{
		fig: f,
		grid: Grid{
			Rows: rows,
			Cols: cols,
			Row:  (index - 1) / cols,
			Col:  (index - 1) % cols,
		},
	}
	f.axes = append(f.axes, ax)
	return ax, nil
}

// Axes returns the figure's axes in creation order.
func (f *Figure) Axes() []*Axes { return f.axes }

// AxesAt returns the i-th axes (0-based, creation order).
func (f *Figure) AxesAt(i int) (*Axes, error) {
	if i < 0 || i >= len(f.axes) {
		return nil, errors.New(errors.ErrCodeNotFound, "axes %d not found (figure has %d)", i, len(f.axes))
	}
	return f.axes[i], nil
}

// AddText attaches a free-floating text artist.
func (f *Figure) AddText(t *Text) *Text {
	f.texts = append(f.texts, t)
	return t
}

// Texts returns the free-floating text artists (excluding the suptitle).
func (f *Figure) Texts() []*Text { return f.texts }

// Suptitle returns the figure title, or nil if none is set.
func (f *Figure) Suptitle() *Text { return f.suptitle }

// SetSuptitle sets the figure title text, creating it on first use. The
// suptitle is centered at the top of the figure and is a non-overlapping
// reserved artist.
func (f *Figure) SetSuptitle(content string) *Text {
	if f.suptitle == nil {
		f.suptitle = &Text{
			X:        0.5,
			Y:        suptitleY,
			HAlign:   AlignCenter,
			VAlign:   AlignTop,
			FontSize: f.fontSize * SuptitleScale,
		}
	}
	f.suptitle.Content = content
	return f.suptitle
}

// Artists returns every artist on the figure: axes first, then texts, then
// the suptitle.
func (f *Figure) Artists() []Artist {
	out := make([]Artist, 0, len(f.axes)+len(f.texts)+1)
	for _, ax := range f.axes {
		out = append(out, ax)
	}
	for _, t := range f.texts {
		out = append(out, t)
	}
	if f.suptitle != nil {
		out = append(out, f.suptitle)
	}
	return out
}
