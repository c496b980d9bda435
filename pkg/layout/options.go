package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
)

const (
	// MaxIterations is the default iteration budget of a convergence run.
	MaxIterations = 11

	// DefaultPad is the padding between figure edge and content, in
	// multiples of the font size.
	DefaultPad = 1.08

	// GoldenRatio is a pleasant default target aspect.
	GoldenRatio = 1.618033988749895

	// LegacyToleranceMultiplier reproduces the historical aspect tolerance,
	// which scaled the pixel error by an undocumented factor of π.
	LegacyToleranceMultiplier = math.Pi
)

// Tolerance decides when an aspect ratio is close enough to its target.
//
// The error is converted to device pixels as
// |measured − target| × width × dpi × Multiplier, and the run converges
// when that is below one pixel.
type Tolerance struct {
	Multiplier float64
}

// DefaultTolerance accepts less than one device pixel of error.
var DefaultTolerance = Tolerance{Multiplier: 1}

// Pixels returns the error in device pixels.
func (t Tolerance) Pixels(measured, target, widthInches, dpi float64) float64 {
	return math.Abs(measured-target) * widthInches * dpi * t.Multiplier
}

// Within reports whether measured is within one device pixel of target.
func (t Tolerance) Within(measured, target, widthInches, dpi float64) bool {
	return t.Pixels(measured, target, widthInches, dpi) < 1
}

// Option configures a layout routine.
type Option func(*options)

type options struct {
	pad        float64
	maxIter    int
	tolerance  Tolerance
	logger     *log.Logger
	convention Convention
	reserved   []*figure.Text
}

// WithPad sets the padding in multiples of the font size (default 1.08).
func WithPad(pad float64) Option {
	return func(o *options) { o.pad = pad }
}

// WithMaxIterations overrides the iteration budget (default 11).
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIter = n }
}

// WithTolerance sets the aspect tolerance (default [DefaultTolerance]).
func WithTolerance(t Tolerance) Option {
	return func(o *options) { o.tolerance = t }
}

// WithLogger sets the logger for iteration traces and non-convergence
// warnings. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConvention selects how [Aspect] defines the ratio.
func WithConvention(c Convention) Option {
	return func(o *options) { o.convention = c }
}

// WithReserved passes extra artists whose space [Aspect] must keep clear.
// Each text's Overlapping field decides whether it is measured once or on
// every iteration. The suptitle is always reserved.
func WithReserved(texts ...*figure.Text) Option {
	return func(o *options) { o.reserved = append(o.reserved, texts...) }
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		pad:        DefaultPad,
		maxIter:    MaxIterations,
		tolerance:  DefaultTolerance,
		convention: WidthOverHeight,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidatePad(o.pad); err != nil {
		return nil, err
	}
	if o.maxIter < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "iteration budget must be at least 1, got %d", o.maxIter)
	}
	if m := o.tolerance.Multiplier; math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tolerance multiplier must be positive, got %v", m)
	}
	return o, nil
}
