// Package title wraps a figure title across lines so that every line fits
// within the figure's padded width.
//
// Widths come from an [oracle.TextMeasurer], so wrapping follows the real
// font metrics rather than a character count. Measuring is pure: the figure
// is only modified by [SetSuptitle], once, with the final text.
package title

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/observability"
	"github.com/matzehuels/figfit/pkg/oracle"
)

// DefaultPad is the inset on each side of the title in multiples of the
// figure font size.
const DefaultPad = 1.08

// Option configures wrapping.
type Option func(*options)

type options struct {
	pad      float64
	fontSize float64
	logger   *log.Logger
}

// WithPad sets the side inset in multiples of the font size (default 1.08).
func WithPad(pad float64) Option {
	return func(o *options) { o.pad = pad }
}

// WithFontSize sets the title font size in points. By default the title is
// [figure.SuptitleScale] times the figure font size.
func WithFontSize(pt float64) Option {
	return func(o *options) { o.fontSize = pt }
}

// WithLogger sets the logger for wrap decisions.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(fig *figure.Figure, opts []Option) (*options, error) {
	o := &options{pad: DefaultPad}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := errors.ValidatePad(o.pad); err != nil {
		return nil, err
	}
	if o.fontSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", o.fontSize)
	}
	if o.fontSize == 0 {
		o.fontSize = fig.FontSize() * figure.SuptitleScale
	}
	return o, nil
}

// MaxWidth returns the widest line a title may have on fig, in inches.
func MaxWidth(fig *figure.Figure, pad float64) float64 {
	return fig.Width() - 2*fig.PadInches(pad)
}

// Lines splits words into lines no wider than the figure's padded width.
//
// Each line takes the longest prefix of the remaining words that fits,
// trying all of them first and dropping one word at a time. A single word
// wider than the limit is placed alone on its line. Word order is kept.
func Lines(fig *figure.Figure, m oracle.TextMeasurer, words []string, opts ...Option) ([]string, error) {
	if fig == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure is nil")
	}
	if err := errors.ValidateWords(words); err != nil {
		return nil, err
	}
	o, err := newOptions(fig, opts)
	if err != nil {
		return nil, err
	}

	limit := MaxWidth(fig, o.pad)
	if limit <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"pad %g leaves no room for a title on a %gin wide figure", o.pad, fig.Width())
	}

	var lines []string
	rest := words
	for i := 0; i < len(words) && len(rest) > 0; i++ {
		n, err := fit(fig, m, rest, o.fontSize, limit)
		if err != nil {
			return nil, err
		}
		lines = append(lines, strings.Join(rest[:n], " "))
		rest = rest[n:]
	}

	observability.Layout().OnWrap(len(words), len(lines))
	o.logger.Debug("wrapped title",
		"words", len(words),
		"lines", len(lines),
		"max_width", limit,
		"size", o.fontSize)
	return lines, nil
}

// fit returns how many leading words fit on one line, at least one.
func fit(fig *figure.Figure, m oracle.TextMeasurer, words []string, size, limit float64) (int, error) {
	for n := len(words); n > 1; n-- {
		w, _, err := m.TextExtent(fig, strings.Join(words[:n], " "), size)
		if err != nil {
			return 0, err
		}
		if w <= limit {
			return n, nil
		}
	}
	return 1, nil
}

// Wrap is [Lines] joined with newlines.
func Wrap(fig *figure.Figure, m oracle.TextMeasurer, words []string, opts ...Option) (string, error) {
	lines, err := Lines(fig, m, words, opts...)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// SetSuptitle wraps text and sets it as fig's suptitle. Any existing line
// breaks in text are treated as spaces.
func SetSuptitle(fig *figure.Figure, m oracle.TextMeasurer, text string, opts ...Option) (*figure.Text, error) {
	if fig == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "figure is nil")
	}
	fig.Lock()
	defer fig.Unlock()

	o, err := newOptions(fig, opts)
	if err != nil {
		return nil, err
	}
	wrapped, err := Wrap(fig, m, strings.Fields(text), opts...)
	if err != nil {
		return nil, err
	}

	t := fig.SetSuptitle(wrapped)
	t.FontSize = o.fontSize
	return t, nil
}
