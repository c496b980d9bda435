package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figfit/pkg/config"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/layout"
	"github.com/matzehuels/figfit/pkg/oracle"
	"github.com/matzehuels/figfit/pkg/title"
)

// Fitted is a figure after the fit stage.
type Fitted struct {
	Figure *figure.Figure

	// Title holds the wrapped suptitle lines, nil unless wrapping ran.
	Title []string

	// Center and Aspect are nil for routines that did not run.
	Center *layout.Result
	Aspect *layout.Result

	// CenteredAxes is the index of the axes pinned centered, if any.
	CenteredAxes *int
}

// Load reads and validates a figure document.
func Load(path string) (*config.Document, error) {
	return config.Load(path)
}

// Fit builds the figure doc describes and runs the layout routines its
// [layout] section enables, in order: title wrapping, centering, aspect,
// single-axes centering.
// doc must have been validated.
//
// The context is checked between routines; a routine that started runs to
// completion.
func Fit(ctx context.Context, doc *config.Document, o oracle.Oracle, logger *log.Logger) (*Fitted, error) {
	fig, err := doc.Build()
	if err != nil {
		return nil, err
	}
	f := &Fitted{Figure: fig}
	l := doc.Layout

	if l.WrapTitle && doc.Suptitle != "" {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := title.SetSuptitle(fig, o, doc.Suptitle, title.WithPad(pad(l)), title.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		f.Title = t.Lines()
	}

	opts := LayoutOptions(l, logger)

	if l.Center {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := layout.Center(fig, o, opts...)
		if err != nil {
			return nil, err
		}
		f.Center = &res
	}

	if l.Aspect != 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ax, err := fig.AxesAt(l.AspectAxes)
		if err != nil {
			return nil, err
		}
		res, err := layout.Aspect(ax, o, l.Aspect, opts...)
		if err != nil {
			return nil, err
		}
		f.Aspect = &res
	}

	if l.CenterAxes != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		i := *l.CenterAxes
		ax, err := fig.AxesAt(i)
		if err != nil {
			return nil, err
		}
		if err := layout.CenterAxes(ax, o, opts...); err != nil {
			return nil, err
		}
		f.CenteredAxes = &i
	}

	return f, nil
}

// Iterations returns the total iteration count of the routines that ran.
func (f *Fitted) Iterations() int {
	n := 0
	for _, r := range []*layout.Result{f.Center, f.Aspect} {
		if r != nil {
			n += r.Iterations
		}
	}
	return n
}
