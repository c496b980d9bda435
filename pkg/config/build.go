package config

import (
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
)

// Build creates the figure the document describes. Axes are added in
// document order, so layout.aspect_axes indexes [figure.Figure.AxesAt].
// The suptitle is set verbatim; wrapping is left to the caller.
func (d *Document) Build() (*figure.Figure, error) {
	opts := []figure.Option{
		figure.WithDPI(d.Figure.DPI),
		figure.WithFontSize(d.Figure.FontSize),
	}
	if d.Figure.Params != nil {
		opts = append(opts, figure.WithParams(*d.Figure.Params))
	}
	fig, err := figure.New(d.Figure.Width, d.Figure.Height, opts...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "figure")
	}

	for i, a := range d.Axes {
		ax, err := fig.AddSubplot(a.Rows, a.Cols, a.Index)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "axes[%d]", i)
		}
		ax.Title = a.Title
		ax.XLabel = a.XLabel
		ax.YLabel = a.YLabel
		ax.XTickLabels = a.XTicks
		ax.YTickLabels = a.YTicks
		if len(a.Position) == 4 {
			if err := ax.SetPosition(a.rect()); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "axes[%d]", i)
			}
		}
	}

	for _, t := range d.Texts {
		fig.AddText(&figure.Text{
			Content:     t.Content,
			X:           t.X,
			Y:           t.Y,
			HAlign:      figure.HAlign(t.HAlign),
			VAlign:      valign(t.VAlign),
			FontSize:    t.Size,
			Overlapping: t.Overlapping,
		})
	}

	if d.Suptitle != "" {
		fig.SetSuptitle(d.Suptitle)
	}
	return fig, nil
}

// valign maps "baseline" to bottom; the layout does not track descenders.
func valign(s string) figure.VAlign {
	if s == "baseline" {
		return figure.AlignBottom
	}
	return figure.VAlign(s)
}
