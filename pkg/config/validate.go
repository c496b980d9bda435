package config

import (
	"math"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/layout"
)

var (
	validHAlign = map[string]bool{"": true, "left": true, "center": true, "right": true}
	validVAlign = map[string]bool{"": true, "top": true, "center": true, "bottom": true, "baseline": true}
)

// Validate checks the document for values that cannot describe a figure.
// All errors carry [errors.ErrCodeInvalidConfig].
func (d *Document) Validate() error {
	if err := d.Figure.validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "figure")
	}
	for i, ax := range d.Axes {
		if err := ax.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "axes[%d]", i)
		}
	}
	for i, t := range d.Texts {
		if err := t.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "text[%d]", i)
		}
	}
	if err := d.Layout.validate(len(d.Axes)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	return nil
}

func (f Figure) validate() error {
	if err := errors.ValidateFigureSize(f.Width, f.Height); err != nil {
		return err
	}
	if err := errors.ValidateDPI(f.DPI); err != nil {
		return err
	}
	if math.IsNaN(f.FontSize) || f.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font_size must be positive, got %v", f.FontSize)
	}
	if f.Params != nil {
		return f.Params.Validate()
	}
	return nil
}

func (a Axes) validate() error {
	if a.Rows < 1 || a.Cols < 1 {
		return errors.New(errors.ErrCodeInvalidAxes, "grid must have at least one row and column, got %dx%d", a.Rows, a.Cols)
	}
	if a.Index < 1 || a.Index > a.Rows*a.Cols {
		return errors.New(errors.ErrCodeInvalidAxes, "index %d out of range [1, %d]", a.Index, a.Rows*a.Cols)
	}
	switch len(a.Position) {
	case 0:
	case 4:
		for _, v := range a.Position {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New(errors.ErrCodeInvalidAxes, "position must be finite, got %v", a.Position)
			}
		}
		if a.rect().Empty() {
			return errors.New(errors.ErrCodeInvalidAxes, "position %v has no area", a.Position)
		}
	default:
		return errors.New(errors.ErrCodeInvalidAxes, "position must have 4 values [x0, y0, x1, y1], got %d", len(a.Position))
	}
	return nil
}

func (a Axes) rect() figure.Rect {
	p := a.Position
	return figure.Rect{X0: p[0], Y0: p[1], X1: p[2], Y1: p[3]}
}

func (t Text) validate() error {
	if err := errors.ValidateFraction("x", t.X); err != nil {
		return err
	}
	if err := errors.ValidateFraction("y", t.Y); err != nil {
		return err
	}
	if !validHAlign[t.HAlign] {
		return errors.New(errors.ErrCodeInvalidInput, "ha must be left, center or right, got %q", t.HAlign)
	}
	if !validVAlign[t.VAlign] {
		return errors.New(errors.ErrCodeInvalidInput, "va must be top, center, bottom or baseline, got %q", t.VAlign)
	}
	if math.IsNaN(t.Size) || t.Size < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "size must not be negative, got %v", t.Size)
	}
	return nil
}

func (l Layout) validate(axes int) error {
	if l.Pad != nil {
		if err := errors.ValidatePad(*l.Pad); err != nil {
			return err
		}
	}
	if l.Aspect != 0 {
		if err := errors.ValidateAspect(l.Aspect); err != nil {
			return err
		}
		if l.AspectAxes < 0 || l.AspectAxes >= axes {
			return errors.New(errors.ErrCodeInvalidAxes, "aspect_axes %d out of range (document has %d axes)", l.AspectAxes, axes)
		}
	}
	if l.CenterAxes != nil && (*l.CenterAxes < 0 || *l.CenterAxes >= axes) {
		return errors.New(errors.ErrCodeInvalidAxes, "center_axes %d out of range (document has %d axes)", *l.CenterAxes, axes)
	}
	if l.CenterAxes != nil && (l.Center || l.Aspect != 0) {
		return errors.New(errors.ErrCodeInvalidInput, "center_axes cannot be combined with center or aspect")
	}
	if (l.Center || l.Aspect != 0) && axes == 0 {
		return errors.New(errors.ErrCodeInvalidAxes, "layout needs at least one axes")
	}
	if _, err := layout.ParseConvention(l.Convention); err != nil {
		return err
	}
	if l.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_iterations must not be negative, got %d", l.MaxIterations)
	}
	if m := l.ToleranceMultiplier; math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "tolerance_multiplier must not be negative, got %v", m)
	}
	return nil
}
