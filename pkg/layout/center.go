package layout

import (
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/oracle"
)

// Center mirrors the figure's left and right subplot margins around the
// vertical centerline while keeping the left margin tight.
//
// Each iteration adopts the oracle's left margin and inter-axes spacing and
// sets the right margin to 1 − left; top and bottom are untouched. The run
// converges when the applied margins already equal that candidate exactly,
// so calling Center on a centered figure returns Iterations == 0.
//
// The measured quantity is the asymmetry left − (1 − right); the target is 0.
func Center(fig *figure.Figure, g oracle.Geometry, opts ...Option) (Result, error) {
	o, err := newOptions(opts)
	if err != nil {
		return Result{Routine: RoutineCenter}, err
	}
	if fig == nil {
		return Result{Routine: RoutineCenter}, errors.New(errors.ErrCodeInvalidInput, "figure is nil")
	}

	fig.Lock()
	defer fig.Unlock()

	return converge(RoutineCenter, 0, o, func(int) (float64, bool, error) {
		m, err := g.TightMargins(fig, o.pad, figure.Unit)
		if err != nil {
			return 0, false, err
		}

		cur := fig.Params()
		measured := cur.Left - (1 - cur.Right)

		cand := symmetric(cur, m)
		if cur == cand {
			return measured, true, nil
		}
		if err := fig.Adjust(cand); err != nil {
			return measured, false, errors.Wrap(errors.ErrCodeOracle, err,
				"left margin %g cannot be mirrored", m.Left)
		}
		return measured, false, nil
	})
}

// symmetric returns cur with the left margin and spacing taken from m and
// the right margin mirrored. Left is derived from right so that
// left == 1 − right holds exactly in floating point.
func symmetric(cur, m figure.MarginSet) figure.MarginSet {
	cand := cur
	cand.Right = 1 - m.Left
	cand.Left = 1 - cand.Right
	cand.WSpace = m.WSpace
	return cand
}

// CenterAxes applies the oracle's tight layout once, then pins ax so that its
// right edge mirrors its left edge (x1 = 1 − x0). The rest of the figure
// keeps the tight layout.
func CenterAxes(ax *figure.Axes, g oracle.Geometry, opts ...Option) error {
	o, err := newOptions(opts)
	if err != nil {
		return err
	}
	if ax == nil || ax.Figure() == nil {
		return errors.New(errors.ErrCodeInvalidAxes, "axes is not attached to a figure")
	}

	fig := ax.Figure()
	fig.Lock()
	defer fig.Unlock()

	m, err := g.TightMargins(fig, o.pad, figure.Unit)
	if err != nil {
		return err
	}
	if err := fig.Adjust(m); err != nil {
		return errors.Wrap(errors.ErrCodeOracle, err, "apply tight margins")
	}

	pos := ax.Position()
	pos.X1 = 1 - pos.X0
	if err := ax.SetPosition(pos); err != nil {
		return err
	}
	o.logger.Debug("centered axes", "x0", pos.X0, "x1", pos.X1)
	return nil
}
