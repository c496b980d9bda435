package layout

import (
	"math"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/oracle"
)

// Aspect resizes the figure height, width held fixed, until ax's data
// rectangle reaches the target aspect ratio under tight top and bottom
// margins.
//
// Space is reserved for decorative texts: the suptitle, the figure's free
// texts and any passed with [WithReserved]. Non-overlapping texts are
// measured once before the loop; the space they need is kept as a share of
// the figure height (their anchor) plus a physical extent, and re-evaluated
// at every height. Overlapping texts are re-measured on every iteration and
// any intrusion beyond the fixed reserve is added for that side. Each
// iteration applies the tight top and bottom margins before measuring. The
// run converges when the measured aspect is within the tolerance and no
// intrusion correction is pending.
//
// ax must be placed by its subplot grid. All axes in the same column share
// the height budget: rows and inter-row spacing of ax's grid are accounted
// for. Controlling several axes needs one call each, and a later call may
// disturb an earlier one.
func Aspect(ax *figure.Axes, g oracle.Geometry, aspect float64, opts ...Option) (Result, error) {
	res := Result{Routine: RoutineAspect, Target: aspect}
	o, err := newOptions(opts)
	if err != nil {
		return res, err
	}
	if err := errors.ValidateAspect(aspect); err != nil {
		return res, err
	}
	if ax == nil || ax.Figure() == nil {
		return res, errors.New(errors.ErrCodeInvalidAxes, "axes is not attached to a figure")
	}
	if !ax.HasGrid() {
		return res, errors.New(errors.ErrCodeInvalidAxes, "axes has an explicit position; aspect needs a grid-placed axes")
	}

	fig := ax.Figure()
	fig.Lock()
	defer fig.Unlock()

	fixed, overlapping := partition(fig, o.reserved)
	reserved, err := measureReserve(fig, g, fixed)
	if err != nil {
		return res, err
	}
	initial := reserved.at(fig.Height())
	o.logger.Debug("reserved space",
		"top", initial.top,
		"bottom", initial.bottom,
		"overlapping", len(overlapping))

	var applied span
	rows := ax.Grid().Rows

	return converge(RoutineAspect, aspect, o, func(int) (float64, bool, error) {
		w, h := fig.Size()
		dpi := fig.DPI()

		reserve := reserved.at(h)
		intr, err := measureIntrusion(fig, g, overlapping, reserve)
		if err != nil {
			return 0, false, err
		}

		rect := figure.Rect{
			X0: 0,
			Y0: (reserve.bottom + intr.bottom) / h,
			X1: 1,
			Y1: 1 - (reserve.top+intr.top)/h,
		}
		if rect.Empty() {
			return 0, false, errors.New(errors.ErrCodeInvalidInput,
				"reserved artists leave no room for the axes (%.3gin top, %.3gin bottom of %.3gin)",
				reserve.top+intr.top, reserve.bottom+intr.bottom, h)
		}
		m, err := g.TightMargins(fig, o.pad, rect)
		if err != nil {
			return 0, false, err
		}

		next := fig.Params()
		next.Top = m.Top
		next.Bottom = m.Bottom
		next.HSpace = m.HSpace
		if err := fig.Adjust(next); err != nil {
			return 0, false, errors.Wrap(errors.ErrCodeOracle, err, "apply tight margins")
		}

		pos := ax.Position()
		axW := pos.Width() * w
		measured := o.convention.ratio(axW, pos.Height()*h)

		pending := intr.differs(applied, dpi)
		if o.tolerance.Within(measured, aspect, w, dpi) && !pending {
			return measured, true, nil
		}

		// Reserved space anchored in figure fractions grows with the
		// height; solve for the height that includes that growth.
		rate := reserved.rate(h)
		topIn := (1 - m.Top) * h
		botIn := m.Bottom * h
		body := o.convention.height(axW, aspect) * figure.RowFactor(rows, m.HSpace)
		newH := body + topIn + botIn
		if k := 1 - rate.top - rate.bottom; k > 0 {
			newH = (body + topIn + botIn - (rate.top+rate.bottom)*h) / k
			topIn += rate.top * (newH - h)
			botIn += rate.bottom * (newH - h)
		}
		if err := fig.SetSize(w, newH); err != nil {
			return measured, false, errors.Wrap(errors.ErrCodeOracle, err, "resize figure to %.4gin", newH)
		}

		next.Top = 1 - topIn/newH
		next.Bottom = botIn / newH
		if err := fig.Adjust(next); err != nil {
			return measured, false, errors.Wrap(errors.ErrCodeOracle, err, "rescale margins to %.4gin", newH)
		}
		applied = intr
		return measured, false, nil
	})
}

// span is a pair of top and bottom distances in inches.
type span struct {
	top, bottom float64
}

// differs reports whether s and o are at least one device pixel apart on
// either side.
func (s span) differs(o span, dpi float64) bool {
	return math.Abs(s.top-o.top)*dpi >= 1 || math.Abs(s.bottom-o.bottom)*dpi >= 1
}

// reservation is the distance from a figure edge to a reserved text's far
// edge at height h: frac*h + inches. frac comes from the text's anchor,
// inches from its measured extent beyond the anchor.
type reservation struct {
	top    bool
	frac   float64
	inches float64
}

func (r reservation) at(h float64) float64 { return r.frac*h + r.inches }

// reservations holds the fixed reservations, measured once.
type reservations []reservation

// at returns the space each side needs at height h.
func (rs reservations) at(h float64) span {
	var s span
	for _, r := range rs {
		if r.top {
			s.top = max(s.top, r.at(h))
		} else {
			s.bottom = max(s.bottom, r.at(h))
		}
	}
	return s
}

// rate returns how fast each side's reserve grows with the height at h,
// taken from the reservation that decides that side.
func (rs reservations) rate(h float64) span {
	var s, best span
	for _, r := range rs {
		d := r.at(h)
		if r.top && d >= best.top {
			best.top, s.top = d, r.frac
		}
		if !r.top && d >= best.bottom {
			best.bottom, s.bottom = d, r.frac
		}
	}
	return s
}

// partition splits the reserved texts into those measured once and those
// re-measured every iteration. The suptitle is always fixed. Duplicates and
// empty texts are dropped.
func partition(fig *figure.Figure, extra []*figure.Text) (fixed, overlapping []*figure.Text) {
	seen := make(map[*figure.Text]bool)
	add := func(t *figure.Text, forceFixed bool) {
		if t == nil || t.Content == "" || seen[t] {
			return
		}
		seen[t] = true
		if t.Overlapping && !forceFixed {
			overlapping = append(overlapping, t)
			return
		}
		fixed = append(fixed, t)
	}

	add(fig.Suptitle(), true)
	for _, t := range fig.Texts() {
		add(t, false)
	}
	for _, t := range extra {
		add(t, false)
	}
	return fixed, overlapping
}

// edgeDistance returns which side of the figure r belongs to and the
// distance in inches from that edge to r's far edge.
func edgeDistance(r figure.Rect, h float64) (top bool, dist float64) {
	if r.CenterY() >= 0.5 {
		return true, (1 - r.Y0) * h
	}
	return false, r.Y1 * h
}

func measureReserve(fig *figure.Figure, g oracle.Geometry, texts []*figure.Text) (reservations, error) {
	rs := make(reservations, 0, len(texts))
	h := fig.Height()
	for _, t := range texts {
		r, err := g.BBox(fig, t)
		if err != nil {
			return nil, err
		}
		if top, _ := edgeDistance(r, h); top {
			rs = append(rs, reservation{top: true, frac: 1 - t.Y, inches: (t.Y - r.Y0) * h})
		} else {
			rs = append(rs, reservation{frac: t.Y, inches: (r.Y1 - t.Y) * h})
		}
	}
	return rs, nil
}

func measureIntrusion(fig *figure.Figure, g oracle.Geometry, texts []*figure.Text, reserve span) (span, error) {
	var s span
	h := fig.Height()
	for _, t := range texts {
		r, err := g.BBox(fig, t)
		if err != nil {
			return s, err
		}
		if top, d := edgeDistance(r, h); top {
			s.top = max(s.top, d-reserve.top)
		} else {
			s.bottom = max(s.bottom, d-reserve.bottom)
		}
	}
	return s, nil
}
