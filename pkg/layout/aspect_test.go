package layout

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/oracle/oracletest"
)

// axesAspect returns ax's physical aspect under the given convention.
func axesAspect(ax *figure.Axes, c Convention) float64 {
	w, h := ax.Figure().Size()
	pos := ax.Position()
	return c.ratio(pos.Width()*w, pos.Height()*h)
}

func TestAspectGoldenRatio(t *testing.T) {
	fig, ax := newFigure(t, 4, 3)
	ax.YLabel = "y axis"
	ax.XTickLabels = []string{"1.0", "1.5", "2.0", "2.5", "3.0"}
	ax.YTickLabels = []string{"0", "2", "4", "6", "8"}

	res, err := Aspect(ax, newMetrics(t), GoldenRatio)
	if err != nil {
		t.Fatalf("Aspect() error = %v", err)
	}
	if !res.Converged {
		t.Fatalf("Aspect() = %+v, want converged", res)
	}
	if res.Iterations > MaxIterations {
		t.Errorf("Iterations = %d, want <= %d", res.Iterations, MaxIterations)
	}

	w, h := fig.Size()
	if w != 4 {
		t.Errorf("width = %v, want 4 (unchanged)", w)
	}
	if h <= 0 {
		t.Errorf("height = %v, want > 0", h)
	}
	got := axesAspect(ax, WidthOverHeight)
	if !DefaultTolerance.Within(got, GoldenRatio, w, fig.DPI()) {
		t.Errorf("aspect = %v, want within one pixel of %v", got, GoldenRatio)
	}
	if !DefaultTolerance.Within(res.Measured, GoldenRatio, w, fig.DPI()) {
		t.Errorf("Measured = %v, want within one pixel of %v", res.Measured, GoldenRatio)
	}
}

func TestAspectTargets(t *testing.T) {
	tests := []struct {
		name       string
		aspect     float64
		convention Convention
		tolerance  Tolerance
	}{
		{"square", 1, WidthOverHeight, DefaultTolerance},
		{"wide", 3, WidthOverHeight, DefaultTolerance},
		{"tall", 0.5, WidthOverHeight, DefaultTolerance},
		{"height over width", 0.5, HeightOverWidth, DefaultTolerance},
		{"legacy tolerance", GoldenRatio, WidthOverHeight, Tolerance{Multiplier: LegacyToleranceMultiplier}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, ax := newFigure(t, 4, 3)
			ax.XLabel = "x"
			ax.YLabel = "y"

			res, err := Aspect(ax, newMetrics(t), tt.aspect,
				WithConvention(tt.convention), WithTolerance(tt.tolerance))
			if err != nil {
				t.Fatalf("Aspect() error = %v", err)
			}
			if !res.Converged {
				t.Fatalf("Aspect() = %+v, want converged", res)
			}
			got := axesAspect(ax, tt.convention)
			if !tt.tolerance.Within(got, tt.aspect, fig.Width(), fig.DPI()) {
				t.Errorf("aspect = %v, want %v", got, tt.aspect)
			}
		})
	}
}

func TestAspectStackedRows(t *testing.T) {
	fig, err := figure.New(4, 3)
	if err != nil {
		t.Fatalf("figure.New() error = %v", err)
	}
	top, _ := fig.AddSubplot(2, 1, 1)
	bottom, _ := fig.AddSubplot(2, 1, 2)

	res, err := Aspect(top, oracletest.New(), 2)
	if err != nil {
		t.Fatalf("Aspect() error = %v", err)
	}
	if !res.Converged {
		t.Fatalf("Aspect() = %+v, want converged", res)
	}
	if got := axesAspect(top, WidthOverHeight); !approx(got, 2) {
		t.Errorf("top aspect = %v, want 2", got)
	}
	// Both rows share the column, so they end up the same size.
	if a, b := top.Position().Height(), bottom.Position().Height(); !approx(a, b) {
		t.Errorf("row heights = %v and %v, want equal", a, b)
	}
	if top.Position().Y0 <= bottom.Position().Y1 {
		t.Error("rows overlap, want hspace gap")
	}
}

func TestAspectReservesSuptitle(t *testing.T) {
	fig, ax := newFigure(t, 4, 3)
	title := fig.SetSuptitle("Title")
	o := oracletest.New()

	res, err := Aspect(ax, o, 1)
	if err != nil {
		t.Fatalf("Aspect() error = %v", err)
	}
	if !res.Converged {
		t.Fatalf("Aspect() = %+v, want converged", res)
	}
	if fig.Height() == 3 {
		t.Fatal("height unchanged, want a resize")
	}
	// The anchor gap scales with the final height; the line height does not.
	h := fig.Height()
	reserve := (1-title.Y)*h + o.LineHeight
	rect := o.LastRect()
	if want := 1 - reserve/h; !approx(rect.Y1, want) {
		t.Errorf("rect top = %v, want %v", rect.Y1, want)
	}
	if rect.Y0 != 0 {
		t.Errorf("rect bottom = %v, want 0", rect.Y0)
	}
}

func TestAspectKeepsSuptitleClear(t *testing.T) {
	tests := []struct {
		name   string
		height float64
		aspect float64
	}{
		{"short and very tall", 1, 0.3},
		{"tallest", 1.5, 0.2},
		{"moderate", 1.5, 0.5},
		{"wide", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fig, ax := newFigure(t, 4, tt.height)
			ax.Title = "panel"
			fig.SetSuptitle("Overall title")
			g := newMetrics(t)

			res, err := Aspect(ax, g, tt.aspect)
			if err != nil {
				t.Fatalf("Aspect() error = %v", err)
			}
			if !res.Converged {
				t.Fatalf("Aspect() = %+v, want converged", res)
			}

			h := fig.Height()
			sup, err := g.BBox(fig, fig.Suptitle())
			if err != nil {
				t.Fatalf("BBox(suptitle) error = %v", err)
			}
			box, err := g.BBox(fig, ax)
			if err != nil {
				t.Fatalf("BBox(axes) error = %v", err)
			}
			gap := (sup.Y0 - box.Y1) * h
			if pad := fig.PadInches(DefaultPad); gap < pad-1e-9 {
				t.Errorf("gap between axes and suptitle = %.4fin at height %.3f, want >= %.4fin", gap, h, pad)
			}
		})
	}
}

func TestAspectReservesBottomText(t *testing.T) {
	fig, ax := newFigure(t, 4, 3)
	fig.AddText(&figure.Text{Content: "source: lab notebook", X: 0.5, Y: 0.01, HAlign: figure.AlignCenter, VAlign: figure.AlignBottom})
	extra := &figure.Text{Content: "n = 3", X: 0.02, Y: 0.01, VAlign: figure.AlignBottom}
	o := oracletest.New()

	if _, err := Aspect(ax, o, 1, WithReserved(extra, fig.Suptitle())); err != nil {
		t.Fatalf("Aspect() error = %v", err)
	}
	rect := o.LastRect()
	if rect.Y0 <= 0 {
		t.Errorf("rect bottom = %v, want > 0", rect.Y0)
	}
	if rect.Y1 != 1 {
		t.Errorf("rect top = %v, want 1", rect.Y1)
	}
}

func TestAspectOverlappingNotConverged(t *testing.T) {
	fig, ax := newFigure(t, 4, 3)
	note := fig.AddText(&figure.Text{Content: "note", X: 0.5, Y: 0.5, Overlapping: true})

	o := oracletest.New()
	// A box fixed in figure fractions intrudes by a share of the height, so
	// every resize leaves a new correction pending.
	o.Boxes[note] = figure.Rect{X0: 0.4, Y0: 0.2, X1: 0.6, Y1: 0.9}
	o.MarginsFunc = func(_ *figure.Figure, _ float64, r figure.Rect) (figure.MarginSet, error) {
		return figure.MarginSet{Left: 0.1, Right: 0.9, Bottom: r.Y0 + 0.05, Top: r.Y1 - 0.05, WSpace: 0.2, HSpace: 0.2}, nil
	}

	var buf bytes.Buffer
	res, err := Aspect(ax, o, 1, WithLogger(captureLogger(&buf)))
	if err != nil {
		t.Fatalf("Aspect() error = %v, want nil on non-convergence", err)
	}
	if res.Converged {
		t.Error("Converged = true, want false")
	}
	if res.Iterations != MaxIterations {
		t.Errorf("Iterations = %d, want %d", res.Iterations, MaxIterations)
	}
	if tight, _, _ := o.Calls(); tight != MaxIterations {
		t.Errorf("TightMargins calls = %d, want %d", tight, MaxIterations)
	}
	if n := strings.Count(buf.String(), "did not converge"); n != 1 {
		t.Errorf("warnings = %d, want exactly 1\n%s", n, buf.String())
	}
	if fig.Height() <= 3 {
		t.Errorf("height = %v, want growth from 3", fig.Height())
	}
}

func TestAspectBudget(t *testing.T) {
	_, ax := newFigure(t, 4, 3)
	var buf bytes.Buffer

	res, err := Aspect(ax, oracletest.New(), 2, WithMaxIterations(1), WithLogger(captureLogger(&buf)))
	if err != nil {
		t.Fatalf("Aspect() error = %v", err)
	}
	if res.Converged || res.Iterations != 1 {
		t.Errorf("Aspect() = %+v, want not converged after 1", res)
	}
	if n := strings.Count(buf.String(), "did not converge"); n != 1 {
		t.Errorf("warnings = %d, want 1", n)
	}
}

func TestAspectErrors(t *testing.T) {
	_, ax := newFigure(t, 4, 3)
	o := oracletest.New()

	for _, aspect := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Aspect(ax, o, aspect); !errors.Is(err, errors.ErrCodeInvalidAspect) {
			t.Errorf("Aspect(%v) error = %v, want INVALID_ASPECT", aspect, err)
		}
	}
	if _, err := Aspect(nil, o, 1); !errors.Is(err, errors.ErrCodeInvalidAxes) {
		t.Errorf("Aspect(nil) error = %v, want INVALID_AXES", err)
	}
	if _, err := Aspect(ax, o, 1, WithMaxIterations(0)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Aspect(budget 0) error = %v, want INVALID_INPUT", err)
	}

	other, pinned := newFigure(t, 4, 3)
	if err := pinned.SetPosition(figure.Rect{X0: 0.1, Y0: 0.1, X1: 0.9, Y1: 0.9}); err != nil {
		t.Fatalf("SetPosition() error = %v", err)
	}
	if _, err := Aspect(pinned, o, 1); !errors.Is(err, errors.ErrCodeInvalidAxes) {
		t.Errorf("Aspect(explicit position) error = %v, want INVALID_AXES", err)
	}
	if other.Height() != 3 {
		t.Errorf("height = %v, want unchanged", other.Height())
	}

	// Oracle failures are returned as-is.
	boom := errors.New(errors.ErrCodeOracle, "no renderer")
	failing := oracletest.New()
	failing.MarginsFunc = func(*figure.Figure, float64, figure.Rect) (figure.MarginSet, error) {
		return figure.MarginSet{}, boom
	}
	if _, err := Aspect(ax, failing, 1); err != boom {
		t.Errorf("Aspect() error = %v, want %v", err, boom)
	}
}

func TestAspectNoRoomForAxes(t *testing.T) {
	fig, ax := newFigure(t, 4, 3)
	title := fig.SetSuptitle("Title")
	o := oracletest.New()
	o.Boxes[title] = figure.Rect{X0: 0.3, Y0: 0, X1: 0.7, Y1: 1}

	if _, err := Aspect(ax, o, 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Aspect() error = %v, want INVALID_INPUT", err)
	}
}
