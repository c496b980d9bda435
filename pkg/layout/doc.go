// Package layout tunes a figure's margins and height until its plotting area
// meets a geometric target.
//
// Every routine here is an instance of one bounded fixed-point loop: ask the
// oracle for tight-layout margins for the current figure, compare the
// controlled quantity against its target, and if it misses, apply a single
// scalar adjustment and go again. The loop runs at most [MaxIterations]
// times.
//
// # Routines
//
//   - [Center] mirrors the left and right subplot margins so the plotted area
//     (not the area plus its labels) sits on the figure's vertical centerline.
//   - [CenterAxes] is the one-shot variant: apply a tight layout, then pin
//     one axes so that its right edge mirrors its left edge.
//   - [Aspect] resizes the figure height so one axes reaches a target aspect
//     ratio, keeping tight top and bottom margins and reserving room for the
//     suptitle and any extra artists.
//
// # Results
//
// All loop instances return a [Result]. Converged runs report the 0-based
// iteration at which the target was met. Runs that exhaust the budget are not
// errors: they log exactly one warning, notify
// [observability.LayoutHooks.OnNotConverged] and return Converged == false
// with the last measurement. Errors are reserved for invalid input and
// oracle failures, which are returned unmodified.
//
// # Aspect convention
//
// By default aspect means axes width divided by axes height
// ([WidthOverHeight]), so 1.618 asks for a landscape golden rectangle.
// [WithConvention] selects [HeightOverWidth] instead.
//
// # Example
//
//	fig, _ := figure.New(4, 3)
//	ax, _ := fig.AddSubplot(1, 1, 1)
//	ax.YLabel = "y axis"
//	o, _ := oracle.New()
//
//	res, err := layout.Aspect(ax, o, layout.GoldenRatio)
//	if err != nil {
//	    return err
//	}
//	if !res.Converged {
//	    // best effort: the figure is still usable
//	}
package layout
