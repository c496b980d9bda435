package layout

import (
	"time"

	"github.com/matzehuels/figfit/pkg/observability"
)

// Routine names reported in results, logs and hooks.
const (
	RoutineCenter = "center"
	RoutineAspect = "aspect"
)

// Result reports the outcome of a convergence run.
//
// Iterations is the 0-based index of the iteration that met the target, or
// the iteration budget when the run did not converge.
type Result struct {
	Routine    string  `json:"routine"`
	Converged  bool    `json:"converged"`
	Iterations int     `json:"iterations"`
	Measured   float64 `json:"measured"`
	Target     float64 `json:"target"`
}

// step runs one iteration: query the oracle, measure the controlled quantity
// and, unless it already meets the target, apply an adjustment. It returns
// the measurement taken before any adjustment.
type step func(i int) (measured float64, done bool, err error)

// converge drives step until it reports done or the budget runs out.
func converge(routine string, target float64, o *options, fn step) (Result, error) {
	start := time.Now()
	hooks := observability.Layout()
	res := Result{Routine: routine, Target: target}

	for i := 0; i < o.maxIter; i++ {
		measured, done, err := fn(i)
		if err != nil {
			return res, err
		}
		res.Measured = measured
		hooks.OnIteration(routine, i, measured, target)
		o.logger.Debug("layout iteration",
			"routine", routine,
			"iter", i,
			"measured", measured,
			"target", target,
			"done", done)

		if done {
			res.Converged = true
			res.Iterations = i
			hooks.OnComplete(routine, true, i, time.Since(start))
			return res, nil
		}
	}

	res.Iterations = o.maxIter
	o.logger.Warn("layout did not converge",
		"routine", routine,
		"iterations", o.maxIter,
		"measured", res.Measured,
		"target", target)
	hooks.OnNotConverged(routine, o.maxIter, res.Measured, target)
	hooks.OnComplete(routine, false, o.maxIter, time.Since(start))
	return res, nil
}
