package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figfit/pkg/config"
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/fonts"
	"github.com/matzehuels/figfit/pkg/observability"
	"github.com/matzehuels/figfit/pkg/oracle"
)

// Runner executes the pipeline against one oracle.
//
// The Runner is stateless except for the oracle and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents, since every run builds its own figure.
type Runner struct {
	Oracle oracle.Oracle
	Logger *log.Logger
}

// NewRunner creates a runner.
// If o is nil, a font-metrics oracle with the default font is used.
// If logger is nil, log.Default() is used.
func NewRunner(o oracle.Oracle, logger *log.Logger) (*Runner, error) {
	if o == nil {
		m, err := oracle.New()
		if err != nil {
			return nil, err
		}
		o = m
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Oracle: o,
		Logger: logger,
	}, nil
}

// Execute runs the fit → render pipeline over doc.
// doc is not modified; option overrides apply to a copy.
func (r *Runner) Execute(ctx context.Context, doc *config.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document is nil")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	d := *doc
	d.Layout = opts.Apply(doc.Layout)
	if err := d.Validate(); err != nil {
		return nil, err
	}

	o, err := r.oracleFor(opts)
	if err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	// Stage 1: Fit
	fitStart := time.Now()
	hooks.OnFitStart(ctx, len(d.Axes))
	fitted, err := Fit(ctx, &d, o, opts.Logger)
	hooks.OnFitComplete(ctx, time.Since(fitStart), err)
	if err != nil {
		return nil, err
	}

	result := &Result{Fitted: fitted}
	result.Stats.AxesCount = len(d.Axes)
	result.Stats.Iterations = fitted.Iterations()
	result.Stats.FitTime = time.Since(fitStart)

	w, h := fitted.Figure.Size()
	opts.Logger.Info("fitted figure",
		"axes", result.Stats.AxesCount,
		"width", w,
		"height", h,
		"iterations", result.Stats.Iterations,
		"duration", result.Stats.FitTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(fitted.Figure, o, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// oracleFor returns the oracle for a run: the runner's own, or a metrics
// oracle for the requested font.
func (r *Runner) oracleFor(opts Options) (oracle.Oracle, error) {
	if opts.Font == "" {
		if r.Oracle == nil {
			return nil, errors.New(errors.ErrCodeInternal, "runner has no oracle")
		}
		return r.Oracle, nil
	}
	f, err := fonts.Lookup(opts.Font)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "font")
	}
	return oracle.New(oracle.WithFont(f))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
