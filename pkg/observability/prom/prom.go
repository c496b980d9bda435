// Package prom implements observability hooks backed by Prometheus collectors.
//
//	reg := prometheus.NewRegistry()
//	observability.SetLayoutHooks(prom.NewLayoutHooks(reg))
//	observability.SetPipelineHooks(prom.NewPipelineHooks(reg))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/figfit/pkg/observability"
)

const namespace = "figfit"

var _ observability.LayoutHooks = (*LayoutHooks)(nil)

// LayoutHooks records convergence runs and title wrapping.
type LayoutHooks struct {
	Runs          *prometheus.CounterVec
	Iterations    *prometheus.HistogramVec
	Duration      *prometheus.HistogramVec
	NotConverged  *prometheus.CounterVec
	FinalResidual *prometheus.GaugeVec
	TitleLines    prometheus.Histogram
}

// NewLayoutHooks creates the collectors and registers them with reg.
func NewLayoutHooks(reg prometheus.Registerer) *LayoutHooks {
	h := &LayoutHooks{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Convergence runs by routine and outcome.",
		}, []string{"routine", "converged"}),
		Iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_iterations",
			Help:      "Iteration index at which a convergence run stopped.",
			Buckets:   prometheus.LinearBuckets(0, 1, 12),
		}, []string{"routine"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time taken by a convergence run.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"routine"}),
		NotConverged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_not_converged_total",
			Help:      "Runs that exhausted their iteration budget.",
		}, []string{"routine"}),
		FinalResidual: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layout_last_residual",
			Help:      "Absolute difference between measured and target on the last iteration.",
		}, []string{"routine"}),
		TitleLines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "title_lines",
			Help:      "Number of lines produced by title wrapping.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
	}
	reg.MustRegister(h.Runs, h.Iterations, h.Duration, h.NotConverged, h.FinalResidual, h.TitleLines)
	return h
}

func (h *LayoutHooks) OnIteration(routine string, _ int, measured, target float64) {
	d := measured - target
	if d < 0 {
		d = -d
	}
	h.FinalResidual.WithLabelValues(routine).Set(d)
}

func (h *LayoutHooks) OnComplete(routine string, converged bool, iterations int, duration time.Duration) {
	h.Runs.WithLabelValues(routine, strconv.FormatBool(converged)).Inc()
	h.Iterations.WithLabelValues(routine).Observe(float64(iterations))
	h.Duration.WithLabelValues(routine).Observe(duration.Seconds())
}

func (h *LayoutHooks) OnNotConverged(routine string, _ int, _, _ float64) {
	h.NotConverged.WithLabelValues(routine).Inc()
}

func (h *LayoutHooks) OnWrap(_, lines int) {
	h.TitleLines.Observe(float64(lines))
}

var _ observability.PipelineHooks = (*PipelineHooks)(nil)

// PipelineHooks records fit and render stages.
type PipelineHooks struct {
	Stages   *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Formats  *prometheus.CounterVec
}

// NewPipelineHooks creates the collectors and registers them with reg.
func NewPipelineHooks(reg prometheus.Registerer) *PipelineHooks {
	h := &PipelineHooks{
		Stages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_stages_total",
			Help:      "Pipeline stages by name and outcome.",
		}, []string{"stage", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Time taken by a pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		Formats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rendered_formats_total",
			Help:      "Artifacts requested by output format.",
		}, []string{"format"}),
	}
	reg.MustRegister(h.Stages, h.Duration, h.Formats)
	return h
}

func (h *PipelineHooks) OnFitStart(context.Context, int) {}

func (h *PipelineHooks) OnFitComplete(_ context.Context, d time.Duration, err error) {
	h.complete("fit", d, err)
}

func (h *PipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	for _, f := range formats {
		h.Formats.WithLabelValues(f).Inc()
	}
}

func (h *PipelineHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.complete("render", d, err)
}

func (h *PipelineHooks) complete(stage string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.Stages.WithLabelValues(stage, status).Inc()
	h.Duration.WithLabelValues(stage).Observe(d.Seconds())
}
