package cli

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/figfit/pkg/observability"
	"github.com/matzehuels/figfit/pkg/observability/prom"
)

// metricsSink collects layout and pipeline metrics for one CLI run and
// writes them in the Prometheus text format, for node_exporter's textfile
// collector or a later diff.
type metricsSink struct {
	path string
	reg  *prometheus.Registry
}

// startMetrics installs Prometheus hooks when path is set. A nil sink is
// valid and does nothing.
func startMetrics(path string) *metricsSink {
	if path == "" {
		return nil
	}
	reg := prometheus.NewRegistry()
	observability.SetLayoutHooks(prom.NewLayoutHooks(reg))
	observability.SetPipelineHooks(prom.NewPipelineHooks(reg))
	return &metricsSink{path: path, reg: reg}
}

func (s *metricsSink) flush() error {
	if s == nil {
		return nil
	}
	return prometheus.WriteToTextfile(s.path, s.reg)
}

// stop restores the no-op hooks.
func (s *metricsSink) stop() {
	if s == nil {
		return
	}
	observability.Reset()
}
