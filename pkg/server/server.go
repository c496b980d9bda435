// Package server exposes the figfit pipeline over HTTP.
//
// # Endpoints
//
//   - GET /healthz: liveness probe, returns {"status":"ok"}
//   - GET /version: build information
//   - POST /v1/fit: fit a figure document and return one rendered artifact
//   - GET /metrics: Prometheus metrics, when a gatherer is configured
//
// The /v1/fit body is a figure document. Its format follows the request's
// Content-Type: application/json (default), application/toml or
// application/yaml. Query parameters override the document's layout section:
//
//	POST /v1/fit?format=svg&center=true&aspect=1.618&axes=0&convention=w/h&pad=1.08&wrap_title=true
//
// An explicit center=false or wrap_title=false turns off a routine the
// document enables. center_axes=N pins axes N horizontally centered.
//
// Errors are returned as JSON with the error code and a user-facing message;
// validation codes map to 400, missing resources to 404, unavailable
// converters to 501 and everything else to 500.
package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/figfit/pkg/buildinfo"
	"github.com/matzehuels/figfit/pkg/config"
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/pipeline"
)

// MaxBodyBytes bounds the size of a posted document.
const MaxBodyBytes = 1 << 20

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// Option configures the server.
type Option func(*server)

// WithMetrics serves g at GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *server) { s.metrics = g }
}

type server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics prometheus.Gatherer
}

// New returns the HTTP handler for runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	s := &server{runner: runner, logger: logger}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/fit", s.handleFit)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *server) handleFit(w http.ResponseWriter, r *http.Request) {
	format, err := documentFormat(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	doc, err := config.Decode(data, format)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := parseOptions(r)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.logger.Warn("fit failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}

	out := opts.Formats[0]
	w.Header().Set("Content-Type", contentTypes[out])
	if res.Aspect != nil {
		w.Header().Set("X-Figfit-Aspect-Converged", strconv.FormatBool(res.Aspect.Converged))
	}
	if res.Center != nil {
		w.Header().Set("X-Figfit-Center-Converged", strconv.FormatBool(res.Center.Converged))
	}
	if res.CenteredAxes != nil {
		w.Header().Set("X-Figfit-Centered-Axes", strconv.Itoa(*res.CenteredAxes))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[out])
}

// documentFormat maps a request Content-Type to a document format.
func documentFormat(contentType string) (string, error) {
	if contentType == "" {
		return config.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type")
	}
	switch mt {
	case "application/json":
		return config.FormatJSON, nil
	case "application/toml":
		return config.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return config.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}

// parseOptions reads layout overrides and the output format from the query.
func parseOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{pipeline.DefaultFormat}}
	if f := q.Get("format"); f != "" {
		opts.Formats = []string{f}
	}

	var err error
	parseBool := func(key string) *bool {
		v := q.Get(key)
		if v == "" || err != nil {
			return nil
		}
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, perr, "query parameter %s", key)
			return nil
		}
		return &b
	}
	parseInt := func(key string) *int {
		v := q.Get(key)
		if v == "" || err != nil {
			return nil
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, perr, "query parameter %s", key)
			return nil
		}
		return &n
	}
	parseFloat := func(key string, dst *float64) bool {
		v := q.Get(key)
		if v == "" || err != nil {
			return false
		}
		if *dst, err = strconv.ParseFloat(v, 64); err != nil {
			err = errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", key)
			return false
		}
		return true
	}

	opts.Center = parseBool("center")
	opts.WrapTitle = parseBool("wrap_title")
	if b := parseBool("bboxes"); b != nil {
		opts.BBoxes = *b
	}
	opts.AspectAxes = parseInt("axes")
	opts.CenterAxes = parseInt("center_axes")
	parseFloat("aspect", &opts.Aspect)
	parseFloat("scale", &opts.Scale)
	var pad float64
	if parseFloat("pad", &pad) {
		opts.Pad = &pad
	}
	opts.Convention = q.Get("convention")
	opts.Font = q.Get("font")
	return opts, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
