// Package pipeline provides the load → fit → render pipeline for figfit.
//
// The CLI and the HTTP server both run figure documents through this
// package, so a document fitted from the command line and one posted to the
// API produce the same geometry.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode a figure document from TOML, YAML or JSON
//  2. Fit: Build the figure, wrap its suptitle, center it and fix the aspect
//     of one axes, as the document's [layout] section and [Options] request
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner, err := pipeline.NewRunner(nil, logger)
//	doc, err := pipeline.Load("figure.toml")
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Aspect:  layout.GoldenRatio,
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	fitted, err := pipeline.Fit(ctx, doc, oracle, logger)
//	artifacts, err := pipeline.Render(fitted.Figure, oracle, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figfit/pkg/config"
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/fonts"
	"github.com/matzehuels/figfit/pkg/layout"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the per-run configuration of the pipeline.
//
// Layout fields override the document's [layout] section when set; a nil
// pointer or zero value keeps the document's setting, so an explicit false
// turns a routine off.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout overrides
	Center              *bool    `json:"center,omitempty"`
	CenterAxes          *int     `json:"center_axes,omitempty"`
	Aspect              float64  `json:"aspect,omitempty"`
	AspectAxes          *int     `json:"aspect_axes,omitempty"`
	Convention          string   `json:"convention,omitempty"`
	Pad                 *float64 `json:"pad,omitempty"`
	MaxIterations       int      `json:"max_iterations,omitempty"`
	ToleranceMultiplier float64  `json:"tolerance_multiplier,omitempty"`
	WrapTitle           *bool    `json:"wrap_title,omitempty"`

	// Measurement
	Font string `json:"font,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	BBoxes  bool     `json:"bboxes,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Fitted holds the figure after all layout routines ran.
	*Fitted

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AxesCount  int
	Iterations int
	FitTime    time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFont checks that a font family is known. An empty name selects
// the default family.
func ValidateFont(name string) error {
	if name == "" {
		return nil
	}
	if _, err := fonts.TTF(name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "font")
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if math.IsNaN(o.Scale) || o.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	if err := ValidateFont(o.Font); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Apply returns l with the option overrides applied.
func (o *Options) Apply(l config.Layout) config.Layout {
	if o.Center != nil {
		l.Center = *o.Center
	}
	if o.WrapTitle != nil {
		l.WrapTitle = *o.WrapTitle
	}
	if o.CenterAxes != nil {
		l.CenterAxes = o.CenterAxes
	}
	if o.Aspect != 0 {
		l.Aspect = o.Aspect
	}
	if o.AspectAxes != nil {
		l.AspectAxes = *o.AspectAxes
	}
	if o.Convention != "" {
		l.Convention = o.Convention
	}
	if o.Pad != nil {
		l.Pad = o.Pad
	}
	if o.MaxIterations != 0 {
		l.MaxIterations = o.MaxIterations
	}
	if o.ToleranceMultiplier != 0 {
		l.ToleranceMultiplier = o.ToleranceMultiplier
	}
	return l
}

// LayoutOptions converts a layout section into options for the layout
// routines. l must have been validated.
func LayoutOptions(l config.Layout, logger *log.Logger) []layout.Option {
	conv, _ := layout.ParseConvention(l.Convention)
	opts := []layout.Option{
		layout.WithPad(pad(l)),
		layout.WithConvention(conv),
		layout.WithLogger(logger),
	}
	if l.MaxIterations > 0 {
		opts = append(opts, layout.WithMaxIterations(l.MaxIterations))
	}
	if l.ToleranceMultiplier > 0 {
		opts = append(opts, layout.WithTolerance(layout.Tolerance{Multiplier: l.ToleranceMultiplier}))
	}
	return opts
}

func pad(l config.Layout) float64 {
	if l.Pad != nil {
		return *l.Pad
	}
	return layout.DefaultPad
}
