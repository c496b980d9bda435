package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figfit/pkg/layout"
	"github.com/matzehuels/figfit/pkg/pipeline"
)

// fitOpts holds the command-line flags for the fit command that are not
// pipeline options.
type fitOpts struct {
	output          string  // output file (single format) or base path
	formats         string  // comma-separated output formats
	axes            int     // axes index for --aspect
	centerAxes      int     // axes index to pin centered
	center          bool    // center the plot area
	wrapTitle       bool    // wrap the suptitle
	pad             float64 // padding override
	legacyTolerance bool    // scale the aspect tolerance by π
	metrics         string  // Prometheus text file to write after the run
}

// fitCommand creates the fit command.
func (c *CLI) fitCommand() *cobra.Command {
	var flags fitOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "fit [figure.toml]",
		Short: "Fit a figure's layout and render it",
		Long: `Fit a figure's layout and render it.

The fit command loads a figure document (.toml, .yaml, .yml or .json), runs the
layout routines its [layout] section enables, and writes the result in each
requested format. Flags override the document.

Routines run in order: title wrapping, horizontal centering, aspect ratio.
--center-axes pins a single axes centered instead and cannot be combined
with --center or --aspect.
A routine that exhausts its iteration budget logs a warning and keeps its
last state; the command still succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if cmd.Flags().Changed("center") {
				opts.Center = &flags.center
			}
			if cmd.Flags().Changed("wrap-title") {
				opts.WrapTitle = &flags.wrapTitle
			}
			if cmd.Flags().Changed("center-axes") {
				opts.CenterAxes = &flags.centerAxes
			}
			if cmd.Flags().Changed("axes") {
				opts.AspectAxes = &flags.axes
			}
			if cmd.Flags().Changed("pad") {
				opts.Pad = &flags.pad
			}
			if flags.legacyTolerance {
				opts.ToleranceMultiplier = layout.LegacyToleranceMultiplier
			}
			return c.runFit(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&flags.metrics, "metrics", "", "write Prometheus metrics to this file")

	// Layout flags
	cmd.Flags().BoolVar(&flags.center, "center", false, "center the plot area horizontally (--center=false overrides the document)")
	cmd.Flags().IntVar(&flags.centerAxes, "center-axes", 0, "pin one axes (0-based) horizontally centered")
	cmd.Flags().Float64Var(&opts.Aspect, "aspect", 0, "target aspect ratio of one axes (0 disables)")
	cmd.Flags().IntVar(&flags.axes, "axes", 0, "axes index (0-based) for --aspect")
	cmd.Flags().StringVar(&opts.Convention, "convention", "", "aspect convention: w/h (default), h/w")
	cmd.Flags().Float64Var(&flags.pad, "pad", layout.DefaultPad, "padding in multiples of the font size")
	cmd.Flags().IntVar(&opts.MaxIterations, "max-iter", 0, "iteration budget per routine (default 11)")
	cmd.Flags().BoolVar(&flags.legacyTolerance, "legacy-tolerance", false, "use the historical π-scaled aspect tolerance")
	cmd.Flags().BoolVar(&flags.wrapTitle, "wrap-title", false, "wrap the suptitle to the figure width")

	// Render flags
	cmd.Flags().StringVar(&opts.Font, "font", "", "font family for measuring and PNG output: go (default), go-bold, go-mono")
	cmd.Flags().BoolVar(&opts.BBoxes, "bboxes", false, "outline measured bounding boxes (svg, pdf)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 1, "PNG scale factor")

	return cmd
}

// runFit loads the document, fits it and writes the artifacts.
func (c *CLI) runFit(ctx context.Context, input string, opts pipeline.Options, flags fitOpts) error {
	prog := newProgress(c.Logger)

	doc, err := pipeline.Load(input)
	if err != nil {
		return err
	}

	sink := startMetrics(flags.metrics)
	defer sink.stop()

	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	opts.Logger = c.Logger

	res, err := runner.Execute(ctx, doc, opts)
	if err != nil {
		return err
	}
	prog.done("Fitted " + input)

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, input, flags.output)
	if err != nil {
		return err
	}
	if err := sink.flush(); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	printSuccess("Layout complete")
	for _, p := range paths {
		printFile(p)
	}
	if flags.metrics != "" {
		printFile(flags.metrics)
	}
	printNewline()
	printFitted(res)
	return nil
}

// writeArtifacts writes one file per format. A single format goes to output
// verbatim when given; otherwise files are named base.format.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
