package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/fonts"
	"github.com/matzehuels/figfit/pkg/oracle"
	"github.com/matzehuels/figfit/pkg/pipeline"
	"github.com/matzehuels/figfit/pkg/title"
)

type wrapOpts struct {
	title    string
	pad      float64
	fontSize float64
	font     string
}

// wrapCommand creates the wrap command.
func (c *CLI) wrapCommand() *cobra.Command {
	var opts wrapOpts

	cmd := &cobra.Command{
		Use:   "wrap [figure.toml]",
		Short: "Print how a title wraps on a figure",
		Long: `Print how a title wraps on a figure, one line per output line.

The title defaults to the document's suptitle; --title replaces it. The
figure itself is not modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := c.runWrap(args[0], opts)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "", "title to wrap instead of the document's suptitle")
	cmd.Flags().Float64Var(&opts.pad, "pad", title.DefaultPad, "side inset in multiples of the font size")
	cmd.Flags().Float64Var(&opts.fontSize, "font-size", 0, "title size in points (default: suptitle size)")
	cmd.Flags().StringVar(&opts.font, "font", "", "font family used for measuring: go (default), go-bold, go-mono")

	return cmd
}

func (c *CLI) runWrap(input string, opts wrapOpts) ([]string, error) {
	doc, err := pipeline.Load(input)
	if err != nil {
		return nil, err
	}
	fig, err := doc.Build()
	if err != nil {
		return nil, err
	}

	text := opts.title
	if text == "" {
		text = doc.Suptitle
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New(errors.ErrCodeInvalidTitle, "%s has no suptitle; pass --title", input)
	}

	var oopts []oracle.Option
	if opts.font != "" {
		f, err := fonts.Lookup(opts.font)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "font %q", opts.font)
		}
		oopts = append(oopts, oracle.WithFont(f))
	}
	m, err := oracle.New(oopts...)
	if err != nil {
		return nil, err
	}

	return title.Lines(fig, m, strings.Fields(text),
		title.WithPad(opts.pad),
		title.WithFontSize(opts.fontSize),
		title.WithLogger(c.Logger))
}
