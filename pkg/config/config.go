// Package config loads figure descriptions from TOML, YAML or JSON files.
//
// A document describes the figure canvas, its subplot axes and text artists,
// and how the layout routines should be run over it:
//
//	suptitle = "Growth of the three cultures over a week"
//
//	[figure]
//	width = 4.0
//	height = 3.0
//
//	[[axes]]
//	rows = 1
//	cols = 1
//	index = 1
//	ylabel = "y axis"
//	xticks = ["1", "2", "3"]
//
//	[layout]
//	center = true
//	aspect = 1.618
//	wrap_title = true
//
// Setting center_axes to an axes index instead pins that one axes
// horizontally centered; it cannot be combined with center or aspect.
//
// The format is chosen by file extension (.toml, .yaml, .yml or .json).
// Unknown keys are rejected in every format.
package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
)

// Supported document formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Matplotlib's default canvas.
const (
	DefaultWidth  = 6.4
	DefaultHeight = 4.8
)

// Document is a complete figure description.
type Document struct {
	Suptitle string `json:"suptitle,omitempty" toml:"suptitle" yaml:"suptitle,omitempty"`
	Figure   Figure `json:"figure" toml:"figure" yaml:"figure"`
	Axes     []Axes `json:"axes" toml:"axes" yaml:"axes"`
	Texts    []Text `json:"text,omitempty" toml:"text" yaml:"text,omitempty"`
	Layout   Layout `json:"layout" toml:"layout" yaml:"layout"`
}

// Figure describes the canvas.
type Figure struct {
	Width    float64           `json:"width" toml:"width" yaml:"width"`
	Height   float64           `json:"height" toml:"height" yaml:"height"`
	DPI      float64           `json:"dpi,omitempty" toml:"dpi" yaml:"dpi,omitempty"`
	FontSize float64           `json:"font_size,omitempty" toml:"font_size" yaml:"font_size,omitempty"`
	Params   *figure.MarginSet `json:"params,omitempty" toml:"params" yaml:"params,omitempty"`
}

// Axes describes one subplot. Index is 1-based, counting left to right then
// top to bottom. Position, when given, is [x0, y0, x1, y1] in figure
// fractions and detaches the axes from the grid.
type Axes struct {
	Rows     int       `json:"rows" toml:"rows" yaml:"rows"`
	Cols     int       `json:"cols" toml:"cols" yaml:"cols"`
	Index    int       `json:"index" toml:"index" yaml:"index"`
	Title    string    `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	XLabel   string    `json:"xlabel,omitempty" toml:"xlabel" yaml:"xlabel,omitempty"`
	YLabel   string    `json:"ylabel,omitempty" toml:"ylabel" yaml:"ylabel,omitempty"`
	XTicks   []string  `json:"xticks,omitempty" toml:"xticks" yaml:"xticks,omitempty"`
	YTicks   []string  `json:"yticks,omitempty" toml:"yticks" yaml:"yticks,omitempty"`
	Position []float64 `json:"position,omitempty" toml:"position" yaml:"position,omitempty"`
}

// Text describes a free-floating text artist.
type Text struct {
	Content     string  `json:"content" toml:"content" yaml:"content"`
	X           float64 `json:"x" toml:"x" yaml:"x"`
	Y           float64 `json:"y" toml:"y" yaml:"y"`
	HAlign      string  `json:"ha,omitempty" toml:"ha" yaml:"ha,omitempty"`
	VAlign      string  `json:"va,omitempty" toml:"va" yaml:"va,omitempty"`
	Size        float64 `json:"size,omitempty" toml:"size" yaml:"size,omitempty"`
	Overlapping bool    `json:"overlapping,omitempty" toml:"overlapping" yaml:"overlapping,omitempty"`
}

// Layout selects which layout routines run and how.
//
// Zero values mean "use the default": Aspect 0 disables the aspect routine,
// a nil Pad uses the routine default. CenterAxes, when set, is the index of
// an axes to pin horizontally centered; it excludes Center and Aspect.
type Layout struct {
	Pad                 *float64 `json:"pad,omitempty" toml:"pad" yaml:"pad,omitempty"`
	Center              bool     `json:"center,omitempty" toml:"center" yaml:"center,omitempty"`
	CenterAxes          *int     `json:"center_axes,omitempty" toml:"center_axes" yaml:"center_axes,omitempty"`
	Aspect              float64  `json:"aspect,omitempty" toml:"aspect" yaml:"aspect,omitempty"`
	AspectAxes          int      `json:"aspect_axes,omitempty" toml:"aspect_axes" yaml:"aspect_axes,omitempty"`
	Convention          string   `json:"convention,omitempty" toml:"convention" yaml:"convention,omitempty"`
	MaxIterations       int      `json:"max_iterations,omitempty" toml:"max_iterations" yaml:"max_iterations,omitempty"`
	ToleranceMultiplier float64  `json:"tolerance_multiplier,omitempty" toml:"tolerance_multiplier" yaml:"tolerance_multiplier,omitempty"`
	WrapTitle           bool     `json:"wrap_title,omitempty" toml:"wrap_title" yaml:"wrap_title,omitempty"`
}

// Default returns a document with the default canvas and no axes.
func Default() *Document {
	return &Document{
		Figure: Figure{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			DPI:      figure.DefaultDPI,
			FontSize: figure.DefaultFontSize,
		},
	}
}

// FormatFromPath returns the document format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unsupported document extension %q (must be .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// Load reads and validates a document from path.
func Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document %s", path)
	}
	return Decode(data, format)
}

// Decode parses and validates a document. Fields missing from data keep
// their [Default] values.
func Decode(data []byte, format string) (*Document, error) {
	doc := Default()

	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse YAML")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse JSON")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported document format %q", format)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
