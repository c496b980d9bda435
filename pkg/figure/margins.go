package figure

import (
	"github.com/matzehuels/figfit/pkg/errors"
)

// MarginSet describes where the subplot grid sits inside a figure.
//
// Left, Right, Bottom and Top are figure fractions of the grid's outer edges.
// WSpace and HSpace are the gaps between columns and rows, expressed as a
// fraction of the average axes width and height respectively.
//
// The same type carries both the figure's applied subplot parameters and the
// oracle's tight-layout proposals.
type MarginSet struct {
	Left   float64 `json:"left" toml:"left" yaml:"left"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	WSpace float64 `json:"wspace" toml:"wspace" yaml:"wspace"`
	HSpace float64 `json:"hspace" toml:"hspace" yaml:"hspace"`
}

// DefaultParams are the subplot parameters of a new figure.
var DefaultParams = MarginSet{
	Left:   0.125,
	Right:  0.9,
	Bottom: 0.11,
	Top:    0.88,
	WSpace: 0.2,
	HSpace: 0.2,
}

// Validate checks that m describes a non-empty grid region inside the figure.
func (m MarginSet) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"left", m.Left}, {"right", m.Right}, {"bottom", m.Bottom}, {"top", m.Top}} {
		if err := errors.ValidateFraction(f.name, f.v); err != nil {
			return err
		}
	}
	if m.Left >= m.Right {
		return errors.New(errors.ErrCodeInvalidInput, "left (%g) must be less than right (%g)", m.Left, m.Right)
	}
	if m.Bottom >= m.Top {
		return errors.New(errors.ErrCodeInvalidInput, "bottom (%g) must be less than top (%g)", m.Bottom, m.Top)
	}
	if m.WSpace < 0 || m.HSpace < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "wspace and hspace must be non-negative")
	}
	return nil
}

// Symmetric reports whether the left and right margins mirror each other
// exactly around the vertical centerline.
func (m MarginSet) Symmetric() bool { return m.Left == 1-m.Right }
