package layout

import (
	"strings"

	"github.com/matzehuels/figfit/pkg/errors"
)

// Convention defines which way round an aspect ratio is expressed.
type Convention int

const (
	// WidthOverHeight: aspect = axes width / axes height.
	WidthOverHeight Convention = iota
	// HeightOverWidth: aspect = axes height / axes width.
	HeightOverWidth
)

func (c Convention) String() string {
	if c == HeightOverWidth {
		return "h/w"
	}
	return "w/h"
}

// ParseConvention accepts "w/h", "width/height", "h/w" and "height/width".
// An empty string selects [WidthOverHeight].
func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "w/h", "width/height", "w:h":
		return WidthOverHeight, nil
	case "h/w", "height/width", "h:w":
		return HeightOverWidth, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown aspect convention %q (must be w/h or h/w)", s)
}

// ratio returns the aspect of a w×h rectangle.
func (c Convention) ratio(w, h float64) float64 {
	if c == HeightOverWidth {
		return h / w
	}
	return w / h
}

// height returns the height that gives a rectangle of width w the aspect.
func (c Convention) height(w, aspect float64) float64 {
	if c == HeightOverWidth {
		return w * aspect
	}
	return w / aspect
}
