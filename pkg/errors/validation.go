package errors

import (
	"math"
	"strings"
)

// maxFigureInches bounds figure dimensions. Anything larger is almost
// certainly a units mistake (pixels passed as inches).
const maxFigureInches = 1000.0

// ValidateAspect validates a target aspect ratio.
// The ratio must be finite and strictly positive.
func ValidateAspect(aspect float64) error {
	if math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return New(ErrCodeInvalidAspect, "aspect ratio must be finite, got %v", aspect)
	}
	if aspect <= 0 {
		return New(ErrCodeInvalidAspect, "aspect ratio must be positive, got %g", aspect)
	}
	return nil
}

// ValidatePad validates a padding value expressed in multiples of the font size.
func ValidatePad(pad float64) error {
	if math.IsNaN(pad) || math.IsInf(pad, 0) || pad < 0 {
		return New(ErrCodeInvalidInput, "pad must be a non-negative number, got %v", pad)
	}
	return nil
}

// ValidateFigureSize validates figure dimensions in inches.
//
// Validation rules:
//   - Both dimensions must be finite and positive
//   - Neither may exceed 1000 inches
func ValidateFigureSize(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v <= 0 {
			return New(ErrCodeInvalidInput, "figure %s must be positive, got %v", d.name, d.v)
		}
		if d.v > maxFigureInches {
			return New(ErrCodeInvalidInput, "figure %s too large (max %g inches)", d.name, maxFigureInches)
		}
	}
	return nil
}

// ValidateDPI validates a device resolution in dots per inch.
func ValidateDPI(dpi float64) error {
	if math.IsNaN(dpi) || math.IsInf(dpi, 0) || dpi <= 0 {
		return New(ErrCodeInvalidInput, "dpi must be positive, got %v", dpi)
	}
	return nil
}

// ValidateFraction validates a figure-fractional coordinate in [0, 1].
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateWords validates a word list for title wrapping.
// The list must contain at least one word and no word may be blank or
// contain whitespace (words are joined with single spaces).
func ValidateWords(words []string) error {
	if len(words) == 0 {
		return New(ErrCodeInvalidTitle, "title must contain at least one word")
	}
	for i, w := range words {
		if strings.TrimSpace(w) == "" {
			return New(ErrCodeInvalidTitle, "word %d is blank", i)
		}
		if strings.ContainsAny(w, " \t\n\r") {
			return New(ErrCodeInvalidTitle, "word %d contains whitespace: %q", i, w)
		}
	}
	return nil
}
