package errors

import (
	"math"
	"testing"
)

func TestValidateAspect(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"golden ratio", 1.618, false},
		{"square", 1, false},
		{"tall", 0.25, false},

		{"zero", 0, true},
		{"negative", -1.5, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAspect(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAspect(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidAspect) {
				t.Errorf("ValidateAspect(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidAspect)
			}
		})
	}
}

func TestValidatePad(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"default", 1.08, false},
		{"negative", -0.1, true},
		{"nan", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePad(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePad(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFigureSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"letter column", 3.5, 2.5, false},
		{"zero width", 0, 2, true},
		{"negative height", 4, -1, true},
		{"pixels passed as inches", 1920, 1080, true},
		{"inf", math.Inf(1), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateFigureSize(tt.w, tt.h); (err != nil) != tt.wantErr {
				t.Errorf("ValidateFigureSize(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFraction(t *testing.T) {
	if err := ValidateFraction("left", 0.5); err != nil {
		t.Errorf("ValidateFraction(0.5) = %v, want nil", err)
	}
	if err := ValidateFraction("left", 1.2); err == nil {
		t.Error("ValidateFraction(1.2) = nil, want error")
	}
	if err := ValidateDPI(0); err == nil {
		t.Error("ValidateDPI(0) = nil, want error")
	}
}

func TestValidateWords(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"three words", []string{"a", "b", "c"}, false},
		{"single", []string{"title"}, false},

		{"nil", nil, true},
		{"empty", []string{}, true},
		{"blank word", []string{"a", " ", "c"}, true},
		{"embedded space", []string{"a b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWords(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWords(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTitle) {
				t.Errorf("ValidateWords(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidTitle)
			}
		})
	}
}
