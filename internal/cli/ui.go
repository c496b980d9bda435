package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/figfit/pkg/layout"
	"github.com/matzehuels/figfit/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Fit Summary
// =============================================================================

// printFitted prints the final figure size and one line per layout routine.
func printFitted(res *pipeline.Result) {
	w, h := res.Figure.Size()
	printKeyValue("size", StyleNumber.Render(fmt.Sprintf("%.3g × %.3g in", w, h)))
	if len(res.Title) > 0 {
		printKeyValue("title", fmt.Sprintf("%d lines", len(res.Title)))
	}
	for _, r := range []*layout.Result{res.Center, res.Aspect} {
		if r == nil {
			continue
		}
		printKeyValue(r.Routine, routineSummary(r))
	}
	if res.CenteredAxes != nil {
		printKeyValue("centered", fmt.Sprintf("axes %d", *res.CenteredAxes))
	}
	for _, r := range []*layout.Result{res.Center, res.Aspect} {
		if r != nil && !r.Converged {
			printWarning("%s did not converge after %d iterations; kept the last state", r.Routine, r.Iterations)
		}
	}
}

// routineSummary renders a layout result as "converged at 2 · 1.618 (target 1.618)".
func routineSummary(r *layout.Result) string {
	var b strings.Builder
	if r.Converged {
		fmt.Fprintf(&b, "converged at %d", r.Iterations)
	} else {
		fmt.Fprintf(&b, "stopped at %d", r.Iterations)
	}
	b.WriteString(StyleDim.Render(" · "))
	fmt.Fprintf(&b, "%.4g (target %.4g)", r.Measured, r.Target)
	return b.String()
}
