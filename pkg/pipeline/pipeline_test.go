package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/figfit/pkg/config"
	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/figure"
	"github.com/matzehuels/figfit/pkg/layout"
	"github.com/matzehuels/figfit/pkg/observability"
	"github.com/matzehuels/figfit/pkg/oracle/oracletest"
)

const testDocument = `
suptitle = "Optical density of the three cultures measured every twelve hours over the course of one week"

[figure]
width = 4.0
height = 3.0

[[axes]]
rows = 1
cols = 1
index = 1
xlabel = "hours"
ylabel = "OD600"
xticks = ["0", "24", "48", "72"]
yticks = ["0.0", "0.5", "1.0"]
`

func decode(t *testing.T, data string) *config.Document {
	t.Helper()
	doc, err := config.Decode([]byte(data), config.FormatTOML)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return doc
}

func ptr[T any](v T) *T { return &v }

func newRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := NewRunner(nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateFont(t *testing.T) {
	for _, name := range []string{"", "go", "go-mono"} {
		if err := ValidateFont(name); err != nil {
			t.Errorf("ValidateFont(%q) error = %v", name, err)
		}
	}
	if err := ValidateFont("comic-sans"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ValidateFont(comic-sans) error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Scale != 1 {
		t.Errorf("Scale = %v, want 1", opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discarding logger")
	}

	// Idempotent
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error = %v, want nil", err)
	}

	bad := Options{Scale: -1}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative scale error = %v, want INVALID_INPUT", err)
	}
}

func TestOptionsApply(t *testing.T) {
	docPad, optPad, axes := 0.5, 2.0, 1
	doc := config.Layout{Pad: &docPad, Aspect: 2, Convention: "h/w", MaxIterations: 5}

	got := (&Options{}).Apply(doc)
	if *got.Pad != 0.5 || got.Aspect != 2 || got.Convention != "h/w" || got.MaxIterations != 5 || got.Center {
		t.Errorf("Apply(empty) = %+v, want document layout unchanged", got)
	}

	got = (&Options{
		Center:              ptr(true),
		Aspect:              1.5,
		AspectAxes:          &axes,
		Pad:                 &optPad,
		ToleranceMultiplier: layout.LegacyToleranceMultiplier,
		WrapTitle:           ptr(true),
	}).Apply(doc)
	if !got.Center || !got.WrapTitle {
		t.Errorf("Apply() booleans = %v/%v, want true/true", got.Center, got.WrapTitle)
	}
	if got.Aspect != 1.5 || got.AspectAxes != 1 || *got.Pad != 2 || got.ToleranceMultiplier != layout.LegacyToleranceMultiplier {
		t.Errorf("Apply() = %+v", got)
	}
	if got.Convention != "h/w" || got.MaxIterations != 5 {
		t.Errorf("Apply() dropped unset fields: %+v", got)
	}
	if *doc.Pad != 0.5 {
		t.Error("Apply() modified the document's pad")
	}
}

func TestOptionsApplyExplicitFalse(t *testing.T) {
	doc := config.Layout{Center: true, WrapTitle: true}

	kept := (&Options{}).Apply(doc)
	if !kept.Center || !kept.WrapTitle {
		t.Errorf("Apply(empty) booleans = %v/%v, want the document's true/true", kept.Center, kept.WrapTitle)
	}

	got := (&Options{Center: ptr(false), WrapTitle: ptr(false)}).Apply(doc)
	if got.Center || got.WrapTitle {
		t.Errorf("Apply(false) booleans = %v/%v, want false/false", got.Center, got.WrapTitle)
	}

	got = (&Options{CenterAxes: ptr(0)}).Apply(config.Layout{})
	if got.CenterAxes == nil || *got.CenterAxes != 0 {
		t.Errorf("Apply() CenterAxes = %v, want 0", got.CenterAxes)
	}
}

func TestExecute(t *testing.T) {
	doc := decode(t, testDocument)
	r := newRunner(t)

	res, err := r.Execute(context.Background(), doc, Options{
		Center:    ptr(true),
		Aspect:    layout.GoldenRatio,
		WrapTitle: ptr(true),
		Formats:   []string{FormatSVG, FormatJSON, FormatPNG},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.Center == nil || !res.Center.Converged {
		t.Errorf("Center = %+v, want converged", res.Center)
	}
	if res.Aspect == nil || !res.Aspect.Converged {
		t.Fatalf("Aspect = %+v, want converged", res.Aspect)
	}
	if len(res.Title) < 2 {
		t.Errorf("Title = %q, want the long suptitle wrapped", res.Title)
	}
	if got := res.Figure.Suptitle().Content; got != strings.Join(res.Title, "\n") {
		t.Errorf("suptitle = %q, want wrapped lines", got)
	}
	if res.Stats.AxesCount != 1 || res.Stats.Iterations != res.Center.Iterations+res.Aspect.Iterations {
		t.Errorf("Stats = %+v", res.Stats)
	}

	for _, f := range []string{FormatSVG, FormatJSON, FormatPNG} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a PNG")
	}

	var scene struct {
		Width float64 `json:"width"`
		Axes  []struct {
			Aspect float64 `json:"aspect"`
		} `json:"axes"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &scene); err != nil {
		t.Fatalf("Unmarshal(json artifact) error = %v", err)
	}
	if len(scene.Axes) != 1 || !layout.DefaultTolerance.Within(scene.Axes[0].Aspect, layout.GoldenRatio, scene.Width, 100) {
		t.Errorf("rendered axes = %+v, want aspect within one pixel of %v", scene.Axes, layout.GoldenRatio)
	}

	// The caller's document is untouched.
	if doc.Layout.Center || doc.Layout.Aspect != 0 || doc.Figure.Height != 3 {
		t.Errorf("document modified: %+v", doc.Layout)
	}
}

func TestExecuteDocumentLayout(t *testing.T) {
	doc := decode(t, testDocument+`
[layout]
center = true
`)
	fake := oracletest.New()
	r := &Runner{Oracle: fake}

	res, err := r.Execute(context.Background(), doc, Options{Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Center == nil || res.Aspect != nil || res.Title != nil {
		t.Errorf("Execute() ran center=%v aspect=%v title=%v, want center only", res.Center, res.Aspect, res.Title)
	}
	if p := res.Figure.Params(); p.Left != 1-p.Right {
		t.Errorf("params = %+v, want symmetric", p)
	}
	if tight, _, _ := fake.Calls(); tight == 0 {
		t.Error("runner did not query its oracle")
	}
}

func TestExecuteDocumentLayoutOverridden(t *testing.T) {
	doc := decode(t, testDocument+`
[layout]
center = true
wrap_title = true
`)
	r := &Runner{Oracle: oracletest.New()}

	res, err := r.Execute(context.Background(), doc, Options{
		Center:    ptr(false),
		WrapTitle: ptr(false),
		Formats:   []string{FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Center != nil || res.Title != nil {
		t.Errorf("Execute() ran center=%v title=%v, want both turned off", res.Center, res.Title)
	}
	if res.Figure.Params() != figure.DefaultParams {
		t.Errorf("params = %+v, want defaults", res.Figure.Params())
	}
}

func TestExecuteCenterAxes(t *testing.T) {
	doc := decode(t, `
[figure]
width = 4.0
height = 5.0

[[axes]]
rows = 2
cols = 1
index = 1
ylabel = "OD600"
yticks = ["0.0", "0.5", "1.0"]

[[axes]]
rows = 2
cols = 1
index = 2
ylabel = "cell count"
yticks = ["0", "100000", "200000"]
`)
	r := newRunner(t)

	res, err := r.Execute(context.Background(), doc, Options{CenterAxes: ptr(1), Formats: []string{FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CenteredAxes == nil || *res.CenteredAxes != 1 {
		t.Fatalf("CenteredAxes = %v, want 1", res.CenteredAxes)
	}
	if res.Center != nil || res.Aspect != nil {
		t.Errorf("Execute() ran center=%v aspect=%v, want single-axes centering only", res.Center, res.Aspect)
	}

	axes := res.Figure.Axes()
	pos := axes[1].Position()
	if axes[1].HasGrid() {
		t.Error("centered axes is still placed by its grid")
	}
	if pos.X1 != 1-pos.X0 {
		t.Errorf("position x0 = %v, x1 = %v; want x1 = 1 - x0", pos.X0, pos.X1)
	}
	if !axes[0].HasGrid() {
		t.Error("other axes left its grid")
	}
}

func TestExecuteFont(t *testing.T) {
	doc := decode(t, testDocument)
	fake := oracletest.New()
	r := &Runner{Oracle: fake}

	if _, err := r.Execute(context.Background(), doc, Options{Font: "go-mono", Center: ptr(true)}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if tight, bbox, _ := fake.Calls(); tight != 0 || bbox != 0 {
		t.Errorf("runner oracle called %d/%d times, want a font-specific oracle", tight, bbox)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := newRunner(t)
	two := 2
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		doc  *config.Document
		opts Options
		code errors.Code
	}{
		{"nil document", context.Background(), nil, Options{}, errors.ErrCodeInvalidInput},
		{"bad format", context.Background(), decode(t, testDocument), Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad font", context.Background(), decode(t, testDocument), Options{Font: "nope"}, errors.ErrCodeInvalidInput},
		{"axes out of range", context.Background(), decode(t, testDocument), Options{Aspect: 1, AspectAxes: &two}, errors.ErrCodeInvalidConfig},
		{"bad convention", context.Background(), decode(t, testDocument), Options{Aspect: 1, Convention: "diag"}, errors.ErrCodeInvalidConfig},
		{"bad aspect", context.Background(), decode(t, testDocument), Options{Aspect: -1}, errors.ErrCodeInvalidConfig},
		{"center axes out of range", context.Background(), decode(t, testDocument), Options{CenterAxes: &two}, errors.ErrCodeInvalidConfig},
		{"center axes with center", context.Background(), decode(t, testDocument), Options{Center: ptr(true), CenterAxes: ptr(0)}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(tt.ctx, tt.doc, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}

	t.Run("cancelled", func(t *testing.T) {
		_, err := r.Execute(cancelled, decode(t, testDocument), Options{Center: ptr(true)})
		if err != context.Canceled {
			t.Errorf("Execute() error = %v, want context.Canceled", err)
		}
	})
}

type recordingHooks struct {
	observability.NoopPipelineHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnFitStart(context.Context, int) { h.record("fit-start") }
func (h *recordingHooks) OnFitComplete(context.Context, time.Duration, error) {
	h.record("fit-complete")
}
func (h *recordingHooks) OnRenderStart(context.Context, []string) { h.record("render-start") }
func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.record("render-complete")
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := &Runner{Oracle: oracletest.New()}
	if _, err := r.Execute(context.Background(), decode(t, testDocument), Options{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []string{"fit-start", "fit-complete", "render-start", "render-complete"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	fitted, err := Fit(context.Background(), decode(t, testDocument), oracletest.New(), log.Default())
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := Render(fitted.Figure, oracletest.New(), Options{Formats: []string{"tiff"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(tiff) error = %v, want INVALID_FORMAT", err)
	}
}

func TestExampleFigures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "figures", "*"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no example figures found")
	}
	r := newRunner(t)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			doc, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			res, err := r.Execute(context.Background(), doc, Options{Formats: []string{FormatSVG, FormatJSON}})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if res.Center == nil && res.Aspect == nil {
				t.Error("example enables no layout routine")
			}
			if len(res.Artifacts[FormatSVG]) == 0 {
				t.Error("empty svg")
			}
		})
	}
}
