package layout

import (
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/figfit/pkg/errors"
	"github.com/matzehuels/figfit/pkg/observability"
)

type recordingHooks struct {
	observability.NoopLayoutHooks

	mu           sync.Mutex
	iterations   []int
	completed    []bool
	notConverged int
}

func (r *recordingHooks) OnIteration(_ string, i int, _, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.iterations = append(r.iterations, i)
}

func (r *recordingHooks) OnComplete(_ string, converged bool, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed = append(r.completed, converged)
}

func (r *recordingHooks) OnNotConverged(string, int, float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notConverged++
}

func withHooks(t *testing.T) *recordingHooks {
	t.Helper()
	h := &recordingHooks{}
	observability.SetLayoutHooks(h)
	t.Cleanup(observability.Reset)
	return h
}

func TestConvergeStopsWhenDone(t *testing.T) {
	hooks := withHooks(t)
	o, _ := newOptions(nil)

	res, err := converge("test", 5, o, func(i int) (float64, bool, error) {
		return float64(i), i == 3, nil
	})
	if err != nil {
		t.Fatalf("converge() error = %v", err)
	}
	want := Result{Routine: "test", Converged: true, Iterations: 3, Measured: 3, Target: 5}
	if res != want {
		t.Errorf("converge() = %+v, want %+v", res, want)
	}
	if len(hooks.iterations) != 4 {
		t.Errorf("OnIteration calls = %d, want 4", len(hooks.iterations))
	}
	if len(hooks.completed) != 1 || !hooks.completed[0] {
		t.Errorf("OnComplete = %v, want [true]", hooks.completed)
	}
	if hooks.notConverged != 0 {
		t.Errorf("OnNotConverged calls = %d, want 0", hooks.notConverged)
	}
}

func TestConvergeExhaustsBudget(t *testing.T) {
	hooks := withHooks(t)
	o, _ := newOptions([]Option{WithMaxIterations(4)})

	calls := 0
	res, err := converge("test", 1, o, func(i int) (float64, bool, error) {
		calls++
		return 0.5, false, nil
	})
	if err != nil {
		t.Fatalf("converge() error = %v", err)
	}
	if res.Converged || res.Iterations != 4 || res.Measured != 0.5 {
		t.Errorf("converge() = %+v, want not converged after 4 with measured 0.5", res)
	}
	if calls != 4 {
		t.Errorf("step calls = %d, want 4", calls)
	}
	if hooks.notConverged != 1 {
		t.Errorf("OnNotConverged calls = %d, want 1", hooks.notConverged)
	}
	if len(hooks.completed) != 1 || hooks.completed[0] {
		t.Errorf("OnComplete = %v, want [false]", hooks.completed)
	}
}

func TestConvergeStopsOnError(t *testing.T) {
	o, _ := newOptions(nil)
	boom := errors.New(errors.ErrCodeOracle, "boom")

	calls := 0
	_, err := converge("test", 0, o, func(i int) (float64, bool, error) {
		calls++
		if i == 1 {
			return 0, false, boom
		}
		return 1, false, nil
	})
	if err != boom {
		t.Errorf("converge() error = %v, want %v", err, boom)
	}
	if calls != 2 {
		t.Errorf("step calls = %d, want 2", calls)
	}
}

func TestTolerance(t *testing.T) {
	tests := []struct {
		name     string
		tol      Tolerance
		measured float64
		want     bool
	}{
		{"exact", DefaultTolerance, 1.5, true},
		{"sub-pixel", DefaultTolerance, 1.501, true},
		{"over one pixel", DefaultTolerance, 1.503, false},
		{"legacy scales error", Tolerance{Multiplier: LegacyToleranceMultiplier}, 1.501, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 4 inches at 100 dpi: 0.0025 of aspect is one pixel.
			if got := tt.tol.Within(tt.measured, 1.5, 4, 100); got != tt.want {
				t.Errorf("Within(%v) = %v, want %v (%.3f px)", tt.measured, got, tt.want,
					tt.tol.Pixels(tt.measured, 1.5, 4, 100))
			}
		})
	}
}

func TestParseConvention(t *testing.T) {
	tests := []struct {
		in      string
		want    Convention
		wantErr bool
	}{
		{"", WidthOverHeight, false},
		{"w/h", WidthOverHeight, false},
		{"Width/Height", WidthOverHeight, false},
		{"h/w", HeightOverWidth, false},
		{" height/width ", HeightOverWidth, false},
		{"diagonal", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseConvention(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseConvention(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConvention(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := HeightOverWidth.String(); s != "h/w" {
		t.Errorf("String() = %q, want h/w", s)
	}
}

func TestNewOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"negative pad", WithPad(-0.1)},
		{"zero budget", WithMaxIterations(0)},
		{"zero multiplier", WithTolerance(Tolerance{})},
		{"negative multiplier", WithTolerance(Tolerance{Multiplier: -1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newOptions([]Option{tt.opt}); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("newOptions() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	o, err := newOptions(nil)
	if err != nil {
		t.Fatalf("newOptions(nil) error = %v", err)
	}
	if o.pad != DefaultPad || o.maxIter != MaxIterations || o.logger == nil {
		t.Errorf("defaults = %+v", o)
	}
}
