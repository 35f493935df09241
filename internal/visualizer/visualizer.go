// Package visualizer runs sort drivers against a scene: it generates arrays,
// enforces one run at a time and tears the scene down.
package visualizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/san-kum/sortviz/internal/animate"
	"github.com/san-kum/sortviz/internal/metrics"
	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
)

type Options struct {
	Count     int
	MaxValue  int
	Pacing    time.Duration
	Seed      int64
	Layout    scene.Layout
	Logger    *slog.Logger
	Sleeper   animate.Sleeper
	Observers []animate.Observer
}

func DefaultOptions() Options {
	return Options{
		Count:    10,
		MaxValue: 16,
		Pacing:   animate.DefaultPacing,
		Seed:     time.Now().UnixNano(),
		Layout:   scene.DefaultLayout(),
	}
}

func (o *Options) setDefaults() {
	if o.MaxValue < 1 {
		o.MaxValue = 16
	}
	if o.Layout.Spacing == 0 {
		o.Layout = scene.DefaultLayout()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Visualizer owns one scene's registry and animator. Each instance is
// independent; nothing is shared between visualizers.
type Visualizer struct {
	opts     Options
	log      *slog.Logger
	registry *scene.Registry
	animator *animate.Animator

	mu      sync.Mutex
	running bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(r scene.Renderer, opts Options) *Visualizer {
	opts.setDefaults()
	reg := scene.NewRegistry(r, opts.Layout, opts.Seed)
	an := animate.New(reg, r, opts.Pacing)
	if opts.Sleeper != nil {
		an.SetSleeper(opts.Sleeper)
	}
	for _, o := range opts.Observers {
		an.AddObserver(o)
	}
	return &Visualizer{
		opts:     opts,
		log:      opts.Logger,
		registry: reg,
		animator: an,
	}
}

func (v *Visualizer) Registry() *scene.Registry   { return v.registry }
func (v *Visualizer) Animator() *animate.Animator { return v.animator }
func (v *Visualizer) Elements() []scene.Element   { return v.registry.Elements() }
func (v *Visualizer) Values() []int               { return v.registry.Array().Values() }

func (v *Visualizer) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// Generate replaces the array with n random values in [1, maxValue].
func (v *Visualizer) Generate(n, maxValue int) ([]scene.Element, error) {
	if err := v.idle(); err != nil {
		return nil, err
	}
	elems, err := v.registry.Generate(n, maxValue)
	if err != nil {
		return nil, err
	}
	v.log.Info("array generated", "n", n, "max", maxValue, "generation", v.registry.Generation())
	return elems, nil
}

// Regenerate uses the configured count and value range.
func (v *Visualizer) Regenerate() ([]scene.Element, error) {
	return v.Generate(v.opts.Count, v.opts.MaxValue)
}

// Load replaces the array with explicit values.
func (v *Visualizer) Load(values []int) ([]scene.Element, error) {
	if err := v.idle(); err != nil {
		return nil, err
	}
	elems, err := v.registry.Load(values)
	if err != nil {
		return nil, err
	}
	v.log.Info("array loaded", "values", values, "generation", v.registry.Generation())
	return elems, nil
}

func (v *Visualizer) idle() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrTornDown
	}
	if v.running {
		v.log.Warn("rejected while running")
		return ErrRunActive
	}
	return nil
}

// Run sorts the current array with alg, animating every step. It blocks
// until the sort completes, is cancelled or finds its scene gone; the
// visualizer is idle again when Run returns.
func (v *Visualizer) Run(ctx context.Context, alg sorting.Algorithm) (*Report, error) {
	drive, err := alg.Driver()
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	switch {
	case v.closed:
		v.mu.Unlock()
		return nil, ErrTornDown
	case v.running:
		v.mu.Unlock()
		v.log.Warn("run rejected", "algorithm", alg, "reason", "already running")
		return nil, ErrRunActive
	}
	arr := v.registry.Array()
	if arr.Len() == 0 {
		v.mu.Unlock()
		v.log.Info("run rejected", "algorithm", alg, "reason", "empty array")
		return nil, ErrEmptyArray
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	v.running, v.cancel, v.done = true, cancel, done
	v.mu.Unlock()

	defer func() {
		cancel()
		v.mu.Lock()
		v.running, v.cancel, v.done = false, nil, nil
		v.mu.Unlock()
		close(done)
	}()

	report := &Report{
		Algorithm: alg,
		Initial:   arr.Values(),
		Pacing:    v.animator.Pacing(),
		Started:   time.Now(),
	}
	rec := newRecorder(report)
	set := metrics.DefaultSet()
	log := v.log.With("algorithm", alg, "n", arr.Len())
	log.Info("run started", "pacing", report.Pacing)

	var (
		runErr error
		lifted *sorting.Step
	)
	for step := range drive(arr) {
		out, err := v.animator.Apply(runCtx, step)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				report.Cancelled = true
			} else {
				runErr = &RunError{Index: len(report.Records), Step: step, Wrapped: err}
			}
			break
		}
		set.OnStep(step, out)
		rec.add(step, out)
		switch {
		case step.Op == sorting.OpLift && out == animate.Applied:
			lifted = &step
		case step.Op == sorting.OpLower:
			lifted = nil
		}
		if step.Op.Animated() {
			log.Debug("step", "op", step.Op, "i", step.I, "j", step.J, "a", step.A, "b", step.B, "outcome", out)
		}
		if out == animate.Stale {
			report.Stale = true
			break
		}
	}

	if lifted != nil {
		// The run stopped between a lift and its lower.
		out, err := v.animator.Lower(lifted.A)
		log.Debug("lowered abandoned lift", "id", lifted.A, "outcome", out, "err", err)
	}

	report.Final = arr.Values()
	report.Sorted = arr.IsSorted()
	report.Metrics = set.Values()
	report.Elapsed = time.Since(report.Started)

	switch {
	case runErr != nil:
		log.Error("run failed", "err", runErr)
		return report, runErr
	case report.Cancelled:
		log.Info("run cancelled", "steps", len(report.Records), "elapsed", report.Elapsed)
	case report.Stale:
		log.Info("run abandoned", "reason", "scene regenerated or torn down", "steps", len(report.Records))
	default:
		log.Info("run finished", "steps", len(report.Records), "exchanges", report.Metrics["exchanges"], "elapsed", report.Elapsed)
	}
	return report, nil
}

// Cancel stops the active run, if any, and waits for it to unwind.
func (v *Visualizer) Cancel() {
	v.mu.Lock()
	cancel, done := v.cancel, v.done
	v.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Reset cancels any active run and generates a fresh array.
func (v *Visualizer) Reset() ([]scene.Element, error) {
	v.Cancel()
	return v.Regenerate()
}

// Teardown releases the scene and abandons any active run. Pending steps
// resolve as stale or cancelled; later calls return ErrTornDown.
func (v *Visualizer) Teardown() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	cancel, done := v.cancel, v.done
	v.mu.Unlock()

	v.registry.Release()
	if cancel != nil {
		cancel()
		<-done
	}
	v.log.Info("torn down")
}
