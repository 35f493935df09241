// Package animate turns sort steps into paced, strictly serialized moves of
// bars in a scene.
package animate

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
)

// DefaultPacing is the wait before each exchange or settle.
const DefaultPacing = time.Second

type Outcome uint8

const (
	// Skipped steps have no visible effect.
	Skipped Outcome = iota
	// Applied steps moved their bars.
	Applied
	// Stale steps referenced bars that no longer exist and did nothing.
	Stale
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// Resolver maps identities of the current generation to handles.
type Resolver interface {
	Lookup(id scene.Identity) (scene.Handle, error)
	SlotPosition(i int) float64
}

// Observer is notified after every step the animator resolves.
type Observer interface {
	OnStep(step sorting.Step, out Outcome)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the default Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Animator applies one step at a time. Apply holds a lock across the pacing
// wait and the mutation, so two moves are never in flight together.
type Animator struct {
	mu        sync.Mutex
	resolver  Resolver
	renderer  scene.Renderer
	pacing    time.Duration
	sleep     Sleeper
	observers []Observer
}

func New(resolver Resolver, renderer scene.Renderer, pacing time.Duration) *Animator {
	return &Animator{
		resolver: resolver,
		renderer: renderer,
		pacing:   pacing,
		sleep:    Sleep,
	}
}

func (a *Animator) SetSleeper(s Sleeper)      { a.sleep = s }
func (a *Animator) AddObserver(o Observer)    { a.observers = append(a.observers, o) }
func (a *Animator) Pacing() time.Duration     { return a.pacing }
func (a *Animator) SetPacing(d time.Duration) { a.pacing = d }

// Apply animates step. A cancelled ctx aborts the wait with no mutation.
func (a *Animator) Apply(ctx context.Context, step sorting.Step) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch step.Op {
	case sorting.OpCompare:
		out = Skipped
	case sorting.OpExchange:
		out, err = a.Exchange(ctx, step.A, step.B)
	case sorting.OpLift:
		out, err = a.Lift(step.A)
	case sorting.OpLower:
		out, err = a.Lower(step.A)
	case sorting.OpSettle:
		out, err = a.Settle(ctx, step.A, step.I)
	}
	if err != nil {
		return out, err
	}
	for _, o := range a.observers {
		o.OnStep(step, out)
	}
	return out, nil
}

// Exchange waits the pacing delay, then swaps the placement coordinates of
// the two bars.
func (a *Animator) Exchange(ctx context.Context, x, y scene.Identity) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sleep(ctx, a.pacing); err != nil {
		return Skipped, err
	}

	hx, hy, out, err := a.pair(x, y)
	if out != Applied {
		return out, err
	}
	px, okx := a.renderer.Position(hx)
	py, oky := a.renderer.Position(hy)
	if !okx || !oky {
		return Stale, nil
	}
	ax, ay := px.Get(scene.PlacementAxis), py.Get(scene.PlacementAxis)
	if !a.renderer.SetAxis(hx, scene.PlacementAxis, ay) || !a.renderer.SetAxis(hy, scene.PlacementAxis, ax) {
		return Stale, nil
	}
	return Applied, nil
}

// Lift raises id off the placement line by moving it to the negative side
// of the lift axis. Lifting a lifted bar is a no-op.
func (a *Animator) Lift(id scene.Identity) (Outcome, error) { return a.setLift(id, -1) }

// Lower puts id back on the placement line. Lowering a resting bar is a no-op.
func (a *Animator) Lower(id scene.Identity) (Outcome, error) { return a.setLift(id, 1) }

func (a *Animator) setLift(id scene.Identity, sign float64) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	h, out, err := a.resolve(id)
	if out != Applied {
		return out, err
	}
	p, ok := a.renderer.Position(h)
	if !ok || !a.renderer.SetAxis(h, scene.LiftAxis, sign*math.Abs(p.Get(scene.LiftAxis))) {
		return Stale, nil
	}
	return Applied, nil
}

// Settle waits the pacing delay, then places the lifted bar at slot.
func (a *Animator) Settle(ctx context.Context, id scene.Identity, slot int) (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sleep(ctx, a.pacing); err != nil {
		return Skipped, err
	}
	h, out, err := a.resolve(id)
	if out != Applied {
		return out, err
	}
	if !a.renderer.SetAxis(h, scene.PlacementAxis, a.resolver.SlotPosition(slot)) {
		return Stale, nil
	}
	return Applied, nil
}

func (a *Animator) resolve(id scene.Identity) (scene.Handle, Outcome, error) {
	h, err := a.resolver.Lookup(id)
	if errors.Is(err, scene.ErrNotFound) {
		return 0, Stale, nil
	}
	if err != nil {
		return 0, Skipped, err
	}
	return h, Applied, nil
}

func (a *Animator) pair(x, y scene.Identity) (scene.Handle, scene.Handle, Outcome, error) {
	hx, out, err := a.resolve(x)
	if out != Applied {
		return 0, 0, out, err
	}
	hy, out, err := a.resolve(y)
	if out != Applied {
		return 0, 0, out, err
	}
	return hx, hy, Applied, nil
}
