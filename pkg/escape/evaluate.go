// Package escape classifies points of the complex plane with the
// escape-time algorithm.
package escape

import (
	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/mandel"
	"github.com/willbeason/mandelscan/pkg/transforms"
)

// EscapeRadiusSquared bounds |z|². An orbit escapes once |z|² > 4.
var EscapeRadiusSquared = decimal.FromInt(4)

// Reason is why an evaluation stopped.
type Reason int

const (
	// Escaped: |z|² exceeded EscapeRadiusSquared.
	Escaped Reason = iota
	// Exhausted: the iteration budget ran out.
	Exhausted
	// Stagnation: |z|² repeated exactly; the working precision is spent.
	Stagnation
	// Cycle: z matched a remembered orbit value.
	Cycle
	// Fault: an arithmetic error ended the orbit; treated as an escape.
	Fault
)

func (r Reason) String() string {
	switch r {
	case Escaped:
		return "escaped"
	case Exhausted:
		return "exhausted"
	case Stagnation:
		return "stagnation"
	case Cycle:
		return "cycle"
	case Fault:
		return "fault"
	}
	return "unknown"
}

// Phase is the state of the two-phase evaluation. Verifying re-runs the
// orbit from a provisional cycle point and is never entered twice.
type Phase int

const (
	Provisional Phase = iota
	Verifying
)

// Options are per-call overrides.
type Options struct {
	// Seed replaces z0 = 0.
	Seed *decimal.Complex
	// Budget overrides the iteration budget when non-zero. It is capped at
	// Config.MaxIterations.
	Budget uint32
	// PriorInSet is the number of consecutive in-set points the caller saw
	// just before this one. Used when Config.AdaptiveBudget is set.
	PriorInSet uint32
	// Step replaces the Mandelbrot map.
	Step transforms.Step
}

// Result is the classification of one point.
type Result struct {
	Escaped bool
	// Iterations is the escape step, or MaxIterations for in-set points.
	Iterations uint32
	Reason     Reason
	Phase      Phase
	// Rejected is set when verification overturned a provisional cycle.
	Rejected bool
	// Err is the recovered arithmetic error behind a Fault.
	Err error
}

func (r Result) InSet() bool {
	return !r.Escaped
}

// AdaptiveBudget shortens maxIterations after k consecutive in-set points:
// (max + max/(k+1)) / 2, never below one.
func AdaptiveBudget(maxIterations, k uint32) uint32 {
	b := (maxIterations + maxIterations/(k+1)) / 2
	if b == 0 {
		return 1
	}
	return b
}

// budget is the number of iterations Evaluate may use under cfg.
func (o Options) budget(cfg mandel.Config) uint32 {
	switch {
	case o.Budget > 0 && o.Budget < cfg.MaxIterations:
		return o.Budget
	case o.Budget > 0:
		return cfg.MaxIterations
	case cfg.AdaptiveBudget:
		return AdaptiveBudget(cfg.MaxIterations, o.PriorInSet)
	}
	return cfg.MaxIterations
}

// orbit is the per-call iteration state.
type orbit struct {
	phase   Phase
	z       decimal.Complex
	prevMag decimal.Decimal
	seen    *history
}

// Evaluate iterates z <- z² + c and classifies c.
//
// Steps 1 through budget-1 are taken; after each, the point escapes if
// |z|² > 4, is in the set if |z|² is identical to the previous step's, and
// is in the set if z matches one of the last HistoryLength values within
// epsilon. With SecondPassEnabled a cycle match instead restarts the orbit
// from the matched point in the Verifying phase, where only an exact
// repeat counts as a cycle. Running out of budget means in the set.
func Evaluate(ctx *decimal.Context, c decimal.Complex, cfg mandel.Config, opts Options) Result {
	step := opts.Step
	if step == nil {
		step = transforms.Mandelbrot{}
	}

	var seed decimal.Complex
	if opts.Seed != nil {
		seed = *opts.Seed
	}

	o, err := newOrbit(ctx, Provisional, seed, cfg.HistoryLength)
	if err != nil {
		return fault(0, Provisional, err)
	}

	budget := opts.budget(cfg)
	for n := uint32(1); n < budget; n++ {
		z, err := step.Next(ctx, o.z, c)
		if err != nil {
			return fault(n, o.phase, err)
		}
		mag, err := ctx.MagnitudeSquared(z)
		if err != nil {
			return fault(n, o.phase, err)
		}

		if mag.Cmp(EscapeRadiusSquared) > 0 {
			return Result{Escaped: true, Iterations: n, Reason: Escaped, Phase: o.phase, Rejected: o.phase == Verifying}
		}
		if mag.Cmp(o.prevMag) == 0 {
			return inSet(cfg, Stagnation, o.phase)
		}
		if o.repeats(ctx, z) {
			if o.phase == Provisional && cfg.SecondPassEnabled {
				o, err = newOrbit(ctx, Verifying, z, cfg.HistoryLength)
				if err != nil {
					return fault(n, Verifying, err)
				}
				continue
			}
			return inSet(cfg, Cycle, o.phase)
		}

		o.seen.push(z)
		o.z = z
		o.prevMag = mag
	}

	return inSet(cfg, Exhausted, o.phase)
}

func newOrbit(ctx *decimal.Context, phase Phase, seed decimal.Complex, historyLength int) (orbit, error) {
	mag, err := ctx.MagnitudeSquared(seed)
	if err != nil {
		return orbit{}, err
	}
	o := orbit{
		phase:   phase,
		z:       seed,
		prevMag: mag,
		seen:    newHistory(historyLength),
	}
	o.seen.push(seed)
	return o, nil
}

func (o orbit) repeats(ctx *decimal.Context, z decimal.Complex) bool {
	if o.phase == Verifying {
		return o.seen.match(z, exactlyEqual)
	}
	return o.seen.match(z, ctx.CEqual)
}

func exactlyEqual(a, b decimal.Complex) bool {
	return a.Re.Cmp(b.Re) == 0 && a.Im.Cmp(b.Im) == 0
}

func inSet(cfg mandel.Config, reason Reason, phase Phase) Result {
	return Result{Iterations: cfg.MaxIterations, Reason: reason, Phase: phase}
}

func fault(n uint32, phase Phase, err error) Result {
	return Result{Escaped: true, Iterations: n, Reason: Fault, Phase: phase, Err: err}
}
