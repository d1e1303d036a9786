package escape

import (
	"github.com/willbeason/mandelscan/pkg/decimal"
	"github.com/willbeason/mandelscan/pkg/mandel"
)

// Classify evaluates the point (x, y), records the outcome in rep and
// returns it as a Sample.
func Classify(ctx *decimal.Context, x, y decimal.Decimal, origin mandel.Origin, cfg mandel.Config, opts Options, rep *mandel.Report) mandel.Sample {
	r := Evaluate(ctx, decimal.Complex{Re: x, Im: y}, cfg, opts)
	r.Tally(rep)
	return mandel.Sample{
		X:          x,
		Y:          y,
		Iterations: r.Iterations,
		Evaluated:  true,
		Escaped:    r.Escaped,
		Origin:     origin,
	}
}

// Tally adds r to rep.
func (r Result) Tally(rep *mandel.Report) {
	rep.Evaluated++
	if r.Escaped {
		rep.Escaped++
	} else {
		rep.InSet++
	}
	switch r.Reason {
	case Stagnation:
		rep.Stagnations++
	case Cycle:
		rep.Cycles++
	case Fault:
		rep.ArithmeticFaults++
	}
	if r.Rejected {
		rep.SecondPassRejected++
	}
}
