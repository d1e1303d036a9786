package transforms

import "github.com/willbeason/mandelscan/pkg/decimal"

// A Step advances an orbit by one iteration for parameter c.
type Step interface {
	Next(ctx *decimal.Context, z, c decimal.Complex) (decimal.Complex, error)
}

var _ Step = Mandelbrot{}
