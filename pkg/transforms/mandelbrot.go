package transforms

import "github.com/willbeason/mandelscan/pkg/decimal"

// Mandelbrot is the quadratic map z -> z² + c.
type Mandelbrot struct{}

func (Mandelbrot) Next(ctx *decimal.Context, z, c decimal.Complex) (decimal.Complex, error) {
	sq, err := ctx.CSquare(z)
	if err != nil {
		return decimal.Complex{}, err
	}
	return ctx.CAdd(sq, c)
}
