package mandel

import (
	"fmt"

	"github.com/willbeason/mandelscan/pkg/decimal"
)

// Grid is the sampling resolution of a Window. XSteps intervals give
// XSteps+1 columns, the last lying on the upper edge.
type Grid struct {
	XSteps int `json:"xSteps"`
	YSteps int `json:"ySteps"`
}

func (g Grid) Validate() error {
	if g.XSteps <= 0 || g.YSteps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %dx%d", ErrInvalidGrid, g.XSteps, g.YSteps)
	}
	return nil
}

func (g Grid) Columns() int {
	return g.XSteps + 1
}

func (g Grid) Rows() int {
	return g.YSteps + 1
}

// Lattice is a Grid resolved against a Window: the step distances and the
// coordinates of every column and row.
type Lattice struct {
	Window Window
	Grid   Grid
	XStep  decimal.Decimal
	YStep  decimal.Decimal
}

// Resolve computes the step distances of g over w.
func (g Grid) Resolve(ctx *decimal.Context, w Window) (Lattice, error) {
	if err := w.Validate(); err != nil {
		return Lattice{}, err
	}
	if err := g.Validate(); err != nil {
		return Lattice{}, err
	}
	xStep, err := step(ctx, w.XLower, w.XUpper, g.XSteps)
	if err != nil {
		return Lattice{}, err
	}
	yStep, err := step(ctx, w.YLower, w.YUpper, g.YSteps)
	if err != nil {
		return Lattice{}, err
	}
	return Lattice{Window: w, Grid: g, XStep: xStep, YStep: yStep}, nil
}

// X returns the real coordinate of column i.
func (l Lattice) X(ctx *decimal.Context, i int) (decimal.Decimal, error) {
	return coordinate(ctx, l.Window.XLower, l.Window.XUpper, l.XStep, i, l.Grid.XSteps)
}

// Y returns the imaginary coordinate of row j.
func (l Lattice) Y(ctx *decimal.Context, j int) (decimal.Decimal, error) {
	return coordinate(ctx, l.Window.YLower, l.Window.YUpper, l.YStep, j, l.Grid.YSteps)
}

func step(ctx *decimal.Context, lo, hi decimal.Decimal, steps int) (decimal.Decimal, error) {
	span, err := ctx.Sub(hi, lo)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ctx.QuoInt(span, int64(steps))
}

// coordinate computes lo + i*step directly rather than by accumulation, and
// pins the final index to hi so rounding never leaves the window.
func coordinate(ctx *decimal.Context, lo, hi, step decimal.Decimal, i, steps int) (decimal.Decimal, error) {
	switch {
	case i <= 0:
		return lo, nil
	case i >= steps:
		return hi, nil
	}
	offset, err := ctx.MulInt(step, int64(i))
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ctx.Add(lo, offset)
}
