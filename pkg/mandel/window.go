// Package mandel holds the values exchanged between the controller, the
// scanner and the renderer.
package mandel

import (
	"errors"
	"fmt"

	"github.com/willbeason/mandelscan/pkg/decimal"
)

var (
	ErrInvalidWindow = errors.New("invalid window")
	ErrInvalidGrid   = errors.New("invalid grid")
	ErrInvalidConfig = errors.New("invalid config")
)

// Window is a rectangle of the complex plane, closed on every edge.
type Window struct {
	XLower, XUpper decimal.Decimal
	YLower, YUpper decimal.Decimal
}

// ParseWindow builds a Window from decimal literals.
func ParseWindow(xLower, xUpper, yLower, yUpper string) (Window, error) {
	var w Window
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&w.XLower, xLower},
		{&w.XUpper, xUpper},
		{&w.YLower, yLower},
		{&w.YUpper, yUpper},
	} {
		d, err := decimal.Parse(f.src)
		if err != nil {
			return Window{}, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
		}
		*f.dst = d
	}
	return w, nil
}

// MustParseWindow is ParseWindow for literals known to be valid.
func MustParseWindow(xLower, xUpper, yLower, yUpper string) Window {
	w, err := ParseWindow(xLower, xUpper, yLower, yUpper)
	if err != nil {
		panic(err)
	}
	return w
}

func (w Window) Validate() error {
	if w.XLower.Cmp(w.XUpper) >= 0 {
		return fmt.Errorf("%w: x lower %s is not below x upper %s", ErrInvalidWindow, w.XLower, w.XUpper)
	}
	if w.YLower.Cmp(w.YUpper) >= 0 {
		return fmt.Errorf("%w: y lower %s is not below y upper %s", ErrInvalidWindow, w.YLower, w.YUpper)
	}
	return nil
}

// Contains reports whether (x, y) lies inside w, edges included.
func (w Window) Contains(x, y decimal.Decimal) bool {
	return x.Cmp(w.XLower) >= 0 && x.Cmp(w.XUpper) <= 0 &&
		y.Cmp(w.YLower) >= 0 && y.Cmp(w.YUpper) <= 0
}

// Center returns the midpoint of w.
func (w Window) Center(ctx *decimal.Context) (decimal.Complex, error) {
	x, err := midpoint(ctx, w.XLower, w.XUpper)
	if err != nil {
		return decimal.Complex{}, err
	}
	y, err := midpoint(ctx, w.YLower, w.YUpper)
	if err != nil {
		return decimal.Complex{}, err
	}
	return decimal.Complex{Re: x, Im: y}, nil
}

// Zoom returns a window around the same center whose sides are scaled by
// factor. Factors below one zoom in.
func (w Window) Zoom(ctx *decimal.Context, factor decimal.Decimal) (Window, error) {
	if factor.Sign() <= 0 {
		return Window{}, fmt.Errorf("%w: zoom factor %s must be positive", ErrInvalidWindow, factor)
	}
	center, err := w.Center(ctx)
	if err != nil {
		return Window{}, err
	}
	xLower, xUpper, err := scaleAround(ctx, center.Re, w.XLower, w.XUpper, factor)
	if err != nil {
		return Window{}, err
	}
	yLower, yUpper, err := scaleAround(ctx, center.Im, w.YLower, w.YUpper, factor)
	if err != nil {
		return Window{}, err
	}
	return Window{XLower: xLower, XUpper: xUpper, YLower: yLower, YUpper: yUpper}, nil
}

// Recenter moves w so its center lies at c, keeping its size.
func (w Window) Recenter(ctx *decimal.Context, c decimal.Complex) (Window, error) {
	center, err := w.Center(ctx)
	if err != nil {
		return Window{}, err
	}
	dx, err := ctx.Sub(c.Re, center.Re)
	if err != nil {
		return Window{}, err
	}
	dy, err := ctx.Sub(c.Im, center.Im)
	if err != nil {
		return Window{}, err
	}

	var out Window
	for _, f := range []struct {
		dst        *decimal.Decimal
		src, delta decimal.Decimal
	}{
		{&out.XLower, w.XLower, dx},
		{&out.XUpper, w.XUpper, dx},
		{&out.YLower, w.YLower, dy},
		{&out.YUpper, w.YUpper, dy},
	} {
		*f.dst, err = ctx.Add(f.src, f.delta)
		if err != nil {
			return Window{}, err
		}
	}
	return out, nil
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s] x [%s, %s]", w.XLower, w.XUpper, w.YLower, w.YUpper)
}

func midpoint(ctx *decimal.Context, lo, hi decimal.Decimal) (decimal.Decimal, error) {
	sum, err := ctx.Add(lo, hi)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ctx.QuoInt(sum, 2)
}

func scaleAround(ctx *decimal.Context, center, lo, hi, factor decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	width, err := ctx.Sub(hi, lo)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	scaled, err := ctx.Mul(width, factor)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	half, err := ctx.QuoInt(scaled, 2)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	newLo, err := ctx.Sub(center, half)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	newHi, err := ctx.Add(center, half)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return newLo, newHi, nil
}
