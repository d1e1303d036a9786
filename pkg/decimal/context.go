package decimal

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Context carries the working precision and the equality tolerance.
// A Context is safe for concurrent use; it holds no mutable state.
type Context struct {
	apd     *apd.Context
	epsilon Decimal
}

// NewContext returns a Context rounding to precision significant digits.
func NewContext(precision uint32, epsilon Decimal) *Context {
	return &Context{
		apd:     apd.BaseContext.WithPrecision(precision),
		epsilon: epsilon,
	}
}

func (c *Context) Precision() uint32 {
	return c.apd.Precision
}

func (c *Context) Epsilon() Decimal {
	return c.epsilon
}

type binaryOp func(d, x, y *apd.Decimal) (apd.Condition, error)

func (c *Context) apply(op string, f binaryOp, x, y Decimal) (Decimal, error) {
	d := new(apd.Decimal)
	if _, err := f(d, x.raw(), y.raw()); err != nil {
		return Decimal{}, &ArithmeticError{Op: op, Err: err}
	}
	return Decimal{d: d}, nil
}

func (c *Context) Add(x, y Decimal) (Decimal, error) {
	return c.apply("add", c.apd.Add, x, y)
}

func (c *Context) Sub(x, y Decimal) (Decimal, error) {
	return c.apply("sub", c.apd.Sub, x, y)
}

func (c *Context) Mul(x, y Decimal) (Decimal, error) {
	return c.apply("mul", c.apd.Mul, x, y)
}

// Quo returns x/y. A zero divisor yields an *ArithmeticError wrapping
// ErrDivisionByZero.
func (c *Context) Quo(x, y Decimal) (Decimal, error) {
	if y.IsZero() {
		return Decimal{}, &ArithmeticError{Op: "quo", Err: ErrDivisionByZero}
	}
	return c.apply("quo", c.apd.Quo, x, y)
}

// Pow raises x to a small non-negative integer power by repeated
// multiplication.
func (c *Context) Pow(x Decimal, n int) (Decimal, error) {
	if n < 0 {
		return Decimal{}, &ArithmeticError{Op: "pow", Err: fmt.Errorf("negative exponent %d", n)}
	}
	result := FromInt(1)
	for range n {
		var err error
		result, err = c.Mul(result, x)
		if err != nil {
			return Decimal{}, err
		}
	}
	return result, nil
}

func (c *Context) Abs(x Decimal) Decimal {
	d := new(apd.Decimal)
	d.Abs(x.raw())
	return Decimal{d: d}
}

func (c *Context) Neg(x Decimal) Decimal {
	d := new(apd.Decimal)
	d.Neg(x.raw())
	return Decimal{d: d}
}

// MulInt returns x*n.
func (c *Context) MulInt(x Decimal, n int64) (Decimal, error) {
	return c.Mul(x, FromInt(n))
}

// QuoInt returns x/n.
func (c *Context) QuoInt(x Decimal, n int64) (Decimal, error) {
	return c.Quo(x, FromInt(n))
}

// Equal reports whether x and y are the same value: identical canonical
// text, or |x-y| < epsilon.
func (c *Context) Equal(x, y Decimal) bool {
	if x.Cmp(y) == 0 || x.Canonical() == y.Canonical() {
		return true
	}
	diff, err := c.Sub(x, y)
	if err != nil {
		return false
	}
	return c.Abs(diff).Cmp(c.epsilon) < 0
}
