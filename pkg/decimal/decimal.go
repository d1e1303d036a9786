// Package decimal is a thin arbitrary-precision layer over apd. Values are
// immutable; every arithmetic result is rounded to the precision of the
// Context that produced it.
package decimal

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is an immutable arbitrary-precision decimal. The zero value is 0.
type Decimal struct {
	d *apd.Decimal
}

var zero = apd.New(0, 0)

// Parse reads a decimal literal such as "-0.75" or "1e-32".
func Parse(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Decimal{}, &ArithmeticError{Op: "parse", Err: fmt.Errorf("%w: %q", ErrInvalidDecimal, s)}
	}
	if d.Form != apd.Finite {
		return Decimal{}, &ArithmeticError{Op: "parse", Err: fmt.Errorf("%w: %q", ErrNonFinite, s)}
	}
	return Decimal{d: d}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInt returns n as a Decimal.
func FromInt(n int64) Decimal {
	return Decimal{d: apd.New(n, 0)}
}

func (x Decimal) raw() *apd.Decimal {
	if x.d == nil {
		return zero
	}
	return x.d
}

// Cmp returns -1, 0 or +1 as x is less than, equal to or greater than y.
func (x Decimal) Cmp(y Decimal) int {
	return x.raw().Cmp(y.raw())
}

func (x Decimal) Sign() int {
	return x.raw().Sign()
}

func (x Decimal) IsZero() bool {
	return x.raw().IsZero()
}

// Canonical is the textual form with trailing zeros removed, so "1.50" and
// "1.5" share one representation.
func (x Decimal) Canonical() string {
	var r apd.Decimal
	r.Reduce(x.raw())
	return r.Text('G')
}

func (x Decimal) String() string {
	return x.raw().Text('f')
}

// Float64 converts x for plotting. Precision beyond float64 is lost.
func (x Decimal) Float64() float64 {
	f, err := x.raw().Float64()
	if err != nil {
		return 0
	}
	return f
}

func (x Decimal) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalJSON accepts a decimal either as a JSON string or as a bare JSON
// number. Numbers are read from their literal text, never through float64.
func (x *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return &ArithmeticError{Op: "parse", Err: fmt.Errorf("%w: %s", ErrInvalidDecimal, s)}
		}
		s = unquoted
	}
	return x.UnmarshalText([]byte(s))
}

func (x *Decimal) UnmarshalText(b []byte) error {
	d, err := Parse(string(b))
	if err != nil {
		return err
	}
	*x = d
	return nil
}
