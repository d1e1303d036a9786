package decimal

import "errors"

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidDecimal = errors.New("invalid decimal")
	ErrNonFinite      = errors.New("non-finite decimal")
)

// ArithmeticError reports a failed decimal operation.
type ArithmeticError struct {
	Op  string
	Err error
}

func (e *ArithmeticError) Error() string {
	return "decimal " + e.Op + ": " + e.Err.Error()
}

func (e *ArithmeticError) Unwrap() error {
	return e.Err
}
