package solver

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConvergence   = errors.New("solver did not converge")
	ErrNumericDomain = errors.New("numeric domain error")
)

// ConvergenceError describes a fit whose best point misses the target
// correlation or leaves the feasible region.
type ConvergenceError struct {
	Status      string
	Iterations  int
	Evaluations int
	Residual    float64
	Best        Params
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v: status=%s iterations=%d evaluations=%d residual=%g best=%+v",
		ErrConvergence, e.Status, e.Iterations, e.Evaluations, e.Residual, e.Best)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
