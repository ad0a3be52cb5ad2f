// Package numeric holds the numeric backends used by the solver and the sampler:
// the Gamma quantile function and a derivative-free minimizer.
package numeric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrBadShape = errors.New("gamma shape must be >= 0")

// GammaQuantiler evaluates the inverse CDF of Gamma(shape, scale) at p.
type GammaQuantiler interface {
	Quantile(p, shape, scale float64) (float64, error)
}

// GonumGamma is the distuv-backed GammaQuantiler.
type GonumGamma struct{}

// Quantile treats shape == 0 as the degenerate point mass at zero.
func (GonumGamma) Quantile(p, shape, scale float64) (float64, error) {
	if math.IsNaN(shape) || shape < 0 {
		return 0, fmt.Errorf("%w: got %v", ErrBadShape, shape)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("probability %v outside [0, 1]", p)
	}
	if scale <= 0 {
		return 0, fmt.Errorf("gamma scale must be > 0, got %v", scale)
	}
	if shape == 0 {
		return 0, nil
	}

	g := distuv.Gamma{
		Alpha: shape,
		Beta:  1.0 / scale,
	}
	return g.Quantile(p), nil
}
