// Package quadrature builds fixed Gauss-Legendre rules on the unit interval.
package quadrature

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
)

const (
	DefaultOrder = 25

	a = 0.0
	b = 1.0
)

// Rule is an immutable Gauss-Legendre rule on [0, 1].
// Weights already include the 0.5*(b-a) change-of-variables factor,
// so they sum to b-a = 1.
type Rule struct {
	order   int
	nodes   []float64
	weights []float64
}

// BuildRule computes the canonical nodes and weights on [-1, 1] and maps them
// onto [0, 1]: x' = 0.5*(x+1)*(b-a)+a, w' = 0.5*(b-a)*w.
func BuildRule(order int) (*Rule, error) {
	if order <= 0 {
		return nil, fmt.Errorf("quadrature order must be > 0, got %d", order)
	}

	x := make([]float64, order)
	w := make([]float64, order)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)

	for i := range x {
		x[i] = 0.5*(x[i]+1)*(b-a) + a
		w[i] = 0.5 * (b - a) * w[i]
	}
	return &Rule{order: order, nodes: x, weights: w}, nil
}

func (r *Rule) Order() int {
	return r.order
}

// Nodes returns a copy of the abscissae.
func (r *Rule) Nodes() []float64 {
	return append([]float64(nil), r.nodes...)
}

// Weights returns a copy of the weights aligned with Nodes.
func (r *Rule) Weights() []float64 {
	return append([]float64(nil), r.weights...)
}

// Node returns the i-th abscissa and weight without copying.
func (r *Rule) Node(i int) (x, w float64) {
	return r.nodes[i], r.weights[i]
}

// Integrate approximates the integral of f over [0, 1].
func (r *Rule) Integrate(f func(x float64) float64) float64 {
	var sum float64
	for i, x := range r.nodes {
		sum += f(x) * r.weights[i]
	}
	return sum
}
