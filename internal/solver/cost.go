package solver

import (
	"math"

	"github.com/emrzvv/bgamma/internal/numeric"
	"github.com/emrzvv/bgamma/internal/quadrature"
)

// Penalty is returned for points outside the feasible region
// H1, H2, gamma, delta1, delta2 >= 0.
const Penalty = 1e6

type objective struct {
	k1, k2 float64
	rho    float64
	rule   *quadrature.Rule
	q      numeric.GammaQuantiler
}

// Cost is the absolute gap between the correlation implied by (h1, h2, gamma)
// and rho, for marginal shapes k1, k2.
func Cost(h1, h2, gamma, k1, k2, rho float64, rule *quadrature.Rule, q numeric.GammaQuantiler) float64 {
	o := &objective{k1: k1, k2: k2, rho: rho, rule: rule, q: q}
	return o.cost(h1, h2, gamma)
}

func (o *objective) eval(x []float64) float64 {
	return o.cost(x[0], x[1], x[2])
}

func (o *objective) cost(h1, h2, gamma float64) float64 {
	if !feasible(h1, h2, gamma, o.k1-h1-gamma, o.k2-h2-gamma) {
		return Penalty
	}

	corr, ok := o.implied(h1, h2, gamma)
	if !ok {
		return Penalty
	}
	return math.Abs(corr - o.rho)
}

// implied evaluates (EV - H1*H2 + gamma) / sqrt(k1*k2), where EV is the
// quadrature estimate of E[T1*T2] over the quantile domain.
func (o *objective) implied(h1, h2, gamma float64) (float64, bool) {
	var qerr error
	ev := o.rule.Integrate(func(u float64) float64 {
		if qerr != nil {
			return 0
		}
		x1, x2 := u, u
		if o.rho < 0 {
			// anti-monotone pair, same convention as V = 1-U in the sampler
			x1 = 1 - u
		}
		t1, err := o.q.Quantile(x1, h1, 1)
		if err != nil {
			qerr = err
			return 0
		}
		t2, err := o.q.Quantile(x2, h2, 1)
		if err != nil {
			qerr = err
			return 0
		}
		return t1 * t2
	})
	if qerr != nil {
		return 0, false
	}

	corr := (ev - h1*h2 + gamma) / math.Sqrt(o.k1*o.k2)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return 0, false
	}
	return corr, true
}

func feasible(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || v < 0 {
			return false
		}
	}
	return true
}
