// Package solver fits the shared-shock decomposition of a bivariate Gamma pair.
//
// Each variable is split as X1 ~ T1 + Z + W1, X2 ~ T2 + Z + W2 with
// T1 ~ Gamma(H1), T2 ~ Gamma(H2), Z ~ Gamma(gamma), Wi ~ Gamma(deltai), where
// deltai = ki - Hi - gamma. T1 and T2 share one uniform draw (or its reflection),
// Z is the shared shock. The solver searches (H1, H2, gamma) so the implied
// Pearson correlation matches the target.
package solver

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/emrzvv/bgamma/internal/numeric"
	"github.com/emrzvv/bgamma/internal/quadrature"
)

// Params is the fitted decomposition for shapes K1, K2 and target Rho.
type Params struct {
	H1, H2         float64
	Gamma          float64
	Delta1, Delta2 float64

	K1, K2 float64
	Rho    float64
}

// Validate reports an ErrNumericDomain if any component shape is negative.
func (p Params) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"H1", p.H1}, {"H2", p.H2}, {"gamma", p.Gamma}, {"delta1", p.Delta1}, {"delta2", p.Delta2},
	} {
		if math.IsNaN(c.v) || c.v < 0 {
			return fmt.Errorf("%w: %s = %v", ErrNumericDomain, c.name, c.v)
		}
	}
	return nil
}

// Implied returns the correlation the decomposition implies under rule.
func (p Params) Implied(rule *quadrature.Rule, q numeric.GammaQuantiler) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	o := &objective{k1: p.K1, k2: p.K2, rho: p.Rho, rule: rule, q: q}
	corr, ok := o.implied(p.H1, p.H2, p.Gamma)
	if !ok {
		return 0, fmt.Errorf("%w: implied correlation is not finite", ErrNumericDomain)
	}
	return corr, nil
}

type Settings struct {
	Order       int     // порядок квадратуры Гаусса-Лежандра
	Tolerance   float64 // абсолютный допуск оптимизатора
	MaxResidual float64 // максимальное |rho_implied - rho| для принятия решения

	MaxIterations  int // 0 - без ограничения
	MaxEvaluations int // 0 - без ограничения

	Minimizer numeric.Minimizer      // nil -> NelderMead с лимитами выше
	Quantiler numeric.GammaQuantiler // nil -> GonumGamma
	Logger    *zap.Logger            // nil -> zap.NewNop()
}

func DefaultSettings() Settings {
	return Settings{
		Order:         quadrature.DefaultOrder,
		Tolerance:     1e-12,
		MaxResidual:   1e-6,
		MaxIterations: 20_000,
	}
}

func (s *Settings) fillDefaults() {
	d := DefaultSettings()
	if s.Order == 0 {
		s.Order = d.Order
	}
	if s.Tolerance == 0 {
		s.Tolerance = d.Tolerance
	}
	if s.MaxResidual == 0 {
		s.MaxResidual = d.MaxResidual
	}
	if s.MaxIterations == 0 && s.Minimizer == nil {
		s.MaxIterations = d.MaxIterations
	}
	if s.Minimizer == nil {
		s.Minimizer = numeric.NelderMead{
			MaxIterations:  s.MaxIterations,
			MaxEvaluations: s.MaxEvaluations,
		}
	}
	if s.Quantiler == nil {
		s.Quantiler = numeric.GonumGamma{}
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
}

func validate(k1, k2, rho float64, s *Settings) error {
	if math.IsNaN(rho) || math.Abs(rho) > 1 {
		return invalid("rho must be in [-1, 1], got %v", rho)
	}
	if !(k1 > 0) || math.IsInf(k1, 0) {
		return invalid("shape k1 must be > 0, got %v", k1)
	}
	if !(k2 > 0) || math.IsInf(k2, 0) {
		return invalid("shape k2 must be > 0, got %v", k2)
	}
	if s.Order < 0 {
		return invalid("quadrature order must be > 0, got %d", s.Order)
	}
	if s.Tolerance < 0 || s.MaxResidual < 0 {
		return invalid("tolerances must be >= 0")
	}
	if s.MaxIterations < 0 || s.MaxEvaluations < 0 {
		return invalid("iteration limits must be >= 0, got %d and %d", s.MaxIterations, s.MaxEvaluations)
	}
	return nil
}

// Solve fits (H1, H2, gamma) for marginal shapes k1, k2 and target rho.
// Invalid inputs fail with ErrInvalidInput before any numeric work;
// a fit that misses rho by more than MaxResidual fails with *ConvergenceError.
func Solve(k1, k2, rho float64, s Settings) (Params, error) {
	if err := validate(k1, k2, rho, &s); err != nil {
		return Params{}, err
	}
	s.fillDefaults()
	log := s.Logger

	rule, err := quadrature.BuildRule(s.Order)
	if err != nil {
		return Params{}, invalid("%v", err)
	}

	o := &objective{k1: k1, k2: k2, rho: rho, rule: rule, q: s.Quantiler}

	h1, h2 := k1/3, k2/3
	x0 := []float64{h1, h2, math.Min(h1, h2)}
	log.Debug("fitting decomposition",
		zap.Float64("k1", k1),
		zap.Float64("k2", k2),
		zap.Float64("rho", rho),
		zap.Float64s("x0", x0),
		zap.Int("order", s.Order))

	res, err := s.Minimizer.Minimize(o.eval, x0, s.Tolerance)
	if res.X == nil {
		return Params{}, fmt.Errorf("%w: minimizer returned no point: %v", ErrConvergence, err)
	}
	if err != nil {
		log.Debug("minimizer reported error", zap.Error(err))
	}

	p := Params{
		H1:     res.X[0],
		H2:     res.X[1],
		Gamma:  res.X[2],
		Delta1: k1 - res.X[0] - res.X[2],
		Delta2: k2 - res.X[1] - res.X[2],
		K1:     k1,
		K2:     k2,
		Rho:    rho,
	}
	residual := o.eval(res.X)

	log.Debug("minimizer finished",
		zap.String("status", res.Status),
		zap.Bool("converged", res.Converged),
		zap.Int("iterations", res.Iterations),
		zap.Int("evaluations", res.Evaluations),
		zap.Float64("residual", residual),
		zap.Any("params", p))

	if p.Validate() != nil || residual > s.MaxResidual {
		cerr := &ConvergenceError{
			Status:      res.Status,
			Iterations:  res.Iterations,
			Evaluations: res.Evaluations,
			Residual:    residual,
			Best:        p,
		}
		log.Warn("decomposition fit rejected", zap.Error(cerr))
		return Params{}, cerr
	}
	return p, nil
}
