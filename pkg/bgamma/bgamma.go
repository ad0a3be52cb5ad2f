// Package bgamma generates pairs of correlated Gamma random variables with
// given means, standard deviations and Pearson correlation.
//
//	x1, x2, err := bgamma.Generate([2]float64{1, 1}, [2]float64{1, 1}, 0.5, 100_000,
//		bgamma.WithSeed(42))
//
// Errors are classified with errors.Is against ErrInvalidInput, ErrConvergence
// and ErrNumericDomain.
package bgamma

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/emrzvv/bgamma/internal/common"
	"github.com/emrzvv/bgamma/internal/numeric"
	"github.com/emrzvv/bgamma/internal/sampler"
	"github.com/emrzvv/bgamma/internal/solver"
)

var (
	ErrInvalidInput  = solver.ErrInvalidInput
	ErrConvergence   = solver.ErrConvergence
	ErrNumericDomain = solver.ErrNumericDomain
)

type (
	// Params is the fitted decomposition.
	Params = solver.Params
	// ConvergenceError carries the optimizer state of a rejected fit.
	ConvergenceError = solver.ConvergenceError
	// Minimizer and GammaQuantiler let callers swap the numeric backends.
	Minimizer      = numeric.Minimizer
	GammaQuantiler = numeric.GammaQuantiler
)

type options struct {
	settings solver.Settings
	src      rand.Source
	workers  int
	logger   *zap.Logger
}

type Option func(*options)

// WithOrder sets the Gauss-Legendre order (default 25).
// Non-positive values are rejected by Generate and Fit with ErrInvalidInput.
func WithOrder(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = -1
		}
		o.settings.Order = n
	}
}

// WithSeed makes the uniform draws reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.src = common.NewRNG(seed)
	}
}

// WithRand supplies the random source directly.
func WithRand(src rand.Source) Option {
	if src == nil {
		panic("bgamma: WithRand(nil)")
	}
	return func(o *options) {
		o.src = src
	}
}

func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.settings.Tolerance = tol
	}
}

// WithMaxResidual bounds |implied rho - rho| for an accepted fit.
func WithMaxResidual(r float64) Option {
	return func(o *options) {
		o.settings.MaxResidual = r
	}
}

// WithMaxIterations caps optimizer iterations for the default minimizer.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.settings.MaxIterations = n
	}
}

// WithSolverSettings replaces all solver settings at once. Options given
// after it still apply on top; a nil Logger keeps the one set by WithLogger.
func WithSolverSettings(s solver.Settings) Option {
	return func(o *options) {
		if s.Logger == nil {
			s.Logger = o.settings.Logger
		}
		o.settings = s
	}
}

func WithMinimizer(m Minimizer) Option {
	return func(o *options) {
		o.settings.Minimizer = m
	}
}

func WithQuantiler(q GammaQuantiler) Option {
	return func(o *options) {
		o.settings.Quantiler = q
	}
}

// WithWorkers bounds the goroutines used to map draws through the quantiles.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
		o.settings.Logger = l
	}
}

func apply(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Fit solves the decomposition for Gamma shapes k1, k2 and target rho.
func Fit(k1, k2, rho float64, opts ...Option) (Params, error) {
	o := apply(opts)
	return solver.Solve(k1, k2, rho, o.settings)
}

// Generate returns size pairs with means mu, standard deviations sigma and
// correlation rho.
func Generate(mu, sigma [2]float64, rho float64, size int, opts ...Option) (x1, x2 []float64, err error) {
	o := apply(opts)
	b, err := sampler.Generate(sampler.Request{
		Marginals: [2]sampler.Marginal{
			{Mean: mu[0], StdDev: sigma[0]},
			{Mean: mu[1], StdDev: sigma[1]},
		},
		Rho:     rho,
		Size:    size,
		Solver:  o.settings,
		Src:     o.src,
		Workers: o.workers,
		Logger:  o.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return b.X1, b.X2, nil
}
