// Package sampler draws correlated Gamma pairs from a fitted shared-shock
// decomposition.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/emrzvv/bgamma/internal/numeric"
	"github.com/emrzvv/bgamma/internal/solver"
)

// Marginal is the target mean and standard deviation of one variable.
type Marginal struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
}

func (m Marginal) validate() error {
	if !(m.Mean > 0) || math.IsInf(m.Mean, 0) {
		return fmt.Errorf("%w: mean must be > 0, got %v", solver.ErrInvalidInput, m.Mean)
	}
	if !(m.StdDev > 0) || math.IsInf(m.StdDev, 0) {
		return fmt.Errorf("%w: stddev must be > 0, got %v", solver.ErrInvalidInput, m.StdDev)
	}
	return nil
}

// Shape is k = mean^2 / stddev^2.
func (m Marginal) Shape() float64 {
	return m.Mean * m.Mean / (m.StdDev * m.StdDev)
}

// Scale is theta = stddev^2 / mean.
func (m Marginal) Scale() float64 {
	return m.StdDev * m.StdDev / m.Mean
}

// Batch is one generated sample of the pair. X1 and X2 have equal length.
type Batch struct {
	X1, X2 []float64
	Params solver.Params
}

type Request struct {
	Marginals [2]Marginal
	Rho       float64
	Size      int

	Solver solver.Settings
	// Src feeds the uniform draws; nil uses a time-seeded source.
	Src rand.Source
	// Workers bounds the goroutines mapping uniforms through the quantiles,
	// 0 means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

func (r *Request) validate() error {
	for _, m := range r.Marginals {
		if err := m.validate(); err != nil {
			return err
		}
	}
	if math.IsNaN(r.Rho) || math.Abs(r.Rho) > 1 {
		return fmt.Errorf("%w: rho must be in [-1, 1], got %v", solver.ErrInvalidInput, r.Rho)
	}
	if r.Size <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", solver.ErrInvalidInput, r.Size)
	}
	if r.Solver.Order < 0 {
		return fmt.Errorf("%w: quadrature order must be > 0, got %d", solver.ErrInvalidInput, r.Solver.Order)
	}
	if r.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", solver.ErrInvalidInput, r.Workers)
	}
	return nil
}

// Generate fits the decomposition for req and draws req.Size pairs
// X1 = theta1*(T(U)+Z+W1), X2 = theta2*(T(V)+Z+W2), with V = U for rho >= 0
// and V = 1-U otherwise.
func Generate(req Request) (*Batch, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	log := req.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if req.Solver.Logger == nil {
		req.Solver.Logger = log
	}

	k1, k2 := req.Marginals[0].Shape(), req.Marginals[1].Shape()
	theta1, theta2 := req.Marginals[0].Scale(), req.Marginals[1].Scale()

	p, err := solver.Solve(k1, k2, req.Rho, req.Solver)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	// Solve only returns feasible points, a failure here is a broken invariant.
	if err := p.Validate(); err != nil {
		return nil, err
	}

	src := req.Src
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	u := draw(req.Size, src)

	q := req.Solver.Quantiler
	if q == nil {
		q = numeric.GonumGamma{}
	}

	x1 := make([]float64, req.Size)
	x2 := make([]float64, req.Size)
	m := &mapper{q: q, p: p, theta1: theta1, theta2: theta2, negative: req.Rho < 0}

	workers := req.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if err := m.run(u, x1, x2, workers); err != nil {
		return nil, err
	}

	log.Debug("batch generated",
		zap.Int("size", req.Size),
		zap.Int("workers", workers),
		zap.Float64("theta1", theta1),
		zap.Float64("theta2", theta2))

	return &Batch{X1: x1, X2: x2, Params: p}, nil
}

// uniforms holds the four independent draws per pair.
type uniforms struct {
	u, z, w1, w2 []float64
}

// draw fills the uniform vectors sequentially so a seeded src gives the same
// batch regardless of the worker count.
func draw(n int, src rand.Source) uniforms {
	d := distuv.Uniform{Min: 0, Max: 1, Src: src}
	next := func() float64 {
		// keep u in (0, 1) so that 1-u never lands on the infinite upper tail
		for {
			v := d.Rand()
			if v > 0 && v < 1 {
				return v
			}
		}
	}

	out := uniforms{
		u:  make([]float64, n),
		z:  make([]float64, n),
		w1: make([]float64, n),
		w2: make([]float64, n),
	}
	for _, dst := range [][]float64{out.u, out.z, out.w1, out.w2} {
		for i := range dst {
			dst[i] = next()
		}
	}
	return out
}

type mapper struct {
	q              numeric.GammaQuantiler
	p              solver.Params
	theta1, theta2 float64
	negative       bool
}

func (m *mapper) run(u uniforms, x1, x2 []float64, workers int) error {
	n := len(x1)
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := m.one(u, x1, x2, i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func (m *mapper) one(u uniforms, x1, x2 []float64, i int) error {
	v := u.u[i]
	if m.negative {
		v = 1 - v
	}

	var vals [5]float64
	for j, c := range []struct {
		p, shape float64
	}{
		{u.u[i], m.p.H1},
		{v, m.p.H2},
		{u.z[i], m.p.Gamma},
		{u.w1[i], m.p.Delta1},
		{u.w2[i], m.p.Delta2},
	} {
		x, err := m.q.Quantile(c.p, c.shape, 1)
		if err != nil {
			if errors.Is(err, numeric.ErrBadShape) {
				return fmt.Errorf("%w: %v", solver.ErrNumericDomain, err)
			}
			return err
		}
		vals[j] = x
	}

	tu, tv, z, w1, w2 := vals[0], vals[1], vals[2], vals[3], vals[4]
	x1[i] = m.theta1 * (tu + z + w1)
	x2[i] = m.theta2 * (tv + z + w2)
	return nil
}
