package numeric

import (
	"gonum.org/v1/gonum/optimize"
)

// Result is the best point a Minimizer found.
type Result struct {
	X           []float64
	F           float64
	Converged   bool
	Status      string
	Iterations  int
	Evaluations int
}

// Minimizer runs an unconstrained derivative-free minimization of f from x0.
type Minimizer interface {
	Minimize(f func(x []float64) float64, x0 []float64, tol float64) (Result, error)
}

// NelderMead wraps gonum's simplex method. Zero limits mean "no limit".
type NelderMead struct {
	MaxIterations  int
	MaxEvaluations int
	// SimplexSize is the edge of the auto-constructed initial simplex, 0 keeps gonum's default.
	SimplexSize float64
}

func (nm NelderMead) Minimize(f func(x []float64) float64, x0 []float64, tol float64) (Result, error) {
	problem := optimize.Problem{
		Func: f,
	}

	settings := &optimize.Settings{
		MajorIterations: nm.MaxIterations,
		FuncEvaluations: nm.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   tol,
			Iterations: 100,
		},
	}

	start := append([]float64(nil), x0...)
	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{SimplexSize: nm.SimplexSize})
	if result == nil {
		return Result{}, err
	}

	return Result{
		X:           result.X,
		F:           result.F,
		Converged:   converged(result.Status),
		Status:      result.Status.String(),
		Iterations:  result.MajorIterations,
		Evaluations: result.FuncEvaluations,
	}, err
}

func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.MethodConverge:
		return true
	}
	return false
}
