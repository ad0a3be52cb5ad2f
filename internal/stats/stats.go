package stats

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

var ErrLength = errors.New("samples must be non-empty and of equal length")

// Summary holds sample moments of a generated pair.
type Summary struct {
	N       int
	Mean1   float64
	Mean2   float64
	StdDev1 float64
	StdDev2 float64
	Corr    float64 // Pearson
}

func Summarize(x1, x2 []float64) (Summary, error) {
	if len(x1) == 0 || len(x1) != len(x2) {
		return Summary{}, ErrLength
	}
	m1, s1 := stat.MeanStdDev(x1, nil)
	m2, s2 := stat.MeanStdDev(x2, nil)
	return Summary{
		N:       len(x1),
		Mean1:   m1,
		Mean2:   m2,
		StdDev1: s1,
		StdDev2: s2,
		Corr:    stat.Correlation(x1, x2, nil),
	}, nil
}
