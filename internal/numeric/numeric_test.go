package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestGammaQuantileInvertsCDF(t *testing.T) {
	q := GonumGamma{}
	for _, tc := range []struct {
		shape, scale float64
	}{
		{0.5, 1}, {1, 1}, {1.0 / 3, 2}, {4, 0.25}, {30, 1.7},
	} {
		g := distuv.Gamma{Alpha: tc.shape, Beta: 1 / tc.scale}
		for _, p := range []float64{0.01, 0.25, 0.5, 0.9, 0.999} {
			x, err := q.Quantile(p, tc.shape, tc.scale)
			require.NoError(t, err)
			assert.InDelta(t, p, g.CDF(x), 1e-8, "shape=%v scale=%v p=%v", tc.shape, tc.scale, p)
		}
	}
}

func TestGammaQuantileEdges(t *testing.T) {
	q := GonumGamma{}

	x, err := q.Quantile(0.7, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x)

	x, err = q.Quantile(0, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x)

	_, err = q.Quantile(0.5, -0.1, 1)
	assert.ErrorIs(t, err, ErrBadShape)
	_, err = q.Quantile(0.5, math.NaN(), 1)
	assert.ErrorIs(t, err, ErrBadShape)

	_, err = q.Quantile(1.5, 1, 1)
	assert.Error(t, err)
	_, err = q.Quantile(0.5, 1, 0)
	assert.Error(t, err)
}

func TestNelderMeadQuadratic(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-1)*(x[0]-1) + 2*(x[1]+0.5)*(x[1]+0.5) + 3*(x[2]-2)*(x[2]-2)
	}
	res, err := NelderMead{MaxIterations: 10_000}.Minimize(f, []float64{0, 0, 0}, 1e-14)
	require.NoError(t, err)
	assert.True(t, res.Converged, "status %s", res.Status)
	assert.InDelta(t, 1, res.X[0], 1e-4)
	assert.InDelta(t, -0.5, res.X[1], 1e-4)
	assert.InDelta(t, 2, res.X[2], 1e-4)
	assert.Less(t, res.F, 1e-8)
	assert.Positive(t, res.Evaluations)
}

func TestNelderMeadDoesNotTouchInitialGuess(t *testing.T) {
	x0 := []float64{3, 3}
	_, _ = NelderMead{MaxIterations: 100}.Minimize(func(x []float64) float64 {
		return x[0]*x[0] + x[1]*x[1]
	}, x0, 1e-12)
	assert.Equal(t, []float64{3, 3}, x0)
}

func TestNelderMeadIterationCap(t *testing.T) {
	f := func(x []float64) float64 {
		return math.Pow(1-x[0], 2) + 100*math.Pow(x[1]-x[0]*x[0], 2)
	}
	res, _ := NelderMead{MaxIterations: 3}.Minimize(f, []float64{-1.2, 1}, 1e-14)
	assert.False(t, res.Converged)
	assert.LessOrEqual(t, res.Iterations, 3)
}
