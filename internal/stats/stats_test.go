package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	x1 := []float64{1, 2, 3, 4, 5}
	x2 := []float64{5, 4, 3, 2, 1}

	s, err := Summarize(x1, x2)
	require.NoError(t, err)
	assert.Equal(t, 5, s.N)
	assert.InDelta(t, 3, s.Mean1, 1e-12)
	assert.InDelta(t, 3, s.Mean2, 1e-12)
	// unbiased estimator
	assert.InDelta(t, 1.5811388300841898, s.StdDev1, 1e-12)
	assert.InDelta(t, -1, s.Corr, 1e-12)
}

func TestSummarizeLength(t *testing.T) {
	_, err := Summarize(nil, nil)
	assert.ErrorIs(t, err, ErrLength)
	_, err = Summarize([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLength)
}
