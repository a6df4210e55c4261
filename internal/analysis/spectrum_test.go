package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowerSpectrumImpulse(t *testing.T) {
	ps := PowerSpectrum([]float64{1, 0, 0, 0})
	require.Len(t, ps, 2)
	for _, v := range ps {
		assert.InDelta(t, 1.0, v, 1e-12)
	}
}

func TestNextPow2(t *testing.T) {
	assert.Equal(t, 1, nextPow2(0))
	assert.Equal(t, 8, nextPow2(5))
	assert.Equal(t, 16, nextPow2(16))
}

func TestAnalyzeFindsPeriod(t *testing.T) {
	values := make([]float64, 128)
	for i := range values {
		values[i] = 5 + 3*math.Sin(2*math.Pi*float64(i)/16)
	}

	spec := Analyze(values, 1)
	assert.Equal(t, 128, spec.N)
	assert.Equal(t, 8, spec.Peak)
	assert.InDelta(t, 1.0/16, spec.Frequency(), 1e-12)
	assert.InDelta(t, 16, spec.Period(), 1e-9)
}

func TestAnalyzeUsesSampleStep(t *testing.T) {
	values := make([]float64, 64)
	for i := range values {
		values[i] = math.Cos(2 * math.Pi * float64(i) / 8)
	}

	spec := Analyze(values, 2)
	assert.InDelta(t, 16, spec.Period(), 1e-9, "8 samples two ticks apart")
}

func TestAnalyzeDegenerate(t *testing.T) {
	assert.Zero(t, Analyze(nil, 1).Period())
	assert.Zero(t, Analyze([]float64{4}, 1).Frequency())

	flat := Analyze([]float64{2, 2, 2, 2}, 1)
	assert.Len(t, flat.Power, 2)
	assert.Zero(t, flat.Peak)
	assert.Zero(t, flat.Frequency())
	assert.Zero(t, flat.Period())
}
