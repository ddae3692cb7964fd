package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatisticsBasic(t *testing.T) {
	r := []float64{1, -2, 3, -4, 5}
	s, err := ComputeStatistics(r)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, s.Mean, 0.0)
	assert.GreaterOrEqual(t, s.Stddev, 0.0)
	assert.GreaterOrEqual(t, s.Median, 0.0)
	assert.LessOrEqual(t, s.Median, 5.0)
	assert.InDelta(t, 3.0, s.Mean, 1e-9) // mean(|1,-2,3,-4,5|) = 3
	assert.InDelta(t, 3.0, s.Median, 1e-9)
}

func TestComputeStatisticsEmptyFails(t *testing.T) {
	_, err := ComputeStatistics(nil)
	assert.Error(t, err)
}

func TestComputeStatisticsEvenCountMedian(t *testing.T) {
	r := []float64{1, 2, 3, 4}
	s, err := ComputeStatistics(r)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
}
