package calibration

import (
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Statistics summarizes the per-residual absolute error at the end of a fit.
type Statistics struct {
	Mean   float64
	Stddev float64
	Median float64
}

// ComputeStatistics returns mean, standard deviation and median of |r|.
func ComputeStatistics(r []float64) (Statistics, error) {
	if len(r) == 0 {
		return Statistics{}, errors.New("cannot compute statistics over an empty residual set")
	}
	abs := absResiduals(r)

	mean, err := stats.Mean(abs)
	if err != nil {
		return Statistics{}, errors.Wrap(err, "computing residual mean")
	}
	stddev, err := stats.StandardDeviation(abs)
	if err != nil {
		return Statistics{}, errors.Wrap(err, "computing residual standard deviation")
	}

	sorted := make([]float64, len(abs))
	copy(sorted, abs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	var median float64
	if len(sorted)%2 == 0 {
		median = floats.Sum(sorted[mid-1:mid+1]) / 2
	} else {
		median = sorted[mid]
	}

	return Statistics{Mean: mean, Stddev: stddev, Median: median}, nil
}
