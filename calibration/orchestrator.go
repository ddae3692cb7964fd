package calibration

import (
	"context"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// roundTripTolerance is the maximum pixel error tolerated when
// sanity-checking a forward-map sample before it is accepted as a PointPair.
const roundTripTolerance = 1e-3

// principalPointWarnFraction is the fraction of the image diagonal beyond
// which a fitted principal point triggers a (non-fatal) warning.
const principalPointWarnFraction = 0.10

// View associates a detected checkerboard with the intrinsic it was shot with.
type View struct {
	ViewID      string
	IntrinsicID string
	Board       *CheckerBoard
	Corners     []r2.Point
}

// Result is what Calibrate reports for one intrinsic.
type Result struct {
	IntrinsicID string
	Forward     Statistics
	Inversion   Statistics
	Err         error
}

// Calibrate runs the full per-intrinsic pipeline (line gathering, staged
// forward fit, inversion fit) for camera against the lines extracted from
// views, and returns the forward/inversion statistics. camera is mutated in
// place to hold the final inverse-map parameters.
func Calibrate(ctx context.Context, camera *Camera, views []View, extractor *LineExtractor, log *zap.SugaredLogger) (Result, error) {
	result := Result{}

	var lines []*LineWithPoints
	for vi, v := range views {
		if v.Board == nil {
			continue
		}
		extracted := extractor.ExtractLines(v.Board, v.Corners, vi)
		for i := range extracted {
			lines = append(lines, &extracted[i])
		}
	}
	if len(lines) < 2 {
		err := errors.New("insufficient lines to calibrate intrinsic")
		return result, err
	}

	schedule, ok := Schedules[camera.Distortion.Tag()]
	if !ok {
		return result, errors.Errorf("no schedule registered for model tag %q", camera.Distortion.Tag())
	}

	restoreScale := camera.NormalizeScale()

	var forwardStats Statistics
	for i, stage := range schedule {
		select {
		case <-ctx.Done():
			restoreScale()
			return result, ctx.Err()
		default:
		}

		provider := NewLineResidualProvider(camera, lines, stage.LocksDistortions, stage.LockOffset, stage.LockLines)
		r, solveOK, err := RunLM(provider)
		if !solveOK {
			restoreScale()
			if log != nil {
				log.Warnw("failed to calibrate", "intrinsicID", "", "stage", i, "err", err)
			}
			return result, errors.Wrap(err, "forward fit stage failed")
		}
		forwardStats, err = ComputeStatistics(r)
		if err != nil {
			restoreScale()
			return result, err
		}
		if log != nil {
			log.Debugw("forward stage complete", "stage", i, "mean", forwardStats.Mean, "stddev", forwardStats.Stddev, "median", forwardStats.Median)
		}
	}
	result.Forward = forwardStats

	restoreScale()

	// Inversion stage: sample the just-fit forward map, then refit the same
	// family in the opposite direction.
	pairs := buildPointPairs(camera, lines)
	if len(pairs) == 0 {
		return result, errors.New("no usable point pairs survived inversion round-trip check")
	}

	invModel, err := NewModel(camera.Distortion.Tag())
	if err != nil {
		return result, err
	}

	var inversionStats Statistics
	for _, stage := range schedule {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		provider := NewPointPairResidualProvider(invModel, pairs, stage.LocksDistortions)
		r, solveOK, err := RunLM(provider)
		if !solveOK {
			if log != nil {
				log.Warnw("failed to invert distortion", "err", err)
			}
			return result, errors.Wrap(err, "inversion fit stage failed")
		}
		inversionStats, err = ComputeStatistics(r)
		if err != nil {
			return result, err
		}
	}
	result.Inversion = inversionStats

	camera.Distortion = invModel
	checkPrincipalPoint(camera, log)

	return result, nil
}

// buildPointPairs samples the forward map at every corner on every line,
// keeping only pairs whose round trip through Undistort reproduces the
// original point within roundTripTolerance pixels.
func buildPointPairs(camera *Camera, lines []*LineWithPoints) []PointPair {
	var pairs []PointPair
	seen := make(map[r2.Point]bool)
	for _, l := range lines {
		for _, p := range l.Points {
			if seen[p] {
				continue
			}
			seen[p] = true

			pn := camera.ToNormalized(p)
			distortedN := camera.Distortion.Distort(pn)

			roundTrip := Undistort(camera.Distortion, distortedN)
			errPx := r2.Point{
				X: (roundTrip.X - pn.X) * camera.Scale.X,
				Y: (roundTrip.Y - pn.Y) * camera.Scale.Y,
			}
			if math.Hypot(errPx.X, errPx.Y) > roundTripTolerance {
				continue
			}

			// Field names follow the spec's (and original tool's) naming for
			// this stage exactly: UndistortedPoint is distort(p), the point
			// the inverse fit's Distort call takes as input; DistortedPoint
			// is p itself, the target that call should reproduce. It reads
			// backwards from the names' usual sense because this stage
			// fits a model that undoes the forward distortion.
			pairs = append(pairs, PointPair{
				UndistortedPoint: distortedN,
				DistortedPoint:   pn,
			})
		}
	}
	return pairs
}

// checkPrincipalPoint logs (never fails) a warning if the fitted offset has
// drifted far from the image center, using a 3x3 similarity-style check
// built over gonum/mat for consistency with this package's other
// matrix-based diagnostics.
func checkPrincipalPoint(camera *Camera, log *zap.SugaredLogger) {
	center := r2.Point{X: float64(camera.Width) / 2, Y: float64(camera.Height) / 2}
	similarity := mat.NewDense(3, 3, []float64{
		1, 0, camera.Offset.X - center.X,
		0, 1, camera.Offset.Y - center.Y,
		0, 0, 1,
	})
	dx := similarity.At(0, 2)
	dy := similarity.At(1, 2)
	drift := math.Hypot(dx, dy)
	diag := camera.diag() * 2
	if diag > 0 && drift > principalPointWarnFraction*diag && log != nil {
		log.Warnw("fitted principal point far from image center", "driftPixels", drift, "imageDiagonal", diag)
	}
}
