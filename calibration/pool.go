package calibration

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Job is one intrinsic's worth of calibration work, bundled with its
// identifying ID for result reporting.
type Job struct {
	IntrinsicID string
	Camera      *Camera
	Views       []View
	Extractor   *LineExtractor
}

// CalibrateAll runs Calibrate over every job using a worker pool bounded to
// maxWorkers (or runtime.GOMAXPROCS(0) if maxWorkers <= 0), since intrinsics are
// embarrassingly parallel: distinct data, distinct cameras, no shared
// solver state. ctx is checked between intrinsics and between LM stages
// inside Calibrate, never inside a single LM iteration.
func CalibrateAll(ctx context.Context, jobs []Job, log *zap.SugaredLogger, maxWorkers int) []Result {
	if maxWorkers <= 0 {
		maxWorkers = runtime.GOMAXPROCS(0)
	}
	if maxWorkers > len(jobs) {
		maxWorkers = len(jobs)
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	results := make([]Result, len(jobs))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		select {
		case <-ctx.Done():
			results[i] = Result{IntrinsicID: job.IntrinsicID, Err: ctx.Err()}
			continue
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := Calibrate(ctx, job.Camera, job.Views, job.Extractor, log)
			res.IntrinsicID = job.IntrinsicID
			if err != nil {
				res.Err = err
			}
			results[i] = res
		}(i, job)
	}

	wg.Wait()
	return results
}
