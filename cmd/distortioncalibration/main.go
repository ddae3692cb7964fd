// Command distortioncalibration estimates lens distortion parameters for
// every pinhole intrinsic in a scene-data file from checkerboard corner
// detections, and writes the intrinsics back out with the fitted
// inverse-map parameters.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Wilsonsoo11111/AliceVision/calibration"
	"github.com/Wilsonsoo11111/AliceVision/checkerdetector"
	"github.com/Wilsonsoo11111/AliceVision/sfmdata"
)

const (
	flagInput         = "input"
	flagCheckerboards = "checkerboards"
	flagOutput        = "outSfMData"
	flagVerboseLevel  = "verboseLevel"
	flagJobs          = "jobs"
)

func main() {
	app := &cli.App{
		Name:  "distortioncalibration",
		Usage: "fit a lens distortion model from checkerboard line constraints",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagInput, Aliases: []string{"i"}, Required: true, Usage: "input scene-data file"},
			&cli.StringFlag{Name: flagCheckerboards, Required: true, Usage: "directory of checkers_<viewId>.json detector output"},
			&cli.StringFlag{Name: flagOutput, Aliases: []string{"o"}, Required: true, Usage: "output scene-data file"},
			&cli.StringFlag{Name: flagVerboseLevel, Value: "info", Usage: "fatal|error|warning|info|debug|trace"},
			&cli.IntFlag{Name: flagJobs, Value: 0, Usage: "bound on cross-intrinsic worker pool (default GOMAXPROCS)"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := buildLogger(c.String(flagVerboseLevel))
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	scene, err := sfmdata.Load(c.String(flagInput))
	if err != nil {
		return errors.Wrap(err, "loading input scene data")
	}

	jobs, skipped := buildJobs(scene, c.String(flagCheckerboards), logger)
	if len(jobs) == 0 {
		return errors.New("no pinhole intrinsics available to calibrate")
	}

	results := calibration.CalibrateAll(ctx, jobs, logger, c.Int(flagJobs))

	succeeded := 0
	for i, res := range results {
		intr := scene.IntrinsicByID(jobs[i].IntrinsicID)
		if res.Err != nil {
			logger.Warnw("intrinsic calibration failed", "intrinsicID", jobs[i].IntrinsicID, "err", res.Err)
			continue
		}
		intr.UpdateFromCamera(jobs[i].Camera)
		logger.Infow("intrinsic calibrated",
			"intrinsicID", jobs[i].IntrinsicID,
			"forwardMean", res.Forward.Mean,
			"inversionMean", res.Inversion.Mean,
		)
		succeeded++
	}

	if succeeded == 0 && skipped == len(scene.Intrinsics) {
		return errors.New("every intrinsic failed or was skipped")
	}

	if err := scene.Save(c.String(flagOutput)); err != nil {
		return errors.Wrap(err, "writing output scene data")
	}
	return nil
}

// buildJobs converts every pinhole intrinsic in scene into a calibration
// job, gathering its views' checkerboard detections from checkerboardsDir.
// Non-pinhole intrinsics and intrinsics with no readable detector files are
// skipped, not fatal.
func buildJobs(scene *sfmdata.SfMData, checkerboardsDir string, logger *zap.SugaredLogger) ([]calibration.Job, int) {
	var jobs []calibration.Job
	skipped := 0

	for i := range scene.Intrinsics {
		intr := &scene.Intrinsics[i]
		camera, err := intr.ToCamera()
		if err != nil {
			logger.Warnw("only work for pinhole cameras", "intrinsicID", intr.ID)
			skipped++
			continue
		}

		var views []calibration.View
		for _, v := range scene.ViewsForIntrinsic(intr.ID) {
			path := filepath.Join(checkerboardsDir, "checkers_"+v.ViewID+".json")
			cd, err := checkerdetector.Load(path)
			if err != nil {
				logger.Debugw("missing detector file, skipping view", "viewID", v.ViewID, "err", err)
				continue
			}
			corners := cd.CornerPoints()
			for _, board := range cd.CalibrationBoards() {
				views = append(views, calibration.View{
					ViewID:      v.ViewID,
					IntrinsicID: intr.ID,
					Board:       board,
					Corners:     corners,
				})
			}
		}

		if len(views) == 0 {
			skipped++
			continue
		}

		jobs = append(jobs, calibration.Job{
			IntrinsicID: intr.ID,
			Camera:      camera,
			Views:       views,
			Extractor:   &calibration.LineExtractor{},
		})
	}
	return jobs, skipped
}

func buildLogger(level string) *zap.SugaredLogger {
	var zl zapcore.Level
	switch level {
	case "fatal":
		zl = zapcore.FatalLevel
	case "error":
		zl = zapcore.ErrorLevel
	case "warning":
		zl = zapcore.WarnLevel
	case "debug":
		zl = zapcore.DebugLevel
	case "trace":
		zl = zapcore.DebugLevel
	default:
		zl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zl)
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}
