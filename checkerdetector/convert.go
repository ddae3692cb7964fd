package checkerdetector

import (
	"github.com/golang/geo/r2"

	"github.com/Wilsonsoo11111/AliceVision/calibration"
)

// CornerPoints returns cd's corners as calibration-ready r2.Points, in order.
func (cd *CheckerDetector) CornerPoints() []r2.Point {
	pts := make([]r2.Point, len(cd.Corners))
	for i, c := range cd.Corners {
		pts[i] = r2.Point{X: c.X, Y: c.Y}
	}
	return pts
}

// CalibrationBoards converts every detected Board into a
// calibration.CheckerBoard sharing the same cell layout.
func (cd *CheckerDetector) CalibrationBoards() []*calibration.CheckerBoard {
	boards := make([]*calibration.CheckerBoard, len(cd.Boards))
	for i, b := range cd.Boards {
		cb := calibration.NewCheckerBoard(b.Rows, b.Cols)
		for row := 0; row < b.Rows; row++ {
			for col := 0; col < b.Cols; col++ {
				if idx := b.At(row, col); idx != UndefinedCorner {
					cb.Set(row, col, idx)
				}
			}
		}
		boards[i] = cb
	}
	return boards
}
