package calibration

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridCorners(rows, cols int) ([]r2.Point, *CheckerBoard) {
	board := NewCheckerBoard(rows, cols)
	var corners []r2.Point
	idx := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			corners = append(corners, r2.Point{X: float64(c), Y: float64(r)})
			board.Set(r, c, idx)
			idx++
		}
	}
	return corners, board
}

func TestExtractLinesFullGrid(t *testing.T) {
	corners, board := gridCorners(10, 10)
	e := &LineExtractor{}
	lines := e.ExtractLines(board, corners, 0)
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.GreaterOrEqual(t, len(l.Points), minLinePoints)
		assert.Equal(t, 0, l.Board)
	}

	// 10 rows + 10 columns, all of length exactly 10.
	rowsOrCols := 0
	for _, l := range lines {
		if len(l.Points) == 10 {
			rowsOrCols++
		}
	}
	assert.GreaterOrEqual(t, rowsOrCols, 20)
}

func TestExtractLinesExactlyTenInOneRow(t *testing.T) {
	board := NewCheckerBoard(1, 10)
	corners := make([]r2.Point, 10)
	for c := 0; c < 10; c++ {
		corners[c] = r2.Point{X: float64(c), Y: 0}
		board.Set(0, c, c)
	}
	e := &LineExtractor{}
	lines := e.ExtractLines(board, corners, 0)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Points, 10)
}

func TestExtractLinesNineDefinedPerRowYieldsNone(t *testing.T) {
	rows, cols := 5, 9
	board := NewCheckerBoard(rows, cols)
	corners := make([]r2.Point, 0)
	idx := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			corners = append(corners, r2.Point{X: float64(c), Y: float64(r)})
			board.Set(r, c, idx)
			idx++
		}
	}
	e := &LineExtractor{}
	lines := e.ExtractLines(board, corners, 0)
	assert.Empty(t, lines, "no family can reach the 10-point threshold on a 5x9 board")
}

func TestLineDefaultsAngleAndDist(t *testing.T) {
	corners, board := gridCorners(1, 10)
	e := &LineExtractor{}
	lines := e.ExtractLines(board, corners, 0)
	require.NotEmpty(t, lines)
	assert.InDelta(t, math.Pi/4, lines[0].Angle, 1e-6)
	assert.Equal(t, 1.0, lines[0].Dist)
}
