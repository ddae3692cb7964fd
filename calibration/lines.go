package calibration

import (
	"math"

	"github.com/golang/geo/r2"
)

// UndefinedCorner is the sentinel used by CheckerBoard cells that carry no
// corner index.
const UndefinedCorner = -1

// CheckerBoard is a rows x cols grid of corner indices into a flat corner
// list; UndefinedCorner marks a cell with no detected corner.
type CheckerBoard struct {
	Rows, Cols int
	Cells      []int // row-major, length Rows*Cols
}

func NewCheckerBoard(rows, cols int) *CheckerBoard {
	cells := make([]int, rows*cols)
	for i := range cells {
		cells[i] = UndefinedCorner
	}
	return &CheckerBoard{Rows: rows, Cols: cols, Cells: cells}
}

func (b *CheckerBoard) at(row, col int) int {
	return b.Cells[row*b.Cols+col]
}

func (b *CheckerBoard) Set(row, col, cornerIndex int) {
	b.Cells[row*b.Cols+col] = cornerIndex
}

// minLinePoints is the minimum number of defined corners a candidate line
// must carry to be emitted by ExtractLines.
const minLinePoints = 10

// LineWithPoints is a hypothesized-collinear point set. Angle and Dist are
// free optimization variables describing the supporting line in normal form:
// x*cos(Angle) + y*sin(Angle) = Dist.
type LineWithPoints struct {
	Points     []r2.Point
	Angle      float64
	Dist       float64
	Horizontal bool
	Board      int
	Index      int
}

func newLine(points []r2.Point, horizontal bool, board, index int) LineWithPoints {
	return LineWithPoints{
		Points:     points,
		Angle:      math.Pi / 4,
		Dist:       1.0,
		Horizontal: horizontal,
		Board:      board,
		Index:      index,
	}
}

// LineExtractor turns CheckerBoards into LineWithPoints hypotheses.
type LineExtractor struct {
	// Deduplicate drops every line whose point sequence (same points, same
	// order) repeats an earlier line's, whichever families produced them.
	// The two diagonal-from-edge families overlap near a board's corner by
	// construction; off by default to replicate that overlap faithfully.
	Deduplicate bool
}

// ExtractLines produces up to five families of candidate lines for one
// board: rows, columns, and three diagonal variants. corners is the flat
// corner list the board's cells index into.
func (e *LineExtractor) ExtractLines(board *CheckerBoard, corners []r2.Point, boardIndex int) []LineWithPoints {
	var lines []LineWithPoints
	idx := 0

	// 1. Rows.
	for i := 0; i < board.Rows; i++ {
		pts := collect(board, corners, i, 0, 0, 1, board.Cols)
		if len(pts) >= minLinePoints {
			lines = append(lines, newLine(pts, true, boardIndex, idx))
			idx++
		}
	}

	// 2. Columns.
	for j := 0; j < board.Cols; j++ {
		pts := collect(board, corners, 0, j, 1, 0, board.Rows)
		if len(pts) >= minLinePoints {
			lines = append(lines, newLine(pts, false, boardIndex, idx))
			idx++
		}
	}

	// 3. Diagonal-down-right starting from the top edge: (i+k, k).
	for i := 0; i < board.Rows; i++ {
		pts := collectDiag(board, corners, i, 0, 1, 1)
		if len(pts) >= minLinePoints {
			lines = append(lines, newLine(pts, false, boardIndex, idx))
			idx++
		}
	}

	// 4. Diagonal-down-right starting from the left edge: (k, j+k).
	for j := 0; j < board.Cols; j++ {
		pts := collectDiag(board, corners, 0, j, 1, 1)
		if len(pts) >= minLinePoints {
			lines = append(lines, newLine(pts, false, boardIndex, idx))
			idx++
		}
	}

	// 5. Diagonal-up-right: (rows-1-k, j+k).
	for j := 0; j < board.Cols; j++ {
		pts := collectDiagUp(board, corners, j)
		if len(pts) >= minLinePoints {
			lines = append(lines, newLine(pts, false, boardIndex, idx))
			idx++
		}
	}

	if e.Deduplicate {
		lines = dedupeLines(lines)
	}
	return lines
}

// collect walks from (row0,col0) in steps of (drow,dcol) for up to n steps,
// gathering defined corners.
func collect(board *CheckerBoard, corners []r2.Point, row0, col0, drow, dcol, n int) []r2.Point {
	var pts []r2.Point
	row, col := row0, col0
	for k := 0; k < n; k++ {
		if row < 0 || row >= board.Rows || col < 0 || col >= board.Cols {
			break
		}
		if ci := board.at(row, col); ci != UndefinedCorner {
			pts = append(pts, corners[ci])
		}
		row += drow
		col += dcol
	}
	return pts
}

// collectDiag collects (row0+k*drow, col0+k*dcol) while both indices stay in
// bounds.
func collectDiag(board *CheckerBoard, corners []r2.Point, row0, col0, drow, dcol int) []r2.Point {
	var pts []r2.Point
	row, col := row0, col0
	for row < board.Rows && col < board.Cols {
		if ci := board.at(row, col); ci != UndefinedCorner {
			pts = append(pts, corners[ci])
		}
		row += drow
		col += dcol
	}
	return pts
}

// collectDiagUp collects (rows-1-k, j+k) while j+k < cols and k < rows.
func collectDiagUp(board *CheckerBoard, corners []r2.Point, j int) []r2.Point {
	var pts []r2.Point
	for k := 0; j+k < board.Cols && k < board.Rows; k++ {
		row := board.Rows - 1 - k
		col := j + k
		if ci := board.at(row, col); ci != UndefinedCorner {
			pts = append(pts, corners[ci])
		}
	}
	return pts
}

func dedupeLines(lines []LineWithPoints) []LineWithPoints {
	seen := make(map[string]bool, len(lines))
	out := lines[:0:0]
	for _, l := range lines {
		key := lineKey(l.Points)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

func lineKey(points []r2.Point) string {
	b := make([]byte, 0, len(points)*16)
	for _, p := range points {
		b = appendFloat(b, p.X)
		b = appendFloat(b, p.Y)
	}
	return string(b)
}

func appendFloat(b []byte, v float64) []byte {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		b = append(b, byte(bits>>(8*i)))
	}
	return b
}
