package checkerdetector

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cd := &CheckerDetector{
		ViewID: "v1",
		Corners: []Corner{
			{X: 1.5, Y: 2.5},
			{X: 3, Y: 4, Score: 0.9},
		},
		Boards: []Board{
			{Rows: 1, Cols: 2, Cells: []int{0, 1}},
			{Rows: 1, Cols: 2, Cells: []int{UndefinedCorner, 0}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, cd.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cd.ViewID, got.ViewID)
	assert.Equal(t, cd.Corners, got.Corners)
	assert.Equal(t, cd.Boards, got.Boards)
}

func TestBoardAt(t *testing.T) {
	b := Board{Rows: 2, Cols: 2, Cells: []int{0, 1, 2, UndefinedCorner}}
	assert.Equal(t, 0, b.At(0, 0))
	assert.Equal(t, 1, b.At(0, 1))
	assert.Equal(t, 2, b.At(1, 0))
	assert.Equal(t, UndefinedCorner, b.At(1, 1))
}

func TestCalibrationBoardsPreserveTopology(t *testing.T) {
	cd := &CheckerDetector{
		Corners: []Corner{{X: 0, Y: 0}, {X: 1, Y: 0}},
		Boards:  []Board{{Rows: 1, Cols: 2, Cells: []int{0, UndefinedCorner}}},
	}
	boards := cd.CalibrationBoards()
	require.Len(t, boards, 1)
	assert.Equal(t, 1, boards[0].Rows)
	assert.Equal(t, 2, boards[0].Cols)
}
