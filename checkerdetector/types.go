// Package checkerdetector defines the container format produced by an
// upstream checkerboard corner detector: a flat corner list plus the boards
// that index into it. This package consumes that format; it does not detect
// corners from raw pixels.
package checkerdetector

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// UndefinedCorner is the sentinel a board cell carries when no corner was
// detected there.
const UndefinedCorner = -1

// Corner is one detected checkerboard intersection.
type Corner struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score,omitempty"`
}

// Board is a rows x cols grid of indices into a CheckerDetector's Corners
// list, row-major, using UndefinedCorner for cells with no detection.
type Board struct {
	Rows  int   `json:"rows"`
	Cols  int   `json:"cols"`
	Cells []int `json:"cells"`
}

// At returns the corner index at (row, col).
func (b *Board) At(row, col int) int {
	return b.Cells[row*b.Cols+col]
}

// CheckerDetector is the full per-view detector output, serialized to
// checkers_<viewID>.json.
type CheckerDetector struct {
	ViewID  string   `json:"viewId"`
	Corners []Corner `json:"corners"`
	Boards  []Board  `json:"boards"`
}

// Load reads and parses a checkers_<viewID>.json file.
func Load(path string) (*CheckerDetector, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening checker detector file %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a CheckerDetector from r.
func Decode(r io.Reader) (*CheckerDetector, error) {
	var cd CheckerDetector
	if err := json.NewDecoder(r).Decode(&cd); err != nil {
		return nil, errors.Wrap(err, "decoding checker detector payload")
	}
	return &cd, nil
}

// Save writes cd as checkers_<viewID>.json-shaped JSON to path.
func (cd *CheckerDetector) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating checker detector file %s", path)
	}
	defer f.Close()
	return cd.Encode(f)
}

// Encode writes cd as JSON to w.
func (cd *CheckerDetector) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cd); err != nil {
		return errors.Wrap(err, "encoding checker detector payload")
	}
	return nil
}
