package calibration

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// PinholeModel is the only intrinsic kind this core accepts; it is compared
// against an Intrinsic's reported model kind before any calibration work
// begins (see ErrNotPinhole).
const PinholeModel = "pinhole"

// ErrNotPinhole is returned when converting an intrinsic into a Camera
// (sfmdata.Intrinsic.ToCamera) and the intrinsic does not report
// PinholeModel as its camera kind.
var ErrNotPinhole = errors.New("only work for pinhole cameras")

// Camera is a pinhole intrinsic plus a tagged distortion model. Offset and
// Scale are both in pixel units; Distortion operates on normalized
// coordinates obtained by (pixel - Offset) / Scale.
type Camera struct {
	Width, Height int
	Offset        r2.Point
	Scale         r2.Point
	Distortion    Model
}

// NewCamera builds a Camera for the given pixel dimensions and distortion tag.
func NewCamera(width, height int, tag ModelTag) (*Camera, error) {
	m, err := NewModel(tag)
	if err != nil {
		return nil, err
	}
	return &Camera{
		Width:      width,
		Height:     height,
		Scale:      r2.Point{X: 1, Y: 1},
		Distortion: m,
	}, nil
}

// diag returns the half-diagonal of the image in pixels, used as the
// normalization scale so the distortion model always sees unit-order radii.
func (c *Camera) diag() float64 {
	hw, hh := float64(c.Width)/2, float64(c.Height)/2
	return math.Sqrt(hw*hw + hh*hh)
}

// NormalizeScale temporarily overrides Scale with (diag, diag) and returns a
// closure that restores the original value bit-for-bit.
func (c *Camera) NormalizeScale() (restore func()) {
	prev := c.Scale
	d := c.diag()
	c.Scale = r2.Point{X: d, Y: d}
	return func() { c.Scale = prev }
}

// ToNormalized maps a pixel-space point into the model's normalized frame.
func (c *Camera) ToNormalized(p r2.Point) r2.Point {
	return r2.Point{
		X: (p.X - c.Offset.X) / c.Scale.X,
		Y: (p.Y - c.Offset.Y) / c.Scale.Y,
	}
}

// ToPixel maps a normalized-frame point back into pixel space.
func (c *Camera) ToPixel(q r2.Point) r2.Point {
	return r2.Point{
		X: q.X*c.Scale.X + c.Offset.X,
		Y: q.Y*c.Scale.Y + c.Offset.Y,
	}
}

// Undistort maps a pixel-space observed point to its pixel-space undistorted
// position, going through the model's normalized frame.
func (c *Camera) Undistort(p r2.Point) r2.Point {
	qn := Undistort(c.Distortion, c.ToNormalized(p))
	return c.ToPixel(qn)
}

// Distort maps a pixel-space undistorted point to its pixel-space distorted
// (observed) position.
func (c *Camera) Distort(q r2.Point) r2.Point {
	pn := c.Distortion.Distort(c.ToNormalized(q))
	return c.ToPixel(pn)
}
