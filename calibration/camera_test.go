package calibration

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeScaleRestoresBitForBit(t *testing.T) {
	cam, err := NewCamera(1920, 1080, RadialK1)
	require.NoError(t, err)
	cam.Scale = r2.Point{X: 1000, Y: 1000}
	before := cam.Scale

	restore := cam.NormalizeScale()
	assert.NotEqual(t, before, cam.Scale)

	restore()
	assert.Equal(t, before, cam.Scale)
}

func TestToNormalizedToPixelRoundTrip(t *testing.T) {
	cam, err := NewCamera(640, 480, RadialK1)
	require.NoError(t, err)
	cam.Offset = r2.Point{X: 12, Y: -5}
	cam.Scale = r2.Point{X: 300, Y: 300}

	p := r2.Point{X: 111, Y: 222}
	q := cam.ToNormalized(p)
	back := cam.ToPixel(q)
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestCameraUndistortDistortRoundTrip(t *testing.T) {
	cam, err := NewCamera(640, 480, RadialK1)
	require.NoError(t, err)
	cam.Scale = r2.Point{X: 300, Y: 300}
	cam.Distortion.SetParams([]float64{0.1})

	p := r2.Point{X: 380, Y: 250}
	q := cam.Undistort(p)
	back := cam.Distort(q)
	assert.InDelta(t, p.X, back.X, 1e-4)
	assert.InDelta(t, p.Y, back.Y, 1e-4)
}
