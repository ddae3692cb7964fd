package sfmdata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wilsonsoo11111/AliceVision/calibration"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sfm := &SfMData{
		Views: []View{{ViewID: "v0", IntrinsicID: "i0"}},
		Intrinsics: []Intrinsic{{
			ID:               "i0",
			Model:            calibration.PinholeModel,
			Width:            1920,
			Height:           1080,
			ScaleX:           1,
			ScaleY:           1,
			DistortionTag:    string(calibration.RadialK1),
			DistortionParams: []float64{0.1},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, sfm.Encode(&buf))

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, sfm.Views, got.Views)
	assert.Equal(t, sfm.Intrinsics, got.Intrinsics)
}

func TestIntrinsicByIDAndViewsForIntrinsic(t *testing.T) {
	sfm := &SfMData{
		Views: []View{
			{ViewID: "v0", IntrinsicID: "i0"},
			{ViewID: "v1", IntrinsicID: "i0"},
			{ViewID: "v2", IntrinsicID: "i1"},
		},
		Intrinsics: []Intrinsic{{ID: "i0"}, {ID: "i1"}},
	}

	assert.NotNil(t, sfm.IntrinsicByID("i0"))
	assert.Nil(t, sfm.IntrinsicByID("missing"))
	assert.Len(t, sfm.ViewsForIntrinsic("i0"), 2)
}

func TestToCameraRejectsNonPinhole(t *testing.T) {
	in := &Intrinsic{Model: "fisheye"}
	_, err := in.ToCamera()
	assert.ErrorIs(t, err, calibration.ErrNotPinhole)
}

func TestToCameraAndUpdateFromCameraRoundTrip(t *testing.T) {
	in := &Intrinsic{
		ID:               "i0",
		Model:            calibration.PinholeModel,
		Width:            640,
		Height:           480,
		ScaleX:           1,
		ScaleY:           1,
		DistortionTag:    string(calibration.RadialK1),
		DistortionParams: []float64{0.05},
	}
	cam, err := in.ToCamera()
	require.NoError(t, err)
	assert.Equal(t, 0.05, cam.Distortion.Params()[0])

	cam.Distortion.SetParams([]float64{0.3})
	in.UpdateFromCamera(cam)
	assert.Equal(t, []float64{0.3}, in.DistortionParams)
}
