package sfmdata

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/Wilsonsoo11111/AliceVision/calibration"
)

// ToCamera builds a calibration.Camera from an Intrinsic, or returns
// calibration.ErrNotPinhole if the intrinsic is not a pinhole variant.
func (in *Intrinsic) ToCamera() (*calibration.Camera, error) {
	if in.Model != calibration.PinholeModel {
		return nil, calibration.ErrNotPinhole
	}
	model, err := calibration.NewModel(calibration.ModelTag(in.DistortionTag))
	if err != nil {
		return nil, errors.Wrapf(err, "intrinsic %s", in.ID)
	}
	if len(in.DistortionParams) == model.NumParams() {
		model.SetParams(in.DistortionParams)
	}
	return &calibration.Camera{
		Width:      in.Width,
		Height:     in.Height,
		Offset:     r2.Point{X: in.OffsetX, Y: in.OffsetY},
		Scale:      r2.Point{X: in.ScaleX, Y: in.ScaleY},
		Distortion: model,
	}, nil
}

// UpdateFromCamera writes camera's offset, scale and distortion parameters
// back into the intrinsic; the CLI calls it after a fit completes.
func (in *Intrinsic) UpdateFromCamera(camera *calibration.Camera) {
	in.OffsetX, in.OffsetY = camera.Offset.X, camera.Offset.Y
	in.ScaleX, in.ScaleY = camera.Scale.X, camera.Scale.Y
	in.DistortionTag = string(camera.Distortion.Tag())
	in.DistortionParams = camera.Distortion.Params()
}
