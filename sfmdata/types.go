// Package sfmdata implements the scene-data descriptor consumed and
// produced by the calibration CLI: the set of views and intrinsics that
// make up one capture, and its JSON (de)serialization.
package sfmdata

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// View associates one image with the intrinsic it was captured with.
type View struct {
	ViewID      string `json:"viewId"`
	IntrinsicID string `json:"intrinsicId"`
	Path        string `json:"path,omitempty"`
}

// Intrinsic describes one camera's pinhole model plus distortion parameters.
type Intrinsic struct {
	ID               string    `json:"intrinsicId"`
	Model            string    `json:"model"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	ScaleX           float64   `json:"scaleX"`
	ScaleY           float64   `json:"scaleY"`
	OffsetX          float64   `json:"offsetX"`
	OffsetY          float64   `json:"offsetY"`
	DistortionTag    string    `json:"distortionTag"`
	DistortionParams []float64 `json:"distortionParams"`
}

// SfMData is the top-level scene-data container.
type SfMData struct {
	Views      []View      `json:"views"`
	Intrinsics []Intrinsic `json:"intrinsics"`
}

// IntrinsicByID returns a pointer into sfm.Intrinsics for the given ID, or
// nil if not present.
func (sfm *SfMData) IntrinsicByID(id string) *Intrinsic {
	for i := range sfm.Intrinsics {
		if sfm.Intrinsics[i].ID == id {
			return &sfm.Intrinsics[i]
		}
	}
	return nil
}

// ViewsForIntrinsic returns every View referencing intrinsicID.
func (sfm *SfMData) ViewsForIntrinsic(intrinsicID string) []View {
	var out []View
	for _, v := range sfm.Views {
		if v.IntrinsicID == intrinsicID {
			out = append(out, v)
		}
	}
	return out
}

// Load reads and parses an SfMData JSON file.
func Load(path string) (*SfMData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening scene-data file %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses an SfMData from r.
func Decode(r io.Reader) (*SfMData, error) {
	var sfm SfMData
	if err := json.NewDecoder(r).Decode(&sfm); err != nil {
		return nil, errors.Wrap(err, "decoding scene-data payload")
	}
	return &sfm, nil
}

// Save writes sfm as JSON to path.
func (sfm *SfMData) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating scene-data file %s", path)
	}
	defer f.Close()
	return sfm.Encode(f)
}

// Encode writes sfm as JSON to w.
func (sfm *SfMData) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sfm); err != nil {
		return errors.Wrap(err, "encoding scene-data payload")
	}
	return nil
}
