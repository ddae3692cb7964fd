// Package calibration implements the line-constraint distortion calibration
// core: line extraction, the distortion model family, the residual engine,
// the staged Levenberg-Marquardt driver, and the per-intrinsic orchestrator.
package calibration

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// ModelTag identifies a distortion model family.
type ModelTag string

// The five supported distortion model families.
const (
	RadialK1       ModelTag = "radialk1"
	RadialK3       ModelTag = "radialk3"
	Radial4        ModelTag = "3deradial4"
	Anamorphic4    ModelTag = "3deanamorphic4"
	ClassicLD      ModelTag = "3declassicld"
)

// Model is a parametric distortion map operating on normalized (unit-scale)
// image-plane coordinates. Distort is the only closed-form direction; Undistort
// is derived generically from it (see Undistort/UndistortJacobian below) so
// each model only has to supply Distort and its Jacobian.
type Model interface {
	Tag() ModelTag
	NumParams() int
	Params() []float64
	SetParams(p []float64)

	// Distort maps an undistorted normalized point to a distorted normalized point.
	Distort(q r2.Point) r2.Point

	// DistortJacobian returns the Jacobian of Distort at q with respect to the
	// input point (2x2, row-major [dPx/dQx dPx/dQy; dPy/dQx dPy/dQy]) and with
	// respect to the model's own parameters (NumParams() columns of 2 rows each,
	// returned as one [2]float64 per parameter).
	DistortJacobian(q r2.Point) (dPdQ mat2, dPdTheta [][2]float64)
}

// NewModel returns a zero/default-initialized model for tag.
func NewModel(tag ModelTag) (Model, error) {
	switch tag {
	case RadialK1:
		return newRadialK1(), nil
	case RadialK3:
		return newRadialK3(), nil
	case Radial4:
		return newRadial4(), nil
	case Anamorphic4:
		return newAnamorphic4(), nil
	case ClassicLD:
		return newClassicLD(), nil
	default:
		return nil, errors.Errorf("unsupported distortion model tag %q", tag)
	}
}

// mat2 is a dense 2x2 matrix, row-major: {{m00, m01}, {m10, m11}}.
type mat2 [2][2]float64

func (m mat2) det() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// inverse returns the matrix inverse, or ok=false if m's determinant is
// exactly zero.
func (m mat2) inverse() (mat2, bool) {
	det := m.det()
	if det == 0 {
		return mat2{}, false
	}
	inv := 1.0 / det
	return mat2{
		{m[1][1] * inv, -m[0][1] * inv},
		{-m[1][0] * inv, m[0][0] * inv},
	}, true
}

func (m mat2) mulVec(x, y float64) (float64, float64) {
	return m[0][0]*x + m[0][1]*y, m[1][0]*x + m[1][1]*y
}

const (
	newtonMaxIterations = 30
	newtonTolerance     = 1e-12
)

// Undistort inverts Distort by Newton iteration: finds q such that
// Distort(q) == p, starting from p itself (distortion is assumed small).
// This single implementation is shared by every model family so that none
// of them need a hand-derived closed-form inverse.
func Undistort(m Model, p r2.Point) r2.Point {
	q := p
	for i := 0; i < newtonMaxIterations; i++ {
		pEst := m.Distort(q)
		ex, ey := pEst.X-p.X, pEst.Y-p.Y
		if ex*ex+ey*ey < newtonTolerance {
			break
		}
		dPdQ, _ := m.DistortJacobian(q)
		inv, ok := dPdQ.inverse()
		if !ok {
			break
		}
		dx, dy := inv.mulVec(ex, ey)
		q = r2.Point{X: q.X - dx, Y: q.Y - dy}
	}
	return q
}

// UndistortJacobian returns the Jacobian of Undistort at p with respect to
// the input point and with respect to the model's parameters, obtained from
// DistortJacobian at the converged solution via the implicit function theorem
// applied to F(q, theta, p) = Distort(q; theta) - p = 0:
//
//	dq/dtheta = -A^-1 * dDistort/dtheta
//	dq/dp     =  A^-1
//
// where A = dDistort/dq evaluated at the solution.
func UndistortJacobian(m Model, p r2.Point) (dQdP mat2, dQdTheta [][2]float64, ok bool) {
	q := Undistort(m, p)
	a, dPdTheta := m.DistortJacobian(q)
	aInv, invOK := a.inverse()
	if !invOK {
		return mat2{}, nil, false
	}

	dQdP = aInv

	dQdTheta = make([][2]float64, len(dPdTheta))
	for i, col := range dPdTheta {
		dx, dy := aInv.mulVec(col[0], col[1])
		dQdTheta[i] = [2]float64{-dx, -dy}
	}
	return dQdP, dQdTheta, true
}
