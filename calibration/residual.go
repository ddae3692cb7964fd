package calibration

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// ResidualProvider is the shared interface the solver driver (C4) is written
// against, so line-residual and point-pair-residual modes share one LM loop.
type ResidualProvider interface {
	// Dim is the number of free scalar parameters in this stage.
	Dim() int
	// Pack returns the current value of every free parameter, in the same
	// order Evaluate expects them.
	Pack() []float64
	// Evaluate writes x into the underlying state (camera/lines), then
	// returns the residual vector and its Jacobian with respect to x (nil
	// when there are no free parameters or no residuals).
	Evaluate(x []float64) (r []float64, J *mat.Dense)
}

// PointPair is a sample of a fitted forward map used during the inversion
// stage: distort(undistortedPoint) should reproduce distortedPoint.
type PointPair struct {
	DistortedPoint   r2.Point
	UndistortedPoint r2.Point
}

// freeIndex tracks, for a fixed-size parameter block, which entries are free
// (unlocked) this stage and their position within the packed free-parameter
// vector.
type freeIndex struct {
	pos []int // pos[i] = index into the free vector, or -1 if locked
	n   int   // number of free entries
}

func buildFreeIndex(locks []bool) freeIndex {
	pos := make([]int, len(locks))
	n := 0
	for i, locked := range locks {
		if locked {
			pos[i] = -1
			continue
		}
		pos[i] = n
		n++
	}
	return freeIndex{pos: pos, n: n}
}

// LineResidualProvider implements the primary, line-collinearity fit: for
// each point on each line, the residual is the signed distance from the
// point's undistorted image to the line's current (angle, dist).
type LineResidualProvider struct {
	camera           *Camera
	lines            []*LineWithPoints
	locksDistortions []bool
	lockOffset       bool
	lockLines        bool

	thetaFree  freeIndex
	lineOffset int // index, within the free vector, where per-line (angle,dist) pairs begin
}

// NewLineResidualProvider builds a residual provider over camera and lines
// for one solver stage.
func NewLineResidualProvider(camera *Camera, lines []*LineWithPoints, locksDistortions []bool, lockOffset, lockLines bool) *LineResidualProvider {
	p := &LineResidualProvider{
		camera:           camera,
		lines:            lines,
		locksDistortions: locksDistortions,
		lockOffset:       lockOffset,
		lockLines:        lockLines,
		thetaFree:        buildFreeIndex(locksDistortions),
	}
	p.lineOffset = p.thetaFree.n
	if !lockOffset {
		p.lineOffset += 2
	}
	return p
}

func (p *LineResidualProvider) Dim() int {
	d := p.thetaFree.n
	if !p.lockOffset {
		d += 2
	}
	if !p.lockLines {
		d += 2 * len(p.lines)
	}
	return d
}

func (p *LineResidualProvider) Pack() []float64 {
	x := make([]float64, p.Dim())
	theta := p.camera.Distortion.Params()
	for i, pos := range p.thetaFree.pos {
		if pos >= 0 {
			x[pos] = theta[i]
		}
	}
	if !p.lockOffset {
		x[p.thetaFree.n] = p.camera.Offset.X
		x[p.thetaFree.n+1] = p.camera.Offset.Y
	}
	if !p.lockLines {
		for li, l := range p.lines {
			x[p.lineOffset+2*li] = l.Angle
			x[p.lineOffset+2*li+1] = l.Dist
		}
	}
	return x
}

func (p *LineResidualProvider) unpack(x []float64) {
	theta := p.camera.Distortion.Params()
	for i, pos := range p.thetaFree.pos {
		if pos >= 0 {
			theta[i] = x[pos]
		}
	}
	p.camera.Distortion.SetParams(theta)

	if !p.lockOffset {
		p.camera.Offset = r2.Point{X: x[p.thetaFree.n], Y: x[p.thetaFree.n+1]}
	}
	if !p.lockLines {
		for li, l := range p.lines {
			l.Angle = x[p.lineOffset+2*li]
			l.Dist = x[p.lineOffset+2*li+1]
		}
	}
}

func (p *LineResidualProvider) numResiduals() int {
	n := 0
	for _, l := range p.lines {
		n += len(l.Points)
	}
	return n
}

func (p *LineResidualProvider) Evaluate(x []float64) ([]float64, *mat.Dense) {
	p.unpack(x)

	n := p.numResiduals()
	dim := p.Dim()
	r := make([]float64, n)
	var J *mat.Dense
	if n > 0 && dim > 0 {
		J = mat.NewDense(n, dim, nil)
	}

	row := 0
	for li, l := range p.lines {
		cosA, sinA := math.Cos(l.Angle), math.Sin(l.Angle)
		for _, pt := range l.Points {
			pn := p.camera.ToNormalized(pt)
			qn := Undistort(p.camera.Distortion, pn)
			r[row] = qn.X*cosA + qn.Y*sinA - l.Dist

			dQdP, dQdTheta, ok := UndistortJacobian(p.camera.Distortion, pn)
			if ok {
				for i, pos := range p.thetaFree.pos {
					if pos < 0 {
						continue
					}
					J.Set(row, pos, cosA*dQdTheta[i][0]+sinA*dQdTheta[i][1])
				}
				if !p.lockOffset {
					sx, sy := p.camera.Scale.X, p.camera.Scale.Y
					dqdOffX0, dqdOffX1 := dQdP.mulVec(-1/sx, 0)
					dqdOffY0, dqdOffY1 := dQdP.mulVec(0, -1/sy)
					J.Set(row, p.thetaFree.n, cosA*dqdOffX0+sinA*dqdOffX1)
					J.Set(row, p.thetaFree.n+1, cosA*dqdOffY0+sinA*dqdOffY1)
				}
			}
			if !p.lockLines {
				J.Set(row, p.lineOffset+2*li, -qn.X*sinA+qn.Y*cosA)
				J.Set(row, p.lineOffset+2*li+1, -1)
			}
			row++
		}
	}
	return r, J
}

// PointPairResidualProvider implements the inversion-stage fit: the model's
// own parameters are driven so Distort(undistortedPoint) reproduces
// distortedPoint, over a fixed set of normalized-frame point pairs.
type PointPairResidualProvider struct {
	model            Model
	pairs            []PointPair
	locksDistortions []bool
	thetaFree        freeIndex
}

func NewPointPairResidualProvider(model Model, pairs []PointPair, locksDistortions []bool) *PointPairResidualProvider {
	return &PointPairResidualProvider{
		model:            model,
		pairs:            pairs,
		locksDistortions: locksDistortions,
		thetaFree:        buildFreeIndex(locksDistortions),
	}
}

func (p *PointPairResidualProvider) Dim() int { return p.thetaFree.n }

func (p *PointPairResidualProvider) Pack() []float64 {
	x := make([]float64, p.Dim())
	theta := p.model.Params()
	for i, pos := range p.thetaFree.pos {
		if pos >= 0 {
			x[pos] = theta[i]
		}
	}
	return x
}

func (p *PointPairResidualProvider) unpack(x []float64) {
	theta := p.model.Params()
	for i, pos := range p.thetaFree.pos {
		if pos >= 0 {
			theta[i] = x[pos]
		}
	}
	p.model.SetParams(theta)
}

func (p *PointPairResidualProvider) Evaluate(x []float64) ([]float64, *mat.Dense) {
	p.unpack(x)

	n := len(p.pairs)
	dim := p.Dim()
	r := make([]float64, 2*n)
	var J *mat.Dense
	if n > 0 && dim > 0 {
		J = mat.NewDense(2*n, dim, nil)
	}

	for i, pair := range p.pairs {
		est := p.model.Distort(pair.UndistortedPoint)
		r[2*i] = est.X - pair.DistortedPoint.X
		r[2*i+1] = est.Y - pair.DistortedPoint.Y

		_, dPdTheta := p.model.DistortJacobian(pair.UndistortedPoint)
		for k, pos := range p.thetaFree.pos {
			if pos < 0 {
				continue
			}
			J.Set(2*i, pos, dPdTheta[k][0])
			J.Set(2*i+1, pos, dPdTheta[k][1])
		}
	}
	return r, J
}
