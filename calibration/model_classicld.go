package calibration

import (
	"math"

	"github.com/golang/geo/r2"
)

// classicLD is the 3DE classic LD model: an internal rotation (initialized to
// pi/2, which is the model's own identity orientation), an isotropic radial
// polynomial up to r^4 (k,q), and a pair of curvature cross terms (cx,cy)
// coupling each axis to the square of the other.
//
// Parameter layout (5): 0 k, 1 angle, 2 cx, 3 cy, 4 q.
type classicLD struct {
	k, angle, cx, cy, q float64
}

func newClassicLD() *classicLD {
	return &classicLD{angle: math.Pi / 2}
}

func (m *classicLD) Tag() ModelTag  { return ClassicLD }
func (m *classicLD) NumParams() int { return 5 }

func (m *classicLD) Params() []float64 {
	return []float64{m.k, m.angle, m.cx, m.cy, m.q}
}

func (m *classicLD) SetParams(p []float64) {
	m.k, m.angle, m.cx, m.cy, m.q = p[0], p[1], p[2], p[3], p[4]
}

const classicLDDims = 7 // 0=x, 1=y, 2=k, 3=angle, 4=cx, 5=cy, 6=q

func (m *classicLD) eval(x, y float64) (xd, yd dualN) {
	n := classicLDDims
	xv := varD(x, 0, n)
	yv := varD(y, 1, n)
	k := varD(m.k, 2, n)
	angle := varD(m.angle, 3, n)
	cx := varD(m.cx, 4, n)
	cy := varD(m.cy, 5, n)
	q := varD(m.q, 6, n)

	c := cosD(angle)
	s := sinD(angle)

	xr := c.mul(xv).sub(s.mul(yv))
	yr := s.mul(xv).add(c.mul(yv))

	r2v := xr.mul(xr).add(yr.mul(yr))
	scale := constD(1, n).add(k.mul(r2v)).add(q.mul(r2v).mul(r2v))

	xr2 := xr.mul(scale).add(cx.mul(yr).mul(yr))
	yr2 := yr.mul(scale).add(cy.mul(xr).mul(xr))

	sn := s.scale(-1)
	xd = c.mul(xr2).sub(sn.mul(yr2))
	yd = sn.mul(xr2).add(c.mul(yr2))
	return xd, yd
}

func (m *classicLD) Distort(q r2.Point) r2.Point {
	xd, yd := m.eval(q.X, q.Y)
	return r2.Point{X: xd.val, Y: yd.val}
}

func (m *classicLD) DistortJacobian(q r2.Point) (mat2, [][2]float64) {
	xd, yd := m.eval(q.X, q.Y)

	dPdQ := mat2{
		{xd.grad[0], xd.grad[1]},
		{yd.grad[0], yd.grad[1]},
	}

	dPdTheta := make([][2]float64, m.NumParams())
	for i := range dPdTheta {
		dPdTheta[i] = [2]float64{xd.grad[2+i], yd.grad[2+i]}
	}
	return dPdQ, dPdTheta
}
