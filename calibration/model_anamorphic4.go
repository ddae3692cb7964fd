package calibration

import (
	"math"

	"github.com/golang/geo/r2"
)

// anamorphic4 is the 3DE anamorphic degree-4 model: the point is rotated into
// an internal frame by phi, stretched by an even-power polynomial in x and y
// that is allowed to differ between the two axes (the "anamorphic" part),
// squeezed by sq on one axis, scaled by the fixed px/py pair, and rotated back.
//
// Parameter layout (14):
//
//	0 cx02  1 cx22  2 cx04  3 cx24   first four x-axis polynomial coefficients
//	4 cy02  5 cy22  6 cy04  7 cy24  8 cy44  9 cx44   the five y-axis coefficients, then the fifth x-axis one
//	10 phi                                    internal rotation angle
//	11 sq                                     squeeze ratio, init 1
//	12 px   13 py                             fixed axis scales, init 1, never unlocked
type anamorphic4 struct {
	cx02, cx22, cx04, cx24       float64
	cy02, cy22, cy04, cy24, cy44 float64
	cx44                         float64
	phi                          float64
	sq                           float64
	px, py                       float64
}

func newAnamorphic4() *anamorphic4 {
	return &anamorphic4{sq: 1, px: 1, py: 1}
}

func (m *anamorphic4) Tag() ModelTag  { return Anamorphic4 }
func (m *anamorphic4) NumParams() int { return 14 }

func (m *anamorphic4) Params() []float64 {
	return []float64{
		m.cx02, m.cx22, m.cx04, m.cx24,
		m.cy02, m.cy22, m.cy04, m.cy24, m.cy44, m.cx44,
		m.phi, m.sq, m.px, m.py,
	}
}

func (m *anamorphic4) SetParams(p []float64) {
	m.cx02, m.cx22, m.cx04, m.cx24 = p[0], p[1], p[2], p[3]
	m.cy02, m.cy22, m.cy04, m.cy24, m.cy44, m.cx44 = p[4], p[5], p[6], p[7], p[8], p[9]
	m.phi, m.sq, m.px, m.py = p[10], p[11], p[12], p[13]
}

const anamorphic4Dims = 16 // 0=x, 1=y, 2..15=the 14 parameters in Params() order

// eval runs the full forward map in forward-mode dual arithmetic, so both the
// value and every partial derivative needed by DistortJacobian fall out of
// the same computation.
func (m *anamorphic4) eval(x, y float64) (xd, yd dualN) {
	n := anamorphic4Dims
	xv := varD(x, 0, n)
	yv := varD(y, 1, n)
	cx02 := varD(m.cx02, 2, n)
	cx22 := varD(m.cx22, 3, n)
	cx04 := varD(m.cx04, 4, n)
	cx24 := varD(m.cx24, 5, n)
	cy02 := varD(m.cy02, 6, n)
	cy22 := varD(m.cy22, 7, n)
	cy04 := varD(m.cy04, 8, n)
	cy24 := varD(m.cy24, 9, n)
	cy44 := varD(m.cy44, 10, n)
	cx44 := varD(m.cx44, 11, n)
	phi := varD(m.phi, 12, n)
	sq := varD(m.sq, 13, n)
	px := varD(m.px, 14, n)
	py := varD(m.py, 15, n)

	c := cosD(phi)
	s := sinD(phi)

	xr := c.mul(xv).sub(s.mul(yv))
	yr := s.mul(xv).add(c.mul(yv))

	u := xr.mul(xr) // xr^2
	v := yr.mul(yr) // yr^2
	u2 := u.mul(u)
	v2 := v.mul(v)

	polyX := constD(1, n).
		add(cx02.mul(v)).
		add(cx22.mul(u).mul(v)).
		add(cx04.mul(v2)).
		add(cx24.mul(u).mul(v2)).
		add(cx44.mul(u2).mul(v2))

	polyY := constD(1, n).
		add(cy02.mul(v)).
		add(cy22.mul(u).mul(v)).
		add(cy04.mul(v2)).
		add(cy24.mul(u).mul(v2)).
		add(cy44.mul(u2).mul(v2))

	xr2 := xr.mul(polyX)
	yr2 := yr.mul(polyY).mul(sq)

	xr3 := xr2.mul(px)
	yr3 := yr2.mul(py)

	// rotate back by -phi
	cn := c
	sn := s.scale(-1)
	xd = cn.mul(xr3).sub(sn.mul(yr3))
	yd = sn.mul(xr3).add(cn.mul(yr3))
	return xd, yd
}

func (m *anamorphic4) Distort(q r2.Point) r2.Point {
	xd, yd := m.eval(q.X, q.Y)
	return r2.Point{X: xd.val, Y: yd.val}
}

func (m *anamorphic4) DistortJacobian(q r2.Point) (mat2, [][2]float64) {
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

// cosD and sinD provide just enough of a dual-number trig pair for the single
// angle parameter (phi) that ever appears in these models: cos/sin are
// evaluated at the angle's scalar value, and the chain rule is applied by
// hand, since d(cos)/dtheta = -sin(theta) and d(sin)/dtheta = cos(theta).
func cosD(theta dualN) dualN {
	c, s := math.Cos(theta.val), math.Sin(theta.val)
	out := constD(c, len(theta.grad))
	for i := range out.grad {
		out.grad[i] = -s * theta.grad[i]
	}
	return out
}

func sinD(theta dualN) dualN {
	c, s := math.Cos(theta.val), math.Sin(theta.val)
	out := constD(s, len(theta.grad))
	for i := range out.grad {
		out.grad[i] = c * theta.grad[i]
	}
	return out
}
