package calibration

import "github.com/golang/geo/r2"

// radialK1 is the single-term isotropic radial model: scale = 1 + k1*r^2.
type radialK1 struct {
	k1 float64
}

func newRadialK1() *radialK1 {
	return &radialK1{}
}

func (m *radialK1) Tag() ModelTag   { return RadialK1 }
func (m *radialK1) NumParams() int  { return 1 }
func (m *radialK1) Params() []float64 {
	return []float64{m.k1}
}

func (m *radialK1) SetParams(p []float64) {
	m.k1 = p[0]
}

func (m *radialK1) Distort(q r2.Point) r2.Point {
	r2v := q.X*q.X + q.Y*q.Y
	s := 1 + m.k1*r2v
	return r2.Point{X: q.X * s, Y: q.Y * s}
}

func (m *radialK1) DistortJacobian(q r2.Point) (mat2, [][2]float64) {
	x, y := q.X, q.Y
	r2v := x*x + y*y
	s := 1 + m.k1*r2v

	// d(x*s)/dx = s + x * ds/dx, ds/dx = k1*2x
	dsdx := m.k1 * 2 * x
	dsdy := m.k1 * 2 * y

	dPdQ := mat2{
		{s + x*dsdx, x * dsdy},
		{y * dsdx, s + y*dsdy},
	}

	// d/dk1: d(x*s)/dk1 = x*r2v, d(y*s)/dk1 = y*r2v
	dPdTheta := [][2]float64{
		{x * r2v, y * r2v},
	}

	return dPdQ, dPdTheta
}
