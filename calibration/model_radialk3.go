package calibration

import "github.com/golang/geo/r2"

// radialK3 is the three-term isotropic radial model:
// scale = 1 + k1*r^2 + k2*r^4 + k3*r^6.
type radialK3 struct {
	k1, k2, k3 float64
}

func newRadialK3() *radialK3 {
	return &radialK3{}
}

func (m *radialK3) Tag() ModelTag  { return RadialK3 }
func (m *radialK3) NumParams() int { return 3 }

func (m *radialK3) Params() []float64 {
	return []float64{m.k1, m.k2, m.k3}
}

func (m *radialK3) SetParams(p []float64) {
	m.k1, m.k2, m.k3 = p[0], p[1], p[2]
}

func (m *radialK3) scale(r2v float64) float64 {
	r4v := r2v * r2v
	r6v := r4v * r2v
	return 1 + m.k1*r2v + m.k2*r4v + m.k3*r6v
}

func (m *radialK3) dScale(r2v float64) float64 {
	r4v := r2v * r2v
	return m.k1 + 2*m.k2*r2v + 3*m.k3*r4v
}

func (m *radialK3) Distort(q r2.Point) r2.Point {
	r2v := q.X*q.X + q.Y*q.Y
	s := m.scale(r2v)
	return r2.Point{X: q.X * s, Y: q.Y * s}
}

func (m *radialK3) DistortJacobian(q r2.Point) (mat2, [][2]float64) {
	x, y := q.X, q.Y
	r2v := x*x + y*y
	s := m.scale(r2v)
	dsdr2 := m.dScale(r2v)

	dsdx := dsdr2 * 2 * x
	dsdy := dsdr2 * 2 * y

	dPdQ := mat2{
		{s + x*dsdx, x * dsdy},
		{y * dsdx, s + y*dsdy},
	}

	r4v := r2v * r2v
	r6v := r4v * r2v
	dPdTheta := [][2]float64{
		{x * r2v, y * r2v},
		{x * r4v, y * r4v},
		{x * r6v, y * r6v},
	}

	return dPdQ, dPdTheta
}
