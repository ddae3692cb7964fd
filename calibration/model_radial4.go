package calibration

import "github.com/golang/geo/r2"

// radial4 is the 3DE radial degree-4 model: an isotropic radial polynomial up
// to r^8 (k1..k4) plus a Brown-Conrady-style decentering pair (p1,p2).
type radial4 struct {
	k1, k2, k3, k4 float64
	p1, p2         float64
}

func newRadial4() *radial4 {
	return &radial4{}
}

func (m *radial4) Tag() ModelTag  { return Radial4 }
func (m *radial4) NumParams() int { return 6 }

func (m *radial4) Params() []float64 {
	return []float64{m.k1, m.k2, m.k3, m.k4, m.p1, m.p2}
}

func (m *radial4) SetParams(p []float64) {
	m.k1, m.k2, m.k3, m.k4 = p[0], p[1], p[2], p[3]
	m.p1, m.p2 = p[4], p[5]
}

func (m *radial4) scale(r2v float64) float64 {
	r4v := r2v * r2v
	r6v := r4v * r2v
	r8v := r6v * r2v
	return 1 + m.k1*r2v + m.k2*r4v + m.k3*r6v + m.k4*r8v
}

func (m *radial4) dScale(r2v float64) float64 {
	r4v := r2v * r2v
	r6v := r4v * r2v
	return m.k1 + 2*m.k2*r2v + 3*m.k3*r4v + 4*m.k4*r6v
}

func (m *radial4) Distort(q r2.Point) r2.Point {
	x, y := q.X, q.Y
	r2v := x*x + y*y
	s := m.scale(r2v)
	xd := x*s + 2*m.p1*x*y + m.p2*(r2v+2*x*x)
	yd := y*s + m.p1*(r2v+2*y*y) + 2*m.p2*x*y
	return r2.Point{X: xd, Y: yd}
}

func (m *radial4) DistortJacobian(q r2.Point) (mat2, [][2]float64) {
	x, y := q.X, q.Y
	r2v := x*x + y*y
	s := m.scale(r2v)
	dsdr2 := m.dScale(r2v)
	dsdx := dsdr2 * 2 * x
	dsdy := dsdr2 * 2 * y

	dPdQ := mat2{
		{s + x*dsdx + 2*m.p1*y + m.p2*6*x, x*dsdy + 2*m.p1*x + m.p2*2*y},
		{y*dsdx + m.p1*2*x + 2*m.p2*y, s + y*dsdy + m.p1*6*y + 2*m.p2*x},
	}

	r4v := r2v * r2v
	r6v := r4v * r2v
	r8v := r6v * r2v
	dPdTheta := [][2]float64{
		{x * r2v, y * r2v},
		{x * r4v, y * r4v},
		{x * r6v, y * r6v},
		{x * r8v, y * r8v},
		{2 * x * y, r2v + 2*y*y},
		{r2v + 2*x*x, 2 * x * y},
	}

	return dPdQ, dPdTheta
}
