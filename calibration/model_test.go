package calibration

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelFactory(t *testing.T) {
	for _, tag := range []ModelTag{RadialK1, RadialK3, Radial4, Anamorphic4, ClassicLD} {
		m, err := NewModel(tag)
		require.NoError(t, err)
		assert.Equal(t, tag, m.Tag())
		assert.Len(t, m.Params(), m.NumParams())
	}

	_, err := NewModel("unknown")
	assert.Error(t, err)
}

func TestDefaultParamsAreIdentity(t *testing.T) {
	p := r2.Point{X: 0.37, Y: -0.21}

	for _, tag := range []ModelTag{RadialK1, RadialK3, Radial4, Anamorphic4, ClassicLD} {
		m, err := NewModel(tag)
		require.NoError(t, err)

		got := m.Distort(p)
		assert.InDelta(t, p.X, got.X, 1e-9, "tag=%s", tag)
		assert.InDelta(t, p.Y, got.Y, 1e-9, "tag=%s", tag)
	}
}

func TestUndistortInvertsDistort(t *testing.T) {
	cases := []struct {
		tag    ModelTag
		params []float64
	}{
		{RadialK1, []float64{0.15}},
		{RadialK3, []float64{0.1, -0.02, 0.005}},
		{Radial4, []float64{0.1, -0.02, 0.005, -0.001, 0.001, -0.0005}},
	}

	pts := []r2.Point{{X: 0.1, Y: 0.05}, {X: -0.3, Y: 0.2}, {X: 0.02, Y: -0.4}}

	for _, tc := range cases {
		m, err := NewModel(tc.tag)
		require.NoError(t, err)
		m.SetParams(tc.params)

		for _, q := range pts {
			p := m.Distort(q)
			back := Undistort(m, p)
			assert.InDelta(t, q.X, back.X, 1e-6, "tag=%s point=%v", tc.tag, q)
			assert.InDelta(t, q.Y, back.Y, 1e-6, "tag=%s point=%v", tc.tag, q)
		}
	}
}

func TestDistortJacobianMatchesFiniteDifference(t *testing.T) {
	const h = 1e-6

	cases := []struct {
		tag    ModelTag
		params []float64
	}{
		{RadialK1, []float64{0.15}},
		{RadialK3, []float64{0.1, -0.02, 0.005}},
		{Radial4, []float64{0.1, -0.02, 0.005, -0.001, 0.001, -0.0005}},
		{Anamorphic4, defaultAnamorphicNonIdentityParams()},
		{ClassicLD, []float64{0.08, 1.55, 0.01, -0.02, 0.003}},
	}

	q := r2.Point{X: 0.12, Y: -0.18}

	for _, tc := range cases {
		m, err := NewModel(tc.tag)
		require.NoError(t, err)
		m.SetParams(tc.params)

		dPdQ, dPdTheta := m.DistortJacobian(q)

		// Finite-difference check on the input-point Jacobian.
		fx := (m.Distort(r2.Point{X: q.X + h, Y: q.Y}).X - m.Distort(r2.Point{X: q.X - h, Y: q.Y}).X) / (2 * h)
		fy := (m.Distort(r2.Point{X: q.X, Y: q.Y + h}).X - m.Distort(r2.Point{X: q.X, Y: q.Y - h}).X) / (2 * h)
		assert.InDelta(t, fx, dPdQ[0][0], 1e-4, "tag=%s dPx/dQx", tc.tag)
		assert.InDelta(t, fy, dPdQ[0][1], 1e-4, "tag=%s dPx/dQy", tc.tag)

		// Finite-difference check on the parameter Jacobian, one column at a time.
		base := append([]float64(nil), tc.params...)
		for i := range base {
			plus := append([]float64(nil), base...)
			minus := append([]float64(nil), base...)
			plus[i] += h
			minus[i] -= h

			mp, _ := NewModel(tc.tag)
			mp.SetParams(plus)
			mm, _ := NewModel(tc.tag)
			mm.SetParams(minus)

			dx := (mp.Distort(q).X - mm.Distort(q).X) / (2 * h)
			dy := (mp.Distort(q).Y - mm.Distort(q).Y) / (2 * h)
			assert.InDelta(t, dx, dPdTheta[i][0], 1e-4, "tag=%s param=%d dPx", tc.tag, i)
			assert.InDelta(t, dy, dPdTheta[i][1], 1e-4, "tag=%s param=%d dPy", tc.tag, i)
		}
	}
}

func defaultAnamorphicNonIdentityParams() []float64 {
	return []float64{
		0.02, -0.01, 0.003, -0.002,
		0.015, -0.008, 0.002, -0.001, 0.0005, 0.0004,
		0.1, 1.02, 1.0, 1.0,
	}
}
