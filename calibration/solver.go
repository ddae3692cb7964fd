package calibration

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	maxLMIterations   = 100
	costTolerance     = 1e-10
	initialDamping    = 1e-3
	dampingIncrease   = 10.0
	dampingDecrease   = 10.0
	maxDampingRetries = 8
)

// RunLM runs Levenberg-Marquardt on provider until the relative cost
// decrease falls below costTolerance, maxLMIterations is reached, or the
// damped normal equations cannot be solved after maxDampingRetries
// increases of lambda (solver failure). An iteration in which the damped
// system solves but no step lowers the cost counts as converged. It returns
// the final residual vector for Statistics computation.
func RunLM(provider ResidualProvider) (r []float64, ok bool, err error) {
	x := provider.Pack()
	r, J := provider.Evaluate(x)
	cost := sumSquares(r)

	lambda := initialDamping

	for iter := 0; iter < maxLMIterations; iter++ {
		dim := provider.Dim()
		if dim == 0 {
			return r, true, nil
		}

		jt := mat.NewDense(dim, len(r), nil)
		jt.CloneFrom(J.T())

		jtjDense := mat.NewDense(dim, dim, nil)
		jtjDense.Mul(jt, J)
		jtj := mat.NewSymDense(dim, nil)
		for i := 0; i < dim; i++ {
			for j := i; j < dim; j++ {
				jtj.SetSym(i, j, jtjDense.At(i, j))
			}
		}

		rVec := mat.NewVecDense(len(r), r)
		jtr := mat.NewVecDense(dim, nil)
		jtr.MulVec(jt, rVec)

		accepted := false
		solved := false
		for retry := 0; retry < maxDampingRetries; retry++ {
			damped := mat.NewSymDense(dim, nil)
			for i := 0; i < dim; i++ {
				for j := i; j < dim; j++ {
					v := jtj.At(i, j)
					if i == j {
						v *= 1 + lambda
					}
					damped.SetSym(i, j, v)
				}
			}

			var chol mat.Cholesky
			if !chol.Factorize(damped) {
				lambda *= dampingIncrease
				continue
			}

			var delta mat.VecDense
			if err := chol.SolveVecTo(&delta, jtr); err != nil {
				lambda *= dampingIncrease
				continue
			}
			solved = true

			xTrial := make([]float64, dim)
			for i := range xTrial {
				xTrial[i] = x[i] - delta.AtVec(i)
			}

			rTrial, JTrial := provider.Evaluate(xTrial)
			costTrial := sumSquares(rTrial)

			if costTrial < cost {
				relDecrease := (cost - costTrial) / math.Max(cost, 1e-30)
				x = xTrial
				r = rTrial
				J = JTrial
				cost = costTrial
				lambda /= dampingDecrease
				accepted = true
				if relDecrease < costTolerance {
					return r, true, nil
				}
				break
			}
			lambda *= dampingIncrease
		}

		if !accepted {
			// Re-evaluate at the last accepted x so the provider's
			// underlying state (camera/lines) reflects it, not the
			// last rejected trial.
			r, _ = provider.Evaluate(x)
			if solved {
				// No step lowered the cost: the relative decrease at x is
				// zero, below costTolerance.
				return r, true, nil
			}
			return r, false, errors.New("levenberg-marquardt could not solve the damped normal equations")
		}
	}

	r, _ = provider.Evaluate(x)
	return r, true, nil
}

func sumSquares(r []float64) float64 {
	s := 0.0
	for _, v := range r {
		s += v * v
	}
	return s
}

// absResiduals adapts a residual vector into the absolute-value slice
// Statistics expects.
func absResiduals(r []float64) []float64 {
	out := make([]float64, len(r))
	for i, v := range r {
		out[i] = math.Abs(v)
	}
	return out
}
