package calibration

// dualN is a forward-mode automatic-differentiation scalar: a value paired
// with its gradient with respect to a fixed set of N inputs. It is used by
// the two rotation-coupled model families (3DEAnamorphic4, 3DEClassicLD)
// where hand-deriving the parameter/point Jacobian through two rotations is
// error-prone; every other model differentiates its closed-form map by hand
// since the algebra there is small and direct.
type dualN struct {
	val  float64
	grad []float64
}

func constD(v float64, n int) dualN {
	return dualN{val: v, grad: make([]float64, n)}
}

// varD returns a dual representing one of the N independent inputs, namely
// input index idx, with value v.
func varD(v float64, idx, n int) dualN {
	d := constD(v, n)
	d.grad[idx] = 1
	return d
}

func (a dualN) add(b dualN) dualN {
	out := constD(a.val+b.val, len(a.grad))
	for i := range out.grad {
		out.grad[i] = a.grad[i] + b.grad[i]
	}
	return out
}

func (a dualN) sub(b dualN) dualN {
	out := constD(a.val-b.val, len(a.grad))
	for i := range out.grad {
		out.grad[i] = a.grad[i] - b.grad[i]
	}
	return out
}

func (a dualN) mul(b dualN) dualN {
	out := constD(a.val*b.val, len(a.grad))
	for i := range out.grad {
		out.grad[i] = a.grad[i]*b.val + a.val*b.grad[i]
	}
	return out
}

func (a dualN) scale(c float64) dualN {
	out := constD(a.val*c, len(a.grad))
	for i := range out.grad {
		out.grad[i] = a.grad[i] * c
	}
	return out
}
