package engine

import "math"

const boundClamp = 1e5

// internalDynamics implements component C of spec.md §4.C: starting
// from u := 0, it adds the controller's passive hook, then joint
// position/velocity-limit springs and flexible-joint restoring torques,
// writing into uInternal (length nv).
func internalDynamics(t float64, q, v []float64, mdl Model, ctrl Controller, joints JointOptions, uInternal []float64) error {
	for i := range uInternal {
		uInternal[i] = 0
	}

	if err := ctrl.InternalDynamics(t, q, v, uInternal); err != nil {
		return err
	}

	for _, lim := range mdl.PositionLimitedJoints() {
		qi, vi := lim.QIndex, lim.VIndex
		qv, vv := q[qi], v[vi]

		qErr := math.Max(0, qv-lim.QMax) - math.Max(0, lim.QMin-qv)

		var tau float64
		if qv > lim.QMax {
			tau = -lim.Stiffness*qErr - lim.Damping*math.Max(vv, 0)
		} else if qv < lim.QMin {
			tau = lim.Stiffness*qErr - lim.Damping*math.Min(vv, 0)
		}

		if lim.BoundTransitionEps > 0 && qErr != 0 {
			tau *= math.Tanh(2 * qErr / lim.BoundTransitionEps)
		}
		tau = clamp(tau, -boundClamp, boundClamp)
		uInternal[vi] += tau

		if lim.VMax > 0 {
			var vtau float64
			if vv > lim.VMax {
				vtau = -lim.Damping * (vv - lim.VMax)
			} else if vv < -lim.VMax {
				vtau = -lim.Damping * (vv + lim.VMax)
			}
			uInternal[vi] += clamp(vtau, -boundClamp, boundClamp)
		}
	}

	for _, fj := range mdl.FlexibleJoints() {
		qi, vi := fj.QIndex, fj.VIndex
		quat := Quat{W: q[qi], X: q[qi+1], Y: q[qi+2], Z: q[qi+3]}
		axis, theta := quat.Log3()
		rot := axis.Scale(theta)
		for k := 0; k < 3; k++ {
			uInternal[vi+k] += -fj.Stiffness[k]*rot[k] - fj.Damping[k]*v[vi+k]
		}
	}

	return nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
