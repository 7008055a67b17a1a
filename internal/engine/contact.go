package engine

import "math"

// contactForce implements the ground-contact model of spec.md §4.B: it
// converts a contact frame's placement and velocity into a spatial
// force applied at the frame's parent joint origin.
func contactForce(fp FramePlacement, fv FrameVelocity, ground GroundProfileFunc, opts ContactOptions) SpatialForce {
	zGround, nGround := ground(fp.Position)
	n := nGround.Normalized()

	depth := (fp.Position[2] - zGround) * n[2]
	if depth >= 0 {
		return SpatialForce{}
	}

	// Frame linear velocity in world is already expressed in world
	// orientation per FrameVelocity's contract.
	vW := fv.Linear
	vN := vW.Dot(n)

	var fN float64
	if vN < 0 {
		fN = -opts.Stiffness*depth - opts.Damping*vN
	} else {
		fN = -opts.Stiffness * depth
	}

	vT := vW.Sub(n.Scale(vN))
	speedT := vT.Norm()

	mu := frictionCoefficient(speedT, opts)

	var fT Vec3
	if speedT > 1e-12 {
		fT = vT.Normalized().Scale(-mu * fN)
	}

	fW := n.Scale(fN).Add(fT)

	if opts.TransitionEps > 0 {
		fW = fW.Scale(math.Tanh(-2 * depth / opts.TransitionEps))
	}

	linear := fp.RotationInJoint.MulVec(fp.Rotation.Transpose().MulVec(fW))
	angular := fp.PositionInJoint.Cross(linear)

	return SpatialForce{Linear: linear, Angular: angular}
}

// frictionCoefficient is the three-branch piecewise-linear friction law
// of spec.md §4.B. It is value-continuous at s=1 and s=1.5, but its
// slope jumps at both points; no smoothing is applied.
func frictionCoefficient(speedT float64, opts ContactOptions) float64 {
	if opts.DryFrictionVelEps <= 0 {
		return opts.FrictionViscous
	}
	s := speedT / opts.DryFrictionVelEps
	switch {
	case s < 1:
		return opts.FrictionDry * s
	case s < 1.5:
		return -2*(opts.FrictionDry-opts.FrictionViscous)*s + 3*opts.FrictionDry - 2*opts.FrictionViscous
	default:
		return opts.FrictionViscous
	}
}
