package engine

// computeRHS is component D of spec.md §4.D: given (t, x) it produces
// dx/dt in the fixed evaluation order that keeps sensor measurements
// and torques mutually consistent (spec.md §5 "Ordering guarantees").
func (e *Engine) computeRHS(t float64, x []float64) ([]float64, error) {
	nq, nv := e.state.nq, e.state.nv
	q, v := x[:nq], x[nq:]

	// 1. Forward kinematics.
	if err := e.model.ForwardKinematics(q, v); err != nil {
		return nil, err
	}

	// 2. External forces: zero fExt, add contact reactions, the active
	// impulse, and all profile functors.
	for k := range e.state.fExt {
		delete(e.state.fExt, k)
	}
	for _, cf := range e.model.ContactFrames() {
		fp := e.model.FramePlacement(cf.FrameIndex)
		fv := e.model.FrameVelocity(cf.FrameIndex)
		f := contactForce(fp, fv, e.opts.World.GroundProfile, e.opts.Contacts)
		e.accumulateExternal(fp.ParentJointIdx, f)
	}
	if imp, ok := e.forces.active(t); ok {
		fp := e.model.FramePlacement(imp.FrameIndex)
		f := worldForceToJoint(fp, imp.F.Linear)
		e.accumulateExternal(fp.ParentJointIdx, f)
	}
	for _, p := range e.forces.profiles {
		fp := e.model.FramePlacement(p.FrameIndex)
		fW := p.Fn(t, x)
		f := worldForceToJoint(fp, fW.Linear)
		e.accumulateExternal(fp.ParentJointIdx, f)
	}

	// 3. Sensor snapshot policy: continuous mode updates sensors here
	// from the last-accepted state, since the current acceleration is
	// not yet known; otherwise the orchestrator handles it at period
	// boundaries.
	if e.opts.Stepper.SensorsUpdatePeriod <= MinSimulationTimestep {
		if err := e.model.SetSensorsData(t, q, v, e.state.last.a, e.state.last.uMotor); err != nil {
			return nil, err
		}
	}

	// 4. Command.
	if e.opts.Stepper.ControllerUpdatePeriod <= MinSimulationTimestep {
		if err := e.controller.ComputeCommand(t, q, v, e.state.uCommand); err != nil {
			return nil, err
		}
	}

	// 5. Motor torque.
	uMotor, err := e.model.ComputeMotorsTorques(t, q, v, e.state.last.a, e.state.uCommand)
	if err != nil {
		return nil, err
	}
	copy(e.state.uMotor, uMotor)

	// 6. Internal dynamics.
	if err := internalDynamics(t, q, v, e.model, e.controller, e.opts.Joints, e.state.uInternal); err != nil {
		return nil, err
	}

	// 7. u := uInternal; add motor torques at their velocity indices.
	copy(e.state.u, e.state.uInternal)
	for _, m := range e.model.Motors() {
		e.state.u[m.JointVelocityIdx] += e.state.uMotor[m.Idx]
	}

	// 8. ABA with rotor-inertia correction.
	a, err := e.model.ABA(q, v, e.state.u, e.state.fExt, e.rotorInertia, gravityVec3(e.opts.World.Gravity))
	if err != nil {
		return nil, err
	}

	// 9. Configuration derivative on the integration manifold.
	qdot, err := e.model.ConfigurationDerivative(q, v)
	if err != nil {
		return nil, err
	}

	dxdt := make([]float64, nq+nv)
	copy(dxdt[:nq], qdot)
	copy(dxdt[nq:], a)
	return dxdt, nil
}

func (e *Engine) accumulateExternal(jointIdx int, f SpatialForce) {
	e.state.fExt[jointIdx] = e.state.fExt[jointIdx].Add(f)
}

// worldForceToJoint converts a world-frame linear force at a frame into
// a spatial force at the frame's parent joint origin, per the same
// transform the contact model uses (spec.md §4.B, last paragraph).
func worldForceToJoint(fp FramePlacement, fW Vec3) SpatialForce {
	linear := fp.RotationInJoint.MulVec(fp.Rotation.Transpose().MulVec(fW))
	angular := fp.PositionInJoint.Cross(linear)
	return SpatialForce{Linear: linear, Angular: angular}
}

func gravityVec3(g [6]float64) Vec3 {
	return Vec3{g[0], g[1], g[2]}
}
