package engine

import "fmt"

// setupTelemetry registers per-field names at Start time: positions (if
// enabled), velocities, accelerations, motor torques, kinetic+potential
// energy, plus everything the model/controller register themselves
// (spec.md §4.H). After this call the name set is frozen until Stop.
func (e *Engine) setupTelemetry() {
	tel := NewTelemetry()

	tel.RegisterConstant("StartTime", fmt.Sprintf("%.9f", e.state.t))
	tel.RegisterConstant("NumMotors", fmt.Sprintf("%d", e.state.nMotors))
	tel.RegisterConstant("NumContacts", fmt.Sprintf("%d", len(e.model.ContactFrames())))

	te := e.opts.Telemetry
	nq, nv := e.state.nq, e.state.nv

	if te.EnableConfiguration {
		e.tIdx.q = make([]int, nq)
		for i := 0; i < nq; i++ {
			e.tIdx.q[i] = tel.RegisterFloat(fmt.Sprintf("q%d", i))
		}
	}
	if te.EnableVelocity {
		e.tIdx.v = make([]int, nv)
		for i := 0; i < nv; i++ {
			e.tIdx.v[i] = tel.RegisterFloat(fmt.Sprintf("v%d", i))
		}
	}
	if te.EnableAcceleration {
		e.tIdx.a = make([]int, nv)
		for i := 0; i < nv; i++ {
			e.tIdx.a[i] = tel.RegisterFloat(fmt.Sprintf("a%d", i))
		}
	}
	if te.EnableTorque {
		e.tIdx.uMotor = make([]int, e.state.nMotors)
		for i := 0; i < e.state.nMotors; i++ {
			e.tIdx.uMotor[i] = tel.RegisterFloat(fmt.Sprintf("uMotor%d", i))
		}
	}
	if te.EnableEnergy {
		e.tIdx.energy = tel.RegisterFloat("energy")
	} else {
		e.tIdx.energy = -1
	}

	if r, ok := e.model.(TelemetryRegisterable); ok {
		_ = r.ConfigureTelemetry(tel)
	}
	if r, ok := e.controller.(TelemetryRegisterable); ok {
		_ = r.ConfigureTelemetry(tel)
	}

	tel.Freeze()
	e.telemetry = tel
}

// pushTelemetrySnapshot pushes the current stepper-state values into
// the telemetry front and appends a record.
func (e *Engine) pushTelemetrySnapshot() {
	tel := e.telemetry
	tel.PushInt(0, int32(e.state.iter))
	tel.PushFloat(0, e.state.t)

	for i, idx := range e.tIdx.q {
		tel.PushFloat(idx, e.state.q()[i])
	}
	for i, idx := range e.tIdx.v {
		tel.PushFloat(idx, e.state.v()[i])
	}
	for i, idx := range e.tIdx.a {
		tel.PushFloat(idx, e.state.a()[i])
	}
	for i, idx := range e.tIdx.uMotor {
		tel.PushFloat(idx, e.state.uMotor[i])
	}
	if e.tIdx.energy >= 0 {
		tel.PushFloat(e.tIdx.energy, e.computeEnergy())
	}

	if r, ok := e.model.(TelemetryRegisterable); ok {
		r.UpdateTelemetry()
	}
	if r, ok := e.controller.(TelemetryRegisterable); ok {
		r.UpdateTelemetry()
	}

	tel.Snapshot()
}

// computeEnergy is the kinetic+potential energy scalar of spec.md
// §4.H, kinetic energy augmented by ½·rotorInertia[k]·v[k]² per motor.
func (e *Engine) computeEnergy() float64 {
	h, ok := e.model.(interface {
		KineticEnergy(q, v []float64) float64
		PotentialEnergy(q []float64) float64
	})
	if !ok {
		return 0
	}
	v := e.state.v()
	ke := h.KineticEnergy(e.state.q(), v)
	for _, m := range e.model.Motors() {
		vk := v[m.JointVelocityIdx]
		ke += 0.5 * m.RotorInertia * vk * vk
	}
	pe := h.PotentialEnergy(e.state.q())
	return ke + pe
}
