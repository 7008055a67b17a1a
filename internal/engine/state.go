package engine

import (
	"fmt"
	"math"
)

// stepperState is component A of spec.md §2: it owns (t, dt, x, dx/dt,
// u, uCmd, uMotor, uInternal, fExt, iter, t_err) plus the last-accepted
// shadow snapshot used by infinite-frequency sensors and motor models
// (spec.md §9 "Last-accepted shadow state").
type stepperState struct {
	nq, nv, nMotors int

	isInitialized bool

	t     float64
	dt    float64
	tErr  float64 // Kahan compensation term (spec.md §4.G)
	iter  uint32
	fails uint32 // consecutive integrator step failures

	x    []float64 // [q; v], length nq+nv
	dxdt []float64 // [q̇; v̇], length nq+nv

	uCommand  []float64 // controller output per motor
	uMotor    []float64 // after motor model (clamping, friction)
	uInternal []float64 // limits, flexibility, passive terms, length nv
	u         []float64 // summed, mapped to velocity indices, length nv

	fExt map[int]SpatialForce // one spatial force per joint body, re-zeroed each RHS eval

	// last holds the accepted snapshot RHS reads for "most recently
	// known" acceleration/torque during infinite-frequency sampling.
	last lastAccepted
}

type lastAccepted struct {
	t      float64
	q      []float64
	v      []float64
	a      []float64 // v̇ portion of dxdt
	uMotor []float64
}

func newStepperState() *stepperState {
	return &stepperState{fExt: make(map[int]SpatialForce)}
}

// initialize zeros the torque vectors, resizes to nx/nv/nMotors, and
// seeds q̇ via the model's configuration-derivative helper so
// quaternion derivatives are correct from the first RHS evaluation
// (spec.md §4.A).
func (s *stepperState) initialize(mdl Model, x0 []float64, dt0 float64) error {
	nq, nv := mdl.NQ(), mdl.NV()
	nx := nq + nv
	if len(x0) != nx {
		return fmt.Errorf("%w: initial state has length %d, expected %d", ErrBadInput, len(x0), nx)
	}

	nMotors := len(mdl.Motors())

	s.nq, s.nv, s.nMotors = nq, nv, nMotors
	s.x = append([]float64(nil), x0...)
	s.dxdt = make([]float64, nx)
	s.uCommand = make([]float64, nMotors)
	s.uMotor = make([]float64, nMotors)
	s.uInternal = make([]float64, nv)
	s.u = make([]float64, nv)
	s.fExt = make(map[int]SpatialForce)
	s.t, s.dt, s.tErr, s.iter, s.fails = 0, dt0, 0, 0, 0

	qdot, err := mdl.ConfigurationDerivative(s.q(), s.v())
	if err != nil {
		return err
	}
	copy(s.dxdt[:nq], qdot)

	s.last = lastAccepted{
		q:      append([]float64(nil), s.q()...),
		v:      append([]float64(nil), s.v()...),
		a:      make([]float64, nv),
		uMotor: make([]float64, nMotors),
	}

	s.isInitialized = true
	return nil
}

// q, v, qdot, and a are aliases into x/dxdt (first nq / last nv slots).
func (s *stepperState) q() []float64    { return s.x[:s.nq] }
func (s *stepperState) v() []float64    { return s.x[s.nq:] }
func (s *stepperState) qdot() []float64 { return s.dxdt[:s.nq] }
func (s *stepperState) a() []float64    { return s.dxdt[s.nq:] }

// snapshotLastAccepted copies the current state into the last-accepted
// shadow, called after a step is committed (spec.md §5 ordering
// guarantees: after iter is incremented, before telemetry is written
// is fine since telemetry itself reads from the just-committed x).
func (s *stepperState) snapshotLastAccepted() {
	s.last.t = s.t
	copy(s.last.q, s.q())
	copy(s.last.v, s.v())
	copy(s.last.a, s.a())
	copy(s.last.uMotor, s.uMotor)
}

func (s *stepperState) isValid() bool {
	for _, v := range s.x {
		if isNaNOrInf(v) {
			return false
		}
	}
	return true
}

func isNaNOrInf(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
