package model

import (
	"math"

	"github.com/jiminy-core/jiminy/internal/engine"
)

// SinglePendulum is a single revolute joint carrying one motor and a
// hard travel limit on theta, grounded on the teacher's
// internal/models/pendulum.go analytic equation of motion — reworked
// here to also exercise the engine's position-limit spring
// (spec.md §4.C) and motor rotor inertia (spec.md §4.H).
type SinglePendulum struct {
	locker

	Mass, Length, Damping float64
	MotorInertia          float64
	ThetaMin, ThetaMax    float64

	fp engine.FramePlacement
	fv engine.FrameVelocity
}

// NewSinglePendulum returns a unit pendulum with travel limits at
// +/-thetaLimit radians.
func NewSinglePendulum(thetaLimit float64) *SinglePendulum {
	return &SinglePendulum{
		Mass: 1.0, Length: 1.0, Damping: 0.05, MotorInertia: 1e-3,
		ThetaMin: -thetaLimit, ThetaMax: thetaLimit,
		fp: engine.FramePlacement{Rotation: engine.Identity3(), RotationInJoint: engine.Identity3()},
	}
}

func (p *SinglePendulum) NQ() int { return 1 }
func (p *SinglePendulum) NV() int { return 1 }
func (p *SinglePendulum) NX() int { return 2 }

func (p *SinglePendulum) FieldNames() []string { return []string{"theta"} }

func (p *SinglePendulum) Motors() []engine.Motor {
	return []engine.Motor{{Name: "joint0", Idx: 0, JointVelocityIdx: 0, RotorInertia: p.MotorInertia}}
}

func (p *SinglePendulum) ContactFrames() []engine.ContactFrame     { return nil }
func (p *SinglePendulum) QuaternionSlots() []engine.QuaternionSlot { return nil }
func (p *SinglePendulum) FlexibleJoints() []engine.FlexibleJoint   { return nil }

func (p *SinglePendulum) PositionLimitedJoints() []engine.PositionLimit {
	return []engine.PositionLimit{{
		QIndex: 0, VIndex: 0,
		QMin: p.ThetaMin, QMax: p.ThetaMax,
		VMax:                6.0,
		Stiffness:           1e4,
		Damping:             1e2,
		BoundTransitionEps:  0.02,
	}}
}

func (p *SinglePendulum) RenormalizeQuaternions(q []float64) {}

func (p *SinglePendulum) ForwardKinematics(q, v []float64) error {
	c, s := math.Cos(q[0]), math.Sin(q[0])
	p.fp.Rotation = engine.Mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
	p.fp.Position = engine.Vec3{p.Length * s, -p.Length * c, 0}
	p.fv.Angular = engine.Vec3{0, 0, v[0]}
	p.fv.Linear = engine.Vec3{p.Length * c * v[0], p.Length * s * v[0], 0}
	return nil
}

func (p *SinglePendulum) FramePlacement(frameIdx int) engine.FramePlacement { return p.fp }
func (p *SinglePendulum) FrameVelocity(frameIdx int) engine.FrameVelocity  { return p.fv }

func (p *SinglePendulum) ComputeMotorsTorques(t float64, q, v, a []float64, uCmd []float64) ([]float64, error) {
	return []float64{uCmd[0]}, nil
}

func (p *SinglePendulum) SetSensorsData(t float64, q, v, a []float64, uMotor []float64) error {
	return nil
}

func (p *SinglePendulum) ConfigurationDerivative(q, v []float64) ([]float64, error) {
	return []float64{v[0]}, nil
}

func (p *SinglePendulum) ABA(q, v, u []float64, fExt map[int]engine.SpatialForce, rotorInertia []float64, gravity engine.Vec3) ([]float64, error) {
	inertia := p.Mass*p.Length*p.Length + rotorInertia[0]
	extTorque := fExt[0].Angular[2]
	alpha := (-p.Damping*v[0] - p.Mass*(-gravity[2])*p.Length*math.Sin(q[0]) + u[0] + extTorque) / inertia
	return []float64{alpha}, nil
}

func (p *SinglePendulum) KineticEnergy(q, v []float64) float64 {
	return 0.5 * p.Mass * p.Length * p.Length * v[0] * v[0]
}

func (p *SinglePendulum) PotentialEnergy(q []float64) float64 {
	return -p.Mass * 9.81 * p.Length * math.Cos(q[0])
}

var _ engine.Model = (*SinglePendulum)(nil)
