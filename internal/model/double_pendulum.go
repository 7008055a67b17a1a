package model

import (
	"math"

	"github.com/jiminy-core/jiminy/internal/engine"
)

// DoublePendulum is a planar two-link chain with a single motor at the
// shoulder joint, grounded on the teacher's
// internal/models/double_pendulum.go closed-form equations of motion —
// rewritten here as an explicit mass-matrix solve so the ABA
// rotor-inertia correction (spec.md §4.D.8) and generalized external
// forces (spec.md §4.D.2) both fold in naturally, and so
// KineticEnergy/PotentialEnergy can back the energy-conservation
// invariant of spec.md §8.
type DoublePendulum struct {
	locker
	noExtras

	M1, M2  float64
	L1, L2  float64
	Gravity float64

	fp [2]engine.FramePlacement
	fv [2]engine.FrameVelocity
}

// NewDoublePendulum returns a double pendulum with unit masses and
// unit link lengths under standard gravity.
func NewDoublePendulum() *DoublePendulum {
	d := &DoublePendulum{M1: 1, M2: 1, L1: 1, L2: 1, Gravity: 9.81}
	for i := range d.fp {
		d.fp[i].Rotation = engine.Identity3()
		d.fp[i].RotationInJoint = engine.Identity3()
		d.fp[i].ParentJointIdx = i
	}
	return d
}

func (d *DoublePendulum) NQ() int { return 2 }
func (d *DoublePendulum) NV() int { return 2 }
func (d *DoublePendulum) NX() int { return 4 }

func (d *DoublePendulum) FieldNames() []string { return []string{"theta1", "theta2"} }

func (d *DoublePendulum) Motors() []engine.Motor {
	return []engine.Motor{{Name: "shoulder", Idx: 0, JointVelocityIdx: 0, RotorInertia: 0}}
}

func (d *DoublePendulum) ForwardKinematics(q, v []float64) error {
	theta1, theta2 := q[0], q[1]
	omega1, omega2 := v[0], v[1]

	c1, s1 := math.Cos(theta1), math.Sin(theta1)
	c2, s2 := math.Cos(theta2), math.Sin(theta2)

	d.fp[0].Position = engine.Vec3{d.L1 * s1, -d.L1 * c1, 0}
	d.fp[0].Rotation = engine.Mat3{{c1, -s1, 0}, {s1, c1, 0}, {0, 0, 1}}
	d.fv[0].Angular = engine.Vec3{0, 0, omega1}
	d.fv[0].Linear = engine.Vec3{d.L1 * c1 * omega1, d.L1 * s1 * omega1, 0}

	x2 := d.fp[0].Position[0] + d.L2*s2
	y2 := d.fp[0].Position[1] - d.L2*c2
	d.fp[1].Position = engine.Vec3{x2, y2, 0}
	d.fp[1].Rotation = engine.Mat3{{c2, -s2, 0}, {s2, c2, 0}, {0, 0, 1}}
	d.fv[1].Angular = engine.Vec3{0, 0, omega2}
	d.fv[1].Linear = engine.Vec3{
		d.fv[0].Linear[0] + d.L2*c2*omega2,
		d.fv[0].Linear[1] + d.L2*s2*omega2,
		0,
	}
	return nil
}

func (d *DoublePendulum) FramePlacement(frameIdx int) engine.FramePlacement { return d.fp[frameIdx] }
func (d *DoublePendulum) FrameVelocity(frameIdx int) engine.FrameVelocity  { return d.fv[frameIdx] }

func (d *DoublePendulum) ComputeMotorsTorques(t float64, q, v, a []float64, uCmd []float64) ([]float64, error) {
	return []float64{uCmd[0]}, nil
}

func (d *DoublePendulum) SetSensorsData(t float64, q, v, a []float64, uMotor []float64) error {
	return nil
}

func (d *DoublePendulum) ConfigurationDerivative(q, v []float64) ([]float64, error) {
	return []float64{v[0], v[1]}, nil
}

// ABA solves M(q)·alpha = Q - C(q,v) - G(q) for the standard planar
// double-pendulum mass matrix, rotor inertia added to the diagonal and
// external generalized torque taken from each joint's Angular Z
// component of fExt.
func (d *DoublePendulum) ABA(q, v, u []float64, fExt map[int]engine.SpatialForce, rotorInertia []float64, gravity engine.Vec3) ([]float64, error) {
	theta1, theta2 := q[0], q[1]
	omega1, omega2 := v[0], v[1]
	m1, m2, l1, l2 := d.M1, d.M2, d.L1, d.L2
	g := -gravity[2]

	delta := theta1 - theta2
	cosD, sinD := math.Cos(delta), math.Sin(delta)

	m11 := (m1+m2)*l1*l1 + rotorInertia[0]
	m12 := m2 * l1 * l2 * cosD
	m21 := m12
	m22 := m2*l2*l2 + rotorInertia[1]

	c1 := m2 * l1 * l2 * omega2 * omega2 * sinD
	c2 := -m2 * l1 * l2 * omega1 * omega1 * sinD

	g1 := (m1 + m2) * g * l1 * math.Sin(theta1)
	g2 := m2 * g * l2 * math.Sin(theta2)

	q1 := u[0] + fExt[0].Angular[2] - c1 - g1
	q2 := fExt[1].Angular[2] - c2 - g2

	det := m11*m22 - m12*m21
	if math.Abs(det) < 1e-12 {
		return nil, ErrSingularMassMatrix
	}

	alpha1 := (m22*q1 - m12*q2) / det
	alpha2 := (m11*q2 - m21*q1) / det

	return []float64{alpha1, alpha2}, nil
}

func (d *DoublePendulum) KineticEnergy(q, v []float64) float64 {
	theta1, theta2, omega1, omega2 := q[0], q[1], v[0], v[1]
	m1, m2, l1, l2 := d.M1, d.M2, d.L1, d.L2

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := l1*l1*omega1*omega1 + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	return 0.5*m1*v1sq + 0.5*m2*v2sq
}

func (d *DoublePendulum) PotentialEnergy(q []float64) float64 {
	theta1, theta2 := q[0], q[1]
	y1 := -d.L1 * math.Cos(theta1)
	y2 := y1 - d.L2*math.Cos(theta2)
	return d.M1*d.Gravity*y1 + d.M2*d.Gravity*y2
}

var _ engine.Model = (*DoublePendulum)(nil)
