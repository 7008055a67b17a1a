package model

import (
	"github.com/jiminy-core/jiminy/internal/engine"
)

// FreeFallBody is a single point mass with translational-only
// configuration (no orientation), one contact frame at its own origin,
// and no motors — the minimal body exercising the engine's contact
// model and dtMax-bounded free-running stepper (spec.md §8 scenario 1).
type FreeFallBody struct {
	locker
	noExtras

	Mass float64

	fp engine.FramePlacement
	fv engine.FrameVelocity
}

// NewFreeFallBody returns a free-falling point of the given mass.
func NewFreeFallBody(mass float64) *FreeFallBody {
	return &FreeFallBody{
		Mass: mass,
		fp: engine.FramePlacement{
			Rotation:        engine.Identity3(),
			RotationInJoint: engine.Identity3(),
		},
	}
}

func (b *FreeFallBody) NQ() int { return 3 }
func (b *FreeFallBody) NV() int { return 3 }
func (b *FreeFallBody) NX() int { return 6 }

func (b *FreeFallBody) Motors() []engine.Motor { return nil }

func (b *FreeFallBody) FieldNames() []string { return []string{"x", "y", "z"} }

func (b *FreeFallBody) ForwardKinematics(q, v []float64) error {
	b.fp.Position = engine.Vec3{q[0], q[1], q[2]}
	b.fv.Linear = engine.Vec3{v[0], v[1], v[2]}
	return nil
}

func (b *FreeFallBody) FramePlacement(frameIdx int) engine.FramePlacement { return b.fp }
func (b *FreeFallBody) FrameVelocity(frameIdx int) engine.FrameVelocity  { return b.fv }

func (b *FreeFallBody) ContactFrames() []engine.ContactFrame {
	return []engine.ContactFrame{{Name: "body", FrameIndex: 0}}
}

func (b *FreeFallBody) ComputeMotorsTorques(t float64, q, v, a []float64, uCmd []float64) ([]float64, error) {
	return nil, nil
}

func (b *FreeFallBody) SetSensorsData(t float64, q, v, a []float64, uMotor []float64) error {
	return nil
}

func (b *FreeFallBody) ConfigurationDerivative(q, v []float64) ([]float64, error) {
	return []float64{v[0], v[1], v[2]}, nil
}

func (b *FreeFallBody) ABA(q, v, u []float64, fExt map[int]engine.SpatialForce, rotorInertia []float64, gravity engine.Vec3) ([]float64, error) {
	f := fExt[0]
	return []float64{
		gravity[0] + f.Linear[0]/b.Mass,
		gravity[1] + f.Linear[1]/b.Mass,
		gravity[2] + f.Linear[2]/b.Mass,
	}, nil
}

func (b *FreeFallBody) KineticEnergy(q, v []float64) float64 {
	speedSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	return 0.5 * b.Mass * speedSq
}

func (b *FreeFallBody) PotentialEnergy(q []float64) float64 {
	return b.Mass * 9.81 * q[2]
}

var _ engine.Model = (*FreeFallBody)(nil)
