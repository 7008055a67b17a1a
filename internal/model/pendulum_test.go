package model

import (
	"math"
	"testing"

	"github.com/jiminy-core/jiminy/internal/engine"
)

func TestSinglePendulum_RestingAtBottomHasZeroAcceleration(t *testing.T) {
	p := NewSinglePendulum(1.0)
	q := []float64{0}
	v := []float64{0}
	if err := p.ForwardKinematics(q, v); err != nil {
		t.Fatalf("ForwardKinematics: %v", err)
	}
	a, err := p.ABA(q, v, []float64{0}, map[int]engine.SpatialForce{}, []float64{p.MotorInertia}, engine.Vec3{0, 0, -9.81})
	if err != nil {
		t.Fatalf("ABA: %v", err)
	}
	if math.Abs(a[0]) > 1e-9 {
		t.Errorf("expected zero acceleration at the stable equilibrium, got %v", a[0])
	}
}

func TestSinglePendulum_PositionLimitsRegistered(t *testing.T) {
	p := NewSinglePendulum(0.5)
	lims := p.PositionLimitedJoints()
	if len(lims) != 1 {
		t.Fatalf("expected 1 position limit, got %d", len(lims))
	}
	if lims[0].QMax != 0.5 || lims[0].QMin != -0.5 {
		t.Errorf("unexpected limit bounds: %+v", lims[0])
	}
}

func TestSinglePendulum_MotorTorqueIsCommand(t *testing.T) {
	p := NewSinglePendulum(1.0)
	u, err := p.ComputeMotorsTorques(0, []float64{0}, []float64{0}, []float64{0}, []float64{3.5})
	if err != nil {
		t.Fatalf("ComputeMotorsTorques: %v", err)
	}
	if u[0] != 3.5 {
		t.Errorf("expected motor torque to pass through command, got %v", u[0])
	}
}
