package model

import (
	"math"
	"testing"

	"github.com/jiminy-core/jiminy/internal/engine"
)

func TestDoublePendulum_HangingStraightDownIsEquilibrium(t *testing.T) {
	d := NewDoublePendulum()
	q := []float64{0, 0}
	v := []float64{0, 0}
	a, err := d.ABA(q, v, []float64{0}, map[int]engine.SpatialForce{}, []float64{0, 0}, engine.Vec3{0, 0, -9.81})
	if err != nil {
		t.Fatalf("ABA: %v", err)
	}
	if math.Abs(a[0]) > 1e-9 || math.Abs(a[1]) > 1e-9 {
		t.Errorf("expected zero acceleration at the hanging equilibrium, got %v", a)
	}
}

func TestDoublePendulum_EnergyConservedUnderSymplecticEuler(t *testing.T) {
	d := NewDoublePendulum()
	q := []float64{0.4, -0.2}
	v := []float64{0, 0}

	e0 := d.KineticEnergy(q, v) + d.PotentialEnergy(q)

	dt := 1e-4
	for i := 0; i < 20000; i++ {
		a, err := d.ABA(q, v, []float64{0}, map[int]engine.SpatialForce{}, []float64{0, 0}, engine.Vec3{0, 0, -9.81})
		if err != nil {
			t.Fatalf("ABA: %v", err)
		}
		v[0] += dt * a[0]
		v[1] += dt * a[1]
		q[0] += dt * v[0]
		q[1] += dt * v[1]
	}

	e1 := d.KineticEnergy(q, v) + d.PotentialEnergy(q)
	drift := math.Abs(e1-e0) / math.Abs(e0)
	if drift > 1e-2 {
		t.Errorf("energy drifted too much under semi-implicit integration: %e", drift)
	}
}

func TestDoublePendulum_RotorInertiaReducesAcceleration(t *testing.T) {
	d := NewDoublePendulum()
	q := []float64{0.3, 0}
	v := []float64{0, 0}

	aNoRotor, err := d.ABA(q, v, []float64{0}, map[int]engine.SpatialForce{}, []float64{0, 0}, engine.Vec3{0, 0, -9.81})
	if err != nil {
		t.Fatalf("ABA: %v", err)
	}
	aWithRotor, err := d.ABA(q, v, []float64{0}, map[int]engine.SpatialForce{}, []float64{5.0, 0}, engine.Vec3{0, 0, -9.81})
	if err != nil {
		t.Fatalf("ABA: %v", err)
	}
	if math.Abs(aWithRotor[0]) >= math.Abs(aNoRotor[0]) {
		t.Errorf("expected added rotor inertia to reduce joint-1 acceleration magnitude: no-rotor=%v with-rotor=%v", aNoRotor[0], aWithRotor[0])
	}
}

var _ engine.Model = (*DoublePendulum)(nil)
