package model

import (
	"testing"

	"github.com/jiminy-core/jiminy/internal/engine"
)

func TestFreeFallBody_ABAMatchesGravity(t *testing.T) {
	b := NewFreeFallBody(2.0)
	q := []float64{0, 0, 10}
	v := []float64{0, 0, 0}
	if err := b.ForwardKinematics(q, v); err != nil {
		t.Fatalf("ForwardKinematics: %v", err)
	}
	a, err := b.ABA(q, v, nil, map[int]engine.SpatialForce{}, nil, engine.Vec3{0, 0, -9.81})
	if err != nil {
		t.Fatalf("ABA: %v", err)
	}
	if a[2] != -9.81 {
		t.Errorf("expected free-fall acceleration -9.81, got %v", a[2])
	}
}

func TestFreeFallBody_LockUnlock(t *testing.T) {
	b := NewFreeFallBody(1.0)
	if err := b.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if err := b.Lock(); err == nil {
		t.Fatal("expected second Lock to fail while held")
	}
	b.Unlock()
	if err := b.Lock(); err != nil {
		t.Fatalf("Lock after Unlock: %v", err)
	}
}

func TestFreeFallBody_KineticAndPotentialEnergy(t *testing.T) {
	b := NewFreeFallBody(1.0)
	q := []float64{0, 0, 5}
	v := []float64{0, 0, -2}
	ke := b.KineticEnergy(q, v)
	pe := b.PotentialEnergy(q)
	if ke != 2.0 {
		t.Errorf("expected KE=2.0 (0.5*1*2^2), got %v", ke)
	}
	mass, g, z := 1.0, 9.81, 5.0
	if want := mass * g * z; pe != want {
		t.Errorf("expected PE=m*g*z=49.05, got %v", pe)
	}
}
