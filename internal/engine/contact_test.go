package engine

import "testing"

func TestContactForce_NoContactAboveGround(t *testing.T) {
	fp := FramePlacement{Position: Vec3{0, 0, 1}, Rotation: Identity3(), RotationInJoint: Identity3()}
	fv := FrameVelocity{}
	f := contactForce(fp, fv, FlatGround, DefaultOptions().Contacts)
	if f.Linear != (Vec3{}) {
		t.Errorf("expected zero force above ground, got %v", f.Linear)
	}
}

func TestContactForce_PenetratingPushesUp(t *testing.T) {
	fp := FramePlacement{Position: Vec3{0, 0, -0.01}, Rotation: Identity3(), RotationInJoint: Identity3()}
	fv := FrameVelocity{Linear: Vec3{0, 0, -0.1}}
	opts := DefaultOptions().Contacts
	f := contactForce(fp, fv, FlatGround, opts)
	if f.Linear[2] <= 0 {
		t.Errorf("expected an upward (+z) reaction force while penetrating, got %v", f.Linear)
	}
}

func TestFrictionCoefficient_MonotoneBelowVelEps(t *testing.T) {
	opts := DefaultOptions().Contacts
	lo := frictionCoefficient(0.1*opts.DryFrictionVelEps, opts)
	hi := frictionCoefficient(0.9*opts.DryFrictionVelEps, opts)
	if hi <= lo {
		t.Errorf("expected friction coefficient to increase with speed below velEps: lo=%v hi=%v", lo, hi)
	}
}

func TestFrictionCoefficient_ZeroVelEpsIsPureViscous(t *testing.T) {
	opts := DefaultOptions().Contacts
	opts.DryFrictionVelEps = 0
	if got := frictionCoefficient(5.0, opts); got != opts.FrictionViscous {
		t.Errorf("expected viscous coefficient with zero velEps, got %v", got)
	}
}
