package engine

import "testing"

// fakeFreeFall is a minimal engine.Model used only by this package's
// tests: translational point mass, no motors, no contacts.
type fakeFreeFall struct {
	mass   float64
	locked bool
	fp     FramePlacement
	fv     FrameVelocity
}

func newFakeFreeFall() *fakeFreeFall {
	return &fakeFreeFall{mass: 1.0, fp: FramePlacement{Rotation: Identity3(), RotationInJoint: Identity3()}}
}

func (m *fakeFreeFall) NQ() int                                { return 3 }
func (m *fakeFreeFall) NV() int                                { return 3 }
func (m *fakeFreeFall) NX() int                                { return 6 }
func (m *fakeFreeFall) Motors() []Motor                        { return nil }
func (m *fakeFreeFall) ContactFrames() []ContactFrame          { return nil }
func (m *fakeFreeFall) QuaternionSlots() []QuaternionSlot      { return nil }
func (m *fakeFreeFall) FlexibleJoints() []FlexibleJoint        { return nil }
func (m *fakeFreeFall) PositionLimitedJoints() []PositionLimit { return nil }
func (m *fakeFreeFall) RenormalizeQuaternions(q []float64)     {}
func (m *fakeFreeFall) FieldNames() []string                   { return nil }

func (m *fakeFreeFall) ForwardKinematics(q, v []float64) error {
	m.fp.Position = Vec3{q[0], q[1], q[2]}
	m.fv.Linear = Vec3{v[0], v[1], v[2]}
	return nil
}

func (m *fakeFreeFall) FramePlacement(frameIdx int) FramePlacement { return m.fp }
func (m *fakeFreeFall) FrameVelocity(frameIdx int) FrameVelocity  { return m.fv }

func (m *fakeFreeFall) ComputeMotorsTorques(t float64, q, v, a []float64, uCmd []float64) ([]float64, error) {
	return nil, nil
}

func (m *fakeFreeFall) SetSensorsData(t float64, q, v, a []float64, uMotor []float64) error {
	return nil
}

func (m *fakeFreeFall) ConfigurationDerivative(q, v []float64) ([]float64, error) {
	return []float64{v[0], v[1], v[2]}, nil
}

func (m *fakeFreeFall) ABA(q, v, u []float64, fExt map[int]SpatialForce, rotorInertia []float64, gravity Vec3) ([]float64, error) {
	f := fExt[0]
	return []float64{
		gravity[0] + f.Linear[0]/m.mass,
		gravity[1] + f.Linear[1]/m.mass,
		gravity[2] + f.Linear[2]/m.mass,
	}, nil
}

func (m *fakeFreeFall) Lock() error {
	if m.locked {
		return ErrAlreadyRunning
	}
	m.locked = true
	return nil
}

func (m *fakeFreeFall) Unlock() { m.locked = false }

// fakeNoneController commands zero torque and does nothing else.
type fakeNoneController struct{}

func (fakeNoneController) ComputeCommand(t float64, q, v, uCmd []float64) error { return nil }
func (fakeNoneController) InternalDynamics(t float64, q, v, uInternal []float64) error {
	return nil
}
func (fakeNoneController) Reset() error { return nil }

func TestEngine_StartStepStop(t *testing.T) {
	mdl := newFakeFreeFall()
	eng := New(mdl, fakeNoneController{})

	x0 := []float64{0, 0, 10, 0, 0, 0}
	if err := eng.Start(x0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !eng.IsRunning() {
		t.Fatal("expected running after Start")
	}

	for i := 0; i < 50; i++ {
		if err := eng.Step(-1); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}

	if eng.Time() <= 0 {
		t.Errorf("expected time to advance, got %v", eng.Time())
	}
	if mdl.fp.Position[2] >= 10 {
		t.Errorf("expected body to have fallen, z=%v", mdl.fp.Position[2])
	}

	eng.Stop()
	if eng.IsRunning() {
		t.Fatal("expected not running after Stop")
	}
}

func TestEngine_SetOptionsRejectedWhileRunning(t *testing.T) {
	mdl := newFakeFreeFall()
	eng := New(mdl, fakeNoneController{})
	if err := eng.Start([]float64{0, 0, 1, 0, 0, 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer eng.Stop()

	if err := eng.SetOptions(DefaultOptions()); err == nil {
		t.Fatal("expected SetOptions to be rejected while running")
	}
}

func TestEngine_RegisterForceRejectedWhileRunning(t *testing.T) {
	mdl := newFakeFreeFall()
	eng := New(mdl, fakeNoneController{})
	if err := eng.Start([]float64{0, 0, 1, 0, 0, 0}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer eng.Stop()

	if err := eng.RegisterForceImpulse("body", 0, 0.1, 0.1, Vec3{}); err == nil {
		t.Fatal("expected RegisterForceImpulse to be rejected while running")
	}
}

func TestEngine_SimulateIterMax(t *testing.T) {
	mdl := newFakeFreeFall()
	eng := New(mdl, fakeNoneController{})
	opts := DefaultOptions()
	opts.Stepper.IterMax = 10
	opts.Stepper.DtMax = 1e-3
	if err := eng.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	x0 := []float64{0, 0, 100, 0, 0, 0}
	if err := eng.Simulate(1000.0, x0, nil); err != nil {
		t.Fatalf("Simulate: %v", err)
	}
}

func TestEngine_LogRoundTrip(t *testing.T) {
	mdl := newFakeFreeFall()
	eng := New(mdl, fakeNoneController{})

	x0 := []float64{0, 0, 10, 0, 0, 0}
	if err := eng.Start(x0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 20; i++ {
		if err := eng.Step(-1); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	eng.Stop()

	header, matrix := eng.GetLogData()
	if len(matrix) == 0 {
		t.Fatal("expected recorded telemetry rows")
	}

	path := t.TempDir() + "/log.bin"
	if err := eng.WriteLogBinary(path); err != nil {
		t.Fatalf("WriteLogBinary: %v", err)
	}

	gotHeader, gotMatrix, err := ParseLogBinary(path)
	if err != nil {
		t.Fatalf("ParseLogBinary: %v", err)
	}
	if len(gotHeader.FloatNames) != len(header.FloatNames) {
		t.Errorf("float column count mismatch: got %d want %d", len(gotHeader.FloatNames), len(header.FloatNames))
	}
	if len(gotMatrix) != len(matrix) {
		t.Errorf("record count mismatch: got %d want %d", len(gotMatrix), len(matrix))
	}
}
