package engine

import "testing"

// TestForceSchedule_ImpulseActiveOnlyWithinInterval exercises the impulse
// timing contract of spec.md §4.E/§8: a registered impulse [t, t+dt] must
// be visible to the RHS exactly on that closed interval, and absent
// immediately before and after it.
func TestForceSchedule_ImpulseActiveOnlyWithinInterval(t *testing.T) {
	fs := newForceSchedule()
	fs.registerImpulse(forceImpulse{FrameName: "body", FrameIndex: 0, T: 0.5, Dt: 0.01, F: SpatialForce{Linear: Vec3{0, 0, 100}}})

	cases := []struct {
		t    float64
		want bool
	}{
		{0.499, false},
		{0.5, true},
		{0.505, true},
		{0.51, true},
		{0.511, false},
	}
	for _, c := range cases {
		fs.advance(c.t)
		_, got := fs.active(c.t)
		if got != c.want {
			t.Errorf("active(%v) = %v, want %v", c.t, got, c.want)
		}
	}
}

// TestForceSchedule_CursorAdvancesPastElapsedImpulses checks that once an
// impulse's interval has fully elapsed the cursor moves on so a later,
// non-overlapping impulse still activates (spec.md §4.E cursor advance).
func TestForceSchedule_CursorAdvancesPastElapsedImpulses(t *testing.T) {
	fs := newForceSchedule()
	fs.registerImpulse(forceImpulse{FrameName: "a", T: 0.1, Dt: 0.01})
	fs.registerImpulse(forceImpulse{FrameName: "b", T: 0.5, Dt: 0.01})

	fs.advance(0.3)
	if _, ok := fs.active(0.3); ok {
		t.Fatal("expected no active impulse between the two intervals")
	}

	fs.advance(0.505)
	imp, ok := fs.active(0.505)
	if !ok || imp.FrameName != "b" {
		t.Fatalf("expected impulse %q active at t=0.505, got %+v ok=%v", "b", imp, ok)
	}
}

// trackingSensorModel records the timestamps at which SetSensorsData is
// invoked, alongside a fakeFreeFall's dynamics.
type trackingSensorModel struct {
	fakeFreeFall
	sensorTimes []float64
}

func (m *trackingSensorModel) SetSensorsData(t float64, q, v, a []float64, uMotor []float64) error {
	m.sensorTimes = append(m.sensorTimes, t)
	return nil
}

// trackingController records the timestamps at which ComputeCommand is
// invoked and otherwise commands zero torque.
type trackingController struct {
	controllerTimes []float64
}

func (c *trackingController) ComputeCommand(t float64, q, v, uCmd []float64) error {
	c.controllerTimes = append(c.controllerTimes, t)
	for i := range uCmd {
		uCmd[i] = 0
	}
	return nil
}
func (c *trackingController) InternalDynamics(t float64, q, v, uInternal []float64) error { return nil }
func (c *trackingController) Reset() error                                                { return nil }

// TestSensorControllerPeriods_SensorTimesAreSubsetOfControllerTimes
// verifies spec.md §8's sensor/controller period consistency property:
// when the two periods evenly divide one another, every timestamp at
// which sensors were refreshed is also a timestamp at which the
// controller was refreshed.
func TestSensorControllerPeriods_SensorTimesAreSubsetOfControllerTimes(t *testing.T) {
	mdl := &trackingSensorModel{fakeFreeFall: *newFakeFreeFall()}
	ctrl := &trackingController{}
	eng := New(mdl, ctrl)

	opts := DefaultOptions()
	opts.Stepper.SensorsUpdatePeriod = 0.02
	opts.Stepper.ControllerUpdatePeriod = 0.01
	opts.Stepper.DtMax = 0.005
	if err := eng.SetOptions(opts); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}

	x0 := []float64{0, 0, 10, 0, 0, 0}
	if err := eng.Start(x0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 200; i++ {
		if err := eng.Step(-1); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
	}
	eng.Stop()

	if len(mdl.sensorTimes) == 0 {
		t.Fatal("expected at least one sensor refresh")
	}
	controllerSet := make(map[float64]bool, len(ctrl.controllerTimes))
	for _, ct := range ctrl.controllerTimes {
		controllerSet[ct] = true
	}
	for _, st := range mdl.sensorTimes {
		if !controllerSet[st] {
			t.Errorf("sensor refresh at t=%v has no matching controller refresh", st)
		}
	}
}
