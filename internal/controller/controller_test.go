package controller

import "testing"

func TestNone_CommandsZero(t *testing.T) {
	c := NewNone(2)
	uCmd := []float64{1, 1}
	if err := c.ComputeCommand(0, nil, nil, uCmd); err != nil {
		t.Fatalf("ComputeCommand: %v", err)
	}
	if uCmd[0] != 0 || uCmd[1] != 0 {
		t.Errorf("expected zero command, got %v", uCmd)
	}
}

func TestConstant_CommandsFixedTorque(t *testing.T) {
	c := NewConstant([]float64{2.5})
	uCmd := []float64{0}
	if err := c.ComputeCommand(0, nil, nil, uCmd); err != nil {
		t.Fatalf("ComputeCommand: %v", err)
	}
	if uCmd[0] != 2.5 {
		t.Errorf("expected constant torque 2.5, got %v", uCmd[0])
	}
}

func TestPID_DrivesErrorTowardZero(t *testing.T) {
	c := NewPID(10, 0, 0, 1.0)
	uCmd := []float64{0}

	q := []float64{0}
	if err := c.ComputeCommand(0, q, []float64{0}, uCmd); err != nil {
		t.Fatalf("ComputeCommand: %v", err)
	}
	first := uCmd[0]

	q = []float64{0.9}
	if err := c.ComputeCommand(0.1, q, []float64{0}, uCmd); err != nil {
		t.Fatalf("ComputeCommand: %v", err)
	}
	second := uCmd[0]

	if second >= first {
		t.Errorf("expected command to shrink as the tracked state approaches target: first=%v second=%v", first, second)
	}
}

func TestPID_ResetClearsIntegrator(t *testing.T) {
	c := NewPID(1, 1, 0, 1.0)
	uCmd := []float64{0}
	_ = c.ComputeCommand(0, []float64{0}, []float64{0}, uCmd)
	_ = c.ComputeCommand(1, []float64{0.5}, []float64{0}, uCmd)
	if c.integral == 0 {
		t.Fatal("expected integral to accumulate before reset")
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if c.integral != 0 || !c.first {
		t.Errorf("expected Reset to clear integrator state, got integral=%v first=%v", c.integral, c.first)
	}
}
