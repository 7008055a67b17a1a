package engine

import "testing"

func TestDefaultOptions_Valid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options should validate: %v", err)
	}
}

func TestValidate_UnknownSolver(t *testing.T) {
	opts := DefaultOptions()
	opts.Stepper.ODESolver = "bogus"
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for unknown solver")
	}
}

func TestValidate_DtMaxOutOfRange(t *testing.T) {
	opts := DefaultOptions()
	opts.Stepper.DtMax = 1.0
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for dt_max above upper bound")
	}
	opts.Stepper.DtMax = 1e-9
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for dt_max below lower bound")
	}
}

func TestValidate_PeriodsMustDivide(t *testing.T) {
	opts := DefaultOptions()
	opts.Stepper.SensorsUpdatePeriod = 0.01
	opts.Stepper.ControllerUpdatePeriod = 0.015
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for non-dividing periods")
	}

	opts.Stepper.ControllerUpdatePeriod = 0.03
	if err := opts.Validate(); err != nil {
		t.Errorf("expected 0.03/0.01 to validate: %v", err)
	}
}

func TestParseOptions_EmptyKeepsDefaults(t *testing.T) {
	opts, err := ParseOptions(nil)
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opts.Stepper.ODESolver != SolverDopri5 {
		t.Errorf("expected default solver, got %s", opts.Stepper.ODESolver)
	}
}

func TestParseOptions_OverridesSubset(t *testing.T) {
	raw := []byte("stepper:\n  dt_max: 0.001\n")
	opts, err := ParseOptions(raw)
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if opts.Stepper.DtMax != 0.001 {
		t.Errorf("expected overridden dt_max, got %v", opts.Stepper.DtMax)
	}
	if opts.Stepper.TolAbs != DefaultOptions().Stepper.TolAbs {
		t.Errorf("expected unspecified fields to keep defaults")
	}
}
