package engine

import (
	"errors"
	"fmt"
)

// These sentinel errors are the value-returned error taxonomy of spec.md §7. Library
// code never panics on an expected condition; it returns one of these,
// optionally wrapped in a [StepError] for time/iteration context.
var (
	// ErrGeneric covers "not initialized" / "already running" and other
	// conditions that leave engine state untouched.
	ErrGeneric = errors.New("engine: generic failure")

	// ErrBadInput is returned by SetOptions/Start for out-of-range or
	// inconsistent option values, before any side effect.
	ErrBadInput = errors.New("engine: bad input")

	// ErrInitFailed is returned by Start when the model's lock cannot
	// be acquired.
	ErrInitFailed = errors.New("engine: initialization failed")

	// ErrNotInitialized is a specific ErrGeneric cause for the
	// not-initialized condition. No function in this package returns it.
	ErrNotInitialized = fmt.Errorf("%w: not initialized", ErrGeneric)

	// ErrAlreadyRunning is a specific ErrGeneric cause returned by
	// SetOptions/registerForce* while a simulation is between Start and Stop.
	ErrAlreadyRunning = fmt.Errorf("%w: simulation already running", ErrGeneric)

	// ErrNotRunning is returned by Step when no simulation is active.
	ErrNotRunning = fmt.Errorf("%w: no simulation running", ErrGeneric)

	// ErrInvalidState is returned when NaN/Inf is detected in x at step entry.
	ErrInvalidState = fmt.Errorf("%w: state contains NaN or Inf", ErrGeneric)

	// ErrSolverFailed is returned when the low-level ODE solver exhausts
	// its consecutive-failure budget.
	ErrSolverFailed = fmt.Errorf("%w: low-level ODE solver failed", ErrGeneric)
)

// StepError wraps an error with the simulation time/iteration at which
// it occurred, mirroring the teacher's SimulationError context wrapper.
type StepError struct {
	Iter    uint32
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("engine: step %d (t=%.6f): %s", e.Iter, e.Time, e.Wrapped.Error())
}

func (e *StepError) Unwrap() error { return e.Wrapped }

func stepErr(iter uint32, t float64, err error) error {
	return &StepError{Iter: iter, Time: t, Wrapped: err}
}
