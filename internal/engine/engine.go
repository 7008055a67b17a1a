package engine

import (
	"fmt"
	"os"
)

// maxConsecutiveFailures bounds the adaptive stepper's rejection
// streak before the engine reports "low-level ODE solver failed"
// (spec.md §4.F, §7). Grounded on the original engine's
// MAX_ITER_FAILED constant (SPEC_FULL.md §4).
const maxConsecutiveFailures = 100

// Engine is component I of spec.md §4.I: the façade that owns
// lifecycle (initialize/reset/start/step/stop/simulate), options, and
// log retrieval. It exclusively owns the stepper-state buffers, the
// scheduled-force registers, and the telemetry recorder; it shares the
// model with the caller and, during a run, holds a scoped exclusive
// lock on it (spec.md §3 "Ownership").
type Engine struct {
	model      Model
	controller Controller

	opts        Options
	initialized bool
	running     bool

	state  *stepperState
	forces *forceSchedule

	telemetry *Telemetry
	tIdx      telemetryIndices

	variant                stepper
	rotorInertia           []float64
	stepperUpdatePeriod    float64 // min(nonzero(sensors, controller)), 0 if neither set
}

type telemetryIndices struct {
	q, v, a, uMotor []int
	energy          int
}

// New constructs an Engine bound to the given model and controller
// collaborators (spec.md §4.I "initialize").
func New(mdl Model, ctrl Controller) *Engine {
	return &Engine{
		model:      mdl,
		controller: ctrl,
		opts:       DefaultOptions(),
		state:      newStepperState(),
		forces:     newForceSchedule(),
	}
}

// SetOptions validates and installs a new option set. Rejected while a
// simulation is running, or if the options fail validation — in either
// case existing options are left untouched (spec.md §7, §8).
func (e *Engine) SetOptions(opts Options) error {
	if e.running {
		return ErrAlreadyRunning
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	e.opts = opts
	return nil
}

// GetOptions returns the current option set.
func (e *Engine) GetOptions() Options { return e.opts }

// RegisterForceImpulse schedules a constant world-frame force at
// frameIdx active over [t, t+dt] (spec.md §4.E, §4.I). Rejected while a
// simulation is running.
func (e *Engine) RegisterForceImpulse(frameName string, frameIdx int, t, dt float64, f Vec3) error {
	if e.running {
		return ErrAlreadyRunning
	}
	e.forces.registerImpulse(forceImpulse{
		FrameName: frameName, FrameIndex: frameIdx, T: t, Dt: dt,
		F: SpatialForce{Linear: f},
	})
	return nil
}

// RegisterForceProfile schedules an always-active, state-dependent
// world-frame force at frameIdx. Rejected while a simulation is running.
func (e *Engine) RegisterForceProfile(frameName string, frameIdx int, fn func(t float64, x []float64) SpatialForce) error {
	if e.running {
		return ErrAlreadyRunning
	}
	e.forces.registerProfile(forceProfile{FrameName: frameName, FrameIndex: frameIdx, Fn: fn})
	return nil
}

// Start binds x0, acquires the model's exclusive lock, configures
// telemetry, and emits the t=0 snapshot (spec.md §3 "Lifecycle").
func (e *Engine) Start(x0 []float64) error {
	if e.running {
		return ErrAlreadyRunning
	}

	if err := e.model.Lock(); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	dt0 := e.opts.Stepper.DtMax
	if err := e.state.initialize(e.model, x0, dt0); err != nil {
		e.model.Unlock()
		return err
	}

	variant, err := newStepperVariant(e.opts.Stepper)
	if err != nil {
		e.model.Unlock()
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	e.variant = variant

	e.rotorInertia = make([]float64, e.state.nv)
	for _, m := range e.model.Motors() {
		e.rotorInertia[m.JointVelocityIdx] = m.RotorInertia
	}

	e.stepperUpdatePeriod = minNonzero(e.opts.Stepper.SensorsUpdatePeriod, e.opts.Stepper.ControllerUpdatePeriod)

	if err := e.controller.Reset(); err != nil {
		e.model.Unlock()
		return err
	}

	e.setupTelemetry()

	e.running = true
	e.initialized = true

	// Emit the t=0 snapshot. This requires one RHS evaluation to
	// populate acceleration/torque telemetry fields.
	dxdt, err := e.computeRHS(0, e.state.x)
	if err != nil {
		e.running = false
		e.model.Unlock()
		return stepErr(0, 0, err)
	}
	copy(e.state.dxdt, dxdt)
	e.state.snapshotLastAccepted()
	e.pushTelemetrySnapshot()

	return nil
}

// Stop releases the model lock and freezes telemetry. Always safe to
// call; never itself returns an error that leaves the engine unusable
// (spec.md §7 "Errors never propagate across stop").
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	e.model.Unlock()
}

// Reset always calls Stop and resets the controller, the stepper state
// and the telemetry; optionally re-seeds the RNG and clears scheduled
// forces (spec.md §3 "Reset semantics"). The model is not reset: the
// Model contract has no reset method, so its internal state is kept.
func (e *Engine) Reset(resetRandomNumbers, resetDynamicForceRegister bool) error {
	e.Stop()
	if err := e.controller.Reset(); err != nil {
		return err
	}
	if resetDynamicForceRegister {
		e.forces.reset()
	}
	if resetRandomNumbers {
		seedGlobalRNG(e.opts.Stepper.RandomSeed)
	}
	e.state = newStepperState()
	e.telemetry = nil
	e.initialized = false
	return nil
}

// Time returns the current simulation time.
func (e *Engine) Time() float64 { return e.state.t }

// IsRunning reports whether the engine is between Start and Stop.
func (e *Engine) IsRunning() bool { return e.running }

// GetLogData returns the frozen telemetry header and the recorded
// matrix (spec.md §4.I).
func (e *Engine) GetLogData() (LogHeader, [][]float64) {
	if e.telemetry == nil {
		return LogHeader{}, nil
	}
	return e.telemetry.Header(), e.telemetry.Matrix()
}

// WriteLogBinary writes the telemetry log to path in the binary layout
// of spec.md §6.
func (e *Engine) WriteLogBinary(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.telemetry.WriteBinary(f)
}

// WriteLogText writes the telemetry log to path as CSV (spec.md §6).
func (e *Engine) WriteLogText(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return e.telemetry.WriteText(f)
}

func minNonzero(a, b float64) float64 {
	switch {
	case a <= 0 && b <= 0:
		return 0
	case a <= 0:
		return b
	case b <= 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}
