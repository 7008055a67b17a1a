package engine

import (
	"fmt"
	"math"
)

// Step is the step orchestrator of spec.md §4.G: it advances from the
// current t to t+stepSize, interleaving discrete sensor/controller
// breakpoints, the impulse horizon, and the continuous integrator, with
// Kahan-compensated time accumulation.
//
// stepSize < 0 (equivalently, < EPS) requests the default:
// controllerUpdatePeriod, else sensorsUpdatePeriod, else dtMax.
func (e *Engine) Step(stepSize float64) error {
	if !e.running {
		return ErrNotRunning
	}
	if !e.state.isValid() {
		return stepErr(e.state.iter, e.state.t, ErrInvalidState)
	}

	if stepSize < 0 || stepSize < epsBreakpoint {
		stepSize = e.defaultStepSize()
	} else if stepSize < MinSimulationTimestep {
		return fmt.Errorf("%w: stepSize %.3g below MinSimulationTimestep", ErrBadInput, stepSize)
	}

	stepSizeTrue := stepSize - e.state.tErr
	tEnd := e.state.t + stepSizeTrue
	e.state.tErr = (tEnd - e.state.t) - stepSizeTrue

	loggedInternal := false

	for tEnd-e.state.t > epsBreakpoint {
		if e.stepperUpdatePeriod > 0 {
			e.samplePeriodBreakpoints()
		}

		tForceNext := e.forces.nextHorizon(e.state.t, tEnd)

		var tNext float64
		if e.stepperUpdatePeriod > 0 {
			deltaU := offsetToNextPeriod(e.state.t, e.stepperUpdatePeriod)
			if deltaU < MinStepperTimestep {
				deltaU += e.stepperUpdatePeriod
			}
			dtNext := math.Min(deltaU, tForceNext-e.state.t)
			if tEnd-e.state.t-epsBreakpoint < dtNext {
				dtNext = tEnd - e.state.t
			}
			tNext = e.state.t + dtNext
		} else {
			dtNext := math.Min(e.opts.Stepper.DtMax, math.Min(tEnd-e.state.t, tForceNext-e.state.t))
			tNext = e.state.t + dtNext
		}

		for tNext-e.state.t > epsBreakpoint {
			dt := math.Min(e.state.dt, math.Min(tNext-e.state.t, e.opts.Stepper.DtMax))
			if tNext-e.state.t-dt < MinStepperTimestep {
				dt = tNext - e.state.t
			}

			tNew, xNew, dtNew, ok, err := e.variant.tryStep(e.computeRHS, e.state.x, e.state.t, dt)
			if err != nil {
				return stepErr(e.state.iter, e.state.t, err)
			}
			if !ok {
				e.state.fails++
				if e.state.fails > maxConsecutiveFailures {
					return stepErr(e.state.iter, e.state.t, ErrSolverFailed)
				}
				e.state.dt = dtNew
				continue
			}

			e.state.fails = 0
			e.state.dt = dtNew
			e.state.t = tNew
			copy(e.state.x, xNew)
			e.model.RenormalizeQuaternions(e.state.q())

			dxdt, err := e.computeRHS(tNew, e.state.x)
			if err != nil {
				return stepErr(e.state.iter, e.state.t, err)
			}
			copy(e.state.dxdt, dxdt)

			e.state.iter++
			e.state.snapshotLastAccepted()

			if e.opts.Stepper.LogInternalStepperSteps {
				e.pushTelemetrySnapshot()
				loggedInternal = true
			}
		}
	}

	e.state.t = tEnd // exact, prevents Kahan drift from leaking into the reported time
	if !loggedInternal {
		e.pushTelemetrySnapshot()
	}
	return nil
}

// Simulate runs Start(x0), steps until tEnd is reached, the callback
// returns false, or iterMax accepted steps have been taken, then Stop
// (spec.md §4.G "simulate").
func (e *Engine) Simulate(tEnd float64, x0 []float64, callback func(t float64, x []float64) bool) error {
	if err := e.Start(x0); err != nil {
		return err
	}
	defer e.Stop()

	period := e.stepperUpdatePeriod
	if period <= 0 {
		period = e.opts.Stepper.DtMax
	}

	for tEnd-e.state.t >= MinSimulationTimestep {
		stepSize := math.Min(period, tEnd-e.state.t)
		if err := e.Step(stepSize); err != nil {
			return err
		}
		if callback != nil && !callback(e.state.t, e.state.x) {
			return nil
		}
		if e.opts.Stepper.IterMax > 0 && int32(e.state.iter) >= e.opts.Stepper.IterMax {
			return nil
		}
	}
	return nil
}

func (e *Engine) defaultStepSize() float64 {
	if e.opts.Stepper.ControllerUpdatePeriod > 0 {
		return e.opts.Stepper.ControllerUpdatePeriod
	}
	if e.opts.Stepper.SensorsUpdatePeriod > 0 {
		return e.opts.Stepper.SensorsUpdatePeriod
	}
	return e.opts.Stepper.DtMax
}

// samplePeriodBreakpoints implements spec.md §4.G(a): fires the sensor
// and/or controller update when t sits within MinSimulationTimestep of
// a period boundary.
func (e *Engine) samplePeriodBreakpoints() {
	t := e.state.t
	period := e.opts.Stepper.SensorsUpdatePeriod
	if period > MinSimulationTimestep {
		delta := offsetToNextPeriod(t, period)
		if delta < MinSimulationTimestep || period-delta < MinSimulationTimestep {
			_ = e.model.SetSensorsData(t, e.state.q(), e.state.v(), e.state.last.a, e.state.last.uMotor)
		}
	}
	period = e.opts.Stepper.ControllerUpdatePeriod
	if period > MinSimulationTimestep {
		delta := offsetToNextPeriod(t, period)
		if delta < MinSimulationTimestep || period-delta < MinSimulationTimestep {
			_ = e.controller.ComputeCommand(t, e.state.q(), e.state.v(), e.state.uCommand)
		}
	}
}

func offsetToNextPeriod(t, period float64) float64 {
	return period - math.Mod(t, period)
}
