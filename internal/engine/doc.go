// Package engine implements the jiminy-core simulation engine: the
// time-stepping orchestrator that drives an ODE integrator over a
// rigid-multibody state, coordinates discrete sensor/controller/impulse
// breakpoints with the continuous integrator, assembles the dynamics
// right-hand side, and emits a timestamped telemetry log.
//
// The engine does not parse URDF models or implement motor/sensor
// physics itself — those are external collaborators reached through
// the [Model] and [Controller] contracts declared in this package, with
// reference implementations in
// [github.com/jiminy-core/jiminy/internal/model] and
// [github.com/jiminy-core/jiminy/internal/controller]. This
// package is the hard part: breakpoint scheduling, Kahan-compensated
// time accumulation, step-failure recovery, and the disciplined
// evaluation order that keeps sensor measurements and torques mutually
// consistent within one right-hand-side evaluation.
//
// # Lifecycle
//
//	e := engine.New(mdl, ctrl)
//	if err := e.SetOptions(opts); err != nil { ... }
//	if err := e.Start(x0); err != nil { ... }
//	for e.Time() < tEnd {
//	    if err := e.Step(-1); err != nil { break }
//	}
//	e.Stop()
//
// [Engine.Simulate] wraps this loop and additionally accepts a
// per-breakpoint callback used to interrupt the run early.
package engine
