// Package controller provides example implementations of the engine's
// Controller collaborator contract (spec.md §6): the user control law
// the engine calls for commanded torque and open-loop passive terms.
// The controller itself is explicitly out of scope for jiminy-core
// (spec.md §1) — these are reference implementations used by the CLI
// through internal/scenario, grounded on the teacher's
// internal/controllers package (PID, LQR, None).
package controller

import "github.com/jiminy-core/jiminy/internal/engine"

// None issues zero command and no passive terms — the default when a
// scenario declares no controller.
type None struct{ dim int }

// NewNone returns a controller commanding dim motors to zero torque.
func NewNone(dim int) *None { return &None{dim: dim} }

func (n *None) ComputeCommand(t float64, q, v, uCmd []float64) error {
	for i := range uCmd {
		uCmd[i] = 0
	}
	return nil
}

func (n *None) InternalDynamics(t float64, q, v, uInternal []float64) error { return nil }

func (n *None) Reset() error { return nil }

var _ engine.Controller = (*None)(nil)

// Constant commands a fixed per-motor torque, used by the joint-limit
// spring end-to-end scenario (spec.md §8 scenario 3).
type Constant struct {
	Torque []float64
}

// NewConstant returns a controller that always commands torque.
func NewConstant(torque []float64) *Constant {
	return &Constant{Torque: append([]float64(nil), torque...)}
}

func (c *Constant) ComputeCommand(t float64, q, v, uCmd []float64) error {
	n := copy(uCmd, c.Torque)
	for i := n; i < len(uCmd); i++ {
		uCmd[i] = 0
	}
	return nil
}

func (c *Constant) InternalDynamics(t float64, q, v, uInternal []float64) error { return nil }

func (c *Constant) Reset() error { return nil }

var _ engine.Controller = (*Constant)(nil)

// PID is a single-motor proportional-integral-derivative controller
// tracking Target on q[0], grounded on the teacher's
// internal/controllers/pid.go.
type PID struct {
	Kp, Ki, Kd float64
	Target     float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

// NewPID returns a PID controller for a single-DoF, single-motor system.
func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd, Target: target, first: true}
}

func (p *PID) ComputeCommand(t float64, q, v, uCmd []float64) error {
	if len(uCmd) == 0 || len(q) == 0 {
		return nil
	}
	err := p.Target - q[0]

	if p.first {
		p.prevErr, p.prevT, p.first = err, t, false
		uCmd[0] = p.Kp * err
		return nil
	}

	dt := t - p.prevT
	if dt > 0 {
		p.integral += err * dt
		derivative := (err - p.prevErr) / dt
		uCmd[0] = p.Kp*err + p.Ki*p.integral + p.Kd*derivative
		p.prevErr, p.prevT = err, t
	} else {
		uCmd[0] = p.Kp * err
	}
	return nil
}

func (p *PID) InternalDynamics(t float64, q, v, uInternal []float64) error { return nil }

func (p *PID) Reset() error {
	p.integral, p.prevErr, p.prevT, p.first = 0, 0, 0, true
	return nil
}

var _ engine.Controller = (*PID)(nil)
