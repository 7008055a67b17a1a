// Package model provides example implementations of the engine's Model
// collaborator contract (spec.md §6): kinematics/dynamics, motors,
// contact frames, and sensor snapshotting. A full URDF-driven,
// Pinocchio-backed model is explicitly out of scope for jiminy-core
// (spec.md §1 Non-goals) — these are closed-form analytic reference
// bodies grounded on the teacher's internal/models and internal/physics
// packages (Pendulum, DoublePendulum, CoupledPendulums), reworked to
// speak the engine's ABA/ForwardKinematics/FramePlacement contract
// instead of returning a flat state derivative.
package model

import (
	"sync"

	"github.com/jiminy-core/jiminy/internal/engine"
)

// locker is embedded by every model in this package to satisfy
// engine.Model's Lock/Unlock: the engine holds the lock for the
// duration of a run so a second Start on the same model fails loudly
// instead of corrupting shared state.
type locker struct {
	mu     sync.Mutex
	locked bool
}

func (l *locker) Lock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		return engine.ErrAlreadyRunning
	}
	l.locked = true
	return nil
}

func (l *locker) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = false
}

// noExtras supplies empty contact frames, flexible joints,
// quaternion slots and position limits, so models need not repeat the
// empty-slice boilerplate; a model overrides the methods it needs
// (FreeFallBody declares its own contact frame).
type noExtras struct{}

func (noExtras) ContactFrames() []engine.ContactFrame           { return nil }
func (noExtras) QuaternionSlots() []engine.QuaternionSlot       { return nil }
func (noExtras) FlexibleJoints() []engine.FlexibleJoint         { return nil }
func (noExtras) PositionLimitedJoints() []engine.PositionLimit  { return nil }
func (noExtras) RenormalizeQuaternions(q []float64)             {}
