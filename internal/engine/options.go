package engine

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Solver names accepted by StepperOptions.ODESolver (spec.md §6).
const (
	SolverDopri5 = "runge_kutta_dopri5"
	SolverEuler  = "explicit_euler"
)

// MinStepperTimestep and MinSimulationTimestep are the two floors from
// spec.md §3/§4.G: the smallest gap between two accepted stepper times,
// and the smallest step/duration the orchestrator will act on.
const (
	MinStepperTimestep    = 1e-12
	MinSimulationTimestep = 1e-6
	dtMaxLowerBound       = 1e-6
	dtMaxUpperBound       = 5e-3
	epsBreakpoint         = 1e-9 // EPS of spec.md §4.G
)

// StepperOptions groups the ODE-stepper knobs (spec.md §6 "stepper").
type StepperOptions struct {
	Verbose                 bool    `yaml:"verbose"`
	RandomSeed              uint32  `yaml:"random_seed"`
	ODESolver               string  `yaml:"ode_solver"`
	TolAbs                  float64 `yaml:"tol_abs"`
	TolRel                  float64 `yaml:"tol_rel"`
	DtMax                   float64 `yaml:"dt_max"`
	IterMax                 int32   `yaml:"iter_max"`
	SensorsUpdatePeriod     float64 `yaml:"sensors_update_period"`
	ControllerUpdatePeriod  float64 `yaml:"controller_update_period"`
	LogInternalStepperSteps bool    `yaml:"log_internal_stepper_steps"`
}

// WorldOptions groups world-level knobs (spec.md §6 "world").
type WorldOptions struct {
	Gravity       [6]float64        `yaml:"gravity"`
	GroundProfile GroundProfileFunc `yaml:"-"`
}

// JointOptions groups joint-limit spring/damper knobs (spec.md §6 "joints").
// internalDynamics receives them but does not read them: the limit
// springs use the Stiffness, Damping and BoundTransitionEps of each
// model-supplied PositionLimit.
type JointOptions struct {
	BoundStiffness     float64 `yaml:"bound_stiffness"`
	BoundDamping       float64 `yaml:"bound_damping"`
	BoundTransitionEps float64 `yaml:"bound_transition_eps"`
}

// ContactOptions groups ground-contact model knobs (spec.md §6 "contacts").
type ContactOptions struct {
	FrictionViscous  float64 `yaml:"friction_viscous"`
	FrictionDry      float64 `yaml:"friction_dry"`
	DryFrictionVelEps float64 `yaml:"dry_friction_vel_eps"`
	Stiffness        float64 `yaml:"stiffness"`
	Damping          float64 `yaml:"damping"`
	TransitionEps    float64 `yaml:"transition_eps"`
}

// TelemetryOptions selects which fixed telemetry groups to record
// (spec.md §6 "telemetry").
type TelemetryOptions struct {
	EnableConfiguration bool `yaml:"enable_configuration"`
	EnableVelocity      bool `yaml:"enable_velocity"`
	EnableAcceleration  bool `yaml:"enable_acceleration"`
	EnableTorque        bool `yaml:"enable_torque"`
	EnableEnergy        bool `yaml:"enable_energy"`
}

// Options is the strongly-typed materialization of the engine's
// loosely-typed on-the-wire option holder (spec.md §9 "Option holders").
// [ParseOptions] decodes the wire (YAML) shape into this struct.
type Options struct {
	Stepper   StepperOptions   `yaml:"stepper"`
	World     WorldOptions     `yaml:"world"`
	Joints    JointOptions     `yaml:"joints"`
	Contacts  ContactOptions   `yaml:"contacts"`
	Telemetry TelemetryOptions `yaml:"telemetry"`
}

// DefaultOptions returns the engine's default option set.
func DefaultOptions() Options {
	return Options{
		Stepper: StepperOptions{
			ODESolver:              SolverDopri5,
			TolAbs:                 1e-5,
			TolRel:                 1e-4,
			DtMax:                  3e-3,
			IterMax:                0,
			SensorsUpdatePeriod:    0,
			ControllerUpdatePeriod: 0,
		},
		World: WorldOptions{
			Gravity:       [6]float64{0, 0, -9.81, 0, 0, 0},
			GroundProfile: FlatGround,
		},
		Joints: JointOptions{
			BoundStiffness:     1e5,
			BoundDamping:       1e4,
			BoundTransitionEps: 0,
		},
		Contacts: ContactOptions{
			FrictionViscous:   0.8,
			FrictionDry:       1.0,
			DryFrictionVelEps: 1e-2,
			Stiffness:         1e6,
			Damping:           2e3,
			TransitionEps:     0,
		},
		Telemetry: TelemetryOptions{
			EnableConfiguration: true,
			EnableVelocity:      true,
			EnableAcceleration:  false,
			EnableTorque:        true,
			EnableEnergy:        true,
		},
	}
}

// ParseOptions decodes a raw YAML document (the loosely-typed wire
// shape) into a strongly-typed Options, starting from DefaultOptions so
// unspecified fields keep their defaults.
func ParseOptions(raw []byte) (Options, error) {
	opts := DefaultOptions()
	if len(raw) == 0 {
		return opts, nil
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	return opts, nil
}

// Validate checks the bad-input rules of spec.md §7/§8 and returns
// ErrBadInput without mutating anything on failure.
func (o Options) Validate() error {
	switch o.Stepper.ODESolver {
	case SolverDopri5, SolverEuler:
	default:
		return fmt.Errorf("%w: unknown ode_solver %q", ErrBadInput, o.Stepper.ODESolver)
	}

	if o.Stepper.DtMax < dtMaxLowerBound || o.Stepper.DtMax > dtMaxUpperBound {
		return fmt.Errorf("%w: dt_max %.3g outside [%.3g, %.3g]", ErrBadInput, o.Stepper.DtMax, dtMaxLowerBound, dtMaxUpperBound)
	}

	if o.Stepper.SensorsUpdatePeriod < 0 {
		return fmt.Errorf("%w: sensors_update_period must be >= 0", ErrBadInput)
	}
	if o.Stepper.ControllerUpdatePeriod < 0 {
		return fmt.Errorf("%w: controller_update_period must be >= 0", ErrBadInput)
	}

	if o.Stepper.SensorsUpdatePeriod > 0 && o.Stepper.ControllerUpdatePeriod > 0 {
		lo, hi := o.Stepper.SensorsUpdatePeriod, o.Stepper.ControllerUpdatePeriod
		if lo > hi {
			lo, hi = hi, lo
		}
		ratio := hi / lo
		if diff := ratio - roundNearest(ratio); absf(diff) > epsMachine {
			return fmt.Errorf("%w: sensors_update_period and controller_update_period must divide one another to within EPS", ErrBadInput)
		}
	}

	if o.Contacts.DryFrictionVelEps < 0 {
		return fmt.Errorf("%w: dry_friction_vel_eps must be >= 0", ErrBadInput)
	}
	if o.Contacts.TransitionEps < 0 {
		return fmt.Errorf("%w: transition_eps must be >= 0", ErrBadInput)
	}

	return nil
}

const epsMachine = 2.220446049250313e-16

func roundNearest(x float64) float64 {
	if x < 0 {
		return -roundNearest(-x)
	}
	i := float64(int64(x))
	if x-i >= 0.5 {
		return i + 1
	}
	return i
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
