// Package scenario loads a simulation scenario — model choice, initial
// state, controller choice, and engine Options — from YAML, grounded on
// the teacher's internal/config package (Config/DefaultConfig/Load/Save).
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jiminy-core/jiminy/internal/controller"
	"github.com/jiminy-core/jiminy/internal/engine"
	"github.com/jiminy-core/jiminy/internal/model"
)

// Scenario is the on-disk description of a run: which reference model
// and controller to instantiate, their construction parameters, the
// initial state, the simulation horizon, and the engine's own Options
// (spec.md §6).
type Scenario struct {
	Model      string         `yaml:"model"`
	ModelParam ModelParams    `yaml:"model_params"`
	Controller string         `yaml:"controller"`
	PID        PIDParams      `yaml:"pid"`
	Torque     []float64      `yaml:"torque"`
	InitState  []float64      `yaml:"init_state"`
	Duration   float64        `yaml:"duration"`
	StepSize   float64        `yaml:"step_size"`
	Options    engine.Options `yaml:"options"`
}

// ModelParams collects the union of construction parameters across the
// reference models; only the fields relevant to Scenario.Model are read.
type ModelParams struct {
	Mass       float64 `yaml:"mass"`
	Length1    float64 `yaml:"length1"`
	Length2    float64 `yaml:"length2"`
	ThetaLimit float64 `yaml:"theta_limit"`
}

// PIDParams are the gains and setpoint for the "pid" controller.
type PIDParams struct {
	Kp     float64 `yaml:"kp"`
	Ki     float64 `yaml:"ki"`
	Kd     float64 `yaml:"kd"`
	Target float64 `yaml:"target"`
}

// DefaultScenario mirrors the engine's own option defaults with a
// single free-falling body over a 2-second horizon.
func DefaultScenario() *Scenario {
	return &Scenario{
		Model:      "freefall",
		ModelParam: ModelParams{Mass: 1.0, Length1: 1.0, Length2: 1.0, ThetaLimit: 1.0},
		Controller: "none",
		InitState:  []float64{0, 0, 1, 0, 0, 0},
		Duration:   2.0,
		StepSize:   -1,
		Options:    engine.DefaultOptions(),
	}
}

// Load reads and parses a scenario file, seeding unset fields from
// DefaultScenario so a scenario need only specify what it overrides.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScenario()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
	}
	return sc, nil
}

// Save writes sc to path as YAML.
func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// BuildModel instantiates the reference model named by sc.Model.
func (sc *Scenario) BuildModel() (engine.Model, error) {
	switch sc.Model {
	case "freefall":
		mass := sc.ModelParam.Mass
		if mass == 0 {
			mass = 1.0
		}
		return model.NewFreeFallBody(mass), nil
	case "pendulum":
		limit := sc.ModelParam.ThetaLimit
		if limit == 0 {
			limit = 1.0
		}
		return model.NewSinglePendulum(limit), nil
	case "double_pendulum":
		d := model.NewDoublePendulum()
		if sc.ModelParam.Mass != 0 {
			d.M1, d.M2 = sc.ModelParam.Mass, sc.ModelParam.Mass
		}
		if sc.ModelParam.Length1 != 0 {
			d.L1 = sc.ModelParam.Length1
		}
		if sc.ModelParam.Length2 != 0 {
			d.L2 = sc.ModelParam.Length2
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: unknown model %q", engine.ErrBadInput, sc.Model)
	}
}

// BuildController instantiates the controller named by sc.Controller.
// dim is the number of motors the chosen model exposes.
func (sc *Scenario) BuildController(dim int) (engine.Controller, error) {
	switch sc.Controller {
	case "", "none":
		return controller.NewNone(dim), nil
	case "constant":
		return controller.NewConstant(sc.Torque), nil
	case "pid":
		return controller.NewPID(sc.PID.Kp, sc.PID.Ki, sc.PID.Kd, sc.PID.Target), nil
	default:
		return nil, fmt.Errorf("%w: unknown controller %q", engine.ErrBadInput, sc.Controller)
	}
}
