package engine

import "math"

// rhsFunc is the dynamics callable an integrator variant advances
// against: dX/dt = f(t, x).
type rhsFunc func(t float64, x []float64) ([]float64, error)

// stepper is the uniform try_step interface of spec.md §4.F. Both
// variants must accept a dynamics callable and must not mutate t on
// rejection.
type stepper interface {
	// tryStep attempts to advance from (t, x) by dt. On success it
	// returns the new (t', x', dt') — dt' may be enlarged for the next
	// attempt. On failure it returns ok=false and a reduced dt; t and x
	// are unchanged.
	tryStep(f rhsFunc, x []float64, t, dt float64) (tNew float64, xNew []float64, dtNew float64, ok bool, err error)
}

// newStepperVariant constructs the stepper named by StepperOptions.ODESolver.
func newStepperVariant(opts StepperOptions) (stepper, error) {
	switch opts.ODESolver {
	case SolverDopri5:
		return newDopri5(opts.TolAbs, opts.TolRel), nil
	case SolverEuler:
		return &explicitEuler{}, nil
	default:
		return nil, errBadSolver(opts.ODESolver)
	}
}

func errBadSolver(name string) error {
	return &namedError{msg: "unknown ode_solver " + name}
}

type namedError struct{ msg string }

func (e *namedError) Error() string { return e.msg }

// explicitEuler always succeeds: x += dt*f(t,x); t += dt (spec.md §4.F).
type explicitEuler struct{}

func (e *explicitEuler) tryStep(f rhsFunc, x []float64, t, dt float64) (float64, []float64, float64, bool, error) {
	dx, err := f(t, x)
	if err != nil {
		return t, nil, dt, false, err
	}
	xNew := make([]float64, len(x))
	for i := range x {
		xNew[i] = x[i] + dt*dx[i]
	}
	return t + dt, xNew, dt, true, nil
}

// dopri5 is the adaptive Dormand-Prince 5(4) variant of spec.md §4.F,
// grounded on the teacher's internal/integrators/rk45.go coefficients
// and error controller, generalized to a fallible RHS. The bound on
// consecutive rejections (maxConsecutiveFailures) is enforced by Step,
// not by this type.
type dopri5 struct {
	tolAbs, tolRel float64
	safety         float64
	minScale       float64
	maxScale       float64
}

func newDopri5(tolAbs, tolRel float64) *dopri5 {
	return &dopri5{
		tolAbs:   tolAbs,
		tolRel:   tolRel,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Dormand-Prince Butcher tableau coefficients.
var (
	dpA2 = 1.0 / 5.0
	dpA3 = 3.0 / 10.0
	dpA4 = 4.0 / 5.0
	dpA5 = 8.0 / 9.0

	dpB21 = 1.0 / 5.0
	dpB31 = 3.0 / 40.0
	dpB32 = 9.0 / 40.0
	dpB41 = 44.0 / 45.0
	dpB42 = -56.0 / 15.0
	dpB43 = 32.0 / 9.0
	dpB51 = 19372.0 / 6561.0
	dpB52 = -25360.0 / 2187.0
	dpB53 = 64448.0 / 6561.0
	dpB54 = -212.0 / 729.0
	dpB61 = 9017.0 / 3168.0
	dpB62 = -355.0 / 33.0
	dpB63 = 46732.0 / 5247.0
	dpB64 = 49.0 / 176.0
	dpB65 = -5103.0 / 18656.0

	dpC1 = 35.0 / 384.0
	dpC3 = 500.0 / 1113.0
	dpC4 = 125.0 / 192.0
	dpC5 = -2187.0 / 6784.0
	dpC6 = 11.0 / 84.0

	dpDc1 = dpC1 - 5179.0/57600.0
	dpDc3 = dpC3 - 7571.0/16695.0
	dpDc4 = dpC4 - 393.0/640.0
	dpDc5 = dpC5 - -92097.0/339200.0
	dpDc6 = dpC6 - 187.0/2100.0
	dpDc7 = -1.0 / 40.0
)

func (d *dopri5) tryStep(f rhsFunc, x []float64, t, dt float64) (float64, []float64, float64, bool, error) {
	n := len(x)

	k1, err := f(t, x)
	if err != nil {
		return t, nil, dt, false, err
	}

	x2 := make([]float64, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*dpB21*k1[i]
	}
	k2, err := f(t+dpA2*dt, x2)
	if err != nil {
		return t, nil, dt, false, err
	}

	x3 := make([]float64, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(dpB31*k1[i]+dpB32*k2[i])
	}
	k3, err := f(t+dpA3*dt, x3)
	if err != nil {
		return t, nil, dt, false, err
	}

	x4 := make([]float64, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(dpB41*k1[i]+dpB42*k2[i]+dpB43*k3[i])
	}
	k4, err := f(t+dpA4*dt, x4)
	if err != nil {
		return t, nil, dt, false, err
	}

	x5 := make([]float64, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(dpB51*k1[i]+dpB52*k2[i]+dpB53*k3[i]+dpB54*k4[i])
	}
	k5, err := f(t+dpA5*dt, x5)
	if err != nil {
		return t, nil, dt, false, err
	}

	x6 := make([]float64, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(dpB61*k1[i]+dpB62*k2[i]+dpB63*k3[i]+dpB64*k4[i]+dpB65*k5[i])
	}
	k6, err := f(t+dt, x6)
	if err != nil {
		return t, nil, dt, false, err
	}

	xNew := make([]float64, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(dpC1*k1[i]+dpC3*k3[i]+dpC4*k4[i]+dpC5*k5[i]+dpC6*k6[i])
	}
	k7, err := f(t+dt, xNew)
	if err != nil {
		return t, nil, dt, false, err
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := dt * (dpDc1*k1[i] + dpDc3*k3[i] + dpDc4*k4[i] + dpDc5*k5[i] + dpDc6*k6[i] + dpDc7*k7[i])
		scale := d.tolAbs + d.tolRel*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		if scale <= 0 {
			scale = d.tolAbs
		}
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}

	if errMax > 1 {
		scale := math.Max(d.minScale, d.safety*math.Pow(errMax, -0.25))
		return t, nil, dt * scale, false, nil
	}

	var dtNew float64
	if errMax > 0 {
		scale := math.Min(d.maxScale, d.safety*math.Pow(errMax, -0.2))
		dtNew = dt * scale
	} else {
		dtNew = dt * d.maxScale
	}

	return t + dt, xNew, dtNew, true, nil
}
