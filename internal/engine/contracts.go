package engine

// This file declares the external collaborator contracts consumed by
// the engine (spec.md §6): Model, Controller, and the small value
// types their methods exchange. URDF parsing, motor force laws, sensor
// readouts, and the user control law are all out of scope for this
// module (spec.md §1) — only the interface the engine talks to lives
// here. Concrete implementations live in
// github.com/jiminy-core/jiminy/internal/model and .../internal/controller.

// QuaternionSlot locates a free-flyer or flexible-joint quaternion
// within a model's configuration/velocity vectors: q[QIndex:QIndex+4]
// is the unit quaternion, v[VIndex:VIndex+3] is the corresponding
// angular velocity expressed in the joint frame.
type QuaternionSlot struct {
	QIndex int
	VIndex int
}

// Motor is the subset of a model's motor collaborator the engine needs
// directly: its velocity-index mapping and rotor inertia used in the
// ABA rotor-inertia correction (spec.md §4.D.8).
type Motor struct {
	Name             string
	Idx              int
	JointVelocityIdx int
	RotorInertia     float64
}

// ContactFrame is a frame declared on the model at which unilateral
// ground contact is evaluated (spec.md glossary).
type ContactFrame struct {
	Name       string
	FrameIndex int
}

// FramePlacement is the world-frame pose of a frame, plus the data
// needed to move a world force onto the parent joint origin
// (spec.md §4.B).
type FramePlacement struct {
	Position        Vec3
	Rotation        Mat3
	RotationInJoint Mat3
	PositionInJoint Vec3
	ParentJointIdx  int
}

// FrameVelocity is a frame's spatial velocity, linear part expressed
// in world orientation.
type FrameVelocity struct {
	Linear  Vec3
	Angular Vec3
}

// FlexibleJoint describes a virtual spherical joint inserted to model
// structural compliance (spec.md glossary, §4.C).
type FlexibleJoint struct {
	VIndex    int // velocity index of the joint's 3 angular DoFs
	QIndex    int // configuration index of the joint's quaternion
	Stiffness Vec3
	Damping   Vec3
}

// PositionLimit configures the joint-limit and velocity-limit springs
// of spec.md §4.C for a single rigid (non-quaternion) DoF.
type PositionLimit struct {
	QIndex             int
	VIndex             int
	QMin, QMax         float64
	VMax               float64
	Stiffness, Damping float64
	// BoundTransitionEps, when > 0, smooths the spring/damper onset
	// (spec.md §4.C); 0 disables smoothing.
	BoundTransitionEps float64
}

// GroundProfileFunc reports ground height and outward unit normal at a
// world position (spec.md §4.B, §6).
type GroundProfileFunc func(pos Vec3) (height float64, normal Vec3)

// FlatGround is the trivial ground profile at height zero with normal +z.
func FlatGround(_ Vec3) (float64, Vec3) {
	return 0, Vec3{0, 0, 1}
}

// Model is the kinematic/dynamic collaborator contract consumed by the
// engine's dynamics RHS (spec.md §4.D) and telemetry front (§4.H).
//
// Implementations own forward kinematics, the articulated-body inertia
// (ABA), and the sensor snapshot; the engine never reaches into a
// URDF/kinematic tree directly.
type Model interface {
	NQ() int
	NV() int
	NX() int

	// Motors returns the model's motor collaborators, in registration order.
	Motors() []Motor

	// ContactFrames returns the model's declared contact frames.
	ContactFrames() []ContactFrame

	// QuaternionSlots reports which (q, v) index pairs hold a unit
	// quaternion (free-flyer base, flexible spherical joints).
	QuaternionSlots() []QuaternionSlot

	// FlexibleJoints returns the flexible spherical joints for the
	// internal-dynamics assembler (spec.md §4.C).
	FlexibleJoints() []FlexibleJoint

	// PositionLimitedJoints returns per-DoF position/velocity limit
	// configuration for the internal-dynamics assembler (spec.md §4.C).
	PositionLimitedJoints() []PositionLimit

	// ForwardKinematics recomputes frame placements/velocities from
	// (q, v). Must be called before FramePlacement/FrameVelocity.
	ForwardKinematics(q, v []float64) error

	// FramePlacement returns the world pose of the given frame index,
	// valid after the most recent ForwardKinematics call.
	FramePlacement(frameIdx int) FramePlacement

	// FrameVelocity returns the given frame's world-oriented spatial
	// velocity, valid after the most recent ForwardKinematics call.
	FrameVelocity(frameIdx int) FrameVelocity

	// ComputeMotorsTorques aggregates the motor force law: given the
	// last-known/-computed (t, q, v, a) and controller command, it
	// returns per-motor torque uMotor (spec.md §4.D.5).
	ComputeMotorsTorques(t float64, q, v, a []float64, uCmd []float64) ([]float64, error)

	// SetSensorsData pushes a sensor snapshot for (t, q, v, a, uMotor)
	// (spec.md §4.D.3).
	SetSensorsData(t float64, q, v, a []float64, uMotor []float64) error

	// ABA computes the articulated-body forward dynamics v̇ from
	// (q, v, u, fExt, gravity), applying the rotor-inertia correction
	// of spec.md §4.D.8 for the given per-velocity-index rotor inertias.
	ABA(q, v, u []float64, fExt map[int]SpatialForce, rotorInertia []float64, gravity Vec3) ([]float64, error)

	// ConfigurationDerivative computes q̇ on the integration manifold
	// from (q, v) — componentwise for ordinary DoFs, via the
	// quaternion exponential map for QuaternionSlots (spec.md §4.A, §9).
	ConfigurationDerivative(q, v []float64) ([]float64, error)

	// RenormalizeQuaternions projects the quaternion slices of q back
	// to unit norm (spec.md §9, recommended post-step renormalization).
	RenormalizeQuaternions(q []float64)

	// Lock acquires the model's structural-mutation lock for the
	// duration of a simulation (spec.md §5); Unlock releases it.
	Lock() error
	Unlock()

	// FieldNames returns the model's named telemetry fields. The engine
	// does not read it and registers no columns from it; a model adds
	// telemetry columns only by implementing TelemetryRegisterable.
	FieldNames() []string
}

// Controller is the user control-law collaborator contract (spec.md §6).
type Controller interface {
	// ComputeCommand fills uCmd (len == number of motors) from (t, q, v).
	ComputeCommand(t float64, q, v []float64, uCmd []float64) error

	// InternalDynamics adds open-loop passive terms to uInternal
	// (len == nv), called first by the internal-dynamics assembler
	// (spec.md §4.C).
	InternalDynamics(t float64, q, v []float64, uInternal []float64) error

	// Reset restores controller-internal state (e.g. PID integrators)
	// at the start of a new simulation.
	Reset() error
}

// TelemetryRegisterable is optionally implemented by a Model or
// Controller to register/push additional named telemetry entries
// (spec.md §4.H, SPEC_FULL.md §4).
type TelemetryRegisterable interface {
	ConfigureTelemetry(t *Telemetry) error
	UpdateTelemetry()
}
