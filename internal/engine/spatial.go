package engine

import "math"

// Vec3 is a 3-component Euclidean vector, used throughout the engine
// for frame positions, velocities, and force components.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}
func (v Vec3) Dot(o Vec3) float64 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n < 1e-14 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Mat3 is a row-major 3x3 rotation/inertia matrix.
type Mat3 [3]Vec3

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{m[0].Dot(v), m[1].Dot(v), m[2].Dot(v)}
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		{m[0][0], m[1][0], m[2][0]},
		{m[0][1], m[1][1], m[2][1]},
		{m[0][2], m[1][2], m[2][2]},
	}
}

func (m Mat3) Mul(o Mat3) Mat3 {
	ot := o.Transpose()
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i].Dot(ot[j])
		}
	}
	return r
}

// SpatialForce is a spatial force applied at a joint origin: linear
// force plus angular moment, both expressed in the joint frame.
type SpatialForce struct {
	Linear  Vec3
	Angular Vec3
}

func (f SpatialForce) Add(o SpatialForce) SpatialForce {
	return SpatialForce{Linear: f.Linear.Add(o.Linear), Angular: f.Angular.Add(o.Angular)}
}

// Quat is a unit quaternion (w, x, y, z) parameterizing free-flyer and
// flexible-joint orientation, per spec.md §3.
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat is the zero-rotation quaternion.
func IdentityQuat() Quat { return Quat{W: 1} }

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalized returns q scaled to unit norm; the identity quaternion is
// returned for a (numerically) zero quaternion rather than dividing by
// zero.
func (q Quat) Normalized() Quat {
	n := q.Norm()
	if n < 1e-14 {
		return IdentityQuat()
	}
	inv := 1 / n
	return Quat{q.W * inv, q.X * inv, q.Y * inv, q.Z * inv}
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Conj() Quat { return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z} }

// Log3 returns the axis-angle logarithm (axis, theta) of q such that
// Exp3(axis, theta) equals q up to sign, with axis a unit vector. Used by the
// internal-dynamics assembler (spec.md §4.C) to compute flexible-joint
// restoring torque from configuration.
func (q Quat) Log3() (axis Vec3, theta float64) {
	qn := q.Normalized()
	if qn.W < 0 {
		qn = Quat{-qn.W, -qn.X, -qn.Y, -qn.Z}
	}
	sinHalf := math.Sqrt(qn.X*qn.X + qn.Y*qn.Y + qn.Z*qn.Z)
	theta = 2 * math.Atan2(sinHalf, qn.W)
	if sinHalf < 1e-12 {
		return Vec3{}, 0
	}
	axis = Vec3{qn.X / sinHalf, qn.Y / sinHalf, qn.Z / sinHalf}
	return axis, theta
}

// Exp3 builds the quaternion corresponding to a rotation of theta
// radians about axis (assumed unit norm).
func Exp3(axis Vec3, theta float64) Quat {
	half := theta / 2
	s := math.Sin(half)
	return Quat{W: math.Cos(half), X: axis[0] * s, Y: axis[1] * s, Z: axis[2] * s}.Normalized()
}

// IntegrateQuat advances q by angular velocity omega (body frame, rad/s)
// over dt, staying on the manifold rather than integrating components.
// This is the configuration-derivative helper referenced in spec.md
// §4.A and design note "Quaternion subspace".
func IntegrateQuat(q Quat, omega Vec3, dt float64) Quat {
	theta := omega.Norm() * dt
	if theta < 1e-14 {
		return q
	}
	axis := omega.Normalized()
	dq := Exp3(axis, theta)
	return q.Mul(dq).Normalized()
}

// ToMat3 converts a unit quaternion to its rotation matrix.
func (q Quat) ToMat3() Mat3 {
	w, x, y, z := q.W, q.X, q.Y, q.Z
	return Mat3{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}
}
