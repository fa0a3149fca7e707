package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Up is the world up axis. Positions and velocities are Z-up; rotators are stored as
// {pitch, yaw, roll} in degrees.
var Up = mgl32.Vec3{0, 0, 1}

// Forward is the local forward axis of an unrotated rotator.
var Forward = mgl32.Vec3{1, 0, 0}

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec32ApproxEq returns true if every component of a and b is within 1e-5 of each other.
func Vec32ApproxEq(a, b mgl32.Vec3) bool {
	return Float32ApproxEq(a.X(), b.X()) && Float32ApproxEq(a.Y(), b.Y()) && Float32ApproxEq(a.Z(), b.Z())
}

// IsNearlyZero returns true if the squared length of v is under VectorEpsilon.
func IsNearlyZero(v mgl32.Vec3) bool {
	return v.LenSqr() <= VectorEpsilon
}

// SafeNormal returns v normalized, or a zero vector if v is too small to normalize.
func SafeNormal(v mgl32.Vec3) mgl32.Vec3 {
	if IsNearlyZero(v) {
		return mgl32.Vec3{}
	}
	return v.Normalize()
}

// VectorPlaneProject removes the component of v along the plane normal n. n must be normalized.
func VectorPlaneProject(v, n mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(n.Mul(v.Dot(n)))
}

// NormalizeToRange maps v from [min, max] to [0, 1] without clamping. A degenerate range
// returns 0 for values below it and 1 otherwise.
func NormalizeToRange(v, min, max float32) float32 {
	if min == max {
		if v < min {
			return 0
		}
		return 1
	}
	return (v - min) / (max - min)
}

// WrapYawDelta wraps an angle in degrees into (-180, 180].
func WrapYawDelta(delta float32) float32 {
	delta = math32.Mod(delta, 360)
	if delta > 180 {
		delta -= 360
	} else if delta <= -180 {
		delta += 360
	}
	return delta
}

// NormalizeRotator wraps every axis of a rotator into (-180, 180].
func NormalizeRotator(r mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{WrapYawDelta(r[0]), WrapYawDelta(r[1]), WrapYawDelta(r[2])}
}

// RotatorFromDirection returns the rotator that points Forward along dir. Roll is always zero.
func RotatorFromDirection(dir mgl32.Vec3) mgl32.Vec3 {
	if IsNearlyZero(dir) {
		return mgl32.Vec3{}
	}
	hz := math32.Sqrt(dir.X()*dir.X() + dir.Y()*dir.Y())
	return mgl32.Vec3{
		mgl32.RadToDeg(math32.Atan2(dir.Z(), hz)),
		mgl32.RadToDeg(math32.Atan2(dir.Y(), dir.X())),
		0,
	}
}

// YawOnly returns r with its pitch and roll zeroed.
func YawOnly(r mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{0, r[1], 0}
}

// RotatorQuat converts a {pitch, yaw, roll} rotator into a quaternion. Roll is applied first,
// then pitch, then yaw.
func RotatorQuat(r mgl32.Vec3) mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(r[1]), Up)
	pitch := mgl32.QuatRotate(mgl32.DegToRad(-r[0]), mgl32.Vec3{0, 1, 0})
	roll := mgl32.QuatRotate(mgl32.DegToRad(r[2]), Forward)
	return yaw.Mul(pitch).Mul(roll)
}

// RotateVector rotates v by the rotator r.
func RotateVector(r, v mgl32.Vec3) mgl32.Vec3 {
	return RotatorQuat(r).Rotate(v)
}

// DirectionVector returns the forward direction of a rotator.
func DirectionVector(r mgl32.Vec3) mgl32.Vec3 {
	yawRad, pitchRad := mgl32.DegToRad(r[1]), mgl32.DegToRad(r[0])
	m := math32.Cos(pitchRad)
	return mgl32.Vec3{
		m * math32.Cos(yawRad),
		m * math32.Sin(yawRad),
		math32.Sin(pitchRad),
	}
}
