package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
)

// PhysicsProfile holds the tunables a mode uses to shape its velocity.
type PhysicsProfile struct {
	// Damping is the drag coefficient applied at full drag.
	Damping float32
	// Acceleration scales how quickly the desired speed is reached.
	Acceleration float32
	// ReferenceSpeed is the speed at which drag reaches its full strength.
	ReferenceSpeed float32
	// SlipSpeed is the lowest speed drag is computed for, so slow movers still come to rest.
	SlipSpeed float32
}

// ApplyDamping slows the linear velocity of move down. The drag factor scales with
// max(SlipSpeed, speed) normalized against ReferenceSpeed and is clamped to [0, 1], as is the
// total fraction of velocity removed in one step. Speeds below game.SpeedEpsilon are left alone.
func ApplyDamping(p PhysicsProfile, move *ProposedMove, dt float32) {
	speed := move.LinearVelocity.Len()
	if speed < game.SpeedEpsilon || dt <= 0 || p.Damping <= 0 {
		return
	}
	dragFactor := mgl32.Clamp(game.NormalizeToRange(max(p.SlipSpeed, speed), 0, p.ReferenceSpeed), 0, 1)
	loss := mgl32.Clamp(p.Damping*dragFactor*dt, 0, 1)
	move.LinearVelocity = move.LinearVelocity.Sub(move.LinearVelocity.Mul(loss))
}

// ApplyAcceleration accelerates move along dir towards desiredSpeed. Only the speed missing along
// dir is made up, so the velocity projected on dir never passes desiredSpeed by more than the
// increment of a single step. A non-positive desired speed leaves the move untouched.
func ApplyAcceleration(p PhysicsProfile, move *ProposedMove, dt float32, dir mgl32.Vec3, desiredSpeed float32) {
	if desiredSpeed <= 0 || dt <= 0 || game.IsNearlyZero(dir) {
		return
	}
	accel := desiredSpeed * p.Acceleration * dt
	missing := max(desiredSpeed-move.LinearVelocity.Dot(dir), 0)
	move.LinearVelocity = move.LinearVelocity.Add(dir.Mul(accel * (missing / desiredSpeed)))
}

// ComputeAngularVelocity returns the angular velocity, in degrees per second per axis, that turns
// from towards to in dt seconds along the shortest arc. Each axis is clamped to turnRateLimit
// unless the limit is negative.
func ComputeAngularVelocity(from, to mgl32.Vec3, dt, turnRateLimit float32) mgl32.Vec3 {
	if dt <= 0 {
		return mgl32.Vec3{}
	}
	delta := game.NormalizeRotator(to.Sub(from))
	vel := delta.Mul(1 / dt)
	if turnRateLimit >= 0 {
		for i := range vel {
			vel[i] = mgl32.Clamp(vel[i], -turnRateLimit, turnRateLimit)
		}
	}
	return vel
}

// IntegrateOrientation returns the orientation reached after turning at angularVel for dt seconds.
func IntegrateOrientation(orientation, angularVel mgl32.Vec3, dt float32) mgl32.Vec3 {
	return game.NormalizeRotator(orientation.Add(angularVel.Mul(dt)))
}
