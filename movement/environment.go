package movement

import "github.com/go-gl/mathgl/mgl32"

// Environment is the collision world a mover moves through. Queries must only depend on their
// arguments and the world's static geometry so that re-simulating a tick gives the same result.
type Environment interface {
	// SweepAndMove sweeps the capsule from a location along delta and returns where it stopped.
	SweepAndMove(c Capsule, from, delta, orientation mgl32.Vec3) HitResult
	// SlideAlongSurface moves the remaining fraction of delta along the plane of normal, starting at from.
	SlideAlongSurface(c Capsule, from, delta mgl32.Vec3, fraction float32, normal mgl32.Vec3) HitResult
	// FindFloor looks for ground up to sweepDistance below the capsule at location.
	FindFloor(c Capsule, location mgl32.Vec3, sweepDistance, maxWalkSlopeCosine float32) FloorResult
	// Teleport reports whether the capsule fits at location.
	Teleport(c Capsule, location, orientation mgl32.Vec3) bool
	// HandleImpact is notified when a mover lands or runs into something.
	HandleImpact(impact Impact)
}
