package mode

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
)

// tryTeleport applies the teleport requested by the proposed move, if any. It returns true if the
// teleport went through, in which case the whole step is refunded and nothing else should run.
func tryTeleport(p *movement.SimulationTickParams, out *movement.TickEndData) bool {
	if !p.Move.HasTargetLocation {
		return false
	}
	start := p.Start.State
	if !p.Env.Teleport(p.Capsule, p.Move.TargetLocation, start.Orientation) {
		p.Log.Debugf(game.DiagnosticTeleportFailed, p.Move.TargetLocation)
		return false
	}

	out.State.Position = p.Move.TargetLocation
	out.State.Orientation = start.Orientation
	out.State.LinearVelocity = start.LinearVelocity
	out.State.Floor = movement.FloorResult{}
	out.RemainingMs = p.TimeStep.StepMs
	out.Teleported = true
	p.Tracer.Notify(movement.DebugModeMovementSim, true, "teleport (newPos=%v)", out.State.Position)
	return true
}

// orientationIntent returns the yaw-only rotator the input wants the mover to face.
func orientationIntent(start movement.TickStartData) mgl32.Vec3 {
	if game.IsNearlyZero(start.Input.OrientationIntent) {
		return start.State.Orientation
	}
	return game.YawOnly(game.RotatorFromDirection(start.Input.OrientationIntent))
}

// applyIntent fills in the angular velocity and direction intent shared by every mode.
func applyIntent(start movement.TickStartData, dt float32, move *movement.ProposedMove) mgl32.Vec3 {
	intent := orientationIntent(start)
	move.AngularVelocity = movement.ComputeAngularVelocity(start.State.Orientation, intent, dt, game.TurningRateLimit)
	if !game.IsNearlyZero(start.Input.OrientationIntent) {
		move.DirectionIntent = start.Input.OrientationIntent.Normalize()
		move.HasDirectionIntent = true
	}
	return intent
}

// moveInput rotates the move input into the frame of the intent rotator and returns the
// direction to accelerate in along with the speed to accelerate towards.
func moveInput(in movement.InputSnapshot, intent mgl32.Vec3, maxSpeed float32) (mgl32.Vec3, float32) {
	ws := game.RotateVector(intent, in.MoveInput)
	if in.MoveInputType == movement.MoveInputVelocity {
		return game.SafeNormal(ws), min(ws.Len(), maxSpeed)
	}
	if ws.LenSqr() > 1 {
		ws = ws.Normalize()
	}
	return ws, maxSpeed
}

// targetOrientation returns the orientation reached by the end of the tick.
func targetOrientation(p *movement.SimulationTickParams) mgl32.Vec3 {
	start := p.Start.State
	if game.IsNearlyZero(p.Move.AngularVelocity) {
		return start.Orientation
	}
	return movement.IntegrateOrientation(start.Orientation, p.Move.AngularVelocity, p.TimeStep.Seconds())
}

// sweepAndSlide moves the capsule by the proposed velocity, sliding along whatever blocks it.
// It returns the final location and the first blocking hit, if any.
func sweepAndSlide(p *movement.SimulationTickParams, rec *movement.Record, orientation mgl32.Vec3) (mgl32.Vec3, movement.HitResult) {
	from := p.Start.State.Position
	delta := p.Move.LinearVelocity.Mul(p.TimeStep.Seconds())
	if game.IsNearlyZero(delta) {
		return from, movement.HitResult{Time: 1, Location: from}
	}

	hit := p.Env.SweepAndMove(p.Capsule, from, delta, orientation)
	rec.Append(hit.Location.Sub(from), true)
	loc := hit.Location
	if !hit.Blocking || hit.Time >= 1 {
		return loc, hit
	}

	p.Tracer.Notify(movement.DebugModeCollision, true, "blocked at t=%.4f normal=%v, sliding", hit.Time, hit.Normal)
	slide := p.Env.SlideAlongSurface(p.Capsule, loc, delta, 1-hit.Time, hit.Normal)
	rec.Append(slide.Location.Sub(loc), true)
	return slide.Location, hit
}

// queryFloor probes for ground under the capsule at location and stores the result in the tick's scratch.
func queryFloor(p *movement.SimulationTickParams, location mgl32.Vec3) movement.FloorResult {
	p.Scratch.InvalidateFloor()
	floor := p.Env.FindFloor(p.Capsule, location, game.FloorSweepDistance, game.MaxWalkSlopeCosine)
	p.Scratch.SetFloor(floor)
	p.Tracer.Notify(movement.DebugModeCollision, true, "floor blocking=%t walkable=%t dist=%.4f normal=%v", floor.Blocking, floor.Walkable, floor.Distance, floor.Normal)
	return floor
}

// captureFinalState writes the outcome of the tick into out. The velocity comes from what the
// record says actually happened, not from what was proposed, and the floor is whatever the tick
// last found.
func captureFinalState(p *movement.SimulationTickParams, out *movement.TickEndData, rec *movement.Record, location, orientation mgl32.Vec3) {
	proposed := p.Move.LinearVelocity.Mul(p.TimeStep.Seconds())
	p.Tracer.Notify(movement.DebugModeMovementSim, !game.Vec32ApproxEq(rec.TotalMove(), proposed), "deflected: moved %v of %v in %d sweeps", rec.TotalMove(), proposed, rec.MoveCount())

	out.State.Position = location
	out.State.Orientation = orientation
	out.State.LinearVelocity = rec.RelevantVelocity()
	out.State.AngularVelocity = p.Move.AngularVelocity
	out.State.MoveDirectionIntent = mgl32.Vec3{}
	if p.Move.HasDirectionIntent {
		out.State.MoveDirectionIntent = p.Move.DirectionIntent
	}
	out.State.Floor, _ = p.Scratch.Floor()
}
