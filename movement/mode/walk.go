package mode

import (
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/settings"
)

// Walk is the grounded movement mode. Damping is always active and the mover accelerates along
// the plane of the floor it last stood on.
type Walk struct {
	physics     movement.PhysicsProfile
	speed       float32
	sprintMult  float32
	jumpForce   float32
	transitions []movement.Transition
}

// NewWalk returns a Walk mode configured from s that evaluates the transitions passed in order.
func NewWalk(s settings.Settings, transitions ...movement.Transition) *Walk {
	return &Walk{
		physics: movement.PhysicsProfile{
			Damping:        s.Ground.Damping,
			Acceleration:   s.Ground.Acceleration,
			ReferenceSpeed: s.Ground.Speed,
			SlipSpeed:      s.Ground.SlipFactor,
		},
		speed:       s.Ground.Speed,
		sprintMult:  s.Movement.SprintSpeedMult,
		jumpForce:   s.Movement.JumpForce,
		transitions: transitions,
	}
}

func (*Walk) Name() string {
	return game.ModeWalk
}

func (w *Walk) Transitions() []movement.Transition {
	return w.transitions
}

func (w *Walk) GenerateMove(start movement.TickStartData, ts movement.TimeStep) movement.ProposedMove {
	dt := ts.Seconds()
	move := movement.ProposedMove{LinearVelocity: start.State.LinearVelocity}
	movement.ApplyDamping(w.physics, &move, dt)

	intent := applyIntent(start, dt, &move)
	dir, speed := moveInput(start.Input, intent, w.speed)
	if start.Input.SprintPressed {
		speed *= w.sprintMult
	}

	floorNormal := game.Up
	if f := start.State.Floor; f.Walkable && !game.IsNearlyZero(f.Normal) {
		floorNormal = f.Normal
	}
	dir = game.SafeNormal(game.VectorPlaneProject(dir, floorNormal))
	movement.ApplyAcceleration(w.physics, &move, dt, dir, speed)
	return move
}

func (w *Walk) SimulationTick(p *movement.SimulationTickParams, out *movement.TickEndData) {
	if tryTeleport(p, out) {
		return
	}

	if w.tryJump(p, out) {
		p.Tracer.Notify(movement.DebugModeMovementSim, true, "jump queued (force=%.2f)", w.jumpForce)
	}

	rec := movement.NewRecord(p.TimeStep.Seconds())
	orientation := targetOrientation(p)
	location, _ := sweepAndSlide(p, &rec, orientation)
	floor := queryFloor(p, location)
	if !floor.Walkable {
		// A jump has already asked for Air, which makes this a no-op.
		out.NextMode = game.ModeAir
	}
	captureFinalState(p, out, &rec, location, orientation)
}

// tryJump queues a jump impulse and leaves for Air if the input asks to jump.
func (w *Walk) tryJump(p *movement.SimulationTickParams, out *movement.TickEndData) bool {
	if !p.Start.Input.JumpPressed {
		return false
	}
	out.Moves.Queue(&movement.JumpImpulse{UpwardsSpeed: w.jumpForce})
	out.NextMode = game.ModeAir
	return true
}

var _ movement.Mode = (*Walk)(nil)
