package mode

import (
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/settings"
)

// Air is the airborne movement mode. Gravity is applied every tick and the mover returns to
// walking once it finds walkable ground beneath it.
type Air struct {
	physics     movement.PhysicsProfile
	speed       float32
	gravity     float32
	damped      bool
	transitions []movement.Transition
}

// NewAir returns an Air mode configured from s. s.Air.Model decides whether air drag is applied.
func NewAir(s settings.Settings, transitions ...movement.Transition) *Air {
	return &Air{
		physics: movement.PhysicsProfile{
			Damping:        s.Air.Damping,
			Acceleration:   s.Air.Acceleration,
			ReferenceSpeed: s.Air.Speed,
			SlipSpeed:      s.Ground.SlipFactor,
		},
		speed:       s.Air.Speed,
		gravity:     s.Air.Gravity,
		damped:      s.Air.Model == settings.AirModelDamping,
		transitions: transitions,
	}
}

func (*Air) Name() string {
	return game.ModeAir
}

func (a *Air) Transitions() []movement.Transition {
	return a.transitions
}

func (a *Air) GenerateMove(start movement.TickStartData, ts movement.TimeStep) movement.ProposedMove {
	dt := ts.Seconds()
	move := movement.ProposedMove{LinearVelocity: start.State.LinearVelocity}
	if a.damped {
		movement.ApplyDamping(a.physics, &move, dt)
	}

	intent := applyIntent(start, dt, &move)
	dir, speed := moveInput(start.Input, intent, a.speed)
	movement.ApplyAcceleration(a.physics, &move, dt, dir, speed)

	move.LinearVelocity = move.LinearVelocity.Sub(game.Up.Mul(a.gravity * dt))
	return move
}

func (a *Air) SimulationTick(p *movement.SimulationTickParams, out *movement.TickEndData) {
	if tryTeleport(p, out) {
		return
	}

	rec := movement.NewRecord(p.TimeStep.Seconds())
	orientation := targetOrientation(p)
	location, hit := sweepAndSlide(p, &rec, orientation)
	floor := queryFloor(p, location)
	if floor.Walkable {
		p.Env.HandleImpact(movement.Impact{Mode: a.Name(), Hit: hit, Velocity: p.Move.LinearVelocity})
		out.NextMode = game.ModeWalk
	}
	captureFinalState(p, out, &rec, location, orientation)
}

var _ movement.Mode = (*Air)(nil)
