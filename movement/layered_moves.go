package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
)

// Names of the built-in layered moves.
const (
	LayeredMoveJump     = "jump_impulse"
	LayeredMoveCrouch   = "crouch"
	LayeredMoveTeleport = "teleport"
	LayeredMoveOverride = "override"
)

// JumpImpulse adds an upward velocity for a single tick.
type JumpImpulse struct {
	UpwardsSpeed float32
}

func (*JumpImpulse) Name() string        { return LayeredMoveJump }
func (*JumpImpulse) MixMode() MixMode    { return MixModeAdditive }
func (*JumpImpulse) DurationMs() float32 { return 0 }

func (j *JumpImpulse) GenerateMove(_ TickStartData, _ TimeStep, out *ProposedMove) bool {
	out.LinearVelocity = game.Up.Mul(j.UpwardsSpeed)
	return true
}

func (*JumpImpulse) Finished(TickStartData) bool { return false }

func (j *JumpImpulse) Clone() LayeredMove {
	c := *j
	return &c
}

// Crouch overrides the velocity with the previous tick's velocity scaled by SpeedMult. With a
// negative duration it lasts until crouch is released.
type Crouch struct {
	SpeedMult float32
	Duration  float32
}

// NewCrouch returns a crouch lasting durationMs. A negative duration lasts until crouch is released.
func NewCrouch(speedMult, durationMs float32) *Crouch {
	return &Crouch{SpeedMult: speedMult, Duration: durationMs}
}

func (*Crouch) Name() string          { return LayeredMoveCrouch }
func (*Crouch) MixMode() MixMode      { return MixModeOverrideVelocity }
func (c *Crouch) DurationMs() float32 { return c.Duration }

func (c *Crouch) GenerateMove(start TickStartData, _ TimeStep, out *ProposedMove) bool {
	out.LinearVelocity = start.State.LinearVelocity.Mul(c.SpeedMult)
	return true
}

func (*Crouch) Finished(start TickStartData) bool {
	return !start.Input.CrouchPressed
}

func (c *Crouch) Clone() LayeredMove {
	cl := *c
	return &cl
}

// Teleport moves the mover to Target on the next tick, refunding the tick's time.
type Teleport struct {
	Target mgl32.Vec3
}

func (*Teleport) Name() string        { return LayeredMoveTeleport }
func (*Teleport) MixMode() MixMode    { return MixModeAdditive }
func (*Teleport) DurationMs() float32 { return 0 }

func (t *Teleport) GenerateMove(_ TickStartData, _ TimeStep, out *ProposedMove) bool {
	out.TargetLocation = t.Target
	out.HasTargetLocation = true
	return true
}

func (*Teleport) Finished(TickStartData) bool { return false }

func (t *Teleport) Clone() LayeredMove {
	c := *t
	return &c
}

// Override replaces the velocity of the proposed move with a fixed velocity for DurationMs.
type Override struct {
	Velocity mgl32.Vec3
	Angular  mgl32.Vec3
	Mix      MixMode
	Duration float32
}

func (*Override) Name() string          { return LayeredMoveOverride }
func (o *Override) MixMode() MixMode    { return o.Mix }
func (o *Override) DurationMs() float32 { return o.Duration }

func (o *Override) GenerateMove(_ TickStartData, _ TimeStep, out *ProposedMove) bool {
	out.LinearVelocity = o.Velocity
	out.AngularVelocity = o.Angular
	return true
}

func (*Override) Finished(TickStartData) bool { return false }

func (o *Override) Clone() LayeredMove {
	c := *o
	return &c
}
