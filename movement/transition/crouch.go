package transition

import (
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/settings"
)

// CrouchCheck watches for crouch requests. Crouching does not change modes unless switchesMode
// is set, in which case a crouch puts the mover into Walk and queues a crouch layered move that
// scales its velocity down until crouch is released.
type CrouchCheck struct {
	switchesMode bool
	speedMult    float32
	durationMs   float32
}

// NewCrouchCheck returns a CrouchCheck configured from s.
func NewCrouchCheck(s settings.Settings) *CrouchCheck {
	return &CrouchCheck{
		switchesMode: s.Movement.CrouchSwitchesMode,
		speedMult:    s.Movement.CrouchSpeedMult,
		durationMs:   s.Movement.CrouchDurationMs,
	}
}

func (*CrouchCheck) Name() string {
	return "crouch_check"
}

func (c *CrouchCheck) Evaluate(p *movement.SimulationTickParams, end *movement.TickEndData) movement.TransitionResult {
	if !p.Start.Input.CrouchPressed || !c.switchesMode {
		return movement.NoTransition
	}
	if end.Moves.Has(movement.LayeredMoveCrouch) {
		return movement.NoTransition
	}
	return movement.TransitionResult{NextMode: game.ModeWalk}
}

func (c *CrouchCheck) Trigger(p *movement.SimulationTickParams, end *movement.TickEndData) {
	end.Moves.Queue(movement.NewCrouch(c.speedMult, c.durationMs))
	p.Tracer.Notify(movement.DebugModeLayeredMoves, true, "crouch queued (mult=%.2f)", c.speedMult)
}

var _ movement.Transition = (*CrouchCheck)(nil)
