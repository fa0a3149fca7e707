package mover

import (
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/oerror"
)

// TickRecord holds everything that went into a committed tick, and the state it produced.
type TickRecord struct {
	TimeStep movement.TimeStep
	Input    movement.InputSnapshot
	Start    movement.KinematicState
	// Moves is the layered move queue the tick started with. It must not be modified.
	Moves *movement.LayeredMoveQueue
	End   movement.KinematicState

	// sm is the state machine the tick ran on, so that resimulating it uses the settings it was
	// simulated with.
	sm *movement.StateMachine
}

// History returns the most recent committed ticks, oldest first.
func (m *Mover) History() []TickRecord {
	if m.history == nil {
		return nil
	}
	records := make([]TickRecord, 0, m.history.Len())
	for rec := range m.history.Iter() {
		records = append(records, rec)
	}
	return records
}

// Resimulate runs the committed tick of the given frame again, starting from state instead of
// the recorded start state, and returns the result without committing it. The tick runs with the
// settings it was first simulated with, so passing the recorded start state reproduces the
// recorded end state even after SetSettings.
func (m *Mover) Resimulate(frame uint64, state movement.KinematicState) (movement.TickEndData, error) {
	if m.history == nil {
		return movement.TickEndData{}, oerror.New("mover keeps no history")
	}
	for rec := range m.history.Iter() {
		if rec.TimeStep.Frame != frame {
			continue
		}
		start := movement.TickStartData{State: &state, Input: rec.Input, Moves: rec.Moves}
		move := rec.sm.GenerateMove(start, rec.TimeStep)
		return rec.sm.SimulateTick(start, rec.TimeStep, move, m.capsule, m.env), nil
	}
	return movement.TickEndData{}, oerror.New("frame %d is not in the history", frame)
}
