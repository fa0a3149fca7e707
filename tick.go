package mover

import (
	"github.com/oomph-ac/mover/event"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/oerror"
	"github.com/sirupsen/logrus"
)

// StartData returns the start data of the next tick for the input given. The state it holds is a
// copy, so the start data stays valid after the tick is committed.
func (m *Mover) StartData(input movement.InputSnapshot) movement.TickStartData {
	state := m.state
	return movement.TickStartData{State: &state, Input: input, Moves: m.moves}
}

// TimeStep returns the time step of the next tick if it lasts stepMs.
func (m *Mover) TimeStep(stepMs float32) movement.TimeStep {
	return movement.TimeStep{Frame: m.frame, BaseSimTimeMs: m.simTimeMs, StepMs: stepMs}
}

// GenerateMove is the first phase of a tick: it returns the move the mover proposes to make over
// stepMs, layered moves included.
func (m *Mover) GenerateMove(start movement.TickStartData, stepMs float32) movement.ProposedMove {
	return m.sm.GenerateMove(start, m.TimeStep(stepMs))
}

// SimulateTick is the second phase of a tick: it carries out move against the environment and
// returns the resulting end data. Nothing about the mover changes until the end data is committed.
// A missing start state panics with an *oerror.MoverError.
func (m *Mover) SimulateTick(start movement.TickStartData, move movement.ProposedMove, stepMs float32) movement.TickEndData {
	ts := m.TimeStep(stepMs)
	end := m.sm.SimulateTick(start, ts, move, m.capsule, m.env)
	if end.RejectedMode != "" {
		m.log.WithFields(logrus.Fields{"frame": ts.Frame, "mode": end.RejectedMode}).Warn("rejected unknown movement mode")
	}

	m.pending = &TickRecord{TimeStep: ts, Input: start.Input, Start: *start.State, Moves: start.Moves, End: end.State, sm: m.sm}
	return end
}

// Commit makes end the current state of the mover. end must be the result of the last call to
// SimulateTick.
func (m *Mover) Commit(end movement.TickEndData) {
	rec := m.pending
	m.pending = nil
	if rec == nil {
		panic(oerror.New("commit without a simulated tick"))
	}

	m.sm.Commit(end)
	m.state, m.moves = end.State, end.Moves
	m.committed = true
	m.frame++
	m.simTimeMs += float64(rec.TimeStep.StepMs - end.RemainingMs)

	if m.history != nil {
		_ = m.history.Append(*rec)
	}
	if m.recorder != nil {
		ev := event.TickEvent{
			Frame:       rec.TimeStep.Frame,
			StepMs:      rec.TimeStep.StepMs,
			Input:       rec.Input,
			Checksum:    end.State.Checksum(),
			Mode:        end.State.Mode,
			RemainingMs: end.RemainingMs,
		}
		ev.EvTime = rec.TimeStep.BaseSimTimeMs
		m.record(ev)
	}
}

// Step runs a single tick lasting stepMs and commits it.
func (m *Mover) Step(input movement.InputSnapshot, stepMs float32) movement.TickEndData {
	start := m.StartData(input)
	move := m.GenerateMove(start, stepMs)
	end := m.SimulateTick(start, move, stepMs)
	m.Commit(end)
	return end
}

// Tick advances the mover by frameMs, split into ticks of at most the configured step size. Time
// refunded by instantaneous moves such as teleports is simulated again, at most MaxTimeRefunds
// times per call. Time too short to make up a tick is carried over to the next call. Tick returns
// the number of ticks ran.
func (m *Mover) Tick(input movement.InputSnapshot, frameMs float32) int {
	remaining := frameMs + m.carryMs
	m.carryMs = 0
	step := min(m.settings.Simulation.StepMs, game.MaxStepMs)

	var ticks, refunds int
	for remaining >= game.MinStepMs {
		dt := min(remaining, step)
		end := m.Step(input, dt)
		ticks++

		consumed := dt - end.RemainingMs
		if end.RemainingMs > 0 {
			if refunds < m.settings.Simulation.MaxTimeRefunds {
				refunds++
			} else {
				m.log.WithField("frame", m.frame).Debugf("dropping %vms of refunded time", end.RemainingMs)
				m.simTimeMs += float64(end.RemainingMs)
				consumed = dt
			}
		}
		remaining -= consumed
	}
	m.carryMs = max(remaining, 0)
	return ticks
}
