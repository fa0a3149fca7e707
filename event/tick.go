package event

import (
	"bytes"

	"github.com/oomph-ac/mover/movement"
)

// TickEvent is written for every simulated tick. It holds everything needed to run the tick
// again, and the checksum of the state it produced.
type TickEvent struct {
	NopEvent

	Frame  uint64
	StepMs float32
	Input  movement.InputSnapshot

	Checksum    uint64
	Mode        string
	RemainingMs float32
}

func (TickEvent) ID() byte {
	return EventIDTick
}

// TimeStep returns the time step the tick was simulated with.
func (ev TickEvent) TimeStep() movement.TimeStep {
	return movement.TimeStep{Frame: ev.Frame, BaseSimTimeMs: ev.EvTime, StepMs: ev.StepMs}
}

func (ev TickEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeUint64(buf, ev.Frame)
		writeFloat32(buf, ev.StepMs)
		writeInput(buf, ev.Input)
		writeUint64(buf, ev.Checksum)
		writeString(buf, ev.Mode)
		writeFloat32(buf, ev.RemainingMs)
	})
}

func decodeTick(r *reader, t float64) TickEvent {
	ev := TickEvent{}
	ev.EvTime = t
	ev.Frame = r.uint64()
	ev.StepMs = r.float32()
	ev.Input = r.input()
	ev.Checksum = r.uint64()
	ev.Mode = r.string()
	ev.RemainingMs = r.float32()
	return ev
}
