package event

import (
	"bytes"

	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/oerror"
)

// StartEvent opens a recording with the state of the mover when recording began. Settings holds
// the TOML encoding of the settings in use at that point.
type StartEvent struct {
	NopEvent

	Frame    uint64
	State    movement.KinematicState
	Moves    []QueuedMove
	Capsule  movement.Capsule
	Settings []byte
}

func (StartEvent) ID() byte {
	return EventIDStart
}

func (ev StartEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeUint64(buf, ev.Frame)
		writeState(buf, ev.State)
		writeUint32(buf, uint32(len(ev.Moves)))
		for _, m := range ev.Moves {
			writeLayeredMove(buf, m.Move)
			writeFloat64(buf, m.StartMs)
			writeBool(buf, m.Started)
		}
		writeFloat32(buf, ev.Capsule.Radius)
		writeFloat32(buf, ev.Capsule.HalfHeight)
		writeBytes(buf, ev.Settings)
	})
}

func decodeStart(r *reader, t float64) StartEvent {
	ev := StartEvent{}
	ev.EvTime = t
	ev.Frame = r.uint64()
	ev.State = r.state()
	count := r.uint32()
	if r.err == nil && int(count) > r.buf.Len() {
		r.err = oerror.New("start event claims %d layered moves", count)
		return ev
	}
	for i := uint32(0); i < count && r.err == nil; i++ {
		m := QueuedMove{Move: r.layeredMove()}
		m.StartMs = r.float64()
		m.Started = r.bool()
		ev.Moves = append(ev.Moves, m)
	}
	ev.Capsule.Radius = r.float32()
	ev.Capsule.HalfHeight = r.float32()
	ev.Settings = r.bytes()
	return ev
}

// SettingsEvent is written whenever the settings of a mover change mid-recording.
type SettingsEvent struct {
	NopEvent

	Settings []byte
}

func (SettingsEvent) ID() byte {
	return EventIDSettings
}

func (ev SettingsEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeBytes(buf, ev.Settings)
	})
}

func decodeSettings(r *reader, t float64) SettingsEvent {
	ev := SettingsEvent{}
	ev.EvTime = t
	ev.Settings = r.bytes()
	return ev
}
