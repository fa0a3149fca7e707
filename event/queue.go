package event

import (
	"bytes"

	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/oerror"
)

// QueueMoveEvent is written when a layered move is queued from outside of a tick, such as a
// teleport requested by the server.
type QueueMoveEvent struct {
	NopEvent

	Move movement.LayeredMove
}

func (QueueMoveEvent) ID() byte {
	return EventIDQueueMove
}

func (ev QueueMoveEvent) Encode() []byte {
	return encode(ev, func(buf *bytes.Buffer) {
		writeLayeredMove(buf, ev.Move)
	})
}

func decodeQueueMove(r *reader, t float64) QueueMoveEvent {
	ev := QueueMoveEvent{}
	ev.EvTime = t
	ev.Move = r.layeredMove()
	return ev
}

// QueuedMove is a layered move along with the time it started at.
type QueuedMove struct {
	Move    movement.LayeredMove
	StartMs float64
	Started bool
}

// QueuedMoves returns the moves held by q along with their start times.
func QueuedMoves(q *movement.LayeredMoveQueue) []QueuedMove {
	moves := q.Moves()
	out := make([]QueuedMove, len(moves))
	for i, lm := range moves {
		startMs, started := q.StartTime(i)
		out[i] = QueuedMove{Move: lm, StartMs: startMs, Started: started}
	}
	return out
}

// Queue rebuilds a layered move queue from moves.
func Queue(moves []QueuedMove) *movement.LayeredMoveQueue {
	q := movement.NewLayeredMoveQueue()
	for _, m := range moves {
		q.Restore(m.Move.Clone(), m.StartMs, m.Started)
	}
	return q
}

// Encodable returns true if lm is one of the layered moves that can be written to a recording.
func Encodable(lm movement.LayeredMove) bool {
	switch lm.(type) {
	case *movement.JumpImpulse, *movement.Crouch, *movement.Teleport, *movement.Override:
		return true
	}
	return false
}

func writeLayeredMove(buf *bytes.Buffer, lm movement.LayeredMove) {
	writeString(buf, lm.Name())
	switch m := lm.(type) {
	case *movement.JumpImpulse:
		writeFloat32(buf, m.UpwardsSpeed)
	case *movement.Crouch:
		writeFloat32(buf, m.SpeedMult)
		writeFloat32(buf, m.Duration)
	case *movement.Teleport:
		writeVec3(buf, m.Target)
	case *movement.Override:
		writeVec3(buf, m.Velocity)
		writeVec3(buf, m.Angular)
		buf.WriteByte(byte(m.Mix))
		writeFloat32(buf, m.Duration)
	}
}

func (r *reader) layeredMove() movement.LayeredMove {
	switch name := r.string(); name {
	case movement.LayeredMoveJump:
		return &movement.JumpImpulse{UpwardsSpeed: r.float32()}
	case movement.LayeredMoveCrouch:
		return movement.NewCrouch(r.float32(), r.float32())
	case movement.LayeredMoveTeleport:
		return &movement.Teleport{Target: r.vec3()}
	case movement.LayeredMoveOverride:
		o := &movement.Override{}
		o.Velocity = r.vec3()
		o.Angular = r.vec3()
		o.Mix = movement.MixMode(r.byte())
		o.Duration = r.float32()
		return o
	default:
		if r.err == nil {
			r.err = oerror.New("unknown layered move %q", name)
		}
		return nil
	}
}
