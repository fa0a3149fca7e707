package movement

// MixMode decides how a layered move's contribution is combined with the proposed move.
type MixMode uint8

const (
	// MixModeAdditive adds the contribution on top of the proposed move.
	MixModeAdditive MixMode = iota
	// MixModeOverrideVelocity replaces the linear velocity of the proposed move.
	MixModeOverrideVelocity
	// MixModeOverrideAll replaces both the linear and angular velocity of the proposed move.
	MixModeOverrideAll
)

func (m MixMode) String() string {
	switch m {
	case MixModeAdditive:
		return "additive"
	case MixModeOverrideVelocity:
		return "override_velocity"
	case MixModeOverrideAll:
		return "override_all"
	}
	return "unknown"
}

// LayeredMove is a transient movement contribution mixed into the proposed move of whatever mode
// is active.
type LayeredMove interface {
	// Name identifies the kind of layered move.
	Name() string
	MixMode() MixMode
	// DurationMs is how long the move lasts once started. A positive duration expires after that
	// many milliseconds, zero lasts exactly one tick and a negative duration lasts until Finished
	// reports true.
	DurationMs() float32
	// GenerateMove writes this move's contribution for the tick into out. Returning false means the
	// move contributes nothing this tick.
	GenerateMove(start TickStartData, ts TimeStep, out *ProposedMove) bool
	// Finished reports whether a move with a negative duration has ended.
	Finished(start TickStartData) bool
	Clone() LayeredMove
}

type layeredEntry struct {
	move    LayeredMove
	startMs float64
	started bool
}

// LayeredMoveQueue holds the active layered moves of a mover in insertion order. Queues that are
// part of a tick's start data must be treated as read-only: ticks clone them into their end data.
type LayeredMoveQueue struct {
	entries []layeredEntry
}

// NewLayeredMoveQueue returns an empty queue.
func NewLayeredMoveQueue() *LayeredMoveQueue {
	return &LayeredMoveQueue{}
}

// Queue appends a move. It starts on the next tick that mixes the queue.
func (q *LayeredMoveQueue) Queue(lm LayeredMove) {
	q.entries = append(q.entries, layeredEntry{move: lm})
}

// Cancel removes every move with the given name and returns how many were removed.
func (q *LayeredMoveQueue) Cancel(name string) int {
	n := 0
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.move.Name() == name {
			n++
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	return n
}

// Has returns true if a move with the given name is queued.
func (q *LayeredMoveQueue) Has(name string) bool {
	if q == nil {
		return false
	}
	for _, e := range q.entries {
		if e.move.Name() == name {
			return true
		}
	}
	return false
}

// Len returns the number of queued moves.
func (q *LayeredMoveQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.entries)
}

// Moves returns the queued moves in insertion order.
func (q *LayeredMoveQueue) Moves() []LayeredMove {
	if q == nil {
		return nil
	}
	moves := make([]LayeredMove, len(q.entries))
	for i, e := range q.entries {
		moves[i] = e.move
	}
	return moves
}

// StartTime returns the simulation time the move at index i started at, if it has started.
func (q *LayeredMoveQueue) StartTime(i int) (float64, bool) {
	e := q.entries[i]
	return e.startMs, e.started
}

// Restore appends a move that already started at startMs. It is used when rebuilding a queue from
// a recording.
func (q *LayeredMoveQueue) Restore(lm LayeredMove, startMs float64, started bool) {
	q.entries = append(q.entries, layeredEntry{move: lm, startMs: startMs, started: started})
}

// Clone returns a deep copy of the queue.
func (q *LayeredMoveQueue) Clone() *LayeredMoveQueue {
	c := &LayeredMoveQueue{}
	if q == nil {
		return c
	}
	c.entries = make([]layeredEntry, len(q.entries))
	for i, e := range q.entries {
		c.entries[i] = layeredEntry{move: e.move.Clone(), startMs: e.startMs, started: e.started}
	}
	return c
}

// Mix combines the contributions of every active move into move, in insertion order, so that a
// later override wins over an earlier one. It does not modify the queue.
func (q *LayeredMoveQueue) Mix(start TickStartData, ts TimeStep, move *ProposedMove, tracer Tracer) {
	if q == nil {
		return
	}
	for _, e := range q.entries {
		if e.move.DurationMs() < 0 && e.move.Finished(start) {
			continue
		}
		if e.started && e.move.DurationMs() > 0 && ts.BaseSimTimeMs-e.startMs >= float64(e.move.DurationMs()) {
			continue
		}

		var contrib ProposedMove
		if !e.move.GenerateMove(start, ts, &contrib) {
			continue
		}
		tracer.Notify(DebugModeLayeredMoves, true, "mixing %s (%s) vel=%v", e.move.Name(), e.move.MixMode(), contrib.LinearVelocity)

		switch e.move.MixMode() {
		case MixModeAdditive:
			move.LinearVelocity = move.LinearVelocity.Add(contrib.LinearVelocity)
			move.AngularVelocity = move.AngularVelocity.Add(contrib.AngularVelocity)
		case MixModeOverrideVelocity:
			move.LinearVelocity = contrib.LinearVelocity
		case MixModeOverrideAll:
			move.LinearVelocity = contrib.LinearVelocity
			move.AngularVelocity = contrib.AngularVelocity
		}
		if contrib.HasTargetLocation {
			move.TargetLocation = contrib.TargetLocation
			move.HasTargetLocation = true
		}
	}
}

// Advance starts any moves that have not started yet and drops the moves that have run their
// course by the end of the step.
func (q *LayeredMoveQueue) Advance(start TickStartData, ts TimeStep, tracer Tracer) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if !e.started {
			e.started = true
			e.startMs = ts.BaseSimTimeMs
		}
		d := e.move.DurationMs()
		var done bool
		switch {
		case d == 0:
			done = true
		case d > 0:
			done = ts.EndSimTimeMs()-e.startMs >= float64(d)
		default:
			done = e.move.Finished(start)
		}
		if done {
			tracer.Notify(DebugModeLayeredMoves, true, "layered move %s finished", e.move.Name())
			continue
		}
		kept = append(kept, e)
	}
	// Clear the tail so dropped moves can be collected.
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = layeredEntry{}
	}
	q.entries = kept
}
