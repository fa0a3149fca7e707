package movement

// Debug modes a Tracer can be asked about.
const (
	DebugModeMovementSim = iota
	DebugModeTransitions
	DebugModeLayeredMoves
	DebugModeCollision
	DebugModeCount
)

// Tracer receives debug output from the simulation. Notify is only expected to emit the message
// when cond is true and the mode is enabled.
type Tracer interface {
	Notify(mode int, cond bool, format string, args ...any)
}

// NopTracer discards all debug output.
type NopTracer struct{}

func (NopTracer) Notify(int, bool, string, ...any) {}
