package game

const (
	ErrorInternalMissingStartState   = "Error: Starting sync state required to simulate movement."
	ErrorInternalMissingLayeredMoves = "Error: Layered move queue required to simulate movement."
	ErrorInternalMissingEnvironment  = "Error: Environment required to simulate movement."
	ErrorInternalNoModes             = "Error: Movement state machine has no registered modes."
	ErrorInternalInvalidTimeStep     = "Error: Invalid time step of %vms."
	ErrorInternalDuplicateMode       = "Error: Movement mode %q is already registered."

	DiagnosticUnknownMode      = "rejected transition to unknown movement mode %q (staying in %q)"
	DiagnosticUnknownStartMode = "start state carries unknown movement mode %q, falling back to %q"
	DiagnosticTeleportFailed   = "teleport to %v failed, continuing with regular movement"
)
