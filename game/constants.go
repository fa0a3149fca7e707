package game

// Identifiers of the built-in movement modes.
const (
	ModeWalk = "Walk"
	ModeAir  = "Air"
)

const (
	// FloorSweepDistance is how far below the capsule a floor query looks for ground.
	FloorSweepDistance = float32(1.0)
	// MaxWalkSlopeCosine is the minimum up-component a floor normal needs to be walkable.
	MaxWalkSlopeCosine = float32(0.71)
	// TurningRateLimit caps each rotation axis, in degrees per second.
	TurningRateLimit = float32(5000.0)

	// SpeedEpsilon is the speed under which damping is skipped.
	SpeedEpsilon = float32(1e-4)
	// VectorEpsilon is the squared length under which a vector is treated as zero.
	VectorEpsilon = float32(1e-8)
	// SkinWidth is the separation kept between a swept capsule and whatever blocked it.
	SkinWidth = float32(0.05)
)

const (
	DefaultCapsuleRadius     = float32(34)
	DefaultCapsuleHalfHeight = float32(88)

	// DefaultStepMs is the sub-step length used when a frame is split up.
	DefaultStepMs    = float32(1000.0 / 60.0)
	MaxStepMs        = float32(50)
	MinStepMs        = float32(0.5)
	MaxTimeRefunds   = 4
	MillisPerSecond  = float32(1000)
	SecondsPerMillis = float32(0.001)
)
