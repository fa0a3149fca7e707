package movement

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
)

// ProposedMove is what a mode wants to happen during a tick, before collision.
type ProposedMove struct {
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3

	DirectionIntent    mgl32.Vec3
	HasDirectionIntent bool

	// TargetLocation is set when the move is an instantaneous teleport.
	TargetLocation    mgl32.Vec3
	HasTargetLocation bool
}

// Capsule is the collision shape of a mover. Positions refer to its centre.
type Capsule struct {
	Radius     float32
	HalfHeight float32
}

// DefaultCapsule returns the capsule used when none is configured.
func DefaultCapsule() Capsule {
	return Capsule{Radius: game.DefaultCapsuleRadius, HalfHeight: game.DefaultCapsuleHalfHeight}
}

// FeetLocation returns the bottom of the capsule centred at pos.
func (c Capsule) FeetLocation(pos mgl32.Vec3) mgl32.Vec3 {
	return pos.Sub(game.Up.Mul(c.HalfHeight))
}

// FloorResult is the outcome of a floor query.
type FloorResult struct {
	// Blocking is true if the query hit anything at all.
	Blocking bool
	// Walkable is true if the surface hit is flat enough to stand on.
	Walkable    bool
	Normal      mgl32.Vec3
	ImpactPoint mgl32.Vec3
	Distance    float32
}

// AppendBinary appends a little-endian encoding of the floor result to b.
func (f FloorResult) AppendBinary(b []byte) []byte {
	var flags byte
	if f.Blocking {
		flags |= 1
	}
	if f.Walkable {
		flags |= 2
	}
	b = append(b, flags)
	b = appendVec3(b, f.Normal)
	b = appendVec3(b, f.ImpactPoint)
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f.Distance))
}

// HitResult is the outcome of sweeping the capsule through the environment.
type HitResult struct {
	// Blocking is true if the sweep was stopped before covering the full delta.
	Blocking bool
	// Time is the fraction of the delta that was covered, in [0, 1].
	Time        float32
	Normal      mgl32.Vec3
	ImpactPoint mgl32.Vec3
	// Location is where the capsule ended up.
	Location mgl32.Vec3
}

// Impact is passed to the environment when a mover lands on or runs into something.
type Impact struct {
	Mode     string
	Hit      HitResult
	Velocity mgl32.Vec3
}

// TimeStep describes the slice of simulated time a tick covers.
type TimeStep struct {
	Frame uint64
	// BaseSimTimeMs is the simulation time at the start of the tick.
	BaseSimTimeMs float64
	StepMs        float32
}

// Seconds returns the length of the step in seconds.
func (ts TimeStep) Seconds() float32 {
	return ts.StepMs * game.SecondsPerMillis
}

// EndSimTimeMs returns the simulation time at the end of the step.
func (ts TimeStep) EndSimTimeMs() float64 {
	return ts.BaseSimTimeMs + float64(ts.StepMs)
}

// TickStartData is the read-only input of a tick.
type TickStartData struct {
	State *KinematicState
	Input InputSnapshot
	Moves *LayeredMoveQueue
}

// TickEndData is the output of a tick.
type TickEndData struct {
	State KinematicState
	Moves *LayeredMoveQueue

	// RemainingMs is the part of the step that was not consumed and should be re-simulated.
	RemainingMs float32
	// NextMode is the mode requested for the next tick, or empty for no change.
	NextMode string
	// RejectedMode is set when NextMode named a mode that is not registered.
	RejectedMode string
	// Teleported is true if the tick applied a teleport instead of regular movement.
	Teleported bool
}

// ModeChanged returns true if the tick ended in a different mode than it started in.
func (end TickEndData) ModeChanged(start TickStartData) bool {
	return start.State != nil && start.State.Mode != end.State.Mode
}

// Scratch is per-tick working memory shared between a mode and its transitions.
// It is reset at the start of every tick and never persisted.
type Scratch struct {
	floor    FloorResult
	hasFloor bool
}

// InvalidateFloor forgets the floor found this tick.
func (s *Scratch) InvalidateFloor() {
	s.floor = FloorResult{}
	s.hasFloor = false
}

// SetFloor stores the floor found this tick.
func (s *Scratch) SetFloor(f FloorResult) {
	s.floor = f
	s.hasFloor = true
}

// Floor returns the floor found this tick, if any query was made.
func (s *Scratch) Floor() (FloorResult, bool) {
	return s.floor, s.hasFloor
}

func (s *Scratch) reset() {
	s.InvalidateFloor()
}
