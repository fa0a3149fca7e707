package movement

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeebo/xxh3"
)

// KinematicState is the synced state of a mover at a tick boundary.
type KinematicState struct {
	// Position is the centre of the mover's capsule.
	Position mgl32.Vec3
	// Orientation is a {pitch, yaw, roll} rotator in degrees.
	Orientation     mgl32.Vec3
	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3
	// MoveDirectionIntent is the direction intent of the last proposed move, if it had one.
	MoveDirectionIntent mgl32.Vec3
	// Floor is the last floor found under the mover.
	Floor FloorResult
	// Mode is the identifier of the mode that will run the next tick.
	Mode string
}

// Checksum returns an xxh3 hash of every field of the state. Two states with identical
// bit patterns always produce the same checksum.
func (s KinematicState) Checksum() uint64 {
	return xxh3.Hash(s.AppendBinary(make([]byte, 0, 128)))
}

// AppendBinary appends a little-endian encoding of the state to b.
func (s KinematicState) AppendBinary(b []byte) []byte {
	b = appendVec3(b, s.Position)
	b = appendVec3(b, s.Orientation)
	b = appendVec3(b, s.LinearVelocity)
	b = appendVec3(b, s.AngularVelocity)
	b = appendVec3(b, s.MoveDirectionIntent)
	b = s.Floor.AppendBinary(b)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(s.Mode)))
	return append(b, s.Mode...)
}

func appendVec3(b []byte, v mgl32.Vec3) []byte {
	for _, f := range v {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}

// MoveInputType describes how InputSnapshot.MoveInput should be read.
type MoveInputType uint8

const (
	// MoveInputDirectional treats the move input as a direction whose length is at most 1.
	MoveInputDirectional MoveInputType = iota
	// MoveInputVelocity treats the move input as a desired velocity.
	MoveInputVelocity
)

// InputSnapshot is everything a controller asked the mover to do for a tick.
type InputSnapshot struct {
	// MoveInput is expressed in the frame of OrientationIntent.
	MoveInput     mgl32.Vec3
	MoveInputType MoveInputType
	// OrientationIntent is the direction the mover should face. A zero vector keeps the
	// current orientation.
	OrientationIntent mgl32.Vec3

	JumpPressed   bool
	CrouchPressed bool
	SprintPressed bool

	// MovementBase identifies the object the mover is standing on, if the controller tracks one.
	MovementBase uint64
}

// DefaultInput returns an input that asks for no movement.
func DefaultInput() InputSnapshot {
	return InputSnapshot{MoveInputType: MoveInputDirectional}
}

// HasMoveIntent returns true if the input asks the mover to go anywhere.
func (in InputSnapshot) HasMoveIntent() bool {
	return in.MoveInput.LenSqr() > 0
}
