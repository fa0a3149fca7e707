package event

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/movement"
)

func writeFloat32(buf *bytes.Buffer, f float32) {
	_ = binary.Write(buf, binary.LittleEndian, math.Float32bits(f))
}

func writeFloat64(buf *bytes.Buffer, f float64) {
	_ = binary.Write(buf, binary.LittleEndian, math.Float64bits(f))
}

func writeVec3(buf *bytes.Buffer, v mgl32.Vec3) {
	for _, f := range v {
		writeFloat32(buf, f)
	}
}

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
		return
	}
	buf.WriteByte(0)
}

func writeString(buf *bytes.Buffer, s string) {
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(s)))
	buf.WriteString(s)
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(b)))
	buf.Write(b)
}

func writeState(buf *bytes.Buffer, s movement.KinematicState) {
	writeVec3(buf, s.Position)
	writeVec3(buf, s.Orientation)
	writeVec3(buf, s.LinearVelocity)
	writeVec3(buf, s.AngularVelocity)
	writeVec3(buf, s.MoveDirectionIntent)
	writeBool(buf, s.Floor.Blocking)
	writeBool(buf, s.Floor.Walkable)
	writeVec3(buf, s.Floor.Normal)
	writeVec3(buf, s.Floor.ImpactPoint)
	writeFloat32(buf, s.Floor.Distance)
	writeString(buf, s.Mode)
}

func writeInput(buf *bytes.Buffer, in movement.InputSnapshot) {
	writeVec3(buf, in.MoveInput)
	buf.WriteByte(byte(in.MoveInputType))
	writeVec3(buf, in.OrientationIntent)
	var flags byte
	for i, b := range []bool{in.JumpPressed, in.CrouchPressed, in.SprintPressed} {
		if b {
			flags |= 1 << i
		}
	}
	buf.WriteByte(flags)
	_ = binary.Write(buf, binary.LittleEndian, in.MovementBase)
}

// reader reads little-endian values from a buffer. The first short read is kept in err and every
// read after it returns a zero value.
type reader struct {
	buf *bytes.Buffer
	err error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	if r.buf.Len() < n {
		r.err = io.ErrUnexpectedEOF
		return make([]byte, n)
	}
	return r.buf.Next(n)
}

func (r *reader) byte() byte {
	return r.next(1)[0]
}

func (r *reader) bool() bool {
	return r.byte() == 1
}

func (r *reader) uint16() uint16 {
	return binary.LittleEndian.Uint16(r.next(2))
}

func (r *reader) uint32() uint32 {
	return binary.LittleEndian.Uint32(r.next(4))
}

func (r *reader) uint64() uint64 {
	return binary.LittleEndian.Uint64(r.next(8))
}

func (r *reader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

func (r *reader) float64() float64 {
	return math.Float64frombits(r.uint64())
}

func (r *reader) vec3() mgl32.Vec3 {
	return mgl32.Vec3{r.float32(), r.float32(), r.float32()}
}

func (r *reader) string() string {
	return string(r.next(int(r.uint16())))
}

func (r *reader) bytes() []byte {
	n := int(r.uint32())
	if r.err == nil && r.buf.Len() < n {
		r.err = io.ErrUnexpectedEOF
		return nil
	}
	return append([]byte(nil), r.next(n)...)
}

func (r *reader) state() movement.KinematicState {
	var s movement.KinematicState
	s.Position = r.vec3()
	s.Orientation = r.vec3()
	s.LinearVelocity = r.vec3()
	s.AngularVelocity = r.vec3()
	s.MoveDirectionIntent = r.vec3()
	s.Floor.Blocking = r.bool()
	s.Floor.Walkable = r.bool()
	s.Floor.Normal = r.vec3()
	s.Floor.ImpactPoint = r.vec3()
	s.Floor.Distance = r.float32()
	s.Mode = r.string()
	return s
}

func (r *reader) input() movement.InputSnapshot {
	var in movement.InputSnapshot
	in.MoveInput = r.vec3()
	in.MoveInputType = movement.MoveInputType(r.byte())
	in.OrientationIntent = r.vec3()
	flags := r.byte()
	in.JumpPressed = flags&1 != 0
	in.CrouchPressed = flags&2 != 0
	in.SprintPressed = flags&4 != 0
	in.MovementBase = r.uint64()
	return in
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}
