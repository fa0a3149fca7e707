package movement

import "github.com/go-gl/mathgl/mgl32"

// Record accumulates the displacements applied during a tick so that the resulting velocity
// reflects what actually happened after collision, rather than what was proposed.
type Record struct {
	dt        float32
	relevant  mgl32.Vec3
	total     mgl32.Vec3
	moveCount int
}

// NewRecord returns a record for a tick lasting dt seconds.
func NewRecord(dt float32) Record {
	return Record{dt: dt}
}

// Append records a displacement. Irrelevant displacements, such as teleports, are excluded from
// the relevant velocity.
func (r *Record) Append(delta mgl32.Vec3, relevant bool) {
	r.total = r.total.Add(delta)
	if relevant {
		r.relevant = r.relevant.Add(delta)
	}
	r.moveCount++
}

// TotalMove returns the sum of every displacement recorded.
func (r *Record) TotalMove() mgl32.Vec3 {
	return r.total
}

// RelevantVelocity returns the relevant displacement divided by the tick length.
func (r *Record) RelevantVelocity() mgl32.Vec3 {
	if r.dt <= 0 {
		return mgl32.Vec3{}
	}
	return r.relevant.Mul(1 / r.dt)
}

// MoveCount returns how many displacements were recorded.
func (r *Record) MoveCount() int {
	return r.moveCount
}
