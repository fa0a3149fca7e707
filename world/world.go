package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
	"github.com/oomph-ac/mover/movement"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var currentWorldID = atomic.NewUint64(0)

// World is a static collision world made of axis aligned boxes and ramps. Capsules are approximated
// by their bounding boxes. A World is safe for concurrent use: geometry may only change between
// ticks, and every query is a pure function of its arguments and the geometry.
type World struct {
	id uint64

	boxes []cube.BBox
	ramps []Ramp

	impactListeners []func(movement.Impact)

	sweeps       atomic.Uint64
	floorQueries atomic.Uint64
	impacts      atomic.Uint64

	logger *logrus.Logger

	deadlock.RWMutex
}

// New returns an empty world.
func New(logger *logrus.Logger) *World {
	return &World{
		id:     currentWorldID.Inc(),
		logger: logger,
	}
}

// ID returns the unique identifier of the world.
func (w *World) ID() uint64 {
	return w.id
}

// AddBox adds a solid box to the world.
func (w *World) AddBox(bb cube.BBox) {
	w.Lock()
	defer w.Unlock()
	w.boxes = append(w.boxes, bb)
}

// AddRamp adds a ramp to the world.
func (w *World) AddRamp(r Ramp) {
	w.Lock()
	defer w.Unlock()
	w.ramps = append(w.ramps, r)
}

// OnImpact registers a function called whenever a mover reports an impact.
func (w *World) OnImpact(f func(movement.Impact)) {
	w.Lock()
	defer w.Unlock()
	w.impactListeners = append(w.impactListeners, f)
}

// Stats are counters of the queries made against a world.
type Stats struct {
	Sweeps       uint64
	FloorQueries uint64
	Impacts      uint64
}

// Stats returns the query counters of the world.
func (w *World) Stats() Stats {
	return Stats{
		Sweeps:       w.sweeps.Load(),
		FloorQueries: w.floorQueries.Load(),
		Impacts:      w.impacts.Load(),
	}
}

// SweepAndMove ...
func (w *World) SweepAndMove(c movement.Capsule, from, delta, _ mgl32.Vec3) movement.HitResult {
	w.sweeps.Inc()
	w.RLock()
	defer w.RUnlock()
	return w.sweep(c, from, delta)
}

// SlideAlongSurface moves the capsule along the plane of normal for the remaining fraction of
// delta. If the slide runs into a second surface, the rest of it follows the crease between the
// two surfaces, or the plane of the second surface if they face the same way.
func (w *World) SlideAlongSurface(c movement.Capsule, from, delta mgl32.Vec3, fraction float32, normal mgl32.Vec3) movement.HitResult {
	w.sweeps.Inc()
	w.RLock()
	defer w.RUnlock()

	slide := game.VectorPlaneProject(delta, normal).Mul(fraction)
	if game.IsNearlyZero(slide) {
		return movement.HitResult{Time: 1, Location: from}
	}
	hit := w.sweep(c, from, slide)
	if !hit.Blocking {
		return hit
	}

	rest := slide.Mul(1 - hit.Time)
	var next mgl32.Vec3
	if normal.Dot(hit.Normal) <= 0 {
		crease := game.SafeNormal(normal.Cross(hit.Normal))
		next = crease.Mul(rest.Dot(crease))
	} else {
		next = game.VectorPlaneProject(rest, hit.Normal)
	}
	if game.IsNearlyZero(next) || next.Dot(delta) <= 0 {
		return hit
	}
	return w.sweep(c, hit.Location, next)
}

// FindFloor sweeps the capsule down by sweepDistance and reports what it lands on.
func (w *World) FindFloor(c movement.Capsule, location mgl32.Vec3, sweepDistance, maxWalkSlopeCosine float32) movement.FloorResult {
	w.floorQueries.Inc()
	w.RLock()
	defer w.RUnlock()

	t, n, ok := w.firstContact(c, location, game.Up.Mul(-sweepDistance))
	if !ok {
		return movement.FloorResult{}
	}
	ext := extents(c)
	at := location.Sub(game.Up.Mul(sweepDistance * t))
	return movement.FloorResult{
		Blocking:    true,
		Walkable:    n.Z() >= maxWalkSlopeCosine,
		Normal:      n,
		ImpactPoint: contactPoint(at, ext, n),
		Distance:    sweepDistance * t,
	}
}

// Teleport reports whether the capsule fits at location without overlapping any geometry.
func (w *World) Teleport(c movement.Capsule, location, _ mgl32.Vec3) bool {
	w.RLock()
	defer w.RUnlock()

	ext := extents(c)
	bb := game.AABBFromCapsule(c.Radius, c.HalfHeight).Translate(location)
	for _, b := range w.boxes {
		if bb.IntersectsWith(b) {
			return false
		}
	}
	for _, r := range w.ramps {
		if overlapsRamp(location, ext, r) {
			return false
		}
	}
	return true
}

// HandleImpact counts the impact and passes it on to the impact listeners.
func (w *World) HandleImpact(impact movement.Impact) {
	w.impacts.Inc()
	if w.logger != nil {
		w.logger.WithFields(logrus.Fields{
			"mode":   impact.Mode,
			"normal": impact.Hit.Normal,
			"speed":  impact.Velocity.Len(),
		}).Debug("mover impact")
	}

	w.RLock()
	listeners := w.impactListeners
	w.RUnlock()
	for _, f := range listeners {
		f(impact)
	}
}

// sweep moves the capsule by delta up to the first contact, stopping the skin width short of it.
// The lock must be held by the caller.
func (w *World) sweep(c movement.Capsule, from, delta mgl32.Vec3) movement.HitResult {
	t, n, ok := w.firstContact(c, from, delta)
	if !ok {
		return movement.HitResult{Time: 1, Location: from.Add(delta)}
	}
	contact := from.Add(delta.Mul(t))
	safe := float32(0)
	if approach := -n.Dot(delta); approach > 0 {
		safe = max(t-game.SkinWidth/approach, 0)
	}
	return movement.HitResult{
		Blocking:    true,
		Time:        safe,
		Normal:      n,
		ImpactPoint: contactPoint(contact, extents(c), n),
		Location:    from.Add(delta.Mul(safe)),
	}
}

// firstContact returns the earliest contact of the moving capsule with any geometry. The lock must
// be held by the caller.
func (w *World) firstContact(c movement.Capsule, from, delta mgl32.Vec3) (float32, mgl32.Vec3, bool) {
	if game.IsNearlyZero(delta) {
		return 0, mgl32.Vec3{}, false
	}
	ext := extents(c)
	best, normal, found := float32(math32.MaxFloat32), mgl32.Vec3{}, false
	for _, b := range w.boxes {
		if t, n, ok := sweepBox(from, ext, delta, b); ok && t < best {
			best, normal, found = t, n, true
		}
	}
	for _, r := range w.ramps {
		if t, n, ok := sweepRamp(from, ext, delta, r); ok && t < best {
			best, normal, found = t, n, true
		}
	}
	return best, normal, found
}

func extents(c movement.Capsule) mgl32.Vec3 {
	return mgl32.Vec3{c.Radius, c.Radius, c.HalfHeight}
}

// contactPoint returns the point where a box centred at p touches a surface with normal n.
func contactPoint(p, ext, n mgl32.Vec3) mgl32.Vec3 {
	return p.Sub(n.Mul(math32.Abs(n.X())*ext.X() + math32.Abs(n.Y())*ext.Y() + math32.Abs(n.Z())*ext.Z()))
}

var _ movement.Environment = (*World)(nil)
