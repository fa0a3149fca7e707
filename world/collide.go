package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/game"
)

// Ramp is a one-sided sloped surface bounded by a rectangular footprint on the XY plane.
type Ramp struct {
	// Normal is the unit normal of the walkable side of the surface.
	Normal mgl32.Vec3
	// Origin is any point on the surface.
	Origin mgl32.Vec3
	Min    mgl32.Vec2
	Max    mgl32.Vec2
	// Thickness is how far behind the surface a box still counts as touching it.
	Thickness float32
}

// NewRamp returns a ramp covering [x0, x1] x [y0, y1] that rises from z0 at x0 to z1 at x1.
func NewRamp(x0, y0, x1, y1, z0, z1 float32) Ramp {
	slope := (z1 - z0) / (x1 - x0)
	return Ramp{
		Normal:    mgl32.Vec3{-slope, 0, 1}.Normalize(),
		Origin:    mgl32.Vec3{x0, y0, z0},
		Min:       mgl32.Vec2{min(x0, x1), min(y0, y1)},
		Max:       mgl32.Vec2{max(x0, x1), max(y0, y1)},
		Thickness: 20,
	}
}

// HeightAt returns the height of the ramp surface above the point (x, y).
func (r Ramp) HeightAt(x, y float32) float32 {
	return r.Origin.Z() - (r.Normal.X()*(x-r.Origin.X())+r.Normal.Y()*(y-r.Origin.Y()))/r.Normal.Z()
}

// sweepBox finds when a box with half extents ext, centred at p and moving by d, first touches bb.
// Boxes that already overlap bb by more than the skin width are ignored so that they can escape.
func sweepBox(p, ext, d mgl32.Vec3, bb cube.BBox) (float32, mgl32.Vec3, bool) {
	lo, hi := bb.Min().Sub(ext), bb.Max().Add(ext)
	tEntry, tExit := float32(-math32.MaxFloat32), float32(math32.MaxFloat32)
	axis := -1
	for i := 0; i < 3; i++ {
		if d[i] == 0 {
			if p[i] <= lo[i] || p[i] >= hi[i] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1, t2 := (lo[i]-p[i])/d[i], (hi[i]-p[i])/d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEntry {
			tEntry, axis = t1, i
		}
		tExit = min(tExit, t2)
	}
	if axis < 0 || tEntry >= tExit || tExit <= 0 || tEntry > 1 {
		return 0, mgl32.Vec3{}, false
	}
	if tEntry < 0 && -tEntry*math32.Abs(d[axis]) > game.SkinWidth {
		return 0, mgl32.Vec3{}, false
	}

	var n mgl32.Vec3
	n[axis] = -math32.Copysign(1, d[axis])
	return max(tEntry, 0), n, true
}

// sweepRamp finds when a box with half extents ext, centred at p and moving by d, first touches
// the walkable side of r. Boxes behind the surface are ignored.
func sweepRamp(p, ext, d mgl32.Vec3, r Ramp) (float32, mgl32.Vec3, bool) {
	n := r.Normal
	nd := n.Dot(d)
	if nd >= 0 {
		return 0, mgl32.Vec3{}, false
	}
	dist := n.Dot(supportPoint(p, ext, n).Sub(r.Origin))
	if dist < -game.SkinWidth {
		return 0, mgl32.Vec3{}, false
	}
	t := max(dist, 0) / -nd
	if t > 1 {
		return 0, mgl32.Vec3{}, false
	}

	c := p.Add(d.Mul(t))
	if c.X()+ext.X() <= r.Min.X() || c.X()-ext.X() >= r.Max.X() ||
		c.Y()+ext.Y() <= r.Min.Y() || c.Y()-ext.Y() >= r.Max.Y() {
		return 0, mgl32.Vec3{}, false
	}
	return t, n, true
}

// overlapsRamp returns true if a box with half extents ext centred at p is lodged in the ramp.
func overlapsRamp(p, ext mgl32.Vec3, r Ramp) bool {
	if p.X()+ext.X() <= r.Min.X() || p.X()-ext.X() >= r.Max.X() ||
		p.Y()+ext.Y() <= r.Min.Y() || p.Y()-ext.Y() >= r.Max.Y() {
		return false
	}
	dist := r.Normal.Dot(supportPoint(p, ext, r.Normal).Sub(r.Origin))
	return dist < -game.SkinWidth && dist > -r.Thickness
}

// supportPoint returns the corner of the box furthest along -n.
func supportPoint(p, ext, n mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		p.X() - math32.Copysign(ext.X(), n.X()),
		p.Y() - math32.Copysign(ext.Y(), n.Y()),
		p.Z() - math32.Copysign(ext.Z(), n.Z()),
	}
}
