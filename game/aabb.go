package game

import "github.com/ethaniccc/float32-cube/cube"

// AABBFromCapsule returns the axis aligned bounding box of a vertical capsule centred at
// the origin.
func AABBFromCapsule(radius, halfHeight float32) cube.BBox {
	return cube.Box(
		-radius, -radius, -halfHeight,
		radius, radius, halfHeight,
	)
}
