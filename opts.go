package mover

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/mover/movement"
	"github.com/oomph-ac/mover/settings"
)

// DefaultHistorySize is the number of ticks a mover keeps for re-simulation when Opts does not
// say otherwise.
const DefaultHistorySize = 64

// Opts holds the options a Mover is created with. Zero values are replaced by defaults.
type Opts struct {
	Settings settings.Settings
	Capsule  movement.Capsule

	Position    mgl32.Vec3
	Orientation mgl32.Vec3

	// HistorySize is the number of past ticks kept for Resimulate. A negative size keeps none.
	HistorySize int
}

func (o Opts) withDefaults() Opts {
	if o.Settings == (settings.Settings{}) {
		o.Settings = settings.DefaultSettings()
	}
	if o.Capsule == (movement.Capsule{}) {
		o.Capsule = movement.DefaultCapsule()
	}
	if o.HistorySize == 0 {
		o.HistorySize = DefaultHistorySize
	}
	return o
}
