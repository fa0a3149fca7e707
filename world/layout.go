package world

import (
	"fmt"
	"os"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Layout describes the geometry of a world so that the same world can be rebuilt for a replay.
type Layout struct {
	Boxes []BoxSpec  `yaml:"boxes"`
	Ramps []RampSpec `yaml:"ramps"`
}

// BoxSpec is a solid box given by two opposite corners.
type BoxSpec struct {
	Min [3]float32 `yaml:"min"`
	Max [3]float32 `yaml:"max"`
}

// RampSpec is a ramp rising along +X, see NewRamp.
type RampSpec struct {
	X0, Y0, X1, Y1 float32
	Z0, Z1         float32
}

// DefaultLayout is a flat floor with a wall, a ledge to fall off and a ramp leading nowhere.
func DefaultLayout() Layout {
	return Layout{
		Boxes: []BoxSpec{
			// Floor.
			{Min: [3]float32{-2000, -2000, -100}, Max: [3]float32{2000, 2000, 0}},
			// Wall along +Y.
			{Min: [3]float32{-2000, 1000, 0}, Max: [3]float32{2000, 1100, 400}},
			// Raised platform with an edge at x=1500.
			{Min: [3]float32{1000, -2000, 0}, Max: [3]float32{1500, -1000, 200}},
		},
		Ramps: []RampSpec{
			{X0: -1500, Y0: -800, X1: -900, Y1: -400, Z0: 0, Z1: 300},
		},
	}
}

// LoadLayout reads a YAML layout from path.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("error reading layout: %v", err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("error decoding layout: %v", err)
	}
	return l, nil
}

// Build returns a new world holding the geometry of the layout.
func (l Layout) Build(logger *logrus.Logger) *World {
	w := New(logger)
	for _, b := range l.Boxes {
		w.AddBox(cube.Box(b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2]))
	}
	for _, r := range l.Ramps {
		w.AddRamp(NewRamp(r.X0, r.Y0, r.X1, r.Y1, r.Z0, r.Z1))
	}
	return w
}
