// Package farm provides the plot grid, inventory, and storage
// accounting. The Field owns every Plot and PlantInstance; workers and
// the session refer to plots by arena index only.
package farm

import "github.com/talgya/acreage/internal/catalog"

// PlantInstance is a single planted crop on a plot.
type PlantInstance struct {
	Type        catalog.PlantType
	PlantedTime float64 // Game-clock seconds at planting
}

// Ready reports whether the crop has fully grown.
func (p *PlantInstance) Ready(now float64) bool {
	return now-p.PlantedTime >= p.Type.GrowTime
}

// Progress returns growth completion in [0, 1].
func (p *PlantInstance) Progress(now float64) float64 {
	if p.Type.GrowTime <= 0 {
		return 1
	}
	prog := (now - p.PlantedTime) / p.Type.GrowTime
	if prog < 0 {
		return 0
	}
	if prog > 1 {
		return 1
	}
	return prog
}

// Plot is a single grid cell. Purchased and HasSilo only ever go from
// false to true. A plot holds at most one of an active plant or a
// pending seed, and never a plant or seed alongside a silo.
type Plot struct {
	X, Y      int
	Purchased bool
	HasSilo   bool
	Plant     *PlantInstance
	Pending   string // Crop name of a purchased, undelivered seed; "" = none

	// Soil is a static noise-derived shade in [0, 1] used by renderers
	// to tint the tile. It has no effect on the simulation.
	Soil float64

	centerX, centerY float64
}

// Center returns the plot's center in world coordinates.
func (p *Plot) Center() (x, y float64) {
	return p.centerX, p.centerY
}

// CanPlant reports whether a seed may be queued here: purchased land
// with no plant, no pending seed, and no silo.
func (p *Plot) CanPlant() bool {
	return p.Purchased && p.Plant == nil && p.Pending == "" && !p.HasSilo
}

// ReadyPlant reports whether the plot holds a fully grown crop.
func (p *Plot) ReadyPlant(now float64) bool {
	return p.Plant != nil && p.Plant.Ready(now)
}

// DeliverablePending reports whether the plot holds a pending seed a
// worker could plant right now.
func (p *Plot) DeliverablePending() bool {
	return p.Pending != "" && p.Plant == nil
}
