// Package worker provides the autonomous field hands. Every tick a
// worker picks a job by strict priority (carried crops first, then
// pending seeds, then ready harvests), walks in a straight line to the
// chosen plot, and resolves the action instantly on arrival.
package worker

import (
	"math"

	"github.com/google/uuid"

	"github.com/talgya/acreage/internal/farm"
)

// ArriveRadius is how close a worker must be to a plot center before
// its arrival action fires.
const ArriveRadius = 4.0

// DefaultSpeed is the walking speed in world units per second.
const DefaultSpeed = 70.0

// Field is the narrow view of the farm a worker needs: the plot arena
// plus the three operations its arrival actions use. *farm.Field
// satisfies it.
type Field interface {
	Len() int
	Plot(i int) *farm.Plot
	PlantPending(i int, now float64) bool
	PickCrop(i int, now float64) (string, bool)
	DepositCrop(name string) bool
}

// Worker is one autonomous agent. Target is an arena index into the
// field's plots (-1 when idle), never a pointer, so a session reset
// cannot leave it dangling. Carrying names the crop type in transit;
// harvested crops are fungible by type, so no claim on a specific plant
// is kept.
type Worker struct {
	ID       uuid.UUID
	X, Y     float64
	Speed    float64
	Target   int
	Carrying string // "" when empty-handed
}

// New creates an idle worker at the given position.
func New(x, y, speed float64) *Worker {
	return &Worker{
		ID:     uuid.New(),
		X:      x,
		Y:      y,
		Speed:  speed,
		Target: -1,
	}
}

// Update advances the worker by one tick: re-target if the current
// target is gone or stale, walk toward it, and act on arrival. All
// failures are silent; the worker simply reconsiders next tick.
func (w *Worker) Update(f Field, now, dt float64) {
	if w.Target < 0 || !w.targetValid(f, now) {
		w.findTarget(f, now)
	}
	if w.Target < 0 {
		return
	}

	p := f.Plot(w.Target)
	tx, ty := p.Center()
	dx := tx - w.X
	dy := ty - w.Y
	dist := math.Hypot(dx, dy)

	if dist < ArriveRadius {
		w.arrive(f, now)
		return
	}

	w.X += dx / dist * w.Speed * dt
	w.Y += dy / dist * w.Speed * dt
}

// targetValid checks that the current target still matches the job the
// worker is out for. Another worker may have planted the seed or picked
// the crop first.
func (w *Worker) targetValid(f Field, now float64) bool {
	p := f.Plot(w.Target)
	if p == nil {
		return false
	}
	if w.Carrying != "" {
		return p.HasSilo
	}
	return p.DeliverablePending() || p.ReadyPlant(now)
}

// findTarget runs the strict job priority: silo delivery when carrying,
// then pending-seed delivery, then harvest. Within a job it takes the
// nearest plot by Euclidean distance; ties go to the first plot in
// arena order.
func (w *Worker) findTarget(f Field, now float64) {
	if w.Carrying != "" {
		w.Target = w.nearest(f, func(p *farm.Plot) bool { return p.HasSilo })
		return
	}
	if t := w.nearest(f, (*farm.Plot).DeliverablePending); t >= 0 {
		w.Target = t
		return
	}
	w.Target = w.nearest(f, func(p *farm.Plot) bool { return p.ReadyPlant(now) })
}

func (w *Worker) nearest(f Field, want func(*farm.Plot) bool) int {
	best := -1
	bestDistSq := math.Inf(1)
	for i := 0; i < f.Len(); i++ {
		p := f.Plot(i)
		if !want(p) {
			continue
		}
		tx, ty := p.Center()
		dx := tx - w.X
		dy := ty - w.Y
		distSq := dx*dx + dy*dy
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = i
		}
	}
	return best
}

// arrive resolves exactly one action at the target plot. The target is
// cleared regardless of outcome: a full silo or contested crop sends
// the worker back to target selection next tick instead of spinning on
// the same plot within one tick.
func (w *Worker) arrive(f Field, now float64) {
	p := f.Plot(w.Target)
	target := w.Target
	w.Target = -1

	switch {
	case w.Carrying != "" && p.HasSilo:
		if f.DepositCrop(w.Carrying) {
			w.Carrying = ""
		}
	case w.Carrying == "" && p.DeliverablePending():
		f.PlantPending(target, now)
	case w.Carrying == "" && p.ReadyPlant(now):
		if name, ok := f.PickCrop(target, now); ok {
			w.Carrying = name
		}
	}
}
