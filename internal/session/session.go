// Package session provides the session controller: money, the game
// clock, the worker roster, intent dispatch, and the snapshot contract.
// All state lives in the Session value; there are no package globals.
package session

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/acreage/internal/catalog"
	"github.com/talgya/acreage/internal/config"
	"github.com/talgya/acreage/internal/farm"
	"github.com/talgya/acreage/internal/market"
	"github.com/talgya/acreage/internal/worker"
)

// Session holds one complete game. The zero value is not usable; build
// one with New.
type Session struct {
	Config  config.Config
	Catalog catalog.Catalog
	Field   *farm.Field
	Prices  *market.Book
	Workers []*worker.Worker

	Money    float64
	GameTime float64
	Paused   bool
	GameOver bool

	Selected     catalog.PlantType
	SiloMode     bool
	SelectedSilo int // Arena index of the inspected silo, -1 = none

	PriceTimer float64
	Events     []Event

	seed int64
}

// Event is a notable occurrence worth surfacing to a renderer.
type Event struct {
	Time        float64 `json:"time"`
	Description string  `json:"description"`
	Category    string  `json:"category"` // "land", "silo", "worker", "trade", "session"
}

const maxEvents = 64

// New creates a fresh session with one worker and the full starting
// balance. The seed drives price movement and soil shading.
func New(cfg config.Config, seed int64) *Session {
	s := &Session{Config: cfg, seed: seed}
	s.Reset()
	return s
}

// Reset reconstructs the session in place: fresh field, prices at
// baseline, one worker, starting money. The only way out of game over.
func (s *Session) Reset() {
	cfg := s.Config
	layout := farm.Layout{
		Cols:     cfg.GridCols,
		Rows:     cfg.GridRows,
		TileSize: cfg.TileSize,
		MarginX:  cfg.GridMargin,
		MarginY:  cfg.GridMargin,
	}

	s.Catalog = catalog.Default()
	s.Field = farm.NewField(layout, s.Catalog, cfg.BaseStorage, cfg.SiloCapacity, s.seed)
	s.Prices = market.NewBook(s.Catalog, s.seed)
	s.Workers = nil
	s.spawnWorker()

	s.Money = cfg.StartingMoney
	s.GameTime = 0
	s.Paused = false
	s.GameOver = false
	s.Selected = s.Catalog[0]
	s.SiloMode = false
	s.SelectedSilo = -1
	s.PriceTimer = 0
	s.Events = nil
}

// Tick advances the simulation by dt seconds of unpaused play. The
// caller is responsible for not ticking while paused; game over stops
// the clock for good.
func (s *Session) Tick(dt float64) {
	if s.GameOver {
		return
	}

	s.GameTime += dt
	if s.GameTime >= s.Config.Duration {
		s.GameOver = true
		s.Paused = true
		s.record("time's up", "session")
		slog.Info("session over", "final_money", humanize.CommafWithDigits(s.Money, 0))
	}

	// Upkeep is deducted unguarded; money may go negative.
	s.Money -= s.Config.WorkerUpkeep * float64(len(s.Workers)) * dt

	for _, w := range s.Workers {
		w.Update(s.Field, s.GameTime, dt)
	}

	// Carry the timer overflow instead of resetting to zero, so the
	// update cadence doesn't drift over a long session.
	s.PriceTimer += dt
	if s.PriceTimer >= s.Config.PriceInterval {
		s.PriceTimer -= s.Config.PriceInterval
		s.Prices.AdvanceInterval()
	}
}

// TimeLeft returns the seconds remaining before the session ends.
func (s *Session) TimeLeft() float64 {
	left := s.Config.Duration - s.GameTime
	if left < 0 {
		return 0
	}
	return left
}

// BuyLand purchases an unowned plot. Silently refuses when the plot is
// already owned, funds are short, or the session is over; buying twice
// charges exactly once.
func (s *Session) BuyLand(x, y int) {
	s.SelectedSilo = -1
	if s.GameOver || s.Money < s.Config.LandCost {
		return
	}
	if s.Field.Purchase(x, y) {
		s.Money -= s.Config.LandCost
		s.record(fmt.Sprintf("bought land at %d,%d", x, y), "land")
	}
}

// ClickTile resolves a click on the grid: buy unowned land, place a
// silo in silo mode, select an existing silo, or queue a seed. A click
// that hits no plot clears the silo selection.
func (s *Session) ClickTile(x, y int) {
	p := s.Field.At(x, y)
	if p == nil {
		s.SelectedSilo = -1
		return
	}

	if !p.Purchased {
		s.BuyLand(x, y)
		return
	}

	if s.SiloMode {
		// Single-shot mode: one placement attempt, then exit
		// whether or not it succeeded.
		s.placeSilo(x, y)
		s.SiloMode = false
		return
	}

	if p.HasSilo {
		s.SelectedSilo = s.Field.IndexOf(x, y)
		return
	}

	s.SelectedSilo = -1
	s.queueSeed(x, y)
}

func (s *Session) placeSilo(x, y int) {
	if s.GameOver || s.Money < s.Config.SiloCost {
		return
	}
	if s.Field.PlaceSilo(x, y) {
		s.Money -= s.Config.SiloCost
		s.SelectedSilo = s.Field.IndexOf(x, y)
		s.record(fmt.Sprintf("built silo at %d,%d", x, y), "silo")
	}
}

func (s *Session) queueSeed(x, y int) {
	if s.GameOver {
		return
	}
	p := s.Field.At(x, y)
	if p == nil || !p.CanPlant() {
		return
	}
	_, seedPrice := s.Prices.Prices(s.Selected)
	if s.Money < seedPrice {
		return
	}
	if s.Field.QueueSeed(x, y, s.Selected) {
		s.Money -= seedPrice
	}
}

// ToggleSiloMode flips silo placement mode. Entering the mode drops
// any silo selection; game over forces the mode off.
func (s *Session) ToggleSiloMode() {
	if s.GameOver {
		s.SiloMode = false
		return
	}
	s.SiloMode = !s.SiloMode
	if s.SiloMode {
		s.SelectedSilo = -1
	}
}

// SelectCrop changes the seed that future plantings use and leaves
// silo mode. Unknown names are ignored.
func (s *Session) SelectCrop(name string) {
	pt, ok := s.Catalog.ByName(name)
	if !ok {
		return
	}
	s.Selected = pt
	s.SiloMode = false
}

// BuyWorker hires one more field hand at the spawn point.
func (s *Session) BuyWorker() {
	if s.GameOver || s.Money < s.Config.WorkerCost {
		return
	}
	s.Money -= s.Config.WorkerCost
	s.spawnWorker()
	s.record("hired a worker", "worker")
}

// DismissWorker lets the most recently hired worker go. A carried crop
// leaves with them.
func (s *Session) DismissWorker() {
	if s.GameOver || len(s.Workers) == 0 {
		return
	}
	s.Workers = s.Workers[:len(s.Workers)-1]
	s.record("dismissed a worker", "worker")
}

// SellAll liquidates the whole inventory at current prices.
func (s *Session) SellAll() {
	if s.GameOver {
		return
	}
	proceeds := s.Field.SellAll(s.Prices)
	if proceeds > 0 {
		s.Money += proceeds
		s.record(fmt.Sprintf("sold inventory for $%s", humanize.CommafWithDigits(proceeds, 0)), "trade")
	}
}

// TogglePause flips the pause state while the session is live.
func (s *Session) TogglePause() {
	if s.GameOver {
		return
	}
	s.Paused = !s.Paused
}

// ActionAt returns the action a click on the given plot would take
// right now ("buy land", "build silo", "inspect silo", "plant Wheat"),
// or "" when a click would do nothing. Pure query for hover previews.
func (s *Session) ActionAt(x, y int) string {
	p := s.Field.At(x, y)
	if p == nil {
		return ""
	}

	if !p.Purchased {
		if !s.GameOver && s.Money >= s.Config.LandCost {
			return "buy land"
		}
		return ""
	}

	if s.SiloMode {
		if !s.GameOver && !p.HasSilo && p.Plant == nil && p.Pending == "" && s.Money >= s.Config.SiloCost {
			return "build silo"
		}
		return ""
	}

	if p.HasSilo {
		return "inspect silo"
	}

	if !s.GameOver && p.CanPlant() {
		_, seedPrice := s.Prices.Prices(s.Selected)
		if s.Money >= seedPrice {
			return "plant " + s.Selected.Name
		}
	}
	return ""
}

func (s *Session) spawnWorker() {
	x, y := s.Field.Layout.SpawnPoint()
	s.Workers = append(s.Workers, worker.New(x, y, s.Config.WorkerSpeed))
}

func (s *Session) record(desc, category string) {
	s.Events = append(s.Events, Event{Time: s.GameTime, Description: desc, Category: category})
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
}
