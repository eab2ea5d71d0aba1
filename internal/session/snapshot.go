package session

import (
	"encoding/json"
	"fmt"

	"github.com/talgya/acreage/internal/farm"
)

// Snapshot is the persisted shape of a session. Worker positions are
// deliberately not saved; restored workers respawn at the grid
// midpoint with their carried crops intact.
type Snapshot struct {
	// Money is a pointer so a missing field falls back to the
	// starting balance instead of zero.
	Money            *float64                 `json:"money"`
	GameTime         float64                  `json:"game_time"`
	NumSilos         int                      `json:"num_silos"`
	Workers          WorkerSnapshot           `json:"workers"`
	Inventory        map[string]int           `json:"inventory"`
	SelectedPlant    *string                  `json:"selected_plant_type"`
	PriceUpdateTimer float64                  `json:"price_update_timer"`
	PriceHistories   map[string]PriceSnapshot `json:"price_histories"`
	Tiles            []TileSnapshot           `json:"tiles"`
}

// WorkerSnapshot records the roster size and what each worker carries.
type WorkerSnapshot struct {
	Count   int       `json:"count"`
	Carried []*string `json:"carried"`
}

// PriceSnapshot is the persisted price state for one crop.
type PriceSnapshot struct {
	BasePrice         float64   `json:"base_price"`
	CurrentMultiplier float64   `json:"current_multiplier"`
	History           []float64 `json:"history"`
}

// TileSnapshot is the persisted state of one plot.
type TileSnapshot struct {
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Purchased bool           `json:"purchased"`
	HasSilo   bool           `json:"has_silo"`
	Plant     *PlantSnapshot `json:"plant"`
	Pending   *string        `json:"pending_plant_type"`
}

// PlantSnapshot is a live crop on a tile.
type PlantSnapshot struct {
	Type        string  `json:"type"`
	PlantedTime float64 `json:"planted_time"`
}

// Snapshot captures the session's deterministic state.
func (s *Session) Snapshot() *Snapshot {
	money := s.Money
	snap := &Snapshot{
		Money:            &money,
		GameTime:         s.GameTime,
		NumSilos:         s.Field.NumSilos,
		Inventory:        make(map[string]int, len(s.Field.Inventory)),
		PriceUpdateTimer: s.PriceTimer,
		PriceHistories:   make(map[string]PriceSnapshot, len(s.Catalog)),
		Tiles:            make([]TileSnapshot, 0, s.Field.Len()),
	}

	selected := s.Selected.Name
	snap.SelectedPlant = &selected

	snap.Workers.Count = len(s.Workers)
	for _, w := range s.Workers {
		if w.Carrying == "" {
			snap.Workers.Carried = append(snap.Workers.Carried, nil)
		} else {
			carried := w.Carrying
			snap.Workers.Carried = append(snap.Workers.Carried, &carried)
		}
	}

	for name, count := range s.Field.Inventory {
		snap.Inventory[name] = count
	}

	for _, pt := range s.Catalog {
		ps, ok := s.Prices.State(pt.Name)
		if !ok {
			continue
		}
		snap.PriceHistories[pt.Name] = PriceSnapshot{
			BasePrice:         ps.BasePrice,
			CurrentMultiplier: ps.Multiplier,
			History:           append([]float64(nil), ps.History...),
		}
	}

	for i := 0; i < s.Field.Len(); i++ {
		p := s.Field.Plot(i)
		ts := TileSnapshot{X: p.X, Y: p.Y, Purchased: p.Purchased, HasSilo: p.HasSilo}
		if p.Plant != nil {
			ts.Plant = &PlantSnapshot{Type: p.Plant.Type.Name, PlantedTime: p.Plant.PlantedTime}
		}
		if p.Pending != "" {
			pending := p.Pending
			ts.Pending = &pending
		}
		snap.Tiles = append(snap.Tiles, ts)
	}

	return snap
}

// EncodeSnapshot serializes a snapshot to its JSON document form.
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// DecodeSnapshot parses a snapshot document field by field. Anything
// other than a top-level JSON object is an error (the caller falls
// back to a fresh session); within the object, fields that are missing
// or of the wrong shape simply keep their defaults, and a legacy
// integer `workers` field is accepted as a bare count.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("snapshot is not an object: %w", err)
	}

	snap := &Snapshot{}
	tryField(raw, "money", &snap.Money)
	tryField(raw, "game_time", &snap.GameTime)
	tryField(raw, "num_silos", &snap.NumSilos)
	tryField(raw, "selected_plant_type", &snap.SelectedPlant)
	tryField(raw, "price_update_timer", &snap.PriceUpdateTimer)

	// Map fields are parsed entry by entry so one mangled value doesn't
	// discard the rest of the map.
	var invMsgs map[string]json.RawMessage
	tryField(raw, "inventory", &invMsgs)
	for name, msg := range invMsgs {
		var count int
		if json.Unmarshal(msg, &count) == nil {
			if snap.Inventory == nil {
				snap.Inventory = make(map[string]int, len(invMsgs))
			}
			snap.Inventory[name] = count
		}
	}

	var priceMsgs map[string]json.RawMessage
	tryField(raw, "price_histories", &priceMsgs)
	for name, msg := range priceMsgs {
		var ps PriceSnapshot
		if json.Unmarshal(msg, &ps) == nil {
			if snap.PriceHistories == nil {
				snap.PriceHistories = make(map[string]PriceSnapshot, len(priceMsgs))
			}
			snap.PriceHistories[name] = ps
		}
	}

	if msg, ok := raw["workers"]; ok {
		if err := json.Unmarshal(msg, &snap.Workers); err != nil {
			var count int
			if json.Unmarshal(msg, &count) == nil {
				snap.Workers.Count = count
			}
		}
	}

	// Tiles likewise: a single mangled entry doesn't discard the grid.
	var tileMsgs []json.RawMessage
	tryField(raw, "tiles", &tileMsgs)
	for _, msg := range tileMsgs {
		var ts TileSnapshot
		if json.Unmarshal(msg, &ts) == nil {
			snap.Tiles = append(snap.Tiles, ts)
		}
	}

	return snap, nil
}

func tryField[T any](raw map[string]json.RawMessage, key string, dst *T) {
	msg, ok := raw[key]
	if !ok {
		return
	}
	var v T
	if json.Unmarshal(msg, &v) == nil {
		*dst = v
	}
}

// Restore rebuilds the session from a snapshot on top of a fresh
// state. Unknown crop names are dropped, counts are clamped to sane
// ranges, and a session already past its duration comes back game over.
func (s *Session) Restore(snap *Snapshot) {
	s.Reset()

	if snap.Money != nil {
		s.Money = *snap.Money
	}
	s.GameTime = snap.GameTime
	s.PriceTimer = snap.PriceUpdateTimer

	for name, count := range snap.Inventory {
		if _, ok := s.Field.Inventory[name]; ok && count > 0 {
			s.Field.Inventory[name] = count
		}
	}

	for _, pt := range s.Catalog {
		entry, ok := snap.PriceHistories[pt.Name]
		if !ok {
			continue
		}
		base := entry.BasePrice
		if base <= 0 {
			base = pt.SellPrice
		}
		mult := entry.CurrentMultiplier
		if mult <= 0 {
			mult = 1.0
		}
		s.Prices.Restore(pt.Name, base, mult, entry.History)
	}

	if snap.SelectedPlant != nil {
		if pt, ok := s.Catalog.ByName(*snap.SelectedPlant); ok {
			s.Selected = pt
		}
	}

	count := snap.Workers.Count
	if count < 1 {
		count = 1
	}
	s.Workers = nil
	for i := 0; i < count; i++ {
		s.spawnWorker()
	}
	for i, carried := range snap.Workers.Carried {
		if i >= len(s.Workers) || carried == nil {
			continue
		}
		if _, ok := s.Catalog.ByName(*carried); ok {
			s.Workers[i].Carrying = *carried
		}
	}

	s.Field.NumSilos = 0
	for _, ts := range snap.Tiles {
		p := s.Field.At(ts.X, ts.Y)
		if p == nil {
			continue
		}
		p.Purchased = ts.Purchased
		p.HasSilo = ts.HasSilo
		if p.HasSilo {
			s.Field.NumSilos++
			continue
		}
		if ts.Plant != nil && p.Purchased {
			if pt, ok := s.Catalog.ByName(ts.Plant.Type); ok {
				p.Plant = &farm.PlantInstance{Type: pt, PlantedTime: ts.Plant.PlantedTime}
			}
		}
		if ts.Pending != nil && p.Purchased && p.Plant == nil {
			if _, ok := s.Catalog.ByName(*ts.Pending); ok {
				p.Pending = *ts.Pending
			}
		}
	}
	if snap.NumSilos > s.Field.NumSilos {
		s.Field.NumSilos = snap.NumSilos
	}

	if s.GameTime >= s.Config.Duration {
		s.GameOver = true
		s.Paused = true
	}
}
