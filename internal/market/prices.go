// Package market provides the dynamic crop pricing model: a bounded
// mean-reverting random walk per crop with a short price history for
// charting.
package market

import (
	"math/rand"

	"github.com/talgya/acreage/internal/catalog"
)

// HistoryLength bounds the per-crop price history; oldest entries are
// evicted as new prices are appended.
const HistoryLength = 10

// Walk parameters. Each update nudges the multiplier by a uniform step
// and pulls it back toward 1.0.
const (
	walkStep      = 0.08
	meanReversion = 0.1
	minMultiplier = 0.5
	maxMultiplier = 1.5
)

// PriceState tracks dynamic pricing for a single crop.
type PriceState struct {
	BasePrice  float64   `json:"base_price"`
	Multiplier float64   `json:"current_multiplier"`
	History    []float64 `json:"history"` // Recent absolute prices, newest last
}

// Book holds the price state for every crop in the catalog.
type Book struct {
	catalog catalog.Catalog
	states  map[string]*PriceState
	rng     *rand.Rand
}

// NewBook creates a price book with every multiplier at 1.0 and each
// history seeded with the baseline price.
func NewBook(cat catalog.Catalog, seed int64) *Book {
	states := make(map[string]*PriceState, len(cat))
	for _, pt := range cat {
		states[pt.Name] = &PriceState{
			BasePrice:  pt.SellPrice,
			Multiplier: 1.0,
			History:    []float64{pt.SellPrice},
		}
	}
	return &Book{
		catalog: cat,
		states:  states,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// AdvanceInterval performs one price update for every crop: a small
// random walk with mean reversion, clamped to [0.5, 1.5], and appends
// the realized price to the history. Crops draw independently, so
// iteration order does not affect correctness; catalog order keeps the
// draws reproducible for a fixed seed.
func (b *Book) AdvanceInterval() {
	for _, pt := range b.catalog {
		ps := b.states[pt.Name]
		delta := b.rng.Float64()*2*walkStep - walkStep
		ps.Multiplier += delta + (1.0-ps.Multiplier)*meanReversion
		if ps.Multiplier < minMultiplier {
			ps.Multiplier = minMultiplier
		}
		if ps.Multiplier > maxMultiplier {
			ps.Multiplier = maxMultiplier
		}
		price := ps.BasePrice * ps.Multiplier
		ps.History = append(ps.History, price)
		if len(ps.History) > HistoryLength {
			ps.History = ps.History[len(ps.History)-HistoryLength:]
		}
	}
}

// Prices returns the current effective sell and seed price for a crop.
// The seed price tracks the sell price at the catalog's fixed
// cost-to-price ratio rather than walking independently.
func (b *Book) Prices(pt catalog.PlantType) (sellPrice, seedPrice float64) {
	ps, ok := b.states[pt.Name]
	if !ok {
		return pt.SellPrice, pt.SeedCost
	}
	sellPrice = ps.BasePrice * ps.Multiplier
	ratio := pt.SeedCost / pt.SellPrice
	return sellPrice, sellPrice * ratio
}

// SellPrice returns the current effective sell price for a crop name.
// Unknown crops sell for nothing.
func (b *Book) SellPrice(name string) float64 {
	pt, ok := b.catalog.ByName(name)
	if !ok {
		return 0
	}
	sell, _ := b.Prices(pt)
	return sell
}

// State returns the price state for a crop name, for charting and
// serialization.
func (b *Book) State(name string) (*PriceState, bool) {
	ps, ok := b.states[name]
	return ps, ok
}

// Restore overwrites the state for one crop from persisted values.
// Unknown crop names are ignored; an empty history is reseeded with the
// base price.
func (b *Book) Restore(name string, basePrice, multiplier float64, history []float64) {
	if _, ok := b.states[name]; !ok {
		return
	}
	if len(history) == 0 {
		history = []float64{basePrice}
	}
	if len(history) > HistoryLength {
		history = history[len(history)-HistoryLength:]
	}
	b.states[name] = &PriceState{
		BasePrice:  basePrice,
		Multiplier: multiplier,
		History:    append([]float64(nil), history...),
	}
}
