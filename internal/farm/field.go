package farm

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/acreage/internal/catalog"
	"github.com/talgya/acreage/internal/market"
)

// Layout describes the grid geometry in world units. Renderers share
// these numbers, so plot centers line up with drawn tiles.
type Layout struct {
	Cols, Rows int
	TileSize   float64
	MarginX    float64
	MarginY    float64
}

// DefaultLayout is the standard 10×6 grid.
func DefaultLayout() Layout {
	return Layout{Cols: 10, Rows: 6, TileSize: 64, MarginX: 20, MarginY: 20}
}

// SpawnPoint returns the grid midpoint, where new workers appear.
func (l Layout) SpawnPoint() (x, y float64) {
	return l.MarginX + float64(l.Cols)*l.TileSize/2,
		l.MarginY + float64(l.Rows)*l.TileSize/2
}

// Field is the full farm: a fixed-size arena of plots plus the shared
// inventory and storage accounting. Plots are stored row-major and
// never reallocated, so an index taken at construction stays valid for
// the life of the field.
type Field struct {
	Layout    Layout
	Catalog   catalog.Catalog
	Inventory map[string]int
	NumSilos  int

	baseStorage  int
	siloCapacity int
	plots        []*Plot
}

const soilFrequency = 0.35

// NewField creates an unpurchased grid. Soil shading is deterministic
// from the seed.
func NewField(layout Layout, cat catalog.Catalog, baseStorage, siloCapacity int, soilSeed int64) *Field {
	noise := opensimplex.NewNormalized(soilSeed)

	plots := make([]*Plot, 0, layout.Cols*layout.Rows)
	for y := 0; y < layout.Rows; y++ {
		for x := 0; x < layout.Cols; x++ {
			plots = append(plots, &Plot{
				X:       x,
				Y:       y,
				Soil:    noise.Eval2(float64(x)*soilFrequency, float64(y)*soilFrequency),
				centerX: layout.MarginX + (float64(x)+0.5)*layout.TileSize,
				centerY: layout.MarginY + (float64(y)+0.5)*layout.TileSize,
			})
		}
	}

	inventory := make(map[string]int, len(cat))
	for _, pt := range cat {
		inventory[pt.Name] = 0
	}

	return &Field{
		Layout:       layout,
		Catalog:      cat,
		Inventory:    inventory,
		baseStorage:  baseStorage,
		siloCapacity: siloCapacity,
		plots:        plots,
	}
}

// Len returns the number of plots in the arena.
func (f *Field) Len() int { return len(f.plots) }

// Plot returns the plot at an arena index, or nil if out of range.
func (f *Field) Plot(i int) *Plot {
	if i < 0 || i >= len(f.plots) {
		return nil
	}
	return f.plots[i]
}

// At returns the plot at grid coordinates, or nil if out of range.
func (f *Field) At(x, y int) *Plot {
	if x < 0 || x >= f.Layout.Cols || y < 0 || y >= f.Layout.Rows {
		return nil
	}
	return f.plots[y*f.Layout.Cols+x]
}

// IndexOf returns the arena index for grid coordinates, or -1.
func (f *Field) IndexOf(x, y int) int {
	if x < 0 || x >= f.Layout.Cols || y < 0 || y >= f.Layout.Rows {
		return -1
	}
	return y*f.Layout.Cols + x
}

// StorageCapacity is the total crop capacity: base plus silos.
func (f *Field) StorageCapacity() int {
	return f.baseStorage + f.NumSilos*f.siloCapacity
}

// InventoryTotal is the number of stored crops across all types.
func (f *Field) InventoryTotal() int {
	total := 0
	for _, n := range f.Inventory {
		total += n
	}
	return total
}

// Purchase marks a plot as owned. Returns false if the coordinates are
// out of range or the plot is already purchased. Money is the caller's
// concern.
func (f *Field) Purchase(x, y int) bool {
	p := f.At(x, y)
	if p == nil || p.Purchased {
		return false
	}
	p.Purchased = true
	return true
}

// PlaceSilo builds a silo on a purchased, empty plot and bumps the
// silo count. Refuses occupied, unpurchased, or already-silo plots.
func (f *Field) PlaceSilo(x, y int) bool {
	p := f.At(x, y)
	if p == nil || !p.Purchased || p.HasSilo || p.Plant != nil || p.Pending != "" {
		return false
	}
	p.HasSilo = true
	f.NumSilos++
	return true
}

// QueueSeed reserves a purchased seed on a plantable plot. The plant
// itself is created later, when a worker delivers the seed.
func (f *Field) QueueSeed(x, y int, pt catalog.PlantType) bool {
	p := f.At(x, y)
	if p == nil || !p.CanPlant() {
		return false
	}
	p.Pending = pt.Name
	return true
}

// PlantPending turns a plot's pending seed into a live plant stamped
// with the current game time. Called by a worker on arrival.
func (f *Field) PlantPending(i int, now float64) bool {
	p := f.Plot(i)
	if p == nil || !p.DeliverablePending() {
		return false
	}
	pt, ok := f.Catalog.ByName(p.Pending)
	if !ok {
		// Stale name from a bad restore; drop the seed.
		p.Pending = ""
		return false
	}
	p.Plant = &PlantInstance{Type: pt, PlantedTime: now}
	p.Pending = ""
	return true
}

// PickCrop harvests a ready plant from the plot at index i and returns
// its crop name. The crop is not yet in inventory; the caller carries
// it until deposited. Refuses unready plants and refuses entirely when
// storage is already full, leaving the crop on the plot.
func (f *Field) PickCrop(i int, now float64) (string, bool) {
	p := f.Plot(i)
	if p == nil || !p.ReadyPlant(now) {
		return "", false
	}
	if f.InventoryTotal() >= f.StorageCapacity() {
		return "", false
	}
	name := p.Plant.Type.Name
	p.Plant = nil
	return name, true
}

// DepositCrop adds one carried crop to inventory. Returns false
// without mutation when storage is full.
func (f *Field) DepositCrop(name string) bool {
	if f.InventoryTotal() >= f.StorageCapacity() {
		return false
	}
	f.Inventory[name]++
	return true
}

// SellAll liquidates the entire inventory at current prices and
// returns the proceeds. A no-op worth zero on an empty inventory.
func (f *Field) SellAll(prices *market.Book) float64 {
	proceeds := 0.0
	for _, pt := range f.Catalog {
		count := f.Inventory[pt.Name]
		if count <= 0 {
			continue
		}
		sell, _ := prices.Prices(pt)
		proceeds += float64(count) * sell
		f.Inventory[pt.Name] = 0
	}
	return proceeds
}
