// Package catalog provides the static crop definitions.
// Entries are immutable after construction; everything else in the
// simulation references them by name.
package catalog

// Color is an RGB triple used by renderers for crop tinting.
type Color [3]uint8

// PlantType is the immutable definition of a crop.
type PlantType struct {
	Name      string  `json:"name"`
	Color     Color   `json:"color"`
	GrowTime  float64 `json:"grow_time"`  // Seconds until fully grown
	SeedCost  float64 `json:"seed_cost"`  // Baseline seed cost
	SellPrice float64 `json:"sell_price"` // Baseline sell price
}

// Catalog is an ordered list of crop definitions. Order matters: it is
// the display order and the deterministic iteration order for pricing.
type Catalog []PlantType

// Default returns the standard crop table.
func Default() Catalog {
	return Catalog{
		{Name: "Wheat", Color: Color{218, 165, 32}, GrowTime: 15, SeedCost: 50, SellPrice: 80},
		{Name: "Corn", Color: Color{255, 215, 0}, GrowTime: 25, SeedCost: 80, SellPrice: 150},
		{Name: "Berries", Color: Color{178, 34, 34}, GrowTime: 40, SeedCost: 120, SellPrice: 260},
		{Name: "Pumpkin", Color: Color{255, 140, 0}, GrowTime: 60, SeedCost: 160, SellPrice: 340},
	}
}

// ByName looks up a crop definition by its unique name.
func (c Catalog) ByName(name string) (PlantType, bool) {
	for _, pt := range c {
		if pt.Name == name {
			return pt, true
		}
	}
	return PlantType{}, false
}

// Names returns the crop names in catalog order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, pt := range c {
		names[i] = pt.Name
	}
	return names
}
