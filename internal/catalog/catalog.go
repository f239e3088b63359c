package catalog

import (
	"sort"
	"strconv"
	"strings"

	"tailorbill/backend/internal/domain"
)

// Hourly labour rates. The workbook lists no labour table, so the catalog
// carries the rates the workshop has billed at for years.
const (
	DefaultMachineHourRate    = 750.0
	DefaultEmbroideryHourRate = 550.0
)

// Catalog is an immutable snapshot of the reference prices. Rebuild returns a
// fresh snapshot; nothing mutates one in place, so a snapshot handed to a
// composition call can never change under it.
type Catalog struct {
	layerPrice     map[string]float64
	patternPrice   map[string]float64
	accessoryPrice map[string]float64

	machineHourRate    float64
	embroideryHourRate float64

	layers      []string
	patterns    []string
	accessories []string
}

// Empty returns a catalog with no entries; every lookup resolves to 0.
func Empty() *Catalog {
	return Rebuild(nil, nil, nil)
}

// Rebuild constructs a snapshot from the three raw row sets. A row whose
// price cell is blank, "-", or not parseable as a number is left out of the
// price map but still listed by name, matching how the source workbook mixes
// named rows with and without a usable rate.
func Rebuild(layerRows, patternRows, accessoryRows []domain.CatalogRow) *Catalog {
	c := &Catalog{
		layerPrice:     make(map[string]float64, len(layerRows)),
		patternPrice:   make(map[string]float64, len(patternRows)),
		accessoryPrice: make(map[string]float64, len(accessoryRows)),

		machineHourRate:    DefaultMachineHourRate,
		embroideryHourRate: DefaultEmbroideryHourRate,
	}
	c.layers = fill(c.layerPrice, layerRows)
	c.patterns = fill(c.patternPrice, patternRows)
	c.accessories = fill(c.accessoryPrice, accessoryRows)
	return c
}

func fill(prices map[string]float64, rows []domain.CatalogRow) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		names = append(names, name)
		raw := strings.TrimSpace(row.Price)
		if raw == "" || raw == "-" {
			continue
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		prices[name] = price
	}
	sort.Strings(names)
	return names
}

// LayerPrice returns the per-unit material rate for a layer item, 0 if the
// item has no listed rate. Absence is a normal "no override" signal.
func (c *Catalog) LayerPrice(name string) float64 {
	return c.layerPrice[name]
}

// PatternPrice returns the flat rate for a dress pattern, 0 if the pattern is
// costed itemized.
func (c *Catalog) PatternPrice(name string) float64 {
	return c.patternPrice[name]
}

// AccessoryPrice returns the per-unit rate for an accessory item, 0 if
// unlisted.
func (c *Catalog) AccessoryPrice(name string) float64 {
	return c.accessoryPrice[name]
}

// MachineHourRate returns the per-hour rate for machine work.
func (c *Catalog) MachineHourRate() float64 {
	return c.machineHourRate
}

// EmbroideryHourRate returns the per-hour rate for embroidery work.
func (c *Catalog) EmbroideryHourRate() float64 {
	return c.embroideryHourRate
}

// ResolvePrice looks up a price by catalog kind. Unknown kinds and missing
// keys both resolve to 0. The labour kinds ignore key: their unit is an hour,
// not a named item.
func (c *Catalog) ResolvePrice(kind, key string) float64 {
	switch kind {
	case domain.CatalogKindLayer:
		return c.LayerPrice(key)
	case domain.CatalogKindPattern:
		return c.PatternPrice(key)
	case domain.CatalogKindAccessory:
		return c.AccessoryPrice(key)
	case domain.CatalogKindMachineLabour:
		return c.machineHourRate
	case domain.CatalogKindEmbroideryLabour:
		return c.embroideryHourRate
	default:
		return 0
	}
}

// Layers lists the layer item names, sorted.
func (c *Catalog) Layers() []string {
	return append([]string(nil), c.layers...)
}

// Patterns lists the dress pattern names, sorted.
func (c *Catalog) Patterns() []string {
	return append([]string(nil), c.patterns...)
}

// Accessories lists the accessory item names, sorted.
func (c *Catalog) Accessories() []string {
	return append([]string(nil), c.accessories...)
}
