// Package inventory applies per-stage stock movements to the supply chain inventory.
package inventory

import "github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"

// startingRawMaterials is the raw material stock on startup.
const startingRawMaterials = 10

// Delta is a signed change to one category.
type Delta struct {
	Category model.Category
	Change   int
}

var stageDeltas = map[string][]Delta{
	model.Supplier.Name: {
		{Category: model.RawMaterials, Change: 5},
	},
	model.Manufacturer.Name: {
		{Category: model.RawMaterials, Change: -2},
		{Category: model.ManufacturedGoods, Change: 1},
	},
	model.Distributor.Name: {
		{Category: model.ManufacturedGoods, Change: -1},
		{Category: model.DistributedGoods, Change: 1},
	},
	model.Retailer.Name: {
		{Category: model.DistributedGoods, Change: -1},
		{Category: model.RetailStock, Change: 1},
	},
	model.Consumer.Name: {
		{Category: model.RetailStock, Change: -1},
		{Category: model.SoldItems, Change: 1},
	},
}

// Initial returns the starting snapshot: 10 raw materials, everything else empty.
func Initial() model.Inventory {
	inv := make(model.Inventory, len(model.Categories()))
	for _, c := range model.Categories() {
		inv[c] = 0
	}
	inv[model.RawMaterials] = startingRawMaterials
	return inv
}

// Deltas returns the movements a committed transaction into stage causes.
// The second result is false for stage names outside the table.
func Deltas(stage string) ([]Delta, bool) {
	d, ok := stageDeltas[stage]
	if !ok {
		return nil, false
	}
	return append([]Delta(nil), d...), true
}

// ApplyStage returns a new inventory with the movements of stage applied to inv.
// Unknown stages leave the inventory unchanged. Quantities are not clamped, so
// applying stages out of cyclic order can leave a category negative.
func ApplyStage(stage string, inv model.Inventory) model.Inventory {
	out := inv.Clone()
	deltas, ok := stageDeltas[stage]
	if !ok {
		return out
	}
	for _, d := range deltas {
		out[d.Category] += d.Change
	}
	return out
}
