// Package model defines domain models for the supply chain simulator.
package model

// GenesisSource is the transaction source used when the first stage receives goods.
const GenesisSource = "Genesis"

// Stage is one node of the fixed supply chain sequence.
type Stage struct {
	Name   string `json:"name"`
	Action string `json:"action"`
}

var (
	// Supplier ships raw materials into the chain.
	Supplier = Stage{Name: "Supplier", Action: "Supply Raw Materials"}
	// Manufacturer turns raw materials into goods.
	Manufacturer = Stage{Name: "Manufacturer", Action: "Manufacture Goods"}
	// Distributor moves manufactured goods to retail.
	Distributor = Stage{Name: "Distributor", Action: "Distribute Goods"}
	// Retailer stocks shelves.
	Retailer = Stage{Name: "Retailer", Action: "Stock Shelves"}
	// Consumer buys stocked goods.
	Consumer = Stage{Name: "Consumer", Action: "Purchase Goods"}
)

// DefaultStages returns the ordered stage table. The returned slice is a fresh copy.
func DefaultStages() []Stage {
	return []Stage{Supplier, Manufacturer, Distributor, Retailer, Consumer}
}
