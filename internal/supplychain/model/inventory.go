package model

// Category names a class of goods tracked by the inventory.
type Category string

var (
	RawMaterials      Category = "Raw Materials"
	ManufacturedGoods Category = "Manufactured Goods"
	DistributedGoods  Category = "Distributed Goods"
	RetailStock       Category = "Retail Stock"
	SoldItems         Category = "Sold Items"
)

// Categories returns the tracked categories in display order.
func Categories() []Category {
	return []Category{RawMaterials, ManufacturedGoods, DistributedGoods, RetailStock, SoldItems}
}

// Inventory maps a category to its quantity.
type Inventory map[Category]int

// Clone returns an independent copy of inv.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for k, v := range inv {
		out[k] = v
	}
	return out
}

// Negative returns the categories holding a quantity below zero, in display order.
func (inv Inventory) Negative() []Category {
	var out []Category
	for _, c := range Categories() {
		if inv[c] < 0 {
			out = append(out, c)
		}
	}
	return out
}
