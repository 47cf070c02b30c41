package model

// Snapshot is a read-only view of the simulator state.
type Snapshot struct {
	Step       int
	Stage      Stage
	Stages     []Stage
	Blocks     []Block
	Inventory  Inventory
	Pending    *Transaction
	Processing bool
}
