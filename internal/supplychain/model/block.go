package model

import "time"

// GenesisDigest is the previous digest of the first block.
const GenesisDigest = "0"

// Block is an immutable ledger record for one committed stage transition.
type Block struct {
	ID             int
	Stage          string
	Action         string
	Timestamp      time.Time
	PreviousDigest string
	Digest         string
	Transactions   []Transaction
}

// Clone returns a copy that shares no memory with b.
func (b Block) Clone() Block {
	b.Transactions = append([]Transaction(nil), b.Transactions...)
	return b
}
