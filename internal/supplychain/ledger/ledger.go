// Package ledger keeps the append-only chain of supply chain blocks.
package ledger

import (
	"time"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
)

// Ledger is an append-only sequence of blocks. It is not safe for concurrent use;
// callers serialize access.
type Ledger struct {
	blocks []model.Block
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// NewBlock builds the block that would follow prior for tx. prior is not modified.
func NewBlock(tx model.Transaction, prior []model.Block, ts time.Time) model.Block {
	id := len(prior) + 1
	prev := model.GenesisDigest
	if len(prior) > 0 {
		prev = prior[len(prior)-1].Digest
	}
	txs := []model.Transaction{tx}

	return model.Block{
		ID:             id,
		Stage:          tx.To,
		Action:         tx.Action,
		Timestamp:      ts,
		PreviousDigest: prev,
		Digest:         Digest(id, tx.To, txs),
		Transactions:   txs,
	}
}

// Append commits tx as a new block stamped with ts and returns a copy of it.
func (l *Ledger) Append(tx model.Transaction, ts time.Time) model.Block {
	b := NewBlock(tx, l.blocks, ts)
	l.blocks = append(l.blocks, b)
	return b.Clone()
}

// LastDigest returns the digest of the newest block, or the genesis digest when empty.
func (l *Ledger) LastDigest() string {
	if len(l.blocks) == 0 {
		return model.GenesisDigest
	}
	return l.blocks[len(l.blocks)-1].Digest
}

// Len returns the number of blocks.
func (l *Ledger) Len() int {
	return len(l.blocks)
}

// Block returns the block with the given id.
func (l *Ledger) Block(id int) (model.Block, bool) {
	if id < 1 || id > len(l.blocks) {
		return model.Block{}, false
	}
	return l.blocks[id-1].Clone(), true
}

// Blocks returns a copy of all blocks, oldest first.
func (l *Ledger) Blocks() []model.Block {
	out := make([]model.Block, len(l.blocks))
	for i, b := range l.blocks {
		out[i] = b.Clone()
	}
	return out
}
