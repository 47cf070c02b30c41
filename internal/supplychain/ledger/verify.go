package ledger

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
)

var (
	// ErrSequenceGap reports a block whose id does not follow its predecessor.
	ErrSequenceGap = errors.New("block id out of sequence")
	// ErrBrokenLink reports a previous digest that does not match the preceding block.
	ErrBrokenLink = errors.New("previous digest does not match")
	// ErrDigestMismatch reports a stored digest that differs from the recomputed one.
	ErrDigestMismatch = errors.New("digest does not match block contents")
)

// VerifyError locates the first invalid block of a chain.
type VerifyError struct {
	BlockID int
	Err     error
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("block %d: %v", e.BlockID, e.Err)
}

func (e *VerifyError) Unwrap() error {
	return e.Err
}

// Verify checks that blocks form a valid chain starting at id 1.
func Verify(blocks []model.Block) error {
	prev := model.GenesisDigest
	for i, b := range blocks {
		if b.ID != i+1 {
			return &VerifyError{BlockID: b.ID, Err: ErrSequenceGap}
		}
		if b.PreviousDigest != prev {
			return &VerifyError{BlockID: b.ID, Err: ErrBrokenLink}
		}
		if b.Digest != Digest(b.ID, b.Stage, b.Transactions) {
			return &VerifyError{BlockID: b.ID, Err: ErrDigestMismatch}
		}
		prev = b.Digest
	}
	return nil
}
