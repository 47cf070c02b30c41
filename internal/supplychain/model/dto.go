package model

import "time"

// BlockRecord is a committed block stamped with the session that produced it.
type BlockRecord struct {
	SessionID string
	Block     Block
}

// TransactionRecord is one transaction row of an exported block.
type TransactionRecord struct {
	SessionID string
	BlockID   int
	Index     int
	Timestamp time.Time
	Tx        Transaction
}

// TransactionRecords flattens the transactions of the given records.
func TransactionRecords(records []BlockRecord) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(records))
	for _, r := range records {
		for i, tx := range r.Block.Transactions {
			out = append(out, TransactionRecord{
				SessionID: r.SessionID,
				BlockID:   r.Block.ID,
				Index:     i,
				Timestamp: r.Block.Timestamp,
				Tx:        tx,
			})
		}
	}
	return out
}
