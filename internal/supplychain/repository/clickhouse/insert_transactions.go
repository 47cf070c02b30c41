package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
	"github.com/goodnatureofminers/supplychain-simulator/pkg/safe"
)

func insertTransactionsQuery() string {
	return `
INSERT INTO supply_chain_transactions (
	session_id,
	block_id,
	tx_index,
	from_stage,
	to_stage,
	amount,
	action,
	timestamp
) VALUES`
}

// InsertTransactions stores transaction rows in ClickHouse.
func (r *Repository) InsertTransactions(ctx context.Context, records []model.TransactionRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_transactions", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertTransactionsQuery())
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, rec := range records {
		var (
			blockID uint64
			index   uint16
			amount  uint32
		)
		if blockID, err = safe.Uint64(rec.BlockID); err != nil {
			return fmt.Errorf("block id: %w", err)
		}
		if index, err = safe.Uint16(rec.Index); err != nil {
			return fmt.Errorf("block %d tx index: %w", rec.BlockID, err)
		}
		if amount, err = safe.Uint32(rec.Tx.Amount); err != nil {
			return fmt.Errorf("block %d tx amount: %w", rec.BlockID, err)
		}
		if err = batch.Append(
			rec.SessionID,
			blockID,
			index,
			rec.Tx.From,
			rec.Tx.To,
			amount,
			rec.Tx.Action,
			rec.Timestamp,
		); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}
