package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
	"github.com/goodnatureofminers/supplychain-simulator/pkg/safe"
)

func insertBlocksQuery() string {
	return `
INSERT INTO supply_chain_blocks (
	session_id,
	id,
	stage,
	action,
	timestamp,
	previous_digest,
	digest,
	tx_count
) VALUES`
}

// InsertBlocks stores block rows in ClickHouse.
func (r *Repository) InsertBlocks(ctx context.Context, records []model.BlockRecord) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_blocks", err, start)
	}()

	if len(records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertBlocksQuery())
	if err != nil {
		return fmt.Errorf("prepare blocks batch: %w", err)
	}

	for _, rec := range records {
		var id uint64
		if id, err = safe.Uint64(rec.Block.ID); err != nil {
			return fmt.Errorf("block id: %w", err)
		}
		var txCount uint32
		if txCount, err = safe.Uint32(len(rec.Block.Transactions)); err != nil {
			return fmt.Errorf("block %d tx count: %w", rec.Block.ID, err)
		}
		if err = batch.Append(
			rec.SessionID,
			id,
			rec.Block.Stage,
			rec.Block.Action,
			rec.Block.Timestamp,
			rec.Block.PreviousDigest,
			rec.Block.Digest,
			txCount,
		); err != nil {
			return fmt.Errorf("append block: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
