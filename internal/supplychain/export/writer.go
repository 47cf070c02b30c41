// Package export ships committed blocks to ClickHouse as a write-only audit trail.
package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
	"github.com/goodnatureofminers/supplychain-simulator/pkg/batcher"
	"github.com/goodnatureofminers/supplychain-simulator/pkg/workerpool"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Writer buffers committed blocks and flushes them through a circuit breaker.
// Block and transaction rows of one flush are inserted concurrently.
type Writer struct {
	repo      Repository
	metrics   Metrics
	logger    *zap.Logger
	sessionID string
	breaker   *gobreaker.CircuitBreaker
	batcher   *batcher.Batcher[model.BlockRecord]
}

func NewWriter(repo Repository, metrics Metrics, logger *zap.Logger, sessionID string) (*Writer, error) {
	if repo == nil {
		return nil, errors.New("export repository is required")
	}
	if metrics == nil {
		return nil, errors.New("export metrics is required")
	}
	if sessionID == "" {
		return nil, errors.New("export session id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Writer{
		repo:      repo,
		metrics:   metrics,
		logger:    logger.With(zap.String("session_id", sessionID)),
		sessionID: sessionID,
	}

	w.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: breakerHalfOpenRequests,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: w.onStateChange,
	})
	metrics.SetBreakerState(int(gobreaker.StateClosed))

	w.batcher = batcher.New[model.BlockRecord](
		w.logger.Named("blockBatcher"),
		w.flush,
		batcher.Config{
			FlushSize:     flushSize,
			FlushInterval: flushInterval,
			FlushRPS:      flushRPS,
		},
	)
	return w, nil
}

func (w *Writer) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Stop flushes whatever is buffered and stops the writer.
func (w *Writer) Stop() {
	w.batcher.Stop()
}

// WriteBlock queues b for export. It does not wait for the flush.
func (w *Writer) WriteBlock(ctx context.Context, b model.Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return w.batcher.Add(ctx, model.BlockRecord{SessionID: w.sessionID, Block: b.Clone()})
}

func (w *Writer) flush(ctx context.Context, records []model.BlockRecord) error {
	txs := model.TransactionRecords(records)
	inserts := []func(context.Context) error{
		func(ctx context.Context) error { return w.repo.InsertBlocks(ctx, records) },
		func(ctx context.Context) error { return w.repo.InsertTransactions(ctx, txs) },
	}

	_, err := w.breaker.Execute(func() (interface{}, error) {
		return nil, workerpool.Process(ctx, len(inserts), inserts, runInsert, nil)
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		w.metrics.ObserveFlush(FlushRejected, len(records))
	case err != nil:
		w.metrics.ObserveFlush(FlushError, len(records))
	default:
		w.metrics.ObserveFlush(FlushSuccess, len(records))
		return nil
	}
	return fmt.Errorf("export %d blocks: %w", len(records), err)
}

func runInsert(ctx context.Context, insert func(context.Context) error) error {
	return insert(ctx)
}

func (w *Writer) onStateChange(name string, from, to gobreaker.State) {
	w.metrics.SetBreakerState(int(to))
	w.logger.Warn("export breaker state changed",
		zap.String("breaker", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}
