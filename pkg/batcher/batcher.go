// Package batcher provides a generic buffered batch processor with rate-limited flushes.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add after Stop.
var ErrStopped = errors.New("batcher stopped")

// Config sets the flush triggers. FlushRPS caps flushes per second.
type Config struct {
	FlushSize     int
	FlushInterval time.Duration
	FlushRPS      int
}

// Batcher buffers items and flushes them either by size or interval.
type Batcher[T any] struct {
	flush   func(context.Context, []T) error
	itemsCh chan T
	cfg     Config
	rl      ratelimit.Limiter
	logger  *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher. Non-positive config values fall back to 1 item,
// one second and 100 flushes per second.
func New[T any](logger *zap.Logger, flush func(context.Context, []T) error, cfg Config) *Batcher[T] {
	if cfg.FlushSize <= 0 {
		cfg.FlushSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}
	if cfg.FlushRPS <= 0 {
		cfg.FlushRPS = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batcher[T]{
		logger:  logger,
		flush:   flush,
		itemsCh: make(chan T, cfg.FlushSize*2),
		cfg:     cfg,
		rl:      ratelimit.New(cfg.FlushRPS),
		stop:    make(chan struct{}),
	}
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes queued items and stops the loop. It is safe to call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.FlushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.FlushSize)

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		if err := b.flush(ctx, buf); err != nil {
			b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
		} else {
			b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		}
		buf = make([]T, 0, b.cfg.FlushSize)
	}

	drain := func() {
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
			default:
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			flush(context.WithoutCancel(ctx))
			return

		case <-b.stop:
			drain()
			flush(ctx)
			return

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.cfg.FlushSize {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
