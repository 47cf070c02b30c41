package simulator

import (
	"context"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
	"go.uber.org/zap"
)

// Run fires the probabilistic ticker until ctx ends or the simulator is closed.
// On each tick, while idle, a transaction starts when the random draw exceeds the
// trigger threshold. Ticks during a commit are dropped.
func (s *Simulator) Run(ctx context.Context) error {
	ticker := s.clock.Ticker(s.tickInterval)
	defer ticker.Stop()

	s.logger.Info("simulator started",
		zap.Duration("tick_interval", s.tickInterval),
		zap.Float64("trigger_threshold", s.triggerThreshold),
		zap.Duration("processing_delay", s.processingDelay),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				if s.ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (s *Simulator) tick(ctx context.Context) error {
	if s.Processing() {
		s.metrics.ObserveTick(TickBusy)
		s.logger.Debug("tick skipped, transaction in flight")
		return nil
	}
	if s.random() <= s.triggerThreshold {
		s.metrics.ObserveTick(TickSkipped)
		return nil
	}

	s.metrics.ObserveTick(TickTriggered)
	_, _, err := s.progress(ctx, model.TriggerTimer)
	return err
}
