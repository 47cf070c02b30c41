// Package clock provides context-aware waiting over an injectable time source.
package clock

import (
	"context"
	"time"

	bclock "github.com/benbjohnson/clock"
)

// SleepFunc waits for a duration or until the context ends.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext waits on the wall clock for the duration or returns early if the
// context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	return Sleeper(bclock.New())(ctx, d)
}

// Sleeper returns a SleepFunc whose timers come from c.
func Sleeper(c bclock.Clock) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d <= 0 {
			return nil
		}

		timer := c.Timer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}
