package pacing

import (
	"context"
	"time"
)

const (
	DefaultBatchInterval    = 300 * time.Millisecond
	DefaultDownloadInterval = 500 * time.Millisecond
)

// Step processes item i of a sequence.
type Step func(ctx context.Context, i int)

// Sequencer runs steps one after another with a fixed pause between them.
// It never runs two steps concurrently.
type Sequencer struct {
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewSequencer(interval time.Duration) *Sequencer {
	return newSequencer(interval, sleepWithContext)
}

func newSequencer(interval time.Duration, sleepFn func(ctx context.Context, d time.Duration) error) *Sequencer {
	if interval < 0 {
		interval = 0
	}
	if sleepFn == nil {
		sleepFn = sleepWithContext
	}

	return &Sequencer{
		interval: interval,
		sleep:    sleepFn,
	}
}

func (s *Sequencer) Interval() time.Duration {
	if s == nil {
		return 0
	}
	return s.interval
}

// Run calls step for 0..n-1 in order, pausing between consecutive steps.
// It stops early only when ctx is done, returning the context error.
func (s *Sequencer) Run(ctx context.Context, n int, step Step) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		step(ctx, i)

		if i == n-1 || s.interval == 0 {
			continue
		}
		if err := s.sleep(ctx, s.interval); err != nil {
			return err
		}
	}

	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
