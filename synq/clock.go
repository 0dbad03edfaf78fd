package synq

import (
	"context"
	"time"
)

// Clock drives the poll loop. Tests substitute a simulated clock.
type Clock interface {
	Now() time.Time
	// Sleep for d or until ctx is done, whichever is first
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock is wall clock time
func SystemClock() Clock {
	return systemClock{}
}
