package utils

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryDelay blocks between retry attempts. Wait returns ctx.Err() when the
// context ends before the delay elapses.
type RetryDelay interface {
	Wait(ctx context.Context, taskName string, attempt int) error
}

// ConstantDelay waits Period seconds on every attempt.
type ConstantDelay struct {
	Period int
}

func (d ConstantDelay) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepContext(ctx, time.Duration(d.Period)*time.Second)
}

// ExponentialBackoff waits min(2*2^attempt, 10) seconds plus up to one second of jitter.
type ExponentialBackoff struct{}

func (d ExponentialBackoff) Wait(ctx context.Context, taskName string, attempt int) error {
	return sleepContext(ctx, BackoffDuration(attempt)+time.Duration(rand.Int64N(int64(time.Second))))
}

// BackoffDuration is the jitter-free part of ExponentialBackoff.
func BackoffDuration(attempt int) time.Duration {
	seconds := math.Min(2*math.Pow(2, float64(attempt)), 10)
	return time.Duration(seconds) * time.Second
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
