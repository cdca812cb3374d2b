package capture

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls snapshot retries.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultRetryConfig retries a crashed or slow browser twice.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 250 * time.Millisecond,
		MaxWait:     2 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryBackend is a decorator that retries transient snapshot errors with
// exponential backoff and jitter.
type RetryBackend struct {
	inner  Backend
	config RetryConfig
	logger *zap.Logger
}

// WithRetry wraps a Backend with retry logic.
func WithRetry(b Backend, cfg RetryConfig, logger *zap.Logger) Backend {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryBackend{inner: b, config: cfg, logger: logger}
}

func (r *RetryBackend) Snapshot(ctx context.Context, target *Target, opts Options) ([]byte, error) {
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		data, err := r.inner.Snapshot(ctx, target, opts)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return nil, err
		}

		// Last attempt, don't sleep.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt)
		r.logger.Warn("snapshot failed, retrying",
			zap.Error(err), zap.Int("attempt", attempt+1), zap.Duration("wait", wait))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

// shouldRetry reports whether err may go away on its own.
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// A missing element will still be missing next time.
	if errors.Is(err, ErrNotMounted) || errors.Is(err, ErrPrecondition) {
		return false
	}
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryBackend) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
