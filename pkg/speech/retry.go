package speech

import (
	"context"
	"errors"
	"time"
)

// RetryConfig bounds retry behavior for read-style recognition calls.
// Synthesis is never retried: replaying audio to a caller is not idempotent.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns sensible defaults for transient STT outages.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RecognizeWithRetry calls rec.Recognize with exponential backoff.
// ErrNoSpeech is a terminal answer, not a failure, so it is never retried.
// Context cancellation stops the loop immediately.
func RecognizeWithRetry(ctx context.Context, rec Recognizer, req *RecognitionRequest, cfg RetryConfig) (*RecognitionResult, error) {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		result, err := rec.Recognize(ctx, req)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrNoSpeech) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return nil, lastErr
}
