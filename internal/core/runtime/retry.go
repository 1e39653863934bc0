package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// RetryConfig controls retry behavior for transient provider failures.
type RetryConfig struct {
	// MaxRetries is the number of retry attempts after the first call.
	MaxRetries int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration
	// Multiplier grows the backoff between attempts.
	Multiplier float64
}

// DefaultRetryConfig returns the retry policy used for hosted model APIs.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
	}
}

// apiError carries the HTTP status of a failed provider call so the retry
// loop can decide whether another attempt is worthwhile.
type apiError struct {
	provider string
	status   int
	body     string
}

func (e *apiError) Error() string {
	if e.status > 0 {
		return fmt.Sprintf("%s: status %d: %s", e.provider, e.status, e.body)
	}
	return fmt.Sprintf("%s: %s", e.provider, e.body)
}

func (e *apiError) retryable() bool {
	// 5xx and rate limiting are worth another attempt.
	return e.status >= 500 || e.status == 429
}

func isRetryable(err error) bool {
	var api *apiError
	if errors.As(err, &api) {
		return api.retryable()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// withRetry runs fn with exponential backoff on retryable failures.
func withRetry(ctx context.Context, config *RetryConfig, fn func() error) error {
	if config == nil || config.MaxRetries <= 0 {
		return fn()
	}

	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) || attempt >= config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("canceled during retry: %w", ctx.Err())
		case <-time.After(backoff):
		}

		backoff = time.Duration(float64(backoff) * config.Multiplier)
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	return lastErr
}
