package resilience

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

var (
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
)

// RetryConfig holds retry configuration
type RetryConfig struct {
	// MaxAttempts is the maximum number of retry attempts (0 = no retries, 1 = original + 1 retry)
	MaxAttempts int

	// InitialDelay is the initial delay before first retry
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration

	// Multiplier is the backoff multiplier (typically 2 for exponential)
	Multiplier float64

	// Jitter adds randomness to prevent thundering herd
	Jitter bool

	// RetryableErrors is a list of errors that should trigger retry
	// If nil, all errors trigger retry
	RetryableErrors []error

	// OnRetry is called before each retry attempt
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// calculateDelay calculates delay for exponential backoff
func calculateDelay(attempt int, config *RetryConfig) time.Duration {
	// Exponential backoff: delay = initialDelay * (multiplier ^ attempt)
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt))

	// Cap at max delay
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	// Add jitter if enabled
	if config.Jitter {
		delay = addJitter(delay)
	}

	return time.Duration(delay)
}

// addJitter adds random jitter to delay (±25%)
func addJitter(delay float64) float64 {
	jitter := delay * 0.25 // 25% jitter
	return delay + (rand.Float64()*2-1)*jitter
}

// isRetryable checks if error should trigger retry
func isRetryable(err error, retryableErrors []error) bool {
	// If no specific errors defined, all errors are retryable
	if len(retryableErrors) == 0 {
		return true
	}

	// Check if error matches any retryable error
	for _, retryErr := range retryableErrors {
		if errors.Is(err, retryErr) {
			return true
		}
	}

	return false
}

// RetryContextWithCircuitBreaker combines retry with circuit breaker and
// context. priorstore.go is the sole caller: a Redis blip gets one
// retry before the breaker's own failure accounting takes over, so a
// single dropped connection doesn't immediately count against the
// breaker's trip threshold.
func RetryContextWithCircuitBreaker(ctx context.Context, fn func(context.Context) error, retryConfig *RetryConfig, cb *CircuitBreaker) error {
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}

	var lastErr error

	for attempt := 0; attempt <= retryConfig.MaxAttempts; attempt++ {
		// Check context
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Execute with circuit breaker
		err := cb.ExecuteContext(ctx, fn)

		// Success
		if err == nil {
			return nil
		}

		lastErr = err

		// Circuit breaker open - don't retry
		if errors.Is(err, ErrCircuitOpen) {
			return err
		}

		// Check if retryable
		if !isRetryable(err, retryConfig.RetryableErrors) {
			return err
		}

		// No more retries
		if attempt >= retryConfig.MaxAttempts {
			break
		}

		// Calculate delay
		delay := calculateDelay(attempt, retryConfig)

		// Call callback
		if retryConfig.OnRetry != nil {
			retryConfig.OnRetry(attempt+1, err, delay)
		}

		// Wait
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, lastErr)
}
