package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RateLimitError - vendor returned a 429/quota signal; the only retryable failure
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("vendor rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// ClassifyVendorErr - wrap rate-limit shaped vendor errors into RateLimitError.
// Message inspection lives here and only here; callers dispatch on the type.
func ClassifyVendorErr(err error) error {
	if err == nil {
		return nil
	}
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "quota") {
		return &RateLimitError{Err: err}
	}
	return err
}

// DoWithRetry - run a vendor call with bounded exponential backoff.
// Only RateLimitError is retried: baseDelay, then doubling each attempt
// (5s, 10s, 20s with the defaults). Anything else propagates immediately.
func DoWithRetry[T any](ctx context.Context, label string, maxAttempts int, baseDelay time.Duration, call func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0

	operation := func() (T, error) {
		attempt++
		out, err := call(ctx)
		if err == nil {
			if attempt > 1 {
				log.Printf("✅ [%s] Succeeded on attempt %d/%d", label, attempt, maxAttempts)
			}
			return out, nil
		}

		var rateLimited *RateLimitError
		if errors.As(err, &rateLimited) {
			log.Printf("⚠️  [%s] Rate limited on attempt %d/%d: %v", label, attempt, maxAttempts, err)
			return out, err
		}

		log.Printf("❌ [%s] Failed with non-retryable error on attempt %d: %v", label, attempt, err)
		return out, backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = baseDelay
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxInterval = baseDelay * time.Duration(1<<uint(maxAttempts))
	policy.MaxElapsedTime = 0

	return backoff.RetryWithData(operation, backoff.WithMaxRetries(backoff.WithContext(policy, ctx), uint64(maxAttempts-1)))
}
