package backend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// retryableError marks a transient remote failure (429, 5xx) worth
// re-submitting.
type retryableError struct {
	StatusCode int
	Message    string
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// backoff returns a duration for attempt n (0-indexed) with jitter.
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const maxSubmitRetries = 3

// withRetries runs fn, retrying transient failures with backoff. Submission
// stays bounded: at most maxSubmitRetries attempts, aborted when ctx ends.
func withRetries(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxSubmitRetries; attempt++ {
		if err = fn(); err == nil || !isRetryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(attempt)):
		}
	}
	return err
}
