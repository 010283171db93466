package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/starman154/syllabus-scanner-server/internal/extract"
)

// CallTimeout bounds one model request. The upstream platform enforces a
// ceiling just above this, so a slower call would be killed anyway.
const CallTimeout = 25 * time.Second

// maxAttempts is the initial call plus one retry. A model call is
// expensive; anything past a single retry trades latency for little.
const maxAttempts = 2

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *extract.RetryableError
	return errors.As(err, &retryErr)
}

// callModel runs fn under the per-attempt timeout, retrying once on
// rate-limit or upstream-5xx errors.
func callModel(ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	if timeout <= 0 {
		timeout = CallTimeout
	}
	return retry.DoWithData(
		func() (string, error) {
			attemptCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return fn(attemptCtx)
		},
		retry.Context(ctx),
		retry.Attempts(maxAttempts),
		retry.Delay(2*time.Second),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
	)
}
