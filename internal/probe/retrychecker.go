package probe

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var errCheckFailed = errors.New("check failed")

// RetryChecker repeats a failing check up to Attempts times in total, waiting
// Backoff between tries.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context, target string) CheckResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		last  CheckResult
		tries int
	)
	op := func() error {
		tries++
		last = r.Inner.Check(ctx, target)
		if last.Success {
			return nil
		}
		return errCheckFailed
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.Backoff), uint64(attempts-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil && tries > 1 {
		// annotate message so you can see it was a retry series
		last.Message = last.Message + " (after retries)"
	}
	return last
}
