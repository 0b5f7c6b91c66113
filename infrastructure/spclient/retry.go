package spclient

import (
	"context"
	"time"

	retry "github.com/avast/retry-go/v5"

	"spscan/domain/audit"
)

// retryRemote wraps one remote call with bounded fixed-delay retry as
// configured by the audit parameters. The last call's error is returned so
// the caller's error taxonomy is unaffected by the retry bookkeeping.
func retryRemote(ctx context.Context, params *audit.Parameters, fn func() error) error {
	delay := time.Duration(params.RetryDelay) * time.Millisecond

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(uint(params.MaxRetries)+1),
		retry.DelayType(func(n uint, err error, config retry.DelayContext) time.Duration {
			return delay
		}),
	)

	var lastErr error
	if err := r.Do(func() error {
		lastErr = fn()
		return lastErr
	}); err != nil {
		if lastErr != nil {
			return lastErr
		}
		return err
	}
	return nil
}
