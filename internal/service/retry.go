package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-price-compare/internal/model"

	"go.uber.org/zap"
)

// RetryOptions bounds a RetryingLookup.
type RetryOptions struct {
	Timeout     time.Duration // per attempt; 0 means no extra deadline
	MaxAttempts int
	Backoff     time.Duration // doubled after every failed attempt
}

// RetryingLookup wraps a PriceLookup with per-attempt timeouts and
// exponential backoff. Empty queries and ErrNoOffers are returned at once.
type RetryingLookup struct {
	next   PriceLookup
	opts   RetryOptions
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetryingLookup(next PriceLookup, opts RetryOptions, logger *zap.Logger) *RetryingLookup {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryingLookup{next: next, opts: opts, logger: logger, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryable(err error) bool {
	return !errors.Is(err, ErrNoOffers) && !errors.Is(err, ErrEmptyQuery)
}

func (r *RetryingLookup) attempt(ctx context.Context, query string) (*model.PriceLookupResult, error) {
	if r.opts.Timeout <= 0 {
		return r.next.Lookup(ctx, query)
	}
	actx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	res, err := r.next.Lookup(actx, query)
	if err != nil && errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, fmt.Errorf("%w: timed out after %s: %w", ErrLookupFailed, r.opts.Timeout, err)
	}
	return res, err
}

func (r *RetryingLookup) Lookup(ctx context.Context, query string) (*model.PriceLookupResult, error) {
	var lastErr error
	backoff := r.opts.Backoff

	for n := 1; n <= r.opts.MaxAttempts; n++ {
		res, err := r.attempt(ctx, query)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			break
		}
		if n == r.opts.MaxAttempts {
			break
		}

		r.logger.Warn("price lookup attempt failed, retrying",
			zap.String("query", query),
			zap.Int("attempt", n),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		if err := r.sleep(ctx, backoff); err != nil {
			break
		}
		backoff *= 2
	}

	if errors.Is(lastErr, ErrLookupFailed) || errors.Is(lastErr, ErrExtraction) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %w", ErrLookupFailed, lastErr)
}
