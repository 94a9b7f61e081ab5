package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-price-compare/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookupFunc func(ctx context.Context, query string) (*model.PriceLookupResult, error)

func (f lookupFunc) Lookup(ctx context.Context, query string) (*model.PriceLookupResult, error) {
	return f(ctx, query)
}

func noSleep(r *RetryingLookup) *RetryingLookup {
	r.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return r
}

func TestRetryingLookupRecoversFromTransientFailure(t *testing.T) {
	var calls int32
	next := lookupFunc(func(ctx context.Context, q string) (*model.PriceLookupResult, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("connection reset")
		}
		return &model.PriceLookupResult{Mode: ModeHeuristic}, nil
	})

	r := noSleep(NewRetryingLookup(next, RetryOptions{MaxAttempts: 3}, nil))
	res, err := r.Lookup(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, ModeHeuristic, res.Mode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRetryingLookupGivesUpWithLookupFailed(t *testing.T) {
	var calls int32
	next := lookupFunc(func(ctx context.Context, q string) (*model.PriceLookupResult, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("upstream 502")
	})

	r := noSleep(NewRetryingLookup(next, RetryOptions{MaxAttempts: 2}, nil))
	_, err := r.Lookup(context.Background(), "q")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Contains(t, err.Error(), "upstream 502")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRetryingLookupDoesNotRetryNoOffers(t *testing.T) {
	var calls int32
	next := lookupFunc(func(ctx context.Context, q string) (*model.PriceLookupResult, error) {
		atomic.AddInt32(&calls, 1)
		return nil, ErrNoOffers
	})

	r := noSleep(NewRetryingLookup(next, RetryOptions{MaxAttempts: 5}, nil))
	_, err := r.Lookup(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoOffers)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRetryingLookupKeepsExtractionError(t *testing.T) {
	next := lookupFunc(func(ctx context.Context, q string) (*model.PriceLookupResult, error) {
		return nil, ErrExtraction
	})

	r := noSleep(NewRetryingLookup(next, RetryOptions{MaxAttempts: 2}, nil))
	_, err := r.Lookup(context.Background(), "q")
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestRetryingLookupTimesOutSlowAttempts(t *testing.T) {
	next := lookupFunc(func(ctx context.Context, q string) (*model.PriceLookupResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	r := noSleep(NewRetryingLookup(next, RetryOptions{Timeout: 20 * time.Millisecond, MaxAttempts: 1}, nil))
	start := time.Now()
	_, err := r.Lookup(context.Background(), "q")
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRetryingLookupBacksOffExponentially(t *testing.T) {
	next := lookupFunc(func(ctx context.Context, q string) (*model.PriceLookupResult, error) {
		return nil, errors.New("boom")
	})

	var waits []time.Duration
	r := NewRetryingLookup(next, RetryOptions{MaxAttempts: 4, Backoff: 10 * time.Millisecond}, nil)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, err := r.Lookup(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}, waits)
}
