package provider

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// #region constants

const maxRetries = 2 // max 2 retries = 3 total attempts

// #endregion

// #region retry

// Retry wraps a Provider and retries transient failures.
type Retry struct {
	next    Provider
	backoff time.Duration
	log     *zap.Logger
}

// NewRetry wraps next. backoff is the wait before the first retry and doubles
// after each attempt. log may be nil.
func NewRetry(next Provider, backoff time.Duration, log *zap.Logger) *Retry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Retry{next: next, backoff: backoff, log: log}
}

// Segment implements Provider.
func (r *Retry) Segment(ctx context.Context, topic, text string) ([]Segment, error) {
	wait := r.backoff
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		var segments []Segment
		segments, err = r.next.Segment(ctx, topic, text)
		if err == nil {
			return segments, nil
		}
		if !ShouldRetry(ctx, err) || attempt == maxRetries {
			break
		}
		r.log.Warn("provider attempt failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err))
		if wait > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}
	return nil, err
}

// #endregion retry

// #region should-retry

// ShouldRetry reports whether err is transient. Context cancellation,
// non-temporary HTTP status errors and gRPC codes other than Unavailable,
// ResourceExhausted, Aborted and DeadlineExceeded are final.
func ShouldRetry(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	if st, ok := status.FromError(err); ok {
		return retryableCode(st.Code())
	}
	return true
}

func retryableCode(c codes.Code) bool {
	switch c {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.DeadlineExceeded:
		return true
	}
	return false
}

// #endregion should-retry
