package rate

import (
	"context"
	"fmt"
	"time"
)

// Limiter gates outbound Gmail mutation calls so batch runs stay inside the
// per-user quota.
type Limiter interface {
	Wait(ctx context.Context) error
}

// TokenBucket implements a simple fixed-rate token bucket limiter.
type TokenBucket struct {
	ticker *time.Ticker
	tokens chan struct{}
	stopCh chan struct{}
}

// NewTokenBucket returns a limiter that releases rps tokens per second.
func NewTokenBucket(rps int) *TokenBucket {
	if rps <= 0 {
		rps = 1
	}
	tb := &TokenBucket{
		ticker: time.NewTicker(time.Second / time.Duration(rps)),
		tokens: make(chan struct{}, rps),
		stopCh: make(chan struct{}),
	}
	// allow the first call to proceed immediately
	tb.tokens <- struct{}{}
	go tb.run()
	return tb
}

func (t *TokenBucket) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.tokens <- struct{}{}:
			default:
			}
		case <-t.stopCh:
			return
		}
	}
}

// Wait blocks until a token is available or the context is canceled.
func (t *TokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate wait canceled: %w", ctx.Err())
	case <-t.tokens:
		return nil
	}
}

// Stop releases resources held by the limiter.
func (t *TokenBucket) Stop() {
	t.ticker.Stop()
	close(t.stopCh)
}

// None is a pass-through limiter for tests and dry runs.
type None struct{}

// Wait always succeeds immediately.
func (None) Wait(ctx context.Context) error {
	_ = ctx
	return nil
}

var (
	_ Limiter = (*TokenBucket)(nil)
	_ Limiter = None{}
)
