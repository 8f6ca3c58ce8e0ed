package web

// limiter.go caps the number of conversions running at once. Every
// conversion holds its input rows and rendered SQL in memory, so the cap
// bounds the server's memory use. Requests wait up to maxWait for a slot
// before failing with ErrTooManyConversions.

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"
)

// ErrTooManyConversions is returned when no slot frees up within the wait time.
var ErrTooManyConversions = errors.New("too many concurrent conversions")

// Defaults used when the limiter is built with zero values.
const (
	DefaultMaxConcurrent = 4
	DefaultQueueWait     = 30 * time.Second
)

// Limiter is a counting semaphore for conversions.
type Limiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewLimiter allows at most maxConcurrent conversions at once. Zero values
// select the defaults.
func NewLimiter(maxConcurrent int, maxWait time.Duration) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = DefaultQueueWait
	}
	return &Limiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting at most maxWait. The caller must Release
// every slot it acquired.
func (l *Limiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-waitCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return ErrTooManyConversions
	}
}

// Release frees a slot taken by Acquire.
func (l *Limiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Active returns the number of conversions holding a slot.
func (l *Limiter) Active() int {
	return int(l.active.Load())
}

// Available returns the number of free slots.
func (l *Limiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// middleware holds a slot for the duration of each request.
func (l *Limiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := l.Acquire(r.Context()); err != nil {
			if errors.Is(err, ErrTooManyConversions) {
				w.Header().Set("Retry-After", "5")
			}
			respondError(w, r, err)
			return
		}
		defer l.Release()

		next.ServeHTTP(w, r)
	})
}
