package browser

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Pool is the counting admission gate for concurrent browsing contexts.
// Acquire blocks until a slot frees up; each acquired slot corresponds to
// one dealership's sequential pipeline.
type Pool struct {
	sem  *semaphore.Weighted
	opts AccessorOptions
	log  *zap.Logger
}

// NewPool creates a pool allowing at most max concurrent contexts.
func NewPool(max int, opts AccessorOptions, log *zap.Logger) *Pool {
	if max <= 0 {
		max = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(max)),
		opts: opts,
		log:  log,
	}
}

// Acquire blocks until a context slot is free, then returns an accessor
// bound to the dealership URL and a release function. The release function
// must be called exactly once.
func (p *Pool) Acquire(ctx context.Context, dealerURL string) (*HTTPAccessor, func(), error) {
	start := time.Now()
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, nil, err
	}
	if wait := time.Since(start); wait > time.Second {
		p.log.Debug("context pool wait",
			zap.String("dealer", dealerURL),
			zap.Duration("waited", wait),
		)
	}

	accessor := NewHTTPAccessor(dealerURL, p.opts, p.log.With(zap.String("dealer", dealerURL)))
	return accessor, func() { p.sem.Release(1) }, nil
}
