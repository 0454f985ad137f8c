package suggest

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/titlescout/core"
)

const (
	// DefaultConcurrency is the number of concurrent lookup workers.
	DefaultConcurrency = 6

	// DefaultGlobalTimeout bounds one whole fetch session. Once it passes,
	// workers stop claiming new queries; in-flight lookups drain naturally.
	DefaultGlobalTimeout = 12000 * time.Millisecond

	// DefaultInterRequestDelay throttles each worker between lookups.
	DefaultInterRequestDelay = 30 * time.Millisecond
)

// Lookup issues a single suggest lookup. Implemented by *Fetcher.
type Lookup interface {
	Fetch(ctx context.Context, q core.Query) *core.RawSuggestion
}

// ProgressFunc receives a progress event after every settled lookup,
// successful or not: (1, 40), (2, 40), ...
type ProgressFunc func(ev core.ProgressEvent)

// Pool runs suggest lookups over a query list with bounded concurrency.
// Workers share one monotonic cursor, so each query index is claimed exactly
// once and no worker starves.
type Pool struct {
	lookup        Lookup
	workers       *ants.Pool
	concurrency   int
	globalTimeout time.Duration
	delay         time.Duration
	logger        *slog.Logger
}

// PoolOption configures a Pool.
type PoolOption func(*Pool) error

// WithConcurrency sets the maximum number of concurrent lookup workers.
// Values below 1 fall back to the default.
func WithConcurrency(n int) PoolOption {
	return func(p *Pool) error {
		if n < 1 {
			n = DefaultConcurrency
		}

		if p.workers != nil {
			p.workers.Release()
		}
		workers, err := ants.NewPool(n)
		if err != nil {
			return err
		}

		p.concurrency = n
		p.workers = workers
		return nil
	}
}

// WithGlobalTimeout sets the session-wide claim deadline.
// Values <= 0 fall back to the default.
func WithGlobalTimeout(timeout time.Duration) PoolOption {
	return func(p *Pool) error {
		if timeout <= 0 {
			timeout = DefaultGlobalTimeout
		}
		p.globalTimeout = timeout
		return nil
	}
}

// WithInterRequestDelay sets the per-worker pause between lookups.
// Negative values fall back to the default; zero disables throttling.
func WithInterRequestDelay(delay time.Duration) PoolOption {
	return func(p *Pool) error {
		if delay < 0 {
			delay = DefaultInterRequestDelay
		}
		p.delay = delay
		return nil
	}
}

// WithPoolLogger sets a custom logger.
// Default is slog.Default().
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPool creates a lookup pool over the given Lookup.
func NewPool(lookup Lookup, opts ...PoolOption) (*Pool, error) {
	if lookup == nil {
		return nil, ErrLookupRequired
	}

	workers, err := ants.NewPool(DefaultConcurrency)
	if err != nil {
		return nil, err
	}

	p := &Pool{
		lookup:        lookup,
		workers:       workers,
		concurrency:   DefaultConcurrency,
		globalTimeout: DefaultGlobalTimeout,
		delay:         DefaultInterRequestDelay,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}

	return p, nil
}

// FetchAll runs lookups for every query and returns the flattened item
// lists of all non-nil payloads, ordered by query index. Partial failure is
// invisible: a nil payload simply contributes nothing.
//
// An empty query list returns immediately with no progress events.
func (p *Pool) FetchAll(ctx context.Context, queries []core.Query, onProgress ProgressFunc) []core.RawItem {
	total := len(queries)
	if total == 0 {
		return nil
	}

	width := min(p.concurrency, total)

	// Per-index slots keep the output a deterministic function of the query
	// list rather than of completion order.
	results := make([][]core.RawItem, total)

	// The gate context stops new claims once the global deadline passes.
	// Lookups run on the caller's context so the deadline never hard-kills
	// in-flight transport; the per-call timeout bounds those.
	gate, cancel := context.WithTimeout(ctx, p.globalTimeout)
	defer cancel()

	var cursor atomic.Int64
	var mu sync.Mutex // serializes progress emission so percents never regress
	completed := 0

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for {
			if gate.Err() != nil {
				return
			}
			i := int(cursor.Add(1)) - 1
			if i >= total {
				return
			}

			if payload := p.lookup.Fetch(ctx, queries[i]); payload != nil {
				results[i] = payload.D
			}

			mu.Lock()
			completed++
			ev := core.ProgressEvent{
				Completed: completed,
				Total:     total,
				Percent:   percent(completed, total),
			}
			if onProgress != nil {
				onProgress(ev)
			}
			mu.Unlock()

			// Throttle before the next claim.
			if p.delay > 0 {
				select {
				case <-time.After(p.delay):
				case <-gate.Done():
				}
			}
		}
	}

	for range width {
		wg.Add(1)
		if err := p.workers.Submit(worker); err != nil {
			// The ants pool is released or saturated; degrade to a plain
			// goroutine rather than dropping the queries.
			p.logger.Warn("worker submit failed", "err", err)
			go worker()
		}
	}
	wg.Wait()

	var flat []core.RawItem
	for _, items := range results {
		flat = append(flat, items...)
	}
	return flat
}

// Release frees the worker pool. The Pool must not be used afterwards.
func (p *Pool) Release() {
	if p.workers != nil {
		p.workers.Release()
	}
}

func percent(completed, total int) int {
	return int(math.Round(float64(completed) / float64(total) * 100))
}
