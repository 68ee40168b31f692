package web2pdf

import (
	"context"
	"slices"
	"sync"
)

// ResultLog is an append-only, concurrency-safe list of results in
// completion order. Waiters are woken on every append.
type ResultLog struct {
	mu      sync.Mutex
	results []ConversionResult
	changed chan struct{} // closed and replaced on every Append
}

// NewResultLog returns an empty log.
func NewResultLog() *ResultLog {
	return &ResultLog{changed: make(chan struct{})}
}

// Append records r and wakes all waiters.
func (l *ResultLog) Append(r ConversionResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.results = append(l.results, r)
	close(l.changed)
	l.changed = make(chan struct{})
}

// Len returns the number of recorded results.
func (l *ResultLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}

// Snapshot returns a copy of the results in completion order.
func (l *ResultLog) Snapshot() []ConversionResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.results)
}

// Ordered returns a copy of the results sorted by task index.
func (l *ResultLog) Ordered() []ConversionResult {
	results := l.Snapshot()
	slices.SortStableFunc(results, func(a, b ConversionResult) int {
		return a.Index - b.Index
	})
	return results
}

// WaitFor blocks until at least n results are recorded or ctx ends.
func (l *ResultLog) WaitFor(ctx context.Context, n int) error {
	for {
		l.mu.Lock()
		if len(l.results) >= n {
			l.mu.Unlock()
			return nil
		}
		changed := l.changed
		l.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
