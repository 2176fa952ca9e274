package dispatch

import (
	"context"
	"sync/atomic"
	"time"
)

// SyncDispatcher executes handlers in the caller's goroutine.
type SyncDispatcher[E any] struct {
	executor Executor[E]

	dispatched  atomic.Uint64
	succeeded   atomic.Uint64
	failed      atomic.Uint64
	panicked    atomic.Uint64
	skipped     atomic.Uint64
	totalTimeNs atomic.Int64
}

// NewSyncDispatcher creates a new synchronous dispatcher.
func NewSyncDispatcher[E any]() *SyncDispatcher[E] {
	return &SyncDispatcher[E]{}
}

// Dispatch runs handler with ev and blocks until it returns or panics.
func (d *SyncDispatcher[E]) Dispatch(ctx context.Context, ev E, handler Handler[E]) Result {
	d.dispatched.Add(1)

	result := d.executor.Execute(ctx, ev, handler)
	d.totalTimeNs.Add(result.Duration.Nanoseconds())

	switch {
	case result.Skipped:
		d.skipped.Add(1)
	case result.IsPanic():
		d.panicked.Add(1)
	case result.IsError():
		d.failed.Add(1)
	case result.IsSuccess():
		d.succeeded.Add(1)
	}

	return result
}

// Stats returns dispatch statistics. Counters are read individually and may
// be slightly inconsistent while dispatches are in flight.
func (d *SyncDispatcher[E]) Stats() Stats {
	dispatched := d.dispatched.Load()
	totalNs := d.totalTimeNs.Load()

	var avgNs int64
	if dispatched > 0 {
		avgNs = totalNs / int64(dispatched)
	}

	return Stats{
		Dispatched:    dispatched,
		Succeeded:     d.succeeded.Load(),
		Failed:        d.failed.Load(),
		Panicked:      d.panicked.Load(),
		Skipped:       d.skipped.Load(),
		TotalDuration: time.Duration(totalNs),
		AvgDuration:   time.Duration(avgNs),
	}
}

// Stats contains statistics for a sync dispatcher.
type Stats struct {
	Dispatched    uint64
	Succeeded     uint64
	Failed        uint64
	Panicked      uint64
	Skipped       uint64
	TotalDuration time.Duration
	AvgDuration   time.Duration
}
