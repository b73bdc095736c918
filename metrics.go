package voxevents

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each chunked load attempt.
	// events is the count the source reported, err is nil on success.
	RecordLoad(chunks, events int, duration time.Duration, err error)

	// RecordIndexRebuild is called after each spatial index rebuild.
	RecordIndexRebuild(events int, duration time.Duration)

	// RecordQuery is called after each bounding-box query.
	RecordQuery(hits int, duration time.Duration)

	// RecordRead is called after each event file read.
	RecordRead(events int, duration time.Duration, err error)

	// RecordWrite is called after each event file write.
	RecordWrite(events int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordIndexRebuild(int, time.Duration)     {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration)            {}
func (NoopMetricsCollector) RecordRead(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount         atomic.Int64
	LoadErrors        atomic.Int64
	LoadedEvents      atomic.Int64
	LoadTotalNanos    atomic.Int64
	RebuildCount      atomic.Int64
	RebuildTotalNanos atomic.Int64
	QueryCount        atomic.Int64
	QueryHits         atomic.Int64
	QueryTotalNanos   atomic.Int64
	ReadCount         atomic.Int64
	ReadErrors        atomic.Int64
	WriteCount        atomic.Int64
	WriteErrors       atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(chunks, events int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadedEvents.Add(int64(events))
}

// RecordIndexRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIndexRebuild(events int, duration time.Duration) {
	b.RebuildCount.Add(1)
	b.RebuildTotalNanos.Add(duration.Nanoseconds())
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(hits int, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryHits.Add(int64(hits))
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(events int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(events int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	if err != nil {
		b.WriteErrors.Add(1)
	}
}
