package voxevents

import (
	"golang.org/x/time/rate"
)

type options struct {
	logger         *Logger
	metrics        MetricsCollector
	dt             float32
	duration       float32
	cutoffDistance float32
	spatialIndex   bool
	limiter        *rate.Limiter
	bufferCapacity int
}

// Option configures Store construction.
type Option func(*options)

// WithDt sets the time step between frames. Must be positive; defaults
// to 1.
func WithDt(dt float32) Option {
	return func(o *options) {
		o.dt = dt
	}
}

// WithDuration sets the post-event aggregation window used by event-kind
// sources when deriving the frame range. Defaults to 0.
func WithDuration(duration float32) Option {
	return func(o *options) {
		o.duration = duration
	}
}

// WithCutoffDistance stores the kernel support radius consumers read via
// CutoffDistance. The store itself does not interpret it.
func WithCutoffDistance(distance float32) Option {
	return func(o *options) {
		o.cutoffDistance = distance
	}
}

// WithSpatialIndex enables or disables the bounding-box index. When
// disabled, FindEvents always returns an empty result (with a one-time
// advisory) and no index is ever built. Enabled by default.
func WithSpatialIndex(enabled bool) Option {
	return func(o *options) {
		o.spatialIndex = enabled
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(o *options) {
		if collector == nil {
			collector = NoopMetricsCollector{}
		}
		o.metrics = collector
	}
}

// WithLoadLimiter throttles LoadAll to the given rate (chunks per second).
// Useful when backfilling a long run from a shared backend. Pass nil to
// load at full speed (the default).
func WithLoadLimiter(limiter *rate.Limiter) Option {
	return func(o *options) {
		o.limiter = limiter
	}
}

// WithBufferCapacity pre-allocates the event buffer for that many events,
// avoiding a reallocation when the final size is known up front.
func WithBufferCapacity(capacity int) Option {
	return func(o *options) {
		o.bufferCapacity = capacity
	}
}
