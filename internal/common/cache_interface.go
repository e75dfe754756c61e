package common

import (
	"context"
	"time"

	"skyrelief/dispatch/internal/metrics"
)

// CacheInterface defines the contract for cache implementations. Values
// are stored as JSON so both backends hand back independent copies.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get decodes the cached value for key into dest.
	// Returns false on a miss or an undecodable entry.
	Get(key string, dest interface{}) bool

	// Delete removes a value from cache by key
	Delete(key string)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key, or calls loader and caches
// its result. A loader error is returned as-is and nothing is cached.
// The cache label is used for hit and miss metrics; reg may be nil.
func GetOrLoad[T any](
	c CacheInterface,
	reg *metrics.MetricsRegistry,
	label string,
	key string,
	duration time.Duration,
	loader func() (T, error),
) (T, error) {
	var cached T
	if c.Get(key, &cached) {
		if reg != nil {
			reg.CacheHitsTotal.WithLabelValues(label).Inc()
		}
		return cached, nil
	}

	if reg != nil {
		reg.CacheMissesTotal.WithLabelValues(label).Inc()
	}

	val, err := loader()
	if err != nil {
		return val, err
	}

	c.Set(key, val, duration)
	return val, nil
}
