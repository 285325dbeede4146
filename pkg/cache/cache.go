// Package cache provides the bounded plan cache used by the optimizer.
// Entries are charged a caller-chosen cost against a fixed budget.
package cache

import (
	"time"

	"github.com/ccoveille/go-safecast/v2"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// KeyString is implemented by cache keys.
type KeyString interface {
	comparable
	KeyString() string
}

// StringKey keys a cache by a plain string, such as a canonical plan.
type StringKey string

func (sk StringKey) KeyString() string { return string(sk) }

// Config sizes a cache.
type Config struct {
	// MaxCost is the budget that the costs of all live entries share. The
	// plan cache charges entries their approximate size in bytes.
	MaxCost int64

	// DefaultTTL expires entries this long after they are set. Zero keeps
	// entries until they are evicted.
	DefaultTTL time.Duration
}

func (c *Config) MarshalZerologObject(e *zerolog.Event) {
	maxCost, _ := safecast.Convert[uint64](c.MaxCost)
	e.Str("maxCost", humanize.IBytes(maxCost)).Dur("defaultTTL", c.DefaultTTL)
}

// Cache is a concurrency-safe bounded map.
type Cache[K KeyString, V any] interface {
	Get(key K) (V, bool)

	// Set stores entry under key and charges it cost. It reports whether the
	// entry was admitted.
	Set(key K, entry V, cost int64) bool

	// Wait blocks until earlier writes are visible to Get.
	Wait()

	// Close stops background work and unregisters the cache's metrics. It
	// is safe to call more than once.
	Close()

	GetMetrics() Metrics

	zerolog.LogObjectMarshaler
}

// Metrics are running totals since the cache was created.
type Metrics interface {
	Hits() uint64
	Misses() uint64

	// CostAdded sums the cost of every Set, admitted or not.
	CostAdded() uint64

	// Evictions is the number of entries evicted for space or expired.
	Evictions() uint64
}

// NoopCache returns a cache that never stores anything.
func NoopCache[K KeyString, V any]() Cache[K, V] { return noopCache[K, V]{} }

type noopCache[K KeyString, V any] struct{}

var _ Cache[StringKey, any] = noopCache[StringKey, any]{}

func (noopCache[K, V]) Get(K) (V, bool) {
	var zero V
	return zero, false
}

func (noopCache[K, V]) Set(K, V, int64) bool { return false }
func (noopCache[K, V]) Wait()                {}
func (noopCache[K, V]) Close()               {}
func (noopCache[K, V]) GetMetrics() Metrics  { return noopMetrics{} }

func (noopCache[K, V]) MarshalZerologObject(e *zerolog.Event) {
	e.Bool("enabled", false)
}

type noopMetrics struct{}

func (noopMetrics) Hits() uint64      { return 0 }
func (noopMetrics) Misses() uint64    { return 0 }
func (noopMetrics) CostAdded() uint64 { return 0 }
func (noopMetrics) Evictions() uint64 { return 0 }
