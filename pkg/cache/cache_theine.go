package cache

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Yiling-J/theine-go"
	"github.com/ccoveille/go-safecast/v2"
	"github.com/rs/zerolog"
)

// NewTheineCache returns an unnamed theine cache. Its statistics are only
// reachable through GetMetrics.
func NewTheineCache[K KeyString, V any](config *Config) (Cache[K, V], error) {
	return buildTheine[K, V]("", config)
}

// NewTheineCacheWithMetrics returns a theine cache whose statistics are
// collected by Prometheus under the given name until it is closed. Names
// must be unique among open caches.
func NewTheineCacheWithMetrics[K KeyString, V any](name string, config *Config) (Cache[K, V], error) {
	tc, err := buildTheine[K, V](name, config)
	if err != nil {
		return nil, err
	}
	if err := defaultMetrics.add(name, tc); err != nil {
		tc.cache.Close()
		return nil, err
	}
	return tc, nil
}

type theineCache[K KeyString, V any] struct {
	name  string
	ttl   time.Duration
	cache *theine.Cache[K, V]
	stats *theineStats[K, V]
	once  sync.Once
}

var _ Cache[StringKey, any] = (*theineCache[StringKey, any])(nil)

func buildTheine[K KeyString, V any](name string, config *Config) (*theineCache[K, V], error) {
	stats := &theineStats[K, V]{}
	built, err := theine.NewBuilder[K, V](config.MaxCost).
		RemovalListener(func(_ K, _ V, reason theine.RemoveReason) {
			if reason == theine.EVICTED || reason == theine.EXPIRED {
				stats.evictions.Add(1)
			}
		}).
		Build()
	if err != nil {
		return nil, err
	}
	stats.cache = built

	return &theineCache[K, V]{
		name:  name,
		ttl:   config.DefaultTTL,
		cache: built,
		stats: stats,
	}, nil
}

func (tc *theineCache[K, V]) Get(key K) (V, bool) { return tc.cache.Get(key) }

func (tc *theineCache[K, V]) Set(key K, value V, cost int64) bool {
	added, err := safecast.Convert[uint64](cost)
	if err != nil {
		added = math.MaxUint32
	}
	tc.stats.costAdded.Add(added)

	if tc.ttl > 0 {
		return tc.cache.SetWithTTL(key, value, cost, tc.ttl)
	}
	return tc.cache.Set(key, value, cost)
}

// Wait is a no-op: theine applies writes before Set returns.
func (tc *theineCache[K, V]) Wait() {}

func (tc *theineCache[K, V]) Close() {
	tc.once.Do(func() {
		if tc.name != "" {
			defaultMetrics.remove(tc.name)
		}
		tc.cache.Close()
	})
}

func (tc *theineCache[K, V]) GetMetrics() Metrics { return tc.stats }

func (tc *theineCache[K, V]) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", tc.name).Str("backend", "theine").Dur("ttl", tc.ttl)
}

type theineStats[K KeyString, V any] struct {
	cache     *theine.Cache[K, V]
	costAdded atomic.Uint64
	evictions atomic.Uint64
}

func (ts *theineStats[K, V]) Hits() uint64      { return ts.cache.Stats().Hits() }
func (ts *theineStats[K, V]) Misses() uint64    { return ts.cache.Stats().Misses() }
func (ts *theineStats[K, V]) CostAdded() uint64 { return ts.costAdded.Load() }
func (ts *theineStats[K, V]) Evictions() uint64 { return ts.evictions.Load() }
