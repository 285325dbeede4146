package cache

import (
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTheineCache(t *testing.T) {
	t.Parallel()

	c, err := NewTheineCache[StringKey, string](&Config{MaxCost: 1 << 20})
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Get("missing")
	require.False(t, ok)

	require.True(t, c.Set("(/ <a>:1 <b>:2)", "plan", 10))
	c.Wait()

	require.Eventually(t, func() bool {
		v, ok := c.Get("(/ <a>:1 <b>:2)")
		return ok && v == "plan"
	}, time.Second, 10*time.Millisecond)

	require.Equal(t, uint64(10), c.GetMetrics().CostAdded())
	require.Positive(t, c.GetMetrics().Hits())
	require.Positive(t, c.GetMetrics().Misses())
}

func TestTheineCacheCountsEvictions(t *testing.T) {
	t.Parallel()

	c, err := NewTheineCache[StringKey, int](&Config{MaxCost: 10})
	require.NoError(t, err)
	defer c.Close()

	for _, key := range []StringKey{"a", "b", "c", "d", "e"} {
		c.Set(key, 1, 5)
	}
	require.Eventually(t, func() bool {
		return c.GetMetrics().Evictions() > 0
	}, time.Second, 10*time.Millisecond)
}

func TestTheineCacheRegistersByName(t *testing.T) {
	t.Parallel()

	c, err := NewTheineCacheWithMetrics[StringKey, int]("registered", &Config{MaxCost: 100})
	require.NoError(t, err)

	_, err = NewTheineCacheWithMetrics[StringKey, int]("registered", &Config{MaxCost: 100})
	require.ErrorContains(t, err, `a cache named "registered" is already registered`)

	c.Close()
	again, err := NewTheineCacheWithMetrics[StringKey, int]("registered", &Config{MaxCost: 100})
	require.NoError(t, err)
	again.Close()
}

func TestRegistryCollect(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	c, err := NewTheineCache[StringKey, int](&Config{MaxCost: 100})
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, r.add("collected", c.(withMetrics)))

	c.Set("k", 1, 1)
	_, _ = c.Get("k")
	_, _ = c.Get("missing")

	expected := `
# HELP rpqplan_cache_cost_added_bytes Cost of entries added to the cache
# TYPE rpqplan_cache_cost_added_bytes counter
rpqplan_cache_cost_added_bytes{cache="collected"} 1
`
	require.NoError(t, promtestutil.CollectAndCompare(r, strings.NewReader(expected), "rpqplan_cache_cost_added_bytes"))
	require.Equal(t, 5, promtestutil.CollectAndCount(r))

	r.remove("collected")
	require.Zero(t, promtestutil.CollectAndCount(r))
}

func TestNoopCache(t *testing.T) {
	t.Parallel()

	c := NoopCache[StringKey, int]()
	require.False(t, c.Set("key", 1, 1))
	_, ok := c.Get("key")
	require.False(t, ok)
	require.Zero(t, c.GetMetrics().Hits())
	require.Zero(t, c.GetMetrics().Evictions())
	c.Close()
}
