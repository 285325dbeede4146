package cache

import (
	"fmt"

	"github.com/jzelinskie/stringz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/puzpuzpuz/xsync/v4"
)

const (
	promNamespace = "rpqplan"
	promSubsystem = "cache"
)

func cacheDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		stringz.Join("_", promNamespace, promSubsystem, name),
		help,
		[]string{"cache"},
		nil,
	)
}

var (
	descHits       = cacheDesc("hits_total", "Number of cache hits")
	descMisses     = cacheDesc("misses_total", "Number of cache misses")
	descCostAdded  = cacheDesc("cost_added_bytes", "Cost of entries added to the cache")
	descEvictions  = cacheDesc("evictions_total", "Number of entries evicted or expired from the cache")
	descHitRatio   = cacheDesc("hit_ratio", "Fraction of lookups that were hits since the cache was created")
	defaultMetrics = newRegistry()
)

func init() {
	prometheus.MustRegister(defaultMetrics)
}

type withMetrics interface {
	GetMetrics() Metrics
}

// registry exports the statistics of every named cache.
type registry struct {
	caches *xsync.Map[string, withMetrics]
}

var _ prometheus.Collector = (*registry)(nil)

func newRegistry() *registry {
	return &registry{caches: xsync.NewMap[string, withMetrics]()}
}

func (r *registry) add(name string, c withMetrics) error {
	if _, loaded := r.caches.LoadOrStore(name, c); loaded {
		return fmt.Errorf("a cache named %q is already registered", name)
	}
	return nil
}

func (r *registry) remove(name string) {
	r.caches.Delete(name)
}

func (r *registry) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range []*prometheus.Desc{descHits, descMisses, descCostAdded, descEvictions, descHitRatio} {
		ch <- desc
	}
}

func (r *registry) Collect(ch chan<- prometheus.Metric) {
	r.caches.Range(func(name string, c withMetrics) bool {
		m := c.GetMetrics()
		hits, misses := float64(m.Hits()), float64(m.Misses())
		ch <- prometheus.MustNewConstMetric(descHits, prometheus.CounterValue, hits, name)
		ch <- prometheus.MustNewConstMetric(descMisses, prometheus.CounterValue, misses, name)
		ch <- prometheus.MustNewConstMetric(descCostAdded, prometheus.CounterValue, float64(m.CostAdded()), name)
		ch <- prometheus.MustNewConstMetric(descEvictions, prometheus.CounterValue, float64(m.Evictions()), name)

		ratio := 0.0
		if hits+misses > 0 {
			ratio = hits / (hits + misses)
		}
		ch <- prometheus.MustNewConstMetric(descHitRatio, prometheus.GaugeValue, ratio, name)
		return true
	})
}
