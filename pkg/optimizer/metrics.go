package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	promNamespace = "rpqplan"
	promSubsystem = "optimizer"
)

var (
	saturationIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "saturation_iterations",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
		Help:      "number of rewrite iterations run per saturation",
	})

	egraphNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "egraph_nodes",
		Buckets:   []float64{10, 32, 100, 316, 1000, 3162, 10000, 31623},
		Help:      "number of e-nodes after saturation",
	})

	egraphClasses = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "egraph_classes",
		Buckets:   []float64{10, 32, 100, 316, 1000, 3162, 10000, 31623},
		Help:      "number of e-classes after saturation",
	})

	saturationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "saturation_duration_seconds",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		Help:      "wall time spent saturating an e-graph",
	})

	saturationStops = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "saturation_stops_total",
		Help:      "saturation runs by the reason they stopped",
	}, []string{"reason"})

	singleFlightCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: promNamespace,
		Subsystem: promSubsystem,
		Name:      "single_flight_total",
		Help:      "optimizations that were single flighted, by whether the result was shared",
	}, []string{"shared"})
)
