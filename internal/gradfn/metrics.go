package gradfn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// graphBuilds counts gradient function builds by result.
	graphBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revgrad_graph_builds_total",
		Help: "Total gradient function builds by result",
	}, []string{"result"})

	// graphNodes tracks the size of built graphs.
	graphNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "revgrad_graph_nodes",
		Help:    "Number of nodes per built graph",
		Buckets: prometheus.ExponentialBuckets(4, 2, 10), // 4 to 2048
	})

	// callsTotal counts gradient evaluations by result: ok, arity or error.
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revgrad_calls_total",
		Help: "Total gradient evaluations by result",
	}, []string{"result"})

	callDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "revgrad_call_duration_seconds",
		Help:    "Duration of one forward and backward pass in seconds",
		Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
	})

	// cacheLookups counts Cache lookups by result: hit or miss.
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revgrad_cache_lookups_total",
		Help: "Total gradient function cache lookups by result",
	}, []string{"result"})
)
