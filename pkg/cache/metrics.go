package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits.
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whmcs_cache_hits_total",
			Help: "Total number of pricing cache hits",
		},
	)

	// CacheMisses tracks cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whmcs_cache_misses_total",
			Help: "Total number of pricing cache misses",
		},
	)

	// CacheSize tracks bytes written to the cache.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "whmcs_cache_size_bytes",
			Help: "Bytes written to the pricing cache since start",
		},
	)

	// CachePurges tracks administrative prefix purges.
	CachePurges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "whmcs_cache_purges_total",
			Help: "Total number of administrative cache purges",
		},
	)

	// CacheErrors tracks cache operation errors by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whmcs_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "purge"
	)
)
