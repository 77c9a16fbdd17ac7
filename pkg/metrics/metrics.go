// Package metrics provides the centralized Prometheus metrics registry for
// the price feed service. All metrics are defined in their respective
// packages (pricing, cache, lock, feed) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the price feed
// service. All metrics are automatically registered via promauto in their
// respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Pricing Metrics (pkg/pricing):
//   - whmcs_pricing_requests_total{operation, outcome} (Counter): Requests by
//     operation (product_attribute, domain_price, all_domain_prices) and
//     outcome (hit, fetched, invalid_input, no_config, locked,
//     network_error, upstream_error)
//   - whmcs_pricing_request_duration_seconds{operation} (Histogram): Request
//     duration by operation
//
// Cache Metrics (pkg/cache):
//   - whmcs_cache_hits_total (Counter): Cache hits
//   - whmcs_cache_misses_total (Counter): Cache misses
//   - whmcs_cache_size_bytes (Gauge): Bytes written to the cache
//   - whmcs_cache_purges_total (Counter): Administrative purges
//   - whmcs_cache_errors_total{operation} (Counter): Cache operation errors
//
// Lock Metrics (pkg/lock):
//   - whmcs_lock_acquired_total (Counter): Stampede locks acquired
//   - whmcs_lock_contended_total (Counter): Acquisitions refused while held
//
// Feed Metrics (pkg/feed):
//   - whmcs_feed_requests_total{endpoint, status} (Counter): Feed requests by
//     endpoint and HTTP status
//   - whmcs_feed_request_duration_seconds{endpoint} (Histogram): Feed request
//     duration by endpoint
//   - whmcs_feed_errors_total{class} (Counter): Feed errors by class
//     (network, upstream)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   rate(whmcs_cache_hits_total[5m]) /
//   (rate(whmcs_cache_hits_total[5m]) + rate(whmcs_cache_misses_total[5m]))
//
//   # Sentinel Rate (share of requests that returned "NA")
//   1 - sum(rate(whmcs_pricing_requests_total{outcome=~"hit|fetched"}[5m])) /
//   sum(rate(whmcs_pricing_requests_total[5m]))
//
//   # Lock Contention Rate
//   rate(whmcs_lock_contended_total[5m])
//
//   # P95 Feed Latency
//   histogram_quantile(0.95, rate(whmcs_feed_request_duration_seconds_bucket[5m]))
