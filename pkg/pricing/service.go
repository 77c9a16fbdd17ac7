package pricing

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/weconnect/whmcs-pricefeed/pkg/cache"
	"github.com/weconnect/whmcs-pricefeed/pkg/feed"
	"github.com/weconnect/whmcs-pricefeed/pkg/lock"
	"github.com/weconnect/whmcs-pricefeed/pkg/logging"
	"github.com/weconnect/whmcs-pricefeed/pkg/query"
)

// Sentinel is the uniform "no data" value. Every failure mode collapses to
// it; render adapters treat it as an ordinary display string.
const Sentinel = "NA"

// Prometheus metrics for pricing service operations.
var (
	pricingRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whmcs_pricing_requests_total",
		Help: "Total pricing requests by operation and outcome",
	}, []string{"operation", "outcome"})

	pricingRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whmcs_pricing_request_duration_seconds",
		Help:    "Pricing request duration in seconds by operation",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 15},
	}, []string{"operation"})
)

// Request outcomes, recorded per invocation. Only "hit" and "fetched"
// return real data; every other outcome returns the sentinel.
const (
	outcomeHit      = "hit"
	outcomeFetched  = "fetched"
	outcomeInvalid  = "invalid_input"
	outcomeNoConfig = "no_config"
	outcomeLocked   = "locked"
	outcomeNetwork  = "network_error"
	outcomeUpstream = "upstream_error"
)

// Fetcher issues a single upstream feed request. *feed.Client satisfies it;
// tests inject counting stubs.
type Fetcher interface {
	Fetch(ctx context.Context, path string, params url.Values) (string, error)
}

// Service is the pricing data-fetch-and-cache service. It owns the
// fetch-or-cache decision for every query kind and absorbs all failure
// modes into the sentinel.
type Service struct {
	store   cache.Store
	locks   lock.Locker
	fetcher Fetcher
	cfg     Config
	logger  zerolog.Logger
}

// New creates a pricing service with injected collaborators. The config is
// validated here so no operation ever runs against a missing or unsafe
// base URL.
func New(store cache.Store, locks lock.Locker, fetcher Fetcher, cfg Config) (*Service, error) {
	if store == nil {
		return nil, errors.New("cache store is required")
	}
	if locks == nil {
		return nil, errors.New("lock manager is required")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Service{
		store:   store,
		locks:   locks,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logging.NewLogger("pricing-service"),
	}, nil
}

// ProductAttribute returns one attribute of one product for one billing
// cycle. The cycle accepts WHMCS names and the shortcode aliases
// (1m, 3m, 6m, 1y, 2y, 3y). Invalid input returns the sentinel without a
// cache read or network call.
func (s *Service) ProductAttribute(ctx context.Context, productID int, cycle, attribute string) string {
	const op = "product_attribute"

	bc, ok := query.ParseBillingCycle(cycle)
	if !ok {
		return s.reject(op, "billing_cycle", cycle)
	}
	attr, ok := query.ParseAttribute(attribute)
	if !ok {
		return s.reject(op, "attribute", attribute)
	}

	q := query.ProductQuery{ProductID: productID, Cycle: bc, Attribute: attr}
	if err := q.Validate(); err != nil {
		return s.reject(op, "query", err.Error())
	}

	return s.fetchValue(ctx, op, q)
}

// DomainPrice returns the price of a single TLD transaction. The TLD is
// sanitized before key derivation and request construction; transaction
// type and registration period are allow-listed.
func (s *Service) DomainPrice(ctx context.Context, tld, txType string, regPeriod int) string {
	const op = "domain_price"

	clean := query.SanitizeTLD(tld)
	if clean == "" {
		return s.reject(op, "tld", tld)
	}
	tt, ok := query.ParseTransactionType(txType)
	if !ok {
		return s.reject(op, "type", txType)
	}

	q := query.DomainQuery{TLD: clean, Type: tt, RegPeriod: regPeriod}
	if err := q.Validate(); err != nil {
		return s.reject(op, "query", err.Error())
	}

	return s.fetchValue(ctx, op, q)
}

// AllDomainPrices returns the full TLD pricing table as the upstream system
// renders it. There are no caller-supplied fields to validate.
func (s *Service) AllDomainPrices(ctx context.Context) string {
	return s.fetchValue(ctx, "all_domain_prices", query.AllDomainsQuery{})
}

// ClearCache purges every cache entry and every lock entry under the shared
// key prefix. Idempotent; purging an empty cache succeeds.
func (s *Service) ClearCache(ctx context.Context) error {
	values, err := s.store.DeletePrefix(ctx, query.KeyPrefix)
	if err != nil {
		return err
	}
	locks, err := s.store.DeletePrefix(ctx, query.LockKey(query.KeyPrefix))
	if err != nil {
		return err
	}

	s.logger.Info().
		Int("values", values).
		Int("locks", locks).
		Msg("Cache cleared")
	return nil
}

// fetchValue is the shared spine of every operation: cache get, stampede
// lock, single upstream fetch, normalize, cache set, lock release. It never
// returns an error; failures collapse to the sentinel and are recorded on
// the debug log channel and in metrics.
func (s *Service) fetchValue(ctx context.Context, op string, q query.Query) string {
	startTime := time.Now()
	defer func() {
		pricingRequestDuration.WithLabelValues(op).Observe(time.Since(startTime).Seconds())
	}()

	if s.fetcher == nil {
		pricingRequestsTotal.WithLabelValues(op, outcomeNoConfig).Inc()
		return Sentinel
	}

	key := q.CacheKey()

	value, err := s.store.Get(ctx, key)
	if err == nil {
		pricingRequestsTotal.WithLabelValues(op, outcomeHit).Inc()
		s.logger.Debug().Str("operation", op).Str("key", key).Msg("Cache hit")
		return value
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache degrades to a miss; the fetch below still
		// bounds itself with the stampede lock.
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache get error")
	}

	lockKey := query.LockKey(key)
	acquired, err := s.locks.Acquire(ctx, lockKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Lock acquire error")
		pricingRequestsTotal.WithLabelValues(op, outcomeLocked).Inc()
		return Sentinel
	}
	if !acquired {
		// Another fetch for this key is in flight. Do not wait; the
		// winner populates the cache for subsequent requests.
		s.logger.Debug().Str("operation", op).Str("key", key).Msg("Lock contention")
		pricingRequestsTotal.WithLabelValues(op, outcomeLocked).Inc()
		return Sentinel
	}

	raw, err := s.fetcher.Fetch(ctx, q.FeedPath(), q.FeedParams())
	if err != nil {
		s.release(ctx, lockKey)
		pricingRequestsTotal.WithLabelValues(op, classifyOutcome(err)).Inc()
		s.logger.Warn().Err(err).Str("operation", op).Msg("Feed fetch failed")
		return Sentinel
	}

	value = feed.Normalize(raw)
	if err := s.store.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		// The fetched value is still good; only future requests pay
		// for the failed write.
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache set error")
	}
	s.release(ctx, lockKey)

	pricingRequestsTotal.WithLabelValues(op, outcomeFetched).Inc()
	s.logger.Debug().
		Str("operation", op).
		Str("key", key).
		Dur("ttl", s.cfg.CacheTTL).
		Dur("duration", time.Since(startTime)).
		Msg("Fetched and cached")
	return value
}

// reject records an allow-list rejection and returns the sentinel.
func (s *Service) reject(op, field, value string) string {
	pricingRequestsTotal.WithLabelValues(op, outcomeInvalid).Inc()
	s.logger.Debug().
		Str("operation", op).
		Str("field", field).
		Str("value", value).
		Msg("Input rejected")
	return Sentinel
}

// release drops a lock, tolerating failures: the TTL reclaims stuck locks.
func (s *Service) release(ctx context.Context, lockKey string) {
	if err := s.locks.Release(ctx, lockKey); err != nil {
		s.logger.Warn().Err(err).Str("key", lockKey).Msg("Lock release error")
	}
}

// classifyOutcome maps a fetch error to its outcome label.
func classifyOutcome(err error) string {
	var feedErr *feed.FeedError
	if errors.As(err, &feedErr) && feedErr.Class == feed.ErrorClassUpstream {
		return outcomeUpstream
	}
	return outcomeNetwork
}
