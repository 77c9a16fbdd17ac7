// pricefeed-proxy exposes the WHMCS pricing service over HTTP for render
// adapters that cannot link the library directly. Data endpoints always
// answer 200; failed lookups carry the "NA" sentinel in the body so a page
// render never breaks on a pricing slot.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/weconnect/whmcs-pricefeed/pkg/cache"
	"github.com/weconnect/whmcs-pricefeed/pkg/feed"
	"github.com/weconnect/whmcs-pricefeed/pkg/lock"
	"github.com/weconnect/whmcs-pricefeed/pkg/logging"
	"github.com/weconnect/whmcs-pricefeed/pkg/pricing"
	"github.com/weconnect/whmcs-pricefeed/pkg/query"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})

	baseURL := os.Getenv("WHMCS_BASE_URL")
	if baseURL == "" {
		logger.Fatal().Msg("WHMCS_BASE_URL is required")
	}
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "whmcs-pricefeed/1.0")

	ttlSeconds, err := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "3600"))
	if err != nil {
		logger.Fatal().Err(err).Msg("CACHE_TTL_SECONDS must be an integer")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Str("addr", redisURL).Msg("Failed to connect to Redis")
	}
	logger.Info().Str("addr", redisURL).Msg("Connected to Redis")

	feedClient, err := feed.New(baseURL, userAgent)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create feed client")
	}

	cfg := pricing.Config{
		BaseURL:   baseURL,
		CacheTTL:  time.Duration(ttlSeconds) * time.Second,
		UserAgent: userAgent,
	}
	service, err := pricing.New(cache.NewRedisStore(redisClient), lock.NewRedisLocker(redisClient), feedClient, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create pricing service")
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/price/product", productHandler(service))
	http.HandleFunc("/price/domain", domainHandler(service))
	http.HandleFunc("/price/domains", allDomainsHandler(service))
	http.HandleFunc("/admin/clear-cache", clearCacheHandler(service))
	http.Handle("/metrics", promhttp.Handler())

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("whmcs", baseURL).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Starting pricefeed proxy")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// productHandler serves /price/product?pid=1,2&bc=1m&show=name,price as
// plain text, one tab-separated row per product id.
func productHandler(service *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var pids []int
		for _, raw := range strings.Split(q.Get("pid"), ",") {
			pid, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				pid = 0 // rejected downstream, renders as the sentinel
			}
			pids = append(pids, pid)
		}

		show := q.Get("show")
		if show == "" {
			show = "name,description,price"
		}
		attributes := strings.Split(show, ",")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		table := service.ProductTable(ctx, pids, q.Get("bc"), attributes, pricing.DefaultBatchConfig())

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, row := range table {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
	}
}

// domainHandler serves /price/domain?tld=com&type=register&reg=1y.
func domainHandler(service *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		regPeriod, ok := query.ParseRegPeriod(q.Get("reg"))
		if !ok {
			regPeriod = 0 // rejected downstream
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		price := service.DomainPrice(ctx, q.Get("tld"), q.Get("type"), regPeriod)

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, price)
	}
}

// allDomainsHandler serves the upstream's pre-built TLD pricing fragment.
func allDomainsHandler(service *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, service.AllDomainPrices(ctx))
	}
}

// clearCacheHandler purges every cache and lock entry. Idempotent.
func clearCacheHandler(service *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := service.ClearCache(r.Context()); err != nil {
			http.Error(w, fmt.Sprintf("cache clear failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
