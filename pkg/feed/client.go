// Package feed provides the HTTP client for the WHMCS pricing feed
// endpoints, the response normalizer, and the outbound base-URL policy.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/weconnect/whmcs-pricefeed/pkg/logging"
)

// DefaultTimeout bounds a single feed request. A page render upstream of
// the service must not stall longer than this on a slow billing system.
const DefaultTimeout = 15 * time.Second

// Prometheus metrics for feed fetches.
var (
	feedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whmcs_feed_requests_total",
		Help: "Total feed requests by endpoint and status",
	}, []string{"endpoint", "status"})

	feedRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "whmcs_feed_request_duration_seconds",
		Help:    "Feed request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15},
	}, []string{"endpoint"})

	feedErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "whmcs_feed_errors_total",
		Help: "Total feed errors by class",
	}, []string{"class"})
)

// Client issues single GET requests against a WHMCS installation's feed
// endpoints. It performs no caching and no retries; orchestration lives in
// the pricing service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     zerolog.Logger
}

// New creates a feed client for the given base URL. The URL must pass
// ValidateBaseURL; the user agent is optional.
func New(baseURL, userAgent string) (*Client, error) {
	if err := ValidateBaseURL(baseURL); err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
		logger:    logging.NewLogger("feed-client"),
	}, nil
}

// Fetch performs one GET against baseURL+path with the given query
// parameters and returns the raw response body. Non-200 statuses and
// transport failures return a *FeedError.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values) (string, error) {
	startTime := time.Now()
	defer func() {
		feedRequestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("endpoint", path).
		Msg("Fetching feed")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", path).Msg("Feed request failed")
		feedErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		feedRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return "", &FeedError{Class: ErrorClassNetwork, Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	feedRequestsTotal.WithLabelValues(path, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().
			Str("endpoint", path).
			Int("status", resp.StatusCode).
			Msg("Feed returned non-200 status")
		feedErrorsTotal.WithLabelValues(string(ErrorClassUpstream)).Inc()
		return "", &FeedError{StatusCode: resp.StatusCode, Class: ErrorClassUpstream, Endpoint: path}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		feedErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return "", &FeedError{Class: ErrorClassNetwork, Endpoint: path, Err: err}
	}

	c.logger.Debug().
		Str("endpoint", path).
		Int("bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("Feed fetch complete")

	return string(body), nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// SetBaseURL overrides the base URL without re-validating it (for testing
// against local mock servers).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}
