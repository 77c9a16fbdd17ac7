package pricing

import (
	"fmt"
	"time"

	"github.com/weconnect/whmcs-pricefeed/pkg/feed"
)

// allowedTTLs is the closed set of cache lifetimes an operator may pick.
var allowedTTLs = map[time.Duration]bool{
	1 * time.Hour:  true,
	2 * time.Hour:  true,
	3 * time.Hour:  true,
	6 * time.Hour:  true,
	12 * time.Hour: true,
	24 * time.Hour: true,
}

// Config holds the pricing service configuration. It is produced by the
// host platform's settings surface and read-only to the service.
type Config struct {
	// BaseURL is the WHMCS installation root, https only, no trailing
	// slash. Feed paths are appended to it.
	BaseURL string

	// CacheTTL is the lifetime of fetched values. Must be one of
	// 1h, 2h, 3h, 6h, 12h or 24h.
	CacheTTL time.Duration

	// UserAgent optionally identifies this integration to the billing
	// system. At most 255 printable-ASCII characters.
	UserAgent string
}

// DefaultConfig returns a configuration with the 1 hour TTL the upstream
// plugin shipped with.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:  baseURL,
		CacheTTL: 1 * time.Hour,
	}
}

// Validate checks the configuration. Called by New; a service never runs
// with an invalid config.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is required")
	}
	if err := feed.ValidateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("base url: %w", err)
	}

	if !allowedTTLs[c.CacheTTL] {
		return fmt.Errorf("cache ttl %s not allowed (want one of 1h, 2h, 3h, 6h, 12h, 24h)", c.CacheTTL)
	}

	if len(c.UserAgent) > 255 {
		return fmt.Errorf("user agent exceeds 255 characters")
	}
	for i := 0; i < len(c.UserAgent); i++ {
		if c.UserAgent[i] < 0x20 || c.UserAgent[i] > 0x7e {
			return fmt.Errorf("user agent contains non-printable or non-ASCII byte at %d", i)
		}
	}

	return nil
}
