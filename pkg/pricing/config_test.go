package pricing

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		BaseURL:   "https://billing.example.com",
		CacheTTL:  1 * time.Hour,
		UserAgent: "pricefeed/1.0 (ops@example.com)",
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty user agent ok", func(c *Config) { c.UserAgent = "" }, false},
		{"ttl 2h", func(c *Config) { c.CacheTTL = 2 * time.Hour }, false},
		{"ttl 24h", func(c *Config) { c.CacheTTL = 24 * time.Hour }, false},
		{"missing base url", func(c *Config) { c.BaseURL = "" }, true},
		{"http base url", func(c *Config) { c.BaseURL = "http://billing.example.com" }, true},
		{"loopback base url", func(c *Config) { c.BaseURL = "https://127.0.0.1" }, true},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }, true},
		{"arbitrary ttl", func(c *Config) { c.CacheTTL = 90 * time.Minute }, true},
		{"user agent too long", func(c *Config) { c.UserAgent = strings.Repeat("a", 256) }, true},
		{"user agent max length ok", func(c *Config) { c.UserAgent = strings.Repeat("a", 255) }, false},
		{"user agent control char", func(c *Config) { c.UserAgent = "feed\n/1.0" }, true},
		{"user agent non-ascii", func(c *Config) { c.UserAgent = "pricefeed/1.0 ö" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("https://billing.example.com")
	if cfg.CacheTTL != 1*time.Hour {
		t.Errorf("CacheTTL = %s, want 1h", cfg.CacheTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}
