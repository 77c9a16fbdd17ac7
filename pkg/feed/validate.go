package feed

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Hostnames that must never receive outbound feed requests regardless of
// scheme. The IP checks below cover the numeric forms.
var deniedHosts = map[string]bool{
	"localhost":                true,
	"metadata.google.internal": true,
}

// ValidateBaseURL enforces the outbound request policy for the configured
// billing system URL: HTTPS only, a real host, and no loopback, private,
// link-local, or cloud-metadata targets. The billing system is trusted but
// external; the URL it is reached at comes from operator configuration and
// must not be abusable to probe the local network.
func ValidateBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("empty")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if u.Scheme != "https" {
		return fmt.Errorf("scheme must be https, got %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("missing host")
	}

	if deniedHosts[host] || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("host %q not allowed", host)
	}

	if ip := net.ParseIP(host); ip != nil {
		switch {
		case ip.IsLoopback():
			return fmt.Errorf("loopback address %q not allowed", host)
		case ip.IsPrivate():
			return fmt.Errorf("private address %q not allowed", host)
		case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
			// Covers 169.254.169.254, the usual cloud metadata endpoint.
			return fmt.Errorf("link-local address %q not allowed", host)
		case ip.IsUnspecified():
			return fmt.Errorf("unspecified address %q not allowed", host)
		}
	}

	return nil
}
