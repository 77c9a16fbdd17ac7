// Package query defines the typed query variants the pricing service
// accepts, the allow-lists that guard every caller-supplied field, and the
// deterministic cache/lock key derivation shared by all of them.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BillingCycle is a WHMCS product billing cycle.
type BillingCycle string

const (
	CycleMonthly      BillingCycle = "monthly"
	CycleQuarterly    BillingCycle = "quarterly"
	CycleSemiannually BillingCycle = "semiannually"
	CycleAnnually     BillingCycle = "annually"
	CycleBiennially   BillingCycle = "biennially"
	CycleTriennially  BillingCycle = "triennially"
)

// Attribute is a product feed attribute.
type Attribute string

const (
	AttrName        Attribute = "name"
	AttrDescription Attribute = "description"
	AttrPrice       Attribute = "price"
)

// TransactionType is a domain pricing transaction type.
type TransactionType string

const (
	TypeRegister TransactionType = "register"
	TypeRenew    TransactionType = "renew"
	TypeTransfer TransactionType = "transfer"
)

// cycleAliases maps the shortcode-style cycle codes to WHMCS cycle names.
var cycleAliases = map[string]BillingCycle{
	"1m": CycleMonthly,
	"3m": CycleQuarterly,
	"6m": CycleSemiannually,
	"1y": CycleAnnually,
	"2y": CycleBiennially,
	"3y": CycleTriennially,
}

var validCycles = map[BillingCycle]bool{
	CycleMonthly:      true,
	CycleQuarterly:    true,
	CycleSemiannually: true,
	CycleAnnually:     true,
	CycleBiennially:   true,
	CycleTriennially:  true,
}

var validAttributes = map[Attribute]bool{
	AttrName:        true,
	AttrDescription: true,
	AttrPrice:       true,
}

var validTypes = map[TransactionType]bool{
	TypeRegister: true,
	TypeRenew:    true,
	TypeTransfer: true,
}

// ParseBillingCycle resolves a WHMCS cycle name or a shortcode-style alias
// (1m, 3m, 6m, 1y, 2y, 3y). Returns false for anything outside the allow-list.
func ParseBillingCycle(s string) (BillingCycle, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := cycleAliases[s]; ok {
		return c, true
	}
	c := BillingCycle(s)
	return c, validCycles[c]
}

// ParseAttribute resolves a product attribute name against the allow-list.
func ParseAttribute(s string) (Attribute, bool) {
	a := Attribute(strings.ToLower(strings.TrimSpace(s)))
	return a, validAttributes[a]
}

// ParseTransactionType resolves a domain transaction type against the allow-list.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	return t, validTypes[t]
}

// ParseRegPeriod resolves a registration period given either as plain years
// ("1".."10") or with the shortcode year suffix ("1y".."10y").
func ParseRegPeriod(s string) (int, bool) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "y")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 10 {
		return 0, false
	}
	return n, true
}

// SanitizeTLD strips one leading dot, removes every rune outside
// [A-Za-z0-9-], and truncates the result to 24 characters. An empty result
// means the input was unusable.
func SanitizeTLD(tld string) string {
	tld = strings.TrimPrefix(tld, ".")
	var b strings.Builder
	for _, r := range tld {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= 24 {
			break
		}
	}
	return b.String()
}

// Query is a validated request for a single feed value. Each variant knows
// its own cache key and the upstream request it maps to.
type Query interface {
	// Validate reports whether every field passes its allow-list or range
	// check. Invalid queries must never reach the feed client or the cache.
	Validate() error

	// CacheKey returns the deterministic cache key for this query.
	CacheKey() string

	// FeedPath returns the feed endpoint path relative to the base URL.
	FeedPath() string

	// FeedParams returns the query parameters for the upstream request,
	// built only from allow-listed values.
	FeedParams() url.Values
}

// ProductQuery requests one attribute of one product for one billing cycle.
type ProductQuery struct {
	ProductID int
	Cycle     BillingCycle
	Attribute Attribute
}

func (q ProductQuery) Validate() error {
	if q.ProductID <= 0 {
		return fmt.Errorf("product id must be positive, got %d", q.ProductID)
	}
	if !validCycles[q.Cycle] {
		return fmt.Errorf("billing cycle %q not allowed", q.Cycle)
	}
	if !validAttributes[q.Attribute] {
		return fmt.Errorf("attribute %q not allowed", q.Attribute)
	}
	return nil
}

func (q ProductQuery) FeedPath() string { return "/feeds/productsinfo.php" }

func (q ProductQuery) FeedParams() url.Values {
	return url.Values{
		"pid":          []string{strconv.Itoa(q.ProductID)},
		"get":          []string{string(q.Attribute)},
		"billingcycle": []string{string(q.Cycle)},
	}
}

// DomainQuery requests the price of one TLD transaction. TLD is expected to
// be pre-sanitized via SanitizeTLD.
type DomainQuery struct {
	TLD       string
	Type      TransactionType
	RegPeriod int
}

func (q DomainQuery) Validate() error {
	if q.TLD == "" || q.TLD != SanitizeTLD(q.TLD) {
		return fmt.Errorf("tld %q invalid", q.TLD)
	}
	if !validTypes[q.Type] {
		return fmt.Errorf("transaction type %q not allowed", q.Type)
	}
	if q.RegPeriod < 1 || q.RegPeriod > 10 {
		return fmt.Errorf("reg period %d out of range [1,10]", q.RegPeriod)
	}
	return nil
}

func (q DomainQuery) FeedPath() string { return "/feeds/domainprice.php" }

func (q DomainQuery) FeedParams() url.Values {
	return url.Values{
		"tld":       []string{"." + q.TLD},
		"type":      []string{string(q.Type)},
		"regperiod": []string{strconv.Itoa(q.RegPeriod)},
		"format":    []string{"1"},
	}
}

// AllDomainsQuery requests the full TLD pricing table. It carries no
// caller-supplied fields and is always valid.
type AllDomainsQuery struct{}

func (AllDomainsQuery) Validate() error { return nil }

func (AllDomainsQuery) FeedPath() string { return "/feeds/domainpricing.php" }

func (AllDomainsQuery) FeedParams() url.Values { return url.Values{} }
