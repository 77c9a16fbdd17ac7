package query

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
)

// KeyPrefix is the namespace shared by all cache entries. Lock entries use
// LockKey's "lock_" prefix on top of it; the administrative purge deletes
// both namespaces.
const KeyPrefix = "whmcs:"

// canonical returns the stable serialization of a query. Field order is
// fixed per variant so the same query always hashes to the same key and two
// distinct queries never collide on a shared serialization.
func canonical(q Query) string {
	switch v := q.(type) {
	case ProductQuery:
		return strings.Join([]string{
			"product", strconv.Itoa(v.ProductID), string(v.Cycle), string(v.Attribute),
		}, "|")
	case DomainQuery:
		return strings.Join([]string{
			"domain", v.TLD, string(v.Type), strconv.Itoa(v.RegPeriod),
		}, "|")
	case AllDomainsQuery:
		return "domains"
	default:
		// Unknown variants hash on their formatted value; adding a variant
		// without extending this switch still yields a distinct key space.
		return fmt.Sprintf("%T|%v", q, q)
	}
}

// Key derives the cache key for a query: the shared prefix plus the SHA-256
// of the canonical serialization.
func Key(q Query) string {
	sum := sha256.Sum256([]byte(canonical(q)))
	return fmt.Sprintf("%s%x", KeyPrefix, sum)
}

// LockKey derives the stampede-lock key for a cache key.
func LockKey(cacheKey string) string {
	return "lock_" + cacheKey
}

func (q ProductQuery) CacheKey() string { return Key(q) }

func (q DomainQuery) CacheKey() string { return Key(q) }

func (q AllDomainsQuery) CacheKey() string { return Key(q) }
