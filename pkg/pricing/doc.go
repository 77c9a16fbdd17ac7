// Package pricing implements the WHMCS price fetch-and-cache service.
//
// The service turns a typed query (product attribute, domain price, or the
// full domain price list) into a cached string value fetched from the
// billing system's feed endpoints. Every operation follows the same spine:
//
//	validate input → cache get → acquire stampede lock → fetch → normalize
//	→ cache set → release lock
//
// # Failure contract
//
// Operations never return an error. Missing configuration, rejected input,
// lock contention, transport failures, and non-200 upstream responses all
// collapse to the Sentinel string "NA". A pricing slot on a page must
// degrade to "NA", never break the render. Diagnostic detail goes to the
// structured debug log and to the whmcs_pricing_requests_total outcome
// label.
//
// Callers are responsible for HTML-escaping returned values before display;
// the service hands back feed payloads unchanged.
//
// # Stampede lock
//
// On a cache miss exactly one caller per key wins the 10 second lock and
// performs the upstream fetch. Concurrent callers for the same key receive
// the sentinel immediately; there is no wait, retry, or hand-off of the
// winner's result. Within the lock window repeated contended callers keep
// seeing "NA" until the winner has populated the cache. This is a known
// limitation, kept because page renders must not stall on a remote system.
package pricing
