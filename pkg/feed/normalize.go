package feed

import (
	"strings"
)

// The WHMCS feeds wrap their payload for inclusion via <script> tags:
// document.write('<payload>');
const (
	wrapperPrefix = "document.write('"
	wrapperSuffix = "');"
)

// Normalize strips the JavaScript wrapper from a raw feed body and trims
// surrounding whitespace. Every wrapper occurrence is removed, matching the
// upstream feeds that emit several document.write calls in one body. Input
// without the wrapper passes through trimmed. There is no failure path.
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, wrapperPrefix, "")
	raw = strings.ReplaceAll(raw, wrapperSuffix, "")
	return strings.TrimSpace(raw)
}
