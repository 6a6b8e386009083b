package scan

import "strings"

// defaultScheme is prepended to URLs that carry no recognized scheme.
const defaultScheme = "https://"

// NormalizeURL trims raw and prepends "https://" unless it already starts
// with "http://" or "https://" (case-insensitive). Host validity is not
// checked; bad hosts fail during navigation.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if hasHTTPScheme(trimmed) {
		return trimmed
	}
	return defaultScheme + trimmed
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
