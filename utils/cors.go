package utils

import (
	"net/url"
	"strings"
)

// IsAllowedOrigin reports whether an Origin header value may receive CORS
// headers. Localhost origins are always trusted so the front-end dev server
// works out of the box; anything else must appear in the configured
// allowlist. A single "*" entry opens the API up entirely.
func IsAllowedOrigin(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	host := parsed.Hostname()
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return true
	}

	for _, a := range allowed {
		if a == "*" {
			return true
		}
		if strings.EqualFold(strings.TrimRight(a, "/"), strings.TrimRight(origin, "/")) {
			return true
		}
	}
	return false
}
