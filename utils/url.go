package utils

import (
	"net/url"
	"strings"
)

// EncodeURLWithSpaces re-encodes a URL whose path or query may contain raw
// spaces. The episode streaming API hands back server URLs built from titles
// verbatim, and those break as request targets until the spaces become %20.
func EncodeURLWithSpaces(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	encoded := parsed.Scheme + "://" + parsed.Host + parsed.EscapedPath()
	if parsed.RawQuery != "" {
		encoded += "?" + strings.ReplaceAll(parsed.RawQuery, " ", "%20")
	}
	return encoded, nil
}
