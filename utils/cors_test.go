package utils

import "testing"

func TestIsAllowedOrigin(t *testing.T) {
	allowlist := []string{"https://aniview.example.com", "https://staging.aniview.example.com/"}

	tests := []struct {
		origin  string
		allowed bool
	}{
		// Dev server origins are always trusted
		{"http://localhost", true},
		{"http://localhost:3000", true},
		{"https://localhost:3000", true},
		{"http://127.0.0.1:3000", true},

		// Allowlisted origins
		{"https://aniview.example.com", true},
		{"https://AniView.example.com", true},
		{"https://staging.aniview.example.com", true},

		// Everything else is blocked
		{"https://evil.com", false},
		{"https://aniview.example.com.evil.com", false},
		{"http://192.168.1.1", false},

		// Empty/invalid
		{"", false},
		{"not-a-url", false},
	}

	for _, tt := range tests {
		got := IsAllowedOrigin(tt.origin, allowlist)
		if got != tt.allowed {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}

func TestIsAllowedOriginWildcard(t *testing.T) {
	if !IsAllowedOrigin("https://anywhere.example.org", []string{"*"}) {
		t.Fatal("wildcard allowlist must accept any valid origin")
	}
	if IsAllowedOrigin("not-a-url", []string{"*"}) {
		t.Fatal("wildcard must not rescue unparseable origins")
	}
}
