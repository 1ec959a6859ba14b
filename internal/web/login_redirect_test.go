package web

import "testing"

func TestSanitizeRedirectTarget(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "safe path", in: "/admin", want: "/admin"},
		{name: "safe path with query", in: "/admin/posts?status=draft", want: "/admin/posts?status=draft"},
		{name: "safe path with fragment", in: "/admin#sec", want: "/admin#sec"},
		{name: "external absolute url", in: "https://evil.example/phish", want: ""},
		{name: "scheme-relative url", in: "//evil.example/phish", want: ""},
		{name: "javascript scheme", in: "javascript:alert(1)", want: ""},
		{name: "relative path without slash", in: "admin", want: ""},
		{name: "login path blocked", in: "/login", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeRedirectTarget(tc.in); got != tc.want {
				t.Fatalf("sanitizeRedirectTarget(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
